package favorites

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepository keeps favorites in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string][]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUser: make(map[string][]string)}
}

func (r *MemoryRepository) List(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append(make([]string, 0, len(r.byUser[userID])), r.byUser[userID]...), nil
}

func (r *MemoryRepository) Add(_ context.Context, userID, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.byUser[userID], code) {
		return false, nil
	}
	r.byUser[userID] = append(r.byUser[userID], code)
	return true, nil
}

func (r *MemoryRepository) Remove(_ context.Context, userID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes := r.byUser[userID]
	if i := slices.Index(codes, code); i >= 0 {
		r.byUser[userID] = slices.Delete(codes, i, i+1)
	}
	return nil
}
