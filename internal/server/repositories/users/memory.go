package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
	"github.com/dmitrijs2005/countryexplorer/internal/server/models"
)

// MemoryRepository keeps accounts in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
	byName  map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.byName[user.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}

	user.CreatedAt = time.Now().UTC()

	stored := *user
	stored.Favorites = nil
	r.byID[user.ID] = &stored
	r.byEmail[user.Email] = user.ID
	r.byName[user.UserName] = user.ID

	return user, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}
