package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/countryexplorer/internal/dbx"
	"github.com/dmitrijs2005/countryexplorer/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/countryexplorer/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps all data in process memory. Every DBTX
// argument is ignored and the same repositories are returned.
type MemoryRepositoryManager struct {
	// txMu serializes units of work so each WithTx call observes its own writes.
	txMu      sync.Mutex
	users     *users.MemoryRepository
	favorites *favorites.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:     users.NewMemoryRepository(),
		favorites: favorites.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Conn() dbx.DBTX { return nil }

// WithTx serializes fn against other units of work. Writes are not rolled
// back when fn fails.
func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn dbx.TxFunc) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, nil)
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *MemoryRepositoryManager) Favorites(dbx.DBTX) favorites.Repository { return m.favorites }

func (m *MemoryRepositoryManager) Close() error { return nil }
