package repomanager

import (
	"context"

	"github.com/dmitrijs2005/countryexplorer/internal/dbx"
	"github.com/dmitrijs2005/countryexplorer/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/countryexplorer/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or a
// transaction, and owns the schema.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Conn is the non-transactional handle to pass to Users and Favorites.
	Conn() dbx.DBTX
	// WithTx runs fn as one unit of work; repositories built from the tx
	// argument take part in it.
	WithTx(ctx context.Context, fn dbx.TxFunc) error
	Users(db dbx.DBTX) users.Repository
	Favorites(db dbx.DBTX) favorites.Repository
	Close() error
}
