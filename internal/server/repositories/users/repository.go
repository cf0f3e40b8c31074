// Package users stores accounts. A Postgres implementation backs production
// and a mutex-guarded in-memory implementation backs tests and DSN-less runs.
package users

import (
	"context"

	"github.com/dmitrijs2005/countryexplorer/internal/server/models"
)

// Repository persists accounts. Lookups of absent rows return
// common.ErrorNotFound; a taken username or email on Create returns
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
