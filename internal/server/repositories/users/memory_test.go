package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
	"github.com/dmitrijs2005/countryexplorer/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	u, err := r.Create(ctx, newAlice())
	require.NoError(t, err)
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := r.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, u.CreatedAt, byEmail.CreatedAt)

	byID, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.UserName)
}

func TestMemoryRepository_Duplicates(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.Create(ctx, newAlice())
	require.NoError(t, err)

	sameEmail := newAlice()
	sameEmail.ID = "other-id"
	sameEmail.UserName = "alice2"
	_, err = r.Create(ctx, sameEmail)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	sameName := newAlice()
	sameName.ID = "third-id"
	sameName.Email = "other@example.com"
	_, err = r.Create(ctx, sameName)
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestMemoryRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = r.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.Create(ctx, &models.User{ID: "u-1", UserName: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	got, err := r.GetByID(ctx, "u-1")
	require.NoError(t, err)
	got.UserName = "mallory"

	again, err := r.GetByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "bob", again.UserName)
}
