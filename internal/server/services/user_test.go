package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
	"github.com/dmitrijs2005/countryexplorer/internal/cryptox"
	"github.com/dmitrijs2005/countryexplorer/internal/logging"
	"github.com/dmitrijs2005/countryexplorer/internal/server/auth"
	"github.com/dmitrijs2005/countryexplorer/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_LoginVerify_SameAccount(t *testing.T) {
	s, _ := newMemoryUserService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, "  alice ", "Alice@Example.com ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "alice", reg.User.UserName)
	assert.Equal(t, "alice@example.com", reg.User.Email)
	assert.Equal(t, []string{}, reg.User.Favorites)
	assert.False(t, reg.User.CreatedAt.IsZero())

	login, err := s.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	u, err := s.VerifyToken(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, u.ID)
}

func TestRegister_Validation(t *testing.T) {
	s, _ := newMemoryUserService(t)

	tests := []struct {
		name, username, email, password, msg string
	}{
		{"short username", "al", "al@example.com", "secret1", "username must be between 3 and 32 characters"},
		{"blank username", "   ", "al@example.com", "secret1", "username must be between 3 and 32 characters"},
		{"long username", strings.Repeat("a", 33), "al@example.com", "secret1", "username must be between 3 and 32 characters"},
		{"bad email", "alice", "alice.example.com", "secret1", "please enter a valid email"},
		{"long email", "alice", strings.Repeat("a", 243) + "@example.com", "secret1", "please enter a valid email"},
		{"short password", "alice", "alice@example.com", "12345", "password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, common.ErrorValidation)
			assert.Equal(t, tt.msg, common.PublicMessage(err, common.ErrorInternal))
		})
	}
}

func TestRegister_EmailAtColumnLimit(t *testing.T) {
	s, _ := newMemoryUserService(t)

	email := strings.Repeat("a", 242) + "@example.com"
	require.Len(t, email, maxEmailLen)

	res, err := s.Register(context.Background(), "alice", email, "secret1")
	require.NoError(t, err)
	assert.Equal(t, email, res.User.Email)
}

func TestRegister_Duplicate(t *testing.T) {
	s, _ := newMemoryUserService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice2", "ALICE@example.com", "secret2")
	assert.ErrorIs(t, err, common.ErrorDuplicateAccount)

	_, err = s.Register(ctx, "alice", "other@example.com", "secret2")
	assert.ErrorIs(t, err, common.ErrorDuplicateAccount)
	assert.Equal(t, "User already exists", common.PublicMessage(err, common.ErrorInternal))
}

func TestRegister_StoresHashNotPassword(t *testing.T) {
	s, rm := newMemoryUserService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	u, err := rm.Users(nil).GetByID(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Len(t, u.PasswordSalt, cryptox.SaltSize)
	assert.NotContains(t, string(u.PasswordHash), "secret1")
	assert.True(t, cryptox.VerifyPassword("secret1", u.PasswordSalt, u.PasswordHash))
}

func TestRegister_RepoError(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{createErr: errBoom}}
	s := NewUserService(rm, testConfig(), logging.Nop{})

	_, err := s.Register(context.Background(), "alice", "alice@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.ErrorIs(t, err, errBoom)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	s, _ := newMemoryUserService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, wrongPass := s.Login(ctx, "alice@example.com", "wrong-pass")
	_, unknown := s.Login(ctx, "bob@example.com", "secret1")

	assert.ErrorIs(t, wrongPass, common.ErrorInvalidCredentials)
	assert.ErrorIs(t, unknown, common.ErrorInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestLogin_Validation(t *testing.T) {
	s, _ := newMemoryUserService(t)

	_, err := s.Login(context.Background(), " ", "x")
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Login(context.Background(), "a@b.c", "")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestLogin_ReturnsFavorites(t *testing.T) {
	s, rm := newMemoryUserService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	_, err = rm.Favorites(nil).Add(ctx, reg.User.ID, "JPN")
	require.NoError(t, err)

	login, err := s.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, []string{"JPN"}, login.User.Favorites)
}

func TestLogin_RepoError(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{getErr: errBoom}}
	s := NewUserService(rm, testConfig(), logging.Nop{})

	_, err := s.Login(context.Background(), "alice@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.NotErrorIs(t, err, common.ErrorInvalidCredentials)
}

func TestVerifyToken_Failures(t *testing.T) {
	s, _ := newMemoryUserService(t)
	ctx := context.Background()

	expired, err := auth.GenerateToken("u-1", []byte("k"), -time.Minute)
	require.NoError(t, err)
	orphan, err := auth.GenerateToken("no-such-user", []byte("k"), time.Hour)
	require.NoError(t, err)
	foreign, err := auth.GenerateToken("u-1", []byte("other-key"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name, token, msg string
	}{
		{"empty", "", "No token, authorization denied"},
		{"garbage", "abc", "Token is not valid"},
		{"expired", expired, "Token has expired"},
		{"orphan", orphan, "Token is not valid"},
		{"foreign key", foreign, "Token is not valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.VerifyToken(ctx, tt.token)
			assert.ErrorIs(t, err, common.ErrorUnauthenticated)
			assert.Equal(t, tt.msg, common.PublicMessage(err, common.ErrorInternal))
		})
	}
}

func TestVerifyToken_RepoError(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{getErr: errBoom}}
	s := NewUserService(rm, testConfig(), logging.Nop{})

	tok, err := auth.GenerateToken("u-1", []byte("k"), time.Hour)
	require.NoError(t, err)

	_, err = s.VerifyToken(context.Background(), tok)
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestProfile(t *testing.T) {
	s, rm := newMemoryUserService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, "alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	_, _ = rm.Favorites(nil).Add(ctx, reg.User.ID, "FRA")
	_, _ = rm.Favorites(nil).Add(ctx, reg.User.ID, "JPN")

	u, err := s.Profile(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"FRA", "JPN"}, u.Favorites)
	assert.Equal(t, reg.User.CreatedAt, u.CreatedAt)

	_, err = s.Profile(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestProfile_FavoritesError(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{getOut: &models.User{ID: "u-1"}},
		f: &fakeFavoritesRepo{listErr: errBoom},
	}
	s := NewUserService(rm, testConfig(), logging.Nop{})

	_, err := s.Profile(context.Background(), "u-1")
	assert.ErrorIs(t, err, common.ErrorInternal)
}
