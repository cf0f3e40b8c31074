// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and token verification.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
	"github.com/dmitrijs2005/countryexplorer/internal/cryptox"
	"github.com/dmitrijs2005/countryexplorer/internal/logging"
	"github.com/dmitrijs2005/countryexplorer/internal/server/auth"
	"github.com/dmitrijs2005/countryexplorer/internal/server/config"
	"github.com/dmitrijs2005/countryexplorer/internal/server/models"
	"github.com/dmitrijs2005/countryexplorer/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	minUserNameLen = 3
	maxUserNameLen = 32
	minPasswordLen = 6
	// matches users.email VARCHAR(254)
	maxEmailLen = 254
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint a token
// - VerifyToken: resolve a token to its account
type UserService struct {
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	log                         logging.Logger

	// dummySalt/dummyHash are hashed against on unknown emails so both
	// login failures cost the same.
	dummySalt []byte
	dummyHash []byte
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	salt := cryptox.NewSalt()
	return &UserService{
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		log:                         log.With("module", "users"),
		dummySalt:                   salt,
		dummyHash:                   cryptox.HashPassword("not-a-password", salt),
	}
}

// Register validates the input, stores a new account and returns a token for
// it. A taken username or email yields common.ErrorDuplicateAccount.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	salt := cryptox.NewSalt()
	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     username,
		Email:        email,
		PasswordSalt: salt,
		PasswordHash: cryptox.HashPassword(password, salt),
	}

	repo := s.repomanager.Users(s.repomanager.Conn())
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, publicErr(common.ErrorDuplicateAccount, "User already exists", nil)
		}
		return nil, internalErr("create user", err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID)

	return s.authResult(u)
}

// Login checks email and password. Unknown email and wrong password give the
// same common.ErrorInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.NewError(common.ErrorValidation, "email and password are required")
	}

	repo := s.repomanager.Users(s.repomanager.Conn())
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.VerifyPassword(password, s.dummySalt, s.dummyHash)
			return nil, common.NewError(common.ErrorInvalidCredentials, "Invalid credentials")
		}
		return nil, internalErr("find user", err)
	}

	if !cryptox.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, common.NewError(common.ErrorInvalidCredentials, "Invalid credentials")
	}

	favs, err := s.repomanager.Favorites(s.repomanager.Conn()).List(ctx, user.ID)
	if err != nil {
		return nil, internalErr("list favorites", err)
	}
	user.Favorites = favs

	return s.authResult(user)
}

// VerifyToken resolves a bearer token to its account. Invalid, expired and
// orphaned tokens all yield common.ErrorUnauthenticated.
func (s *UserService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.NewError(common.ErrorUnauthenticated, "No token, authorization denied")
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, publicErr(common.ErrorUnauthenticated, "Token has expired", err)
		}
		return nil, publicErr(common.ErrorUnauthenticated, "Token is not valid", err)
	}

	user, err := s.repomanager.Users(s.repomanager.Conn()).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, publicErr(common.ErrorUnauthenticated, "Token is not valid", err)
		}
		return nil, internalErr("find user", err)
	}

	return user, nil
}

// Profile returns the account with its favorites filled in.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.repomanager.Conn()).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NewError(common.ErrorNotFound, "User not found")
		}
		return nil, internalErr("find user", err)
	}

	favs, err := s.repomanager.Favorites(s.repomanager.Conn()).List(ctx, userID)
	if err != nil {
		return nil, internalErr("list favorites", err)
	}
	user.Favorites = favs

	return user, nil
}

// --- helpers below ---

func (s *UserService) authResult(u *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(u.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, internalErr("sign token", err)
	}
	return &AuthResult{Token: token, User: u.Public()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(username, email, password string) error {
	if n := utf8.RuneCountInString(username); n < minUserNameLen || n > maxUserNameLen {
		return common.NewError(common.ErrorValidation, "username must be between 3 and 32 characters")
	}
	if utf8.RuneCountInString(email) > maxEmailLen || !emailRe.MatchString(email) {
		return common.NewError(common.ErrorValidation, "please enter a valid email")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return common.NewError(common.ErrorValidation, "password must be at least 6 characters")
	}
	return nil
}
