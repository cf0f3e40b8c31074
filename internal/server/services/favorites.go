package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
	"github.com/dmitrijs2005/countryexplorer/internal/dbx"
	"github.com/dmitrijs2005/countryexplorer/internal/logging"
	"github.com/dmitrijs2005/countryexplorer/internal/server/countries"
	"github.com/dmitrijs2005/countryexplorer/internal/server/repositories/repomanager"
)

// CountryResolver turns country codes into full records.
type CountryResolver interface {
	ListByCodes(ctx context.Context, codes []string) ([]countries.Country, error)
}

// FavoritesService manages the favorite country codes of an account. The
// account id always comes from a verified token.
type FavoritesService struct {
	repomanager repomanager.RepositoryManager
	countries   CountryResolver
	log         logging.Logger
}

func NewFavoritesService(m repomanager.RepositoryManager, resolver CountryResolver, log logging.Logger) *FavoritesService {
	return &FavoritesService{
		repomanager: m,
		countries:   resolver,
		log:         log.With("module", "favorites"),
	}
}

// List returns the favorites in the order they were added.
func (s *FavoritesService) List(ctx context.Context, userID string) ([]string, error) {
	conn := s.repomanager.Conn()
	if err := s.ensureUser(ctx, conn, userID); err != nil {
		return nil, err
	}

	codes, err := s.repomanager.Favorites(conn).List(ctx, userID)
	if err != nil {
		return nil, internalErr("list favorites", err)
	}
	return codes, nil
}

// Add appends code and returns the updated list. The code is not checked
// against the country data source.
func (s *FavoritesService) Add(ctx context.Context, userID, code string) ([]string, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}

	var codes []string
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.ensureUser(ctx, tx, userID); err != nil {
			return err
		}

		repo := s.repomanager.Favorites(tx)
		added, err := repo.Add(ctx, userID, code)
		if err != nil {
			return internalErr("add favorite", err)
		}
		if !added {
			return common.NewError(common.ErrorAlreadyFavorited, "Country already in favorites")
		}

		codes, err = repo.List(ctx, userID)
		if err != nil {
			return internalErr("list favorites", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug(ctx, "favorite added", "user_id", userID, "code", code)
	return codes, nil
}

// Remove deletes code and returns the updated list. Removing a code that is
// not a favorite succeeds.
func (s *FavoritesService) Remove(ctx context.Context, userID, code string) ([]string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var codes []string
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.ensureUser(ctx, tx, userID); err != nil {
			return err
		}

		repo := s.repomanager.Favorites(tx)
		if err := repo.Remove(ctx, userID, code); err != nil {
			return internalErr("remove favorite", err)
		}

		var err error
		codes, err = repo.List(ctx, userID)
		if err != nil {
			return internalErr("list favorites", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return codes, nil
}

// Countries returns the favorites as full country records.
func (s *FavoritesService) Countries(ctx context.Context, userID string) ([]countries.Country, error) {
	codes, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.countries.ListByCodes(ctx, codes)
}

func (s *FavoritesService) ensureUser(ctx context.Context, db dbx.DBTX, userID string) error {
	if _, err := s.repomanager.Users(db).GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewError(common.ErrorNotFound, "User not found")
		}
		return internalErr("find user", err)
	}
	return nil
}

// normalizeCode trims and upper-cases code and requires three ASCII letters.
func normalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", common.NewError(common.ErrorValidation, "country code must be 3 letters")
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return "", common.NewError(common.ErrorValidation, "country code must be 3 letters")
		}
	}
	return code, nil
}
