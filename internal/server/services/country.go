package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
	"github.com/dmitrijs2005/countryexplorer/internal/logging"
	"github.com/dmitrijs2005/countryexplorer/internal/server/config"
	"github.com/dmitrijs2005/countryexplorer/internal/server/countries"
)

// CountrySource fetches raw JSON from the country data source.
type CountrySource interface {
	Get(ctx context.Context, query url.Values, segments ...string) ([]byte, error)
}

// defaultCodesBatch bounds the number of codes sent in one alpha?codes=
// lookup when the config leaves it unset.
const defaultCodesBatch = 50

// CountryService answers country queries by calling the data source and
// normalizing every record the same way. Nothing is cached.
type CountryService struct {
	source CountrySource
	batch  int
	log    logging.Logger
}

// NewCountryService constructs a CountryService.
func NewCountryService(source CountrySource, cfg *config.Config, log logging.Logger) *CountryService {
	batch := cfg.UpstreamCodesBatch
	if batch <= 0 {
		batch = defaultCodesBatch
	}
	return &CountryService{
		source: source,
		batch:  batch,
		log:    log.With("module", "countries"),
	}
}

// ListAll returns every country in upstream order.
//
// The /all endpoint only serves a handful of fields per record, so it is
// read as an index of codes and the full records are fetched through
// alpha?codes=. A listed country is then identical to the one GetByCode
// returns.
func (s *CountryService) ListAll(ctx context.Context) ([]countries.Country, error) {
	body, err := s.source.Get(ctx, url.Values{"fields": {"cca3"}}, "all")
	if err != nil {
		return nil, s.translate(err, "")
	}

	index, err := countries.NormalizeList(body)
	if err != nil {
		return nil, s.translate(err, "")
	}

	codes := make([]string, 0, len(index))
	for _, c := range index {
		if c.Code != "" {
			codes = append(codes, c.Code)
		}
	}

	byCode, err := s.resolve(ctx, codes)
	if err != nil {
		return nil, s.translate(err, "")
	}

	out := make([]countries.Country, 0, len(codes))
	for _, code := range codes {
		c, ok := byCode[code]
		if !ok {
			s.log.Warn(ctx, "listed country missing from code lookup", "code", code)
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// GetByCode returns the country with the given cca2/cca3/ccn3 code.
func (s *CountryService) GetByCode(ctx context.Context, code string) (countries.Country, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return countries.Country{}, common.NewError(common.ErrorValidation, "country code is required")
	}

	const notFound = "Country not found with that code"

	body, err := s.source.Get(ctx, nil, "alpha", code)
	if err != nil {
		return countries.Country{}, s.translate(err, notFound)
	}

	c, err := countries.NormalizeOne(body)
	if err != nil {
		return countries.Country{}, s.translate(err, notFound)
	}
	return c, nil
}

// SearchByName returns countries whose name matches term. No match is
// ErrorNotFound, never an empty list.
func (s *CountryService) SearchByName(ctx context.Context, term string) ([]countries.Country, error) {
	return s.listNonEmpty(ctx, "name", term, "search term is required", "No countries found with that name")
}

// ListByRegion returns the countries of a region such as "europe".
func (s *CountryService) ListByRegion(ctx context.Context, region string) ([]countries.Country, error) {
	return s.listNonEmpty(ctx, "region", region, "region is required", "No countries found in that region")
}

// ListBySubregion returns the countries of a subregion such as
// "Western Europe".
func (s *CountryService) ListBySubregion(ctx context.Context, subregion string) ([]countries.Country, error) {
	return s.listNonEmpty(ctx, "subregion", subregion, "subregion is required", "No countries found in that subregion")
}

// ListByCodes resolves codes to countries in the order given. Unknown codes
// are skipped. An empty input makes no upstream call.
func (s *CountryService) ListByCodes(ctx context.Context, codes []string) ([]countries.Country, error) {
	if len(codes) == 0 {
		return []countries.Country{}, nil
	}

	byCode, err := s.resolve(ctx, codes)
	if err != nil {
		return nil, s.translate(err, "")
	}

	out := make([]countries.Country, 0, len(codes))
	for _, code := range codes {
		if c, ok := byCode[strings.ToUpper(code)]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// resolve fetches full records for codes in batches of s.batch and indexes
// them by cca3. A batch the source knows nothing about is skipped.
func (s *CountryService) resolve(ctx context.Context, codes []string) (map[string]countries.Country, error) {
	byCode := make(map[string]countries.Country, len(codes))

	for start := 0; start < len(codes); start += s.batch {
		end := min(start+s.batch, len(codes))

		body, err := s.source.Get(ctx, url.Values{"codes": {strings.Join(codes[start:end], ",")}}, "alpha")
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		list, err := countries.NormalizeList(body)
		if err != nil {
			return nil, err
		}
		for _, c := range list {
			byCode[c.Code] = c
		}
	}
	return byCode, nil
}

func (s *CountryService) listNonEmpty(ctx context.Context, endpoint, arg, required, notFound string) ([]countries.Country, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, common.NewError(common.ErrorValidation, required)
	}

	body, err := s.source.Get(ctx, nil, endpoint, arg)
	if err != nil {
		return nil, s.translate(err, notFound)
	}

	list, err := countries.NormalizeList(body)
	if err != nil {
		return nil, s.translate(err, notFound)
	}
	if len(list) == 0 {
		return nil, common.NewError(common.ErrorNotFound, notFound)
	}
	return list, nil
}

func (s *CountryService) translate(err error, notFound string) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		if notFound == "" {
			notFound = "Country not found"
		}
		return publicErr(common.ErrorNotFound, notFound, nil)
	case errors.Is(err, common.ErrorUpstreamUnavailable):
		return publicErr(common.ErrorUpstreamUnavailable, "Country data source is unavailable", err)
	default:
		return internalErr("countries", err)
	}
}
