package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/countryexplorer/internal/common"
	"github.com/dmitrijs2005/countryexplorer/internal/dbx"
	"github.com/dmitrijs2005/countryexplorer/internal/logging"
	"github.com/dmitrijs2005/countryexplorer/internal/server/config"
	"github.com/dmitrijs2005/countryexplorer/internal/server/models"
	"github.com/dmitrijs2005/countryexplorer/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/countryexplorer/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/countryexplorer/internal/server/repositories/users"
	"github.com/tidwall/gjson"
)

var errBoom = errors.New("boom")

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
	}
}

func newMemoryUserService(t *testing.T) (*UserService, *repomanager.MemoryRepositoryManager) {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	return NewUserService(rm, testConfig(), logging.Nop{}), rm
}

// --- repository fakes ---

type fakeUsersRepo struct {
	createErr error
	getOut    *models.User
	getErr    error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(context.Context, string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeFavoritesRepo struct {
	listOut   []string
	listErr   error
	addOut    bool
	addErr    error
	removeErr error
}

func (f *fakeFavoritesRepo) List(context.Context, string) ([]string, error) {
	return f.listOut, f.listErr
}

func (f *fakeFavoritesRepo) Add(context.Context, string, string) (bool, error) {
	return f.addOut, f.addErr
}

func (f *fakeFavoritesRepo) Remove(context.Context, string, string) error {
	return f.removeErr
}

type fakeRepoManager struct {
	u     *fakeUsersRepo
	f     *fakeFavoritesRepo
	txErr error
}

func (m *fakeRepoManager) RunMigrations(context.Context) error { return nil }
func (m *fakeRepoManager) Conn() dbx.DBTX                      { return nil }
func (m *fakeRepoManager) Close() error                        { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository     { return m.u }
func (m *fakeRepoManager) Favorites(dbx.DBTX) favorites.Repository {
	return m.f
}

func (m *fakeRepoManager) WithTx(ctx context.Context, fn dbx.TxFunc) error {
	if m.txErr != nil {
		return m.txErr
	}
	return fn(ctx, nil)
}

// --- country source fake ---

type sourceCall struct {
	path  string
	query url.Values
}

type fakeSource struct {
	mu    sync.Mutex
	calls []sourceCall
	// responses by joined path; missing paths are ErrorNotFound.
	bodies map[string]string
	errs   map[string]error
	// records are full upstream records in /all order. When set, "all"
	// projects them onto ?fields= and "alpha" answers ?codes= lookups.
	records []string
}

func (f *fakeSource) Get(_ context.Context, query url.Values, segments ...string) ([]byte, error) {
	path := strings.Join(segments, "/")

	f.mu.Lock()
	f.calls = append(f.calls, sourceCall{path: path, query: query})
	f.mu.Unlock()

	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	if body, ok := f.bodies[path]; ok {
		return []byte(body), nil
	}
	if f.records != nil {
		switch path {
		case "all":
			return f.projected(query.Get("fields")), nil
		case "alpha":
			return f.byCodes(query.Get("codes"))
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSource) projected(fields string) []byte {
	if fields == "" {
		return []byte("[" + strings.Join(f.records, ",") + "]")
	}
	out := make([]string, 0, len(f.records))
	for _, rec := range f.records {
		var parts []string
		for _, field := range strings.Split(fields, ",") {
			if v := gjson.Get(rec, field); v.Exists() {
				parts = append(parts, fmt.Sprintf("%q:%s", field, v.Raw))
			}
		}
		out = append(out, "{"+strings.Join(parts, ",")+"}")
	}
	return []byte("[" + strings.Join(out, ",") + "]")
}

func (f *fakeSource) byCodes(codes string) ([]byte, error) {
	var out []string
	for _, code := range strings.Split(codes, ",") {
		for _, rec := range f.records {
			if strings.EqualFold(gjson.Get(rec, "cca3").String(), code) {
				out = append(out, rec)
			}
		}
	}
	if len(out) == 0 {
		return nil, common.ErrorNotFound
	}
	return []byte("[" + strings.Join(out, ",") + "]"), nil
}
