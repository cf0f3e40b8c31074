// Package rest exposes the country, auth and favorites operations as a JSON
// HTTP API under /api, plus /metrics.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/countryexplorer/internal/logging"
	"github.com/dmitrijs2005/countryexplorer/internal/server/countries"
	"github.com/dmitrijs2005/countryexplorer/internal/server/models"
	"github.com/dmitrijs2005/countryexplorer/internal/server/services"
	"github.com/gorilla/mux"
)

// CountryQueries is the read side served under /api/countries.
type CountryQueries interface {
	ListAll(ctx context.Context) ([]countries.Country, error)
	GetByCode(ctx context.Context, code string) (countries.Country, error)
	SearchByName(ctx context.Context, term string) ([]countries.Country, error)
	ListByRegion(ctx context.Context, region string) ([]countries.Country, error)
	ListBySubregion(ctx context.Context, subregion string) ([]countries.Country, error)
}

// Accounts covers registration, login and token checks.
type Accounts interface {
	Register(ctx context.Context, username, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	VerifyToken(ctx context.Context, token string) (*models.User, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
}

// Favorites manages the favorites of the authenticated account.
type Favorites interface {
	List(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, code string) ([]string, error)
	Remove(ctx context.Context, userID, code string) ([]string, error)
	Countries(ctx context.Context, userID string) ([]countries.Country, error)
}

// Instrumentation supplies the /metrics handler and the request metrics
// middleware.
type Instrumentation interface {
	Handler() http.Handler
	Middleware() mux.MiddlewareFunc
}

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address       string
	allowedOrigin string
	countries     CountryQueries
	accounts      Accounts
	favorites     Favorites
	metrics       Instrumentation
	logger        logging.Logger

	router *mux.Router
}

// NewHTTPServer wires the router. metrics may be nil.
func NewHTTPServer(address, allowedOrigin string, l logging.Logger, cq CountryQueries, acc Accounts, fav Favorites, m Instrumentation) *HTTPServer {
	s := &HTTPServer{
		address:       address,
		allowedOrigin: allowedOrigin,
		countries:     cq,
		accounts:      acc,
		favorites:     fav,
		metrics:       m,
		logger:        l.With("module", "http_server"),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "Method not allowed"})
	})

	r.Use(s.requestLogger(), s.recoverer())
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	r.Use(s.cors())

	api := r.PathPrefix("/api").Subrouter()

	c := api.PathPrefix("/countries").Subrouter()
	c.HandleFunc("", s.listCountries).Methods(http.MethodGet, http.MethodOptions)
	c.HandleFunc("/search/{term}", s.searchCountries).Methods(http.MethodGet, http.MethodOptions)
	c.HandleFunc("/region/{region}", s.countriesByRegion).Methods(http.MethodGet, http.MethodOptions)
	c.HandleFunc("/subregion/{subregion}", s.countriesBySubregion).Methods(http.MethodGet, http.MethodOptions)
	c.HandleFunc("/{code}", s.getCountry).Methods(http.MethodGet, http.MethodOptions)

	a := api.PathPrefix("/auth").Subrouter()
	a.HandleFunc("/register", s.register).Methods(http.MethodPost, http.MethodOptions)
	a.HandleFunc("/login", s.login).Methods(http.MethodPost, http.MethodOptions)

	u := api.PathPrefix("/users").Subrouter()
	u.Use(s.authenticate())
	u.HandleFunc("/profile", s.profile).Methods(http.MethodGet, http.MethodOptions)
	u.HandleFunc("/favorites", s.listFavorites).Methods(http.MethodGet, http.MethodOptions)
	u.HandleFunc("/favorites", s.addFavorite).Methods(http.MethodPost)
	u.HandleFunc("/favorites/countries", s.favoriteCountries).Methods(http.MethodGet, http.MethodOptions)
	u.HandleFunc("/favorites/{code}", s.removeFavorite).Methods(http.MethodDelete, http.MethodOptions)

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
