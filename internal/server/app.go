// Package server initializes and runs the Country Explorer server.
// It picks the account store, runs migrations, wires the services and runs
// the HTTP API and the gRPC health endpoint until a termination signal.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/countryexplorer/internal/logging"
	"github.com/dmitrijs2005/countryexplorer/internal/server/config"
	"github.com/dmitrijs2005/countryexplorer/internal/server/metrics"
	"github.com/dmitrijs2005/countryexplorer/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/countryexplorer/internal/server/rest"
	"github.com/dmitrijs2005/countryexplorer/internal/server/services"
	"github.com/dmitrijs2005/countryexplorer/internal/server/upstream"

	gs "github.com/dmitrijs2005/countryexplorer/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager

	httpServer runner
	grpcServer runner
}

// openStore is a seam for tests.
var openStore = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	if dsn == "" {
		return repomanager.NewMemoryRepositoryManager(), nil
	}
	return repomanager.OpenPostgres(ctx, dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	rm, err := openStore(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured, accounts are kept in memory")
	}

	m := metrics.New()

	retries := c.UpstreamRetries
	if retries < 0 {
		retries = 0
	}
	client := upstream.New(upstream.Options{
		BaseURL:    c.UpstreamBaseURL,
		Timeout:    c.UpstreamTimeout,
		Retries:    uint64(retries),
		RetryDelay: c.UpstreamRetryDelay,
	}, logger, m)

	cs := services.NewCountryService(client, c, logger)
	us := services.NewUserService(rm, c, logger)
	fs := services.NewFavoritesService(rm, cs, logger)

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		httpServer:  rest.NewHTTPServer(c.EndpointAddrHTTP, c.CORSAllowedOrigin, logger, cs, us, fs, m),
		grpcServer:  gs.NewGRPCServer(c.EndpointAddrGRPC, logger),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// startServer runs s and cancels the whole app when it fails.
func (app *App) startServer(ctx context.Context, cancelFunc context.CancelFunc, name string, s runner) {
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or one of the servers
// fails, then waits for both servers to stop and closes the store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startServer(ctx, cancelFunc, "http", app.httpServer)
	}()
	go func() {
		defer wg.Done()
		app.startServer(ctx, cancelFunc, "grpc", app.grpcServer)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
