// Package server initializes and runs the taskkeeper auth server. It selects
// the storage backend, wires the services and runs the HTTP and gRPC
// transports plus the session sweeper until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/taskkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/dmitrijs2005/taskkeeper/internal/server/sessionstore"
	"github.com/dmitrijs2005/taskkeeper/internal/server/sweeper"

	gs "github.com/dmitrijs2005/taskkeeper/internal/server/grpc"
)

const dbPingTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	metrics     *metrics.Registry
	authService *services.AuthService
	sweeper     *sweeper.Sweeper
}

// NewApp connects storage and builds the services. An empty DatabaseDSN
// selects the in-memory repositories.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)

	if c.DatabaseDSN != "" {
		var err error
		db, err = dbx.Open(ctx, c.DatabaseDSN, dbPingTimeout)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
	} else {
		logger.Warn(ctx, "No database DSN configured, sessions and accounts are kept in memory")
		rm = repomanager.NewInMemoryRepositoryManager()
	}

	m := metrics.NewRegistry()

	as, err := services.NewAuthService(db, rm, c, logger, services.WithMetrics(m))
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("auth service init error: %w", err)
	}

	sw := sweeper.New(sessionstore.New(rm.Sessions(db), c.BcryptCost), c.SweepInterval, logger, m)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		metrics:     m,
		authService: as,
		sweeper:     sw,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService, app.authService.Verifier())
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.authService, app.authService.Verifier(),
		app.logger, app.metrics, app.config.LoginRateLimit)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a transport fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}
	app.logger.Info(ctx, "App stopped")
}
