// Package server wires the gallery server together: it waits for Postgres,
// runs migrations, picks the object store, and serves the HTTP API and the
// gRPC health endpoint until it is told to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/logging"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/config"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/httpapi"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/objectstore"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/reconcile"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/repositories/repomanager"
	"github.com/robertvg253/arrankar-vehiculos-app/internal/server/services"
	"github.com/spf13/afero"

	gs "github.com/robertvg253/arrankar-vehiculos-app/internal/server/grpc"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	logCloser io.Closer
	db        *sql.DB
	handler   http.Handler
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, closer := logging.NewLogger(logging.Options{
		File:       c.LogFile,
		MaxSizeMB:  100,
		MaxBackups: 5,
		Debug:      c.LogDebug,
	})

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		db.Close()
		closer.Close()
		return nil, err
	}
	app.logCloser = closer
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	if err := waitForDB(ctx, db, c.DBConnectAttempts, time.Second, logger); err != nil {
		return nil, fmt.Errorf("db not reachable: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, media, err := newObjectStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	vs := services.NewVehicleService(db, rm, store)
	proc := reconcile.New(store, services.NewMediaRows(db, rm), logger, reconcile.WithConcurrency(c.ReconcileConcurrency))
	galleries := services.NewGalleryService(vs, proc, logger)

	h := httpapi.NewVehiclesHandler(vs, galleries, c.MaxUploadBytes, logger)

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		handler: httpapi.NewRouter(h, media, logger),
	}, nil
}

// waitForDB pings until the database answers or attempts run out.
func waitForDB(ctx context.Context, db *sql.DB, attempts int, delay time.Duration, logger logging.Logger) error {
	return retry.Do(
		func() error { return db.PingContext(ctx) },
		retry.Context(ctx),
		retry.Attempts(uint(max(attempts, 1))),
		retry.Delay(delay),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(10*time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn(ctx, "waiting for database", "attempt", n+1, "error", err)
		}),
	)
}

type objectStore interface {
	reconcile.ObjectStore
	services.URLResolver
}

// newObjectStore returns the configured store and, for the disk backend, the
// handler that serves its files.
func newObjectStore(ctx context.Context, c *config.Config) (objectStore, http.Handler, error) {
	switch c.ObjectStore {
	case config.ObjectStoreS3:
		s, err := objectstore.NewS3Store(ctx, objectstore.S3Config{
			Bucket:        c.S3Bucket,
			Region:        c.S3Region,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			BaseEndpoint:  c.S3BaseEndpoint,
			PublicBaseURL: c.PublicBaseURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case config.ObjectStoreDisk:
		d, err := objectstore.NewDiskStore(afero.NewOsFs(), c.DiskRoot, c.PublicBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Handler(), nil
	}
	return nil, nil, fmt.Errorf("unknown object store %q", c.ObjectStore)
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

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db, app.config.HealthCheckInterval)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}

	// in-flight requests drain after ListenAndServe returns
	<-stopped
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
	if app.logCloser != nil {
		app.logCloser.Close()
	}
}
