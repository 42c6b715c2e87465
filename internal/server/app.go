// Package server wires the Venus server together: database, migrations,
// password and token codecs, blob storage, the HTTP API and the optional
// gRPC listener. Run blocks until a signal or a fatal server error.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/venus/internal/dbx"
	"github.com/dmitrijs2005/venus/internal/logging"
	"github.com/dmitrijs2005/venus/internal/server/auth"
	"github.com/dmitrijs2005/venus/internal/server/config"
	"github.com/dmitrijs2005/venus/internal/server/metrics"
	"github.com/dmitrijs2005/venus/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/venus/internal/server/rest"
	"github.com/dmitrijs2005/venus/internal/server/services"
	"github.com/dmitrijs2005/venus/internal/server/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/venus/internal/server/grpc"
)

// dbCheckInterval is how often the gRPC health status follows the database.
const dbCheckInterval = 30 * time.Second

var logOutput io.Writer = os.Stdout

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	http *rest.HTTPServer
	grpc *gs.GRPCServer
}

// NewApp opens the database, runs migrations and builds every component.
// warnings come from config.Load and are logged once.
func NewApp(ctx context.Context, c *config.Config, warnings []string) (*App, error) {
	logger := logging.NewJSONLogger(logOutput, c.LogLevel)
	for _, w := range warnings {
		logger.Warn(ctx, w)
	}

	db, dialect, err := dbx.Open(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := build(ctx, c, logger, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func build(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, dialect dbx.Dialect) (*App, error) {
	rm, err := repomanager.NewSQLRepositoryManager(dialect)
	if err != nil {
		return nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mc := metrics.NewCollector(reg)

	hasher, err := auth.NewPasswordHasher(c.BcryptCost, auth.NewHashLimiter(c.HashConcurrency), mc)
	if err != nil {
		return nil, err
	}
	codec, err := auth.NewTokenCodec([]byte(c.SecretKey), c.TokenTTL)
	if err != nil {
		return nil, err
	}
	resolver := auth.NewResolver(codec, c.ResolverConfig(), mc)

	blobs, err := newBlobStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("blob storage: %w", err)
	}

	api := rest.NewServer(rest.Options{
		CORSOrigin:    c.CORSOrigin,
		CookieSecure:  c.CookieSecure,
		TokenTTL:      c.TokenTTL,
		MaxUploadSize: c.MaxUploadSize,
		StaticDir:     c.StaticDir,
	}, rest.Deps{
		Users:    services.NewUserService(db, rm, hasher, codec),
		Projects: services.NewProjectService(db, rm),
		Images:   services.NewImageService(db, rm, blobs, logger.With("module", "images"), mc),
		Resolver: resolver,
		DB:       db,
		Logger:   logger.With("module", "http"),
		Metrics:  mc,
		Gatherer: reg,
	})

	app := &App{
		config: c,
		logger: logger,
		db:     db,
		http:   rest.NewHTTPServer(c.HTTPAddr, api.Router(), logger.With("module", "http_server")),
	}
	if c.EndpointAddrGRPC != "" {
		app.grpc = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, resolver)
	}

	logger.Info(ctx, "app configured",
		"mode", c.Mode,
		"dialect", string(dialect),
		"storage", c.StorageBackend,
		"dev_bypass", c.InsecureDevBypass,
	)
	return app, nil
}

func newBlobStore(ctx context.Context, c *config.Config) (storage.BlobStore, error) {
	switch c.StorageBackend {
	case config.StorageS3:
		return storage.NewS3Store(ctx, storage.S3Config{
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	default:
		return storage.NewFilesystemStore(c.UploadDir)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled, a signal arrives or a server fails. The
// database is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return app.http.Run(ctx) })

	if app.grpc != nil {
		g.Go(func() error { return app.grpc.Run(ctx) })
		g.Go(func() error {
			app.watchDB(ctx)
			return nil
		})
	}

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(context.Background(), "closing database", "error", cerr)
	}
	if err != nil {
		app.logger.Error(context.Background(), "server stopped", "error", err)
		return err
	}
	app.logger.Info(context.Background(), "app stopped")
	return nil
}

// watchDB keeps the gRPC health status in line with database reachability.
func (app *App) watchDB(ctx context.Context) {
	t := time.NewTicker(dbCheckInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := app.db.PingContext(pctx)
			cancel()
			if err != nil {
				app.logger.Warn(ctx, "database ping failed", "error", err)
			}
			app.grpc.SetServing(err == nil)
		}
	}
}
