// Bookshelf serves user accounts, sessions and personal book libraries over
// HTTP.
//
// @title Bookshelf API
// @version 1.0
// @description Library catalog service: accounts, sessions and personal book libraries.
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/user/bookshelf-go/auth"
	"github.com/user/bookshelf-go/config"
	"github.com/user/bookshelf-go/db"
	_ "github.com/user/bookshelf-go/docs" // registers the OpenAPI document
	"github.com/user/bookshelf-go/logging"
	"github.com/user/bookshelf-go/pipeline"
	"github.com/user/bookshelf-go/server"
	"github.com/user/bookshelf-go/store"
)

func main() {
	// In production the variables are set directly; .env is for development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("error loading .env file", "error", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		slog.Error("bookshelf exited with error", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Usage:   "YAML configuration file; environment variables take precedence",
		EnvVars: []string{"CONFIG_FILE"},
	}

	return &cli.App{
		Name:           "bookshelf",
		Usage:          "library catalog service",
		Flags:          []cli.Flag{configFlag},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the HTTP server",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "migrate",
						Usage:   "apply pending migrations before serving",
						EnvVars: []string{"MIGRATE_ON_START"},
						Value:   true,
					},
				},
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations and exit",
				Action: migrateOnly,
			},
		},
	}
}

// setup loads configuration and installs the process logger.
func setup(c *cli.Context) (*config.AppConfig, *slog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func migrateOnly(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	if cfg.Store.Driver != config.StoreDriverPostgres {
		return fmt.Errorf("migrate requires STORE_DRIVER=%s, got %s", config.StoreDriverPostgres, cfg.Store.Driver)
	}
	return db.RunMigrations(db.DSN(cfg.Store.Postgres), logger)
}

// openStore returns the configured store and a function releasing it.
func openStore(ctx context.Context, cfg *config.StoreConfig, runMigrations bool, logger *slog.Logger) (store.Store, func(), error) {
	if cfg.Driver == config.StoreDriverMemory {
		logger.Warn("using in-memory store; data is lost on exit")
		return store.NewMemoryStore(store.DefaultCatalog...), func() {}, nil
	}

	if runMigrations {
		if err := db.RunMigrations(db.DSN(cfg.Postgres), logger); err != nil {
			return nil, nil, err
		}
	}

	pool, err := db.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, err
	}
	sqlDB := db.OpenSQL(pool)
	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("closing database handle", "error", err)
		}
		pool.Close()
	}
	return store.NewPostgresStore(sqlDB), cleanup, nil
}

func serve(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg.Store, c.Bool("migrate"), logger)
	if err != nil {
		return err
	}
	defer closeStore()

	hasher, err := auth.NewHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	if err != nil {
		return err
	}
	if cfg.Auth.TokenDuration == 0 {
		logger.Warn("JWT_TOKEN_DURATION is 0; issued tokens never expire")
	}

	handler := server.NewRouter(server.Deps{
		Logger:         logger,
		Store:          st,
		Auth:           auth.NewService(st, hasher, tokens),
		Executor:       pipeline.NewExecutor(logger, cfg.Server.ExposeErrorDetails),
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}
