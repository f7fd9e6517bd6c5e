// Package server provides the main server initialization and run logic.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nebari-dev/multiversion/internal/api"
	"github.com/nebari-dev/multiversion/internal/api/handlers"
	"github.com/nebari-dev/multiversion/internal/config"
	"github.com/nebari-dev/multiversion/internal/db"
	"github.com/nebari-dev/multiversion/internal/flash"
	"github.com/nebari-dev/multiversion/internal/logger"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Config holds the server configuration options.
type Config struct {
	Port       int    // Port to run the server on (0 = use config default)
	ConfigFile string // Explicit config file (empty = search default paths)
	Version    string // Version string to report
}

// Open loads configuration, initializes logging and returns a migrated
// database connection.
func Open(configFile string) (*config.Config, *gorm.DB, error) {
	appCfg, err := config.LoadFrom(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(appCfg.Log.Format, appCfg.Log.Level)

	// Propagate app log level to database if not explicitly set
	if appCfg.Database.LogLevel == "" {
		appCfg.Database.LogLevel = appCfg.Log.Level
	}

	database, err := db.New(appCfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Database initialized", "driver", appCfg.Database.Driver)

	if err := db.Migrate(database); err != nil {
		return nil, nil, err
	}
	slog.Info("Database migrations completed")

	return appCfg, database, nil
}

// Run starts the API server and blocks until ctx is canceled or the
// listener fails.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Version != "" {
		handlers.Version = cfg.Version
	}

	appCfg, database, err := Open(cfg.ConfigFile)
	if err != nil {
		return err
	}
	if cfg.Port != 0 {
		appCfg.Server.Port = cfg.Port
	}
	slog.Info("Starting multiversion server", "version", cfg.Version, "mode", appCfg.Server.Mode)

	flashStore, err := createFlashStore(appCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize flash store: %w", err)
	}
	defer flashStore.Close()
	slog.Info("Flash store initialized", "type", appCfg.Flash.Type)

	router := api.NewRouter(appCfg, database, flashStore)
	addr := fmt.Sprintf(":%d", appCfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		slog.Info("Server stopped")
		return nil
	})

	return g.Wait()
}

// RunWithSignalHandling starts the server and handles OS signals for graceful shutdown.
func RunWithSignalHandling(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return Run(ctx, cfg)
}

// createFlashStore creates a flash store based on configuration.
func createFlashStore(cfg *config.Config) (flash.Store, error) {
	ttl := time.Duration(cfg.Flash.TTLSeconds) * time.Second
	switch cfg.Flash.Type {
	case "memory", "":
		return flash.NewMemoryStore(ttl), nil
	case "valkey":
		if cfg.Flash.ValkeyAddr == "" {
			return nil, fmt.Errorf("valkey address is required when flash type is valkey")
		}
		return flash.NewValkeyStore(cfg.Flash.ValkeyAddr, ttl)
	default:
		return nil, fmt.Errorf("unsupported flash type: %s (supported: memory, valkey)", cfg.Flash.Type)
	}
}
