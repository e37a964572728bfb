package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/ferdiebergado/goexpress"
	"github.com/ferdiebergado/gopherkit/env"

	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/middleware"
	"github.com/ferdiebergado/tokenkit/internal/pkg/logging"
	"github.com/ferdiebergado/tokenkit/internal/platform/db"
)

const (
	envFile    = ".env"
	configFile = "config.json"
)

func Run(signalCtx context.Context) error {
	slog.Info("Initializing...")

	if os.Getenv("ENV") != "production" {
		if err := loadEnvFile(envFile); err != nil {
			return err
		}
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.SetupLogger(cfg.App.Env, cfg.App.LogLevel, os.Stderr)
	slog.Debug("Config loaded.", "config", cfg)

	dbConn, err := db.NewPostgresDB(signalCtx, cfg.DB)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	provider, err := newProvider(cfg, dbConn)
	if err != nil {
		return err
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.InjectWriter,
		goexpress.RecoverFromPanic,
		middleware.LogRequest,
		middleware.ContextGuard,
	}
	if len(cfg.CORS.AllowedOrigins) > 0 {
		middlewares = append(middlewares, middleware.CORS(cfg.CORS))
	}
	middlewares = append(middlewares, middleware.CheckContentType)

	api := New(provider, middlewares)
	if err := api.Start(signalCtx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	return api.Shutdown()
}

// loadEnvFile loads name into the environment when it exists.
func loadEnvFile(name string) error {
	if _, err := os.Stat(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("No env file found, using the process environment.", "file", name)
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}

	if err := env.Load(name); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}
