package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/auth"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

type App struct {
	provider        *Provider
	server          *http.Server
	middlewares     []func(http.Handler) http.Handler
	stop            context.CancelFunc
	serverCtx       context.Context //nolint:containedctx //Cancelled on shutdown to stop background work.
	shutdownTimeout time.Duration
	authModule      *auth.Module
}

func New(provider *Provider, middlewares []func(http.Handler) http.Handler) *App {
	serverCtx, stop := context.WithCancel(context.Background())
	serverCfg := provider.Cfg.Server

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", serverCfg.Port),
		Handler: provider.Router,
		BaseContext: func(_ net.Listener) context.Context {
			return serverCtx
		},
		ReadTimeout:  serverCfg.ReadTimeout.Duration,
		WriteTimeout: serverCfg.WriteTimeout.Duration,
		IdleTimeout:  serverCfg.IdleTimeout.Duration,
	}

	return &App{
		provider:        provider,
		server:          server,
		middlewares:     middlewares,
		stop:            stop,
		serverCtx:       serverCtx,
		shutdownTimeout: serverCfg.ShutdownTimeout.Duration,
	}
}

func (a *App) registerMiddlewares() {
	for _, mw := range a.middlewares {
		a.provider.Router.Use(mw)
	}
}

func (a *App) setupRoutes() {
	p := a.provider
	maxBodySize := p.Cfg.Server.MaxBodyBytes

	userModule := user.NewModule(p.DB)

	a.authModule = auth.NewModule(&auth.Provider{
		Cfg:           p.Cfg,
		DB:            p.DB,
		TxMgr:         p.TxMgr,
		Hasher:        p.Hasher,
		Authenticator: p.Authenticator,
		UserSvc:       userModule.Service(),
		Metrics:       p.Metrics,
		Clock:         p.Clock,
	})
	authSvc := a.authModule.Service()

	mountHealthRoute(p.Router)
	mountMetricsRoute(p.Router, p.Metrics, p.Cfg.Metrics)
	mountAuthRoutes(p.Router, a.authModule.Handler(), authSvc, p.Validator, maxBodySize)
	mountUserRoutes(p.Router, userModule.Handler(), authSvc, p.Validator, maxBodySize)
}

// Start serves until ctx is done or the server fails.
func (a *App) Start(ctx context.Context) error {
	a.registerMiddlewares()
	a.setupRoutes()

	go auth.RunPurger(a.serverCtx, a.authModule.Service(), a.provider.Cfg.Revocation.PurgeInterval.Duration)

	return a.serve(ctx)
}

// serve runs the listener. When it fails, background work bound to the
// server context is stopped before the error is returned.
func (a *App) serve(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening...", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		slog.Info("Server has stopped.")
		serverErr <- nil
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received.")
		return nil
	case err := <-serverErr:
		if err != nil {
			a.stop()
		}
		return err
	}
}

func (a *App) Shutdown() error {
	slog.Info("Shutting down server...")
	a.stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
