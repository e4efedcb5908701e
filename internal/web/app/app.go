// Package app wires the web tier together: config, logging, the upstream
// dispatcher, the auth service and the HTTP server lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/404talk/webapp/internal/web/http"
	"github.com/404talk/webapp/internal/web/service"
	"github.com/404talk/webapp/pkg/apiclient"
	"github.com/404talk/webapp/pkg/session/sqlitestore"
	"github.com/404talk/webapp/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the web service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	store       *sqlitestore.Store // optional persistent credential store
	authService *service.AuthService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "web",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.SessionDBFile != "" {
		store, err := sqlitestore.New(cfg.SessionDBFile, app.logger)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		app.store = store
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("web service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"upstream", app.cfg.APIBaseURL,
		"demo_login", app.authService.Demo.Enabled(),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down web service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.store != nil {
		if err := app.store.Close(); err != nil {
			app.logger.Error("error closing session store", "error", err)
			return err
		}
	}

	app.logger.Info("web service stopped")
	return nil
}

func (app *Application) initServices() {
	upstream := apiclient.New(apiclient.Config{
		BaseURL:      app.cfg.APIBaseURL,
		APIKey:       app.cfg.APIKey,
		APIKeyHeader: app.cfg.APIKeyHeader,
		Timeout:      app.cfg.UpstreamTimeout,
	})

	var demo *service.DemoService
	if app.cfg.DemoLoginEmail != "" {
		demo = service.NewDemoService(
			app.cfg.DemoLoginEmail,
			app.cfg.DemoLoginPasswordHash,
			app.cfg.DemoTokenSecret,
		)
		if !demo.Enabled() {
			app.logger.Warn("demo login partially configured, disabled")
		}
	}

	app.authService = &service.AuthService{
		Upstream: upstream,
		Demo:     demo,
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.cfg.APIBaseURL, BuildVersion, app.logger)
	router.AuthService = app.authService
	if app.store != nil {
		router.Store = app.store
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
