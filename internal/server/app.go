// Package server wires and runs the sandbox directory server: a reference
// implementation of the directory REST API backed by Postgres or memory.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/dmitrijs2005/rosterctl/internal/server/config"
	"github.com/dmitrijs2005/rosterctl/internal/server/rest"
	"github.com/dmitrijs2005/rosterctl/internal/server/shared/db"
	"github.com/dmitrijs2005/rosterctl/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      *zap.Logger
	store       db.RepositoryManager
	userService *users.Service
	http        *fiber.App
}

// NewApp opens the repository backend named by the config and builds the
// HTTP application on top of it.
func NewApp(ctx context.Context, c *config.Config, logger *zap.Logger) (*App, error) {
	store, err := db.New(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	return newApp(c, logger, store), nil
}

func newApp(c *config.Config, logger *zap.Logger, store db.RepositoryManager) *App {
	us := users.NewService(store, c)
	return &App{
		config:      c,
		logger:      logger,
		store:       store,
		userService: us,
		http:        rest.NewApp(logger.With(zap.String("module", "rest")), us, store),
	}
}

// HTTP exposes the fiber application, mainly for tests.
func (app *App) HTTP() *fiber.App {
	return app.http
}

func (app *App) seed(ctx context.Context) error {
	if !app.config.SeedDemo {
		return nil
	}
	n, err := app.userService.Seed(ctx, users.DemoAccounts)
	if err != nil {
		return fmt.Errorf("seed demo accounts: %w", err)
	}
	app.logger.Info("demo accounts seeded", zap.Int("created", n))
	return nil
}

// Run listens on the configured address until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.config.EndpointAddrHTTP)
	if err != nil {
		return err
	}
	return app.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts the
// server down gracefully and closes the store.
func (app *App) Serve(ctx context.Context, ln net.Listener) error {
	defer func() {
		if err := app.store.Close(); err != nil {
			app.logger.Warn("store close", zap.Error(err))
		}
	}()

	if err := app.seed(ctx); err != nil {
		_ = ln.Close()
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("Starting HTTP server", zap.String("address", ln.Addr().String()))
		errCh <- app.http.Listener(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info("Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.http.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}
