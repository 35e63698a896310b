package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/todo-api/internal/api"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/notification"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

const shutdownTimeout = 10 * time.Second

// application holds the shared dependencies so they can be released
// together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	itemStore store.ItemStore

	jwtService  auth.JWTService
	hasher      auth.PasswordHasher
	dispatcher  *notification.Dispatcher
	todoService service.TodoService
}

// newApplication wires every dependency on top of an open database.
// The notification dispatcher is started here and stopped by cleanup.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	rules, err := domain.NewRules(domain.RuleSettings{
		NameFormat:            cfg.Rules.NameFormat,
		MaxContentLength:      cfg.Rules.MaxContentLength,
		MaxTodolistCapacity:   cfg.Rules.MaxTodolistCapacity,
		NotificationThreshold: cfg.Rules.NotificationThreshold,
		MinimumAgeYears:       cfg.Rules.MinimumAgeYears,
		ItemCooldownMinutes:   cfg.Rules.ItemCooldownMinutes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build business rules: %w", err)
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.itemStore = postgres.NewPostgresItemStore(db, logger)

	notifyCfg := notification.DefaultConfig()
	notifyCfg.QueueSize = cfg.Notification.QueueSize
	notifyCfg.WorkerCount = cfg.Notification.WorkerCount
	notifyCfg.MaxRetries = cfg.Notification.MaxRetries
	app.dispatcher = notification.NewDispatcher(notification.NewLogMailer(logger), notifyCfg, logger)

	app.todoService, err = service.NewTodoService(
		db,
		app.userStore,
		app.itemStore,
		app.hasher,
		app.dispatcher,
		rules,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo service: %w", err)
	}

	app.dispatcher.Start()

	logger.Info("Application initialized successfully",
		"max_todolist_capacity", rules.MaxTodolistCapacity,
		"notification_threshold", rules.NotificationThreshold)
	return app, nil
}

func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterDeps{
		TodoService: app.todoService,
		JWTService:  app.jwtService,
		AuthConfig:  &app.config.Auth,
		Logger:      app.logger,
	})
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return app.serve(ctx, server, server.ListenAndServe)
}

// serve runs listen until it fails or ctx is done, then shuts server down
// and releases application resources.
func (app *application) serve(ctx context.Context, server *http.Server, listen func() error) error {
	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("Starting server", "addr", server.Addr)
		if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info("Shutting down server...")
	case err := <-serveErr:
		if err != nil {
			app.logger.Error("Server failed", "error", err)
			runErr = fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server shutdown failed", "error", err)
		if runErr == nil {
			runErr = fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	app.cleanup(shutdownCtx)
	return runErr
}

// cleanup drains pending notifications and closes the database.
func (app *application) cleanup(ctx context.Context) {
	if app.dispatcher != nil {
		if err := app.dispatcher.Stop(ctx); err != nil {
			app.logger.Error("Notification dispatcher did not drain", "error", err)
		}
		stats := app.dispatcher.Stats()
		app.logger.Info("Notification dispatcher stopped",
			"delivered", stats.Delivered,
			"failed", stats.Failed)
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
