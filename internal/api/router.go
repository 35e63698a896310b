package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/todo-api/internal/api/middleware"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
)

// RouterDeps holds everything the router needs to build its handlers.
type RouterDeps struct {
	TodoService service.TodoService
	JWTService  auth.JWTService
	AuthConfig  *config.AuthConfig
	Logger      *slog.Logger
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Trace(log))

	userHandler := NewUserHandler(deps.TodoService, log)
	todoHandler := NewTodoHandler(deps.TodoService, log)
	authHandler := NewAuthHandler(deps.TodoService, deps.JWTService, deps.AuthConfig, log)
	authMiddleware := middleware.NewAuthMiddleware(deps.JWTService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		r.Get("/users", userHandler.ListUsers)
		r.Post("/users", userHandler.CreateUser)
		r.Get("/users/{"+UserIDParam+"}/todos/items", todoHandler.ListItems)
		r.Post("/users/{"+UserIDParam+"}/todos/items", todoHandler.CreateItem)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/me/todos/items", todoHandler.ListMyItems)
			r.Post("/me/todos/items", todoHandler.CreateMyItem)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
