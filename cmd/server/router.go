package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasktrack-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasktrack-api/internal/api/middleware"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
)

// apiPrefix is the mount point of every JSON endpoint.
const apiPrefix = "/api"

// publicPaths are the endpoints under apiPrefix reachable without a token.
var publicPaths = []string{
	apiPrefix + "/register",
	apiPrefix + "/login",
	apiPrefix + "/refresh",
}

// routerDeps is everything the router needs to build its handlers.
type routerDeps struct {
	userService   service.UserService
	taskService   service.TaskService
	jwtService    auth.JWTService
	revoker       auth.TokenRevoker
	tokenLifetime time.Duration
	logger        *slog.Logger
}

// newRouter creates and configures the application router with all routes and middleware.
func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.WithBaseLogger(deps.logger))
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.RequireBearerToken(apiPrefix, publicPaths...))

	authHandler := api.NewAuthHandler(deps.userService, deps.jwtService, deps.revoker, deps.tokenLifetime)
	taskHandler := api.NewTaskHandler(deps.taskService)
	userHandler := api.NewUserHandler(deps.userService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(deps.jwtService, deps.revoker, deps.userService)

	r.Route(apiPrefix, func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/logout", authHandler.Logout)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.ListTasks)
				r.Post("/", taskHandler.CreateTask)
				r.Get("/{id}", taskHandler.GetTask)
				r.Put("/{id}", taskHandler.UpdateTask)
				r.Patch("/{id}", taskHandler.UpdateTask)
				r.Delete("/{id}", taskHandler.DeleteTask)
			})

			r.With(apiMiddleware.RequireRole(domain.RoleAdmin)).Get("/users", userHandler.ListUsers)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			deps.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
