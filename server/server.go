// Package server assembles the HTTP router: middleware, CORS, operational
// endpoints and the application routes.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/bookshelf-go/auth"
	"github.com/user/bookshelf-go/books"
	"github.com/user/bookshelf-go/pipeline"
	"github.com/user/bookshelf-go/store"
	"github.com/user/bookshelf-go/users"
)

// Deps are the long-lived components the router is built from.
type Deps struct {
	Logger         *slog.Logger
	Store          store.Store
	Auth           *auth.Service
	Executor       *pipeline.Executor
	RequestTimeout time.Duration
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// NewRouter builds the service's HTTP handler.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())
	r.Method(http.MethodGet, "/health", health(deps.Executor, deps.Store))

	auth.NewHandlers(deps.Auth, deps.Executor).RegisterRoutes(r)
	users.NewHandlers(users.NewService(deps.Store), deps.Auth, deps.Executor).RegisterRoutes(r)
	books.NewHandlers(books.NewService(deps.Store), deps.Auth, deps.Executor).RegisterRoutes(r)

	return r
}

// requestLogger routes chi's access log through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(logger.Handler(), slog.LevelInfo),
		NoColor: true,
	})
}

// health godoc
// @Summary Liveness and store check
// @Tags Health
// @Produce json
// @Success 200 {object} server.HealthResponse
// @Failure 503 {object} server.HealthResponse
// @Router /health [get]
func health(exec *pipeline.Executor, st store.Store) http.Handler {
	return exec.Pipeline("health", func(ctx context.Context, _ *pipeline.Context) pipeline.Result {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := st.Ping(pingCtx); err != nil {
			return pipeline.Halt(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		}
		return pipeline.Halt(http.StatusOK, HealthResponse{Status: "ok"})
	})
}
