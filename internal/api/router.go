package api

import (
	"net/http"
	"time"

	"codecrux/internal/api/handler"
	"codecrux/internal/app/service"
	"codecrux/internal/catalog"
	"codecrux/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	executionService *service.ExecutionService,
	progressService *service.ProgressService,
	cat *catalog.Catalog,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	// Verifies a bearer token when present and puts claims in context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		problemHandler := handler.NewProblemHandler(cat)
		v1.Route("/problems", problemHandler.RegisterRoutes)

		executionHandler := handler.NewExecutionHandler(executionService)
		v1.Route("/execute", executionHandler.RegisterRoutes)

		progressHandler := handler.NewProgressHandler(progressService)
		v1.Route("/progress", progressHandler.RegisterRoutes)
		v1.Route("/leaderboard", progressHandler.RegisterLeaderboardRoutes)
	})

	return r
}
