package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lumni-ai/lumni-gateway/app"
	"github.com/lumni-ai/lumni-gateway/middleware"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(deps.Config.Server.RequestTimeout))
	r.Use(chimw.RequestSize(deps.Config.Server.MaxBodyBytes))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleLiveness)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(deps.Config.Auth.APIKeys, deps.Logger))

		r.Post("/chat/completions", deps.ChatHandler.HandleChatCompletion)
		r.Post("/classify", deps.ChatHandler.HandleClassify)

		r.Get("/models", deps.CatalogHandler.HandleListModels)
		r.Get("/providers", deps.CatalogHandler.HandleProviderStatus)
		r.Get("/providers/{provider}/models", deps.CatalogHandler.HandleProviderModels)

		r.Get("/usage", deps.UsageHandler.HandleListRecent)
		r.Get("/usage/providers", deps.UsageHandler.HandleProviderStats)
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
