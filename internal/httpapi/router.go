package httpapi

import (
	"net/http"

	"github.com/cryptadb/crypta/internal/export"
	"github.com/cryptadb/crypta/internal/middleware"
	"github.com/cryptadb/crypta/internal/permissions"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// RouterConfig collects everything the HTTP surface needs.
type RouterConfig struct {
	Directory      DirectoryService
	Exports        *export.Handler
	GrantSource    permissions.Source
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter builds the full route tree with logging, metrics, CORS and
// grant extraction applied to the API surface.
func NewRouter(cfg RouterConfig) http.Handler {
	handler := NewHandler(cfg.Directory, cfg.Logger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
	})

	r := chi.NewRouter()
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics)
	r.Use(corsHandler.Handler)

	r.Get("/health", handler.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Grants(cfg.GrantSource))

		r.Get("/filter-tree", handler.handleFilterTree)
		r.Get("/results", handler.handleResults)
		r.Get("/search", handler.handleSearch)
		if cfg.Exports != nil {
			r.Mount("/exports", cfg.Exports.Routes())
		}
	})
	return r
}
