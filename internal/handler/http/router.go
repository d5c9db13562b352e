package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Qwwn/capstone-sangar/pkg/health"
	"github.com/Qwwn/capstone-sangar/pkg/middleware"

	"github.com/Qwwn/capstone-sangar/internal/service"
)

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(
	catalogService *service.CatalogService,
	searchService *service.SearchService,
	maxUploadBytes int64,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("catalog"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	flowerHandler := NewFlowerHandler(catalogService, maxUploadBytes, logger)
	searchHandler := NewSearchHandler(searchService, logger)

	// Cross-seller catalog reads
	r.Route("/api/v1/flowers", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", flowerHandler.ListFlowers)
		r.Get("/search", searchHandler.Search)
		r.Get("/{id}", searchHandler.GetFlower)
	})

	// Seller-scoped catalog management
	r.Route("/api/v1/sellers/{sellerId}/flowers", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", flowerHandler.ListSellerFlowers)
		r.Post("/", flowerHandler.CreateFlower)
		r.Get("/{id}", flowerHandler.GetSellerFlower)
		r.Put("/{id}", flowerHandler.UpdateFlower)
		r.Delete("/{id}", flowerHandler.DeleteFlower)
	})

	return r
}
