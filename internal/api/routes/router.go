package routes

import (
	"net/http"

	"github.com/prestataires/backend/internal/api/handlers"
	"github.com/prestataires/backend/internal/api/middleware"
	"github.com/prestataires/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	providerHandler    *handlers.ProviderHandler
	ratingHandler      *handlers.RatingHandler
	geolocationHandler *handlers.GeolocationHandler
	localityHandler    *handlers.LocalityHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	providerHandler *handlers.ProviderHandler,
	ratingHandler *handlers.RatingHandler,
	geolocationHandler *handlers.GeolocationHandler,
	localityHandler *handlers.LocalityHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		providerHandler:    providerHandler,
		ratingHandler:      ratingHandler,
		geolocationHandler: geolocationHandler,
		localityHandler:    localityHandler,
		cacheMiddleware:    cacheMiddleware,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Provider endpoints
	r.mux.HandleFunc("GET /api/providers", r.providerHandler.ListProviders)
	r.mux.HandleFunc("GET /api/providers/search", r.providerHandler.SearchProviders)
	r.mux.HandleFunc("GET /api/providers/suggest", r.providerHandler.SuggestProviders)
	r.mux.HandleFunc("GET /api/providers/{id}", r.providerHandler.GetProvider)
	r.mux.HandleFunc("POST /api/providers", r.providerHandler.CreateProvider)
	r.mux.HandleFunc("PATCH /api/providers/{id}", r.providerHandler.UpdateProvider)
	r.mux.HandleFunc("DELETE /api/providers/{id}", r.providerHandler.DeleteProvider)

	// Rating endpoints
	r.mux.HandleFunc("PUT /api/providers/{id}/rating", r.ratingHandler.RateProvider)
	r.mux.HandleFunc("GET /api/providers/{id}/ratings", r.ratingHandler.ListRatings)

	// Geolocation endpoints
	r.mux.HandleFunc("GET /api/geocode", r.geolocationHandler.Geocode)
	r.mux.HandleFunc("GET /api/reverse-geocode", r.geolocationHandler.ReverseGeocode)

	// Region and locality tables
	r.mux.HandleFunc("GET /api/regions", r.localityHandler.ListRegions)
	r.mux.HandleFunc("GET /api/localities", r.localityHandler.ListLocalities)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
