package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/prestataires/backend/internal/application/services"
	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/domain/providers"
	"github.com/prestataires/backend/internal/domain/repositories"
	"github.com/prestataires/backend/internal/infrastructure/observability"
	"github.com/prestataires/backend/pkg/geo"
)

// ProviderHandler handles provider-related HTTP requests
type ProviderHandler struct {
	providerService *services.ProviderService
	searchService   *services.SearchService
	sessions        providers.SessionProvider
	metrics         *observability.Metrics
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(
	providerService *services.ProviderService,
	searchService *services.SearchService,
	sessions providers.SessionProvider,
	metrics *observability.Metrics,
) *ProviderHandler {
	return &ProviderHandler{
		providerService: providerService,
		searchService:   searchService,
		sessions:        sessions,
		metrics:         metrics,
	}
}

// GetProvider handles GET /api/providers/{id}
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("id")
	if providerID == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	provider, err := h.providerService.GetByID(r.Context(), providerID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, provider)
}

// ListProviders handles GET /api/providers
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.ProviderFilter{
		Category:   query.Get("category"),
		City:       query.Get("city"),
		Department: query.Get("department"),
		Limit:      parseIntParam(query.Get("limit"), 30),
		Offset:     parseIntParam(query.Get("offset"), 0),
	}

	provs, err := h.providerService.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"providers": provs,
		"count":     len(provs),
	})
}

// SearchProviders handles GET /api/providers/search. Filters are combined:
// category, city (exact locality), department (region), and optionally a
// live position (lat, lon, radius_km). Without lat/lon, distance mode is
// off and results keep backend order.
func (h *ProviderHandler) SearchProviders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := services.SearchFilter{
		Category: query.Get("category"),
		Locality: query.Get("city"),
		Region:   query.Get("department"),
	}

	latStr, lonStr := query.Get("lat"), query.Get("lon")
	if (latStr == "") != (lonStr == "") {
		respondWithError(w, http.StatusBadRequest, "lat and lon must be provided together")
		return
	}
	if latStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil {
			respondWithError(w, http.StatusBadRequest, "invalid lat/lon")
			return
		}
		filter.Position = &geo.Coordinates{Latitude: lat, Longitude: lon}
	}
	if radiusStr := query.Get("radius_km"); radiusStr != "" {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius <= 0 {
			respondWithError(w, http.StatusBadRequest, "invalid radius_km")
			return
		}
		filter.RadiusKm = radius
	}

	// The pipeline filters in memory over the full provider set
	provs, err := h.providerService.List(r.Context(), repositories.ProviderFilter{})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	results := h.searchService.DeriveResults(provs, filter)
	observability.RecordSearchMetric(r.Context(), h.metrics, filter.Position != nil, len(results))

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// SuggestProviders handles GET /api/providers/suggest with a free-text query
func (h *ProviderHandler) SuggestProviders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	limit := parseIntParam(r.URL.Query().Get("limit"), 10)

	provs, err := h.providerService.SearchText(r.Context(), q, limit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"providers": provs,
		"count":     len(provs),
	})
}

// CreateProvider handles POST /api/providers
func (h *ProviderHandler) CreateProvider(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Current(r.Context(), bearerToken(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	var provider entities.Provider
	if err := json.NewDecoder(r.Body).Decode(&provider); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.providerService.Create(r.Context(), session, &provider); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, provider)
}

// UpdateProvider handles PATCH /api/providers/{id}. The services list in
// the payload replaces the provider's services wholesale.
func (h *ProviderHandler) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("id")
	if providerID == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	session, err := h.sessions.Current(r.Context(), bearerToken(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	var provider entities.Provider
	if err := json.NewDecoder(r.Body).Decode(&provider); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	provider.ID = providerID

	if err := h.providerService.Update(r.Context(), session, &provider); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, provider)
}

// DeleteProvider handles DELETE /api/providers/{id}
func (h *ProviderHandler) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("id")
	if providerID == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	session, err := h.sessions.Current(r.Context(), bearerToken(r))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	if err := h.providerService.Delete(r.Context(), session, providerID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseIntParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
		return parsed
	}
	return fallback
}
