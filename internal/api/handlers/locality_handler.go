package handlers

import (
	"net/http"

	"github.com/prestataires/backend/internal/domain/localities"
)

// LocalityHandler serves the static region and locality tables
type LocalityHandler struct{}

// NewLocalityHandler creates a new locality handler
func NewLocalityHandler() *LocalityHandler {
	return &LocalityHandler{}
}

// ListRegions handles GET /api/regions
func (h *LocalityHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions := localities.Regions()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"regions": regions,
		"count":   len(regions),
	})
}

// ListLocalities handles GET /api/localities?region=... An unknown region
// yields an empty list, not an error.
func (h *LocalityHandler) ListLocalities(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if region == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter region is required")
		return
	}

	names := localities.LocalitiesOf(region)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"region":     region,
		"localities": names,
		"count":      len(names),
	})
}
