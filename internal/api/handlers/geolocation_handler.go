package handlers

import (
	"net/http"
	"strconv"

	"github.com/prestataires/backend/internal/domain/providers"
	"github.com/prestataires/backend/pkg/geo"
)

// GeolocationHandler handles locality geocoding requests
type GeolocationHandler struct {
	geolocation providers.GeolocationProvider
}

// NewGeolocationHandler creates a new geolocation handler
func NewGeolocationHandler(geolocation providers.GeolocationProvider) *GeolocationHandler {
	return &GeolocationHandler{geolocation: geolocation}
}

// Geocode handles GET /api/geocode?city=...
func (h *GeolocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter city is required")
		return
	}

	coords, err := h.geolocation.Geocode(r.Context(), city)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"city":        city,
		"coordinates": coords,
	})
}

// ReverseGeocode handles GET /api/reverse-geocode?lat=...&lon=...
func (h *GeolocationHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		respondWithError(w, http.StatusBadRequest, "valid lat and lon are required")
		return
	}

	locality, err := h.geolocation.ReverseGeocode(r.Context(), geo.Coordinates{
		Latitude:  lat,
		Longitude: lon,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"city": locality,
	})
}
