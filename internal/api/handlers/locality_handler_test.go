package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestataires/backend/internal/adapters/providers/geolocation"
	"github.com/prestataires/backend/internal/api/handlers"
)

func TestLocalityHandler_ListRegions(t *testing.T) {
	handler := handlers.NewLocalityHandler()

	req := httptest.NewRequest("GET", "/api/regions", nil)
	w := httptest.NewRecorder()

	handler.ListRegions(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Regions []string `json:"regions"`
		Count   int      `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 3, response.Count)
	assert.Contains(t, response.Regions, "94 - Val-de-Marne")
}

func TestLocalityHandler_UnknownRegionIsEmpty(t *testing.T) {
	handler := handlers.NewLocalityHandler()

	req := httptest.NewRequest("GET", "/api/localities?region=99+-+Inconnu", nil)
	w := httptest.NewRecorder()

	handler.ListLocalities(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 0, response.Count)
}

func TestLocalityHandler_RequiresRegionParam(t *testing.T) {
	handler := handlers.NewLocalityHandler()

	req := httptest.NewRequest("GET", "/api/localities", nil)
	w := httptest.NewRecorder()

	handler.ListLocalities(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGeolocationHandler_GeocodeKnownCity(t *testing.T) {
	handler := handlers.NewGeolocationHandler(geolocation.NewStaticGeolocationProvider())

	req := httptest.NewRequest("GET", "/api/geocode?city=Montreuil", nil)
	w := httptest.NewRecorder()

	handler.Geocode(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		City        string `json:"city"`
		Coordinates struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"coordinates"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "Montreuil", response.City)
	assert.InDelta(t, 48.8638, response.Coordinates.Latitude, 0.001)
}

func TestGeolocationHandler_GeocodeUnknownCity(t *testing.T) {
	handler := handlers.NewGeolocationHandler(geolocation.NewStaticGeolocationProvider())

	req := httptest.NewRequest("GET", "/api/geocode?city=Marseille", nil)
	w := httptest.NewRecorder()

	handler.Geocode(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
