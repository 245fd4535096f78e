package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/prestataires/backend/internal/application/services"
	"github.com/prestataires/backend/internal/domain/providers"
)

// RatingHandler handles rating-related HTTP requests
type RatingHandler struct {
	ratingService *services.RatingService
	sessions      providers.SessionProvider
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(ratingService *services.RatingService, sessions providers.SessionProvider) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		sessions:      sessions,
	}
}

type rateRequest struct {
	Stars int `json:"stars"`
}

// RateProvider handles PUT /api/providers/{id}/rating. Rating again
// replaces the caller's previous rating for the provider.
func (h *RatingHandler) RateProvider(w http.ResponseWriter, r *http.Request) {
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

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.ratingService.Rate(r.Context(), session, providerID, req.Stars); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"provider_id": providerID,
		"stars":       req.Stars,
	})
}

// ListRatings handles GET /api/providers/{id}/ratings
func (h *RatingHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	providerID := r.PathValue("id")
	if providerID == "" {
		respondWithError(w, http.StatusBadRequest, "provider ID is required")
		return
	}

	ratings, err := h.ratingService.ListByProvider(r.Context(), providerID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ratings": ratings,
		"count":   len(ratings),
	})
}
