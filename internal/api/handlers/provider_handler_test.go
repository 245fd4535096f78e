package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestataires/backend/internal/api/handlers"
	"github.com/prestataires/backend/internal/application/services"
	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/domain/repositories"
	apperrors "github.com/prestataires/backend/pkg/errors"
	"github.com/prestataires/backend/pkg/geo"
)

type stubProviderRepo struct {
	provs []*entities.Provider
}

func (s *stubProviderRepo) Create(ctx context.Context, p *entities.Provider) error {
	s.provs = append([]*entities.Provider{p}, s.provs...)
	return nil
}

func (s *stubProviderRepo) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	for _, p := range s.provs {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider with id %s not found", id))
}

func (s *stubProviderRepo) Update(ctx context.Context, p *entities.Provider) error {
	for i, existing := range s.provs {
		if existing.ID == p.ID {
			s.provs[i] = p
			return nil
		}
	}
	return apperrors.NewNotFoundError("not found")
}

func (s *stubProviderRepo) Delete(ctx context.Context, id string) error {
	for i, p := range s.provs {
		if p.ID == id {
			s.provs = append(s.provs[:i], s.provs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *stubProviderRepo) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	return s.provs, nil
}

func (s *stubProviderRepo) ReplaceServices(ctx context.Context, providerID string, svcs []entities.Service) error {
	for _, p := range s.provs {
		if p.ID == providerID {
			p.Services = svcs
		}
	}
	return nil
}

type stubSessions struct{}

func (stubSessions) Current(ctx context.Context, token string) (*entities.Session, error) {
	if token != "valid-token" {
		return nil, apperrors.NewUnauthorizedError("invalid or expired session token")
	}
	return &entities.Session{UserID: "user-1", Email: "user@example.com"}, nil
}

func paris(id string) *entities.Provider {
	return &entities.Provider{
		ID:         id,
		FirstName:  "Awa",
		LastName:   "Diallo",
		Phone:      "0600000000",
		City:       "Paris",
		Department: "75 - Paris",
		Categories: []string{"Coiffeur"},
		Location:   &geo.Coordinates{Latitude: 48.8566, Longitude: 2.3522},
		Services:   []entities.Service{{ID: "s1", ProviderID: id, Name: "Coupe", Price: 25}},
	}
}

func newProviderHandler(repo *stubProviderRepo) *handlers.ProviderHandler {
	providerService := services.NewProviderService(repo, nil, nil)
	searchService := services.NewSearchService(services.DistanceSourceProvider)
	return handlers.NewProviderHandler(providerService, searchService, stubSessions{}, nil)
}

func TestProviderHandler_GetProvider_NotFound(t *testing.T) {
	handler := newProviderHandler(&stubProviderRepo{})

	req := httptest.NewRequest("GET", "/api/providers/missing", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handler.GetProvider(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProviderHandler_SearchWithoutPosition(t *testing.T) {
	repo := &stubProviderRepo{provs: []*entities.Provider{paris("p1"), paris("p2")}}
	handler := newProviderHandler(repo)

	req := httptest.NewRequest("GET", "/api/providers/search?category=Coiffeur", nil)
	w := httptest.NewRecorder()

	handler.SearchProviders(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Results []entities.ProviderSearchResult `json:"results"`
		Count   int                             `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 2, response.Count)
	for _, result := range response.Results {
		assert.Nil(t, result.DistanceKm)
	}
}

func TestProviderHandler_SearchWithPosition(t *testing.T) {
	far := paris("p2")
	far.City = "Créteil"
	far.Department = "94 - Val-de-Marne"
	far.Location = &geo.Coordinates{Latitude: 48.7904, Longitude: 2.4556}

	repo := &stubProviderRepo{provs: []*entities.Provider{far, paris("p1")}}
	handler := newProviderHandler(repo)

	req := httptest.NewRequest("GET", "/api/providers/search?lat=48.8566&lon=2.3522&radius_km=5", nil)
	w := httptest.NewRecorder()

	handler.SearchProviders(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Results []entities.ProviderSearchResult `json:"results"`
		Count   int                             `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	// Créteil is ~10 km out, beyond the 5 km radius
	require.Equal(t, 1, response.Count)
	assert.Equal(t, "p1", response.Results[0].Provider.ID)
	require.NotNil(t, response.Results[0].DistanceKm)
	assert.InDelta(t, 0, *response.Results[0].DistanceKm, 0.01)
}

func TestProviderHandler_SearchLatWithoutLon(t *testing.T) {
	handler := newProviderHandler(&stubProviderRepo{})

	req := httptest.NewRequest("GET", "/api/providers/search?lat=48.85", nil)
	w := httptest.NewRecorder()

	handler.SearchProviders(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProviderHandler_SearchEmptyResultIsOK(t *testing.T) {
	repo := &stubProviderRepo{provs: []*entities.Provider{paris("p1")}}
	handler := newProviderHandler(repo)

	req := httptest.NewRequest("GET", "/api/providers/search?category=Plombier", nil)
	w := httptest.NewRecorder()

	handler.SearchProviders(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, 0, response.Count)
}

func TestProviderHandler_CreateRequiresSession(t *testing.T) {
	handler := newProviderHandler(&stubProviderRepo{})

	body := `{"first_name":"Awa","last_name":"Diallo","phone":"0600000000","city":"Paris","services":[{"name":"Coupe","price":25}]}`
	req := httptest.NewRequest("POST", "/api/providers", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.CreateProvider(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProviderHandler_CreateProvider(t *testing.T) {
	repo := &stubProviderRepo{}
	handler := newProviderHandler(repo)

	body := `{"first_name":"Awa","last_name":"Diallo","phone":"0600000000","city":"Paris","categories":["Coiffeur"],"services":[{"name":"Coupe","price":25}]}`
	req := httptest.NewRequest("POST", "/api/providers", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.CreateProvider(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, repo.provs, 1)
	require.NotNil(t, repo.provs[0].UserID)
	assert.Equal(t, "user-1", *repo.provs[0].UserID)
}

func TestProviderHandler_UpdateRejectsOtherOwner(t *testing.T) {
	p := paris("p1")
	other := "someone-else"
	p.UserID = &other
	repo := &stubProviderRepo{provs: []*entities.Provider{p}}
	handler := newProviderHandler(repo)

	body := `{"first_name":"Awa","last_name":"Diallo","phone":"0600000000","city":"Paris","services":[{"name":"Coupe","price":30}]}`
	req := httptest.NewRequest("PATCH", "/api/providers/p1", strings.NewReader(body))
	req.SetPathValue("id", "p1")
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()

	handler.UpdateProvider(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
