package geolocation

import (
	"context"

	"github.com/prestataires/backend/internal/domain/providers"
	"github.com/prestataires/backend/pkg/geo"
)

// MockGeolocationProvider implements a mock geolocation provider for testing
type MockGeolocationProvider struct {
	// GeocodeFn and ReverseGeocodeFn override the defaults when set
	GeocodeFn        func(ctx context.Context, locality string) (*geo.Coordinates, error)
	ReverseGeocodeFn func(ctx context.Context, position geo.Coordinates) (string, error)
}

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() providers.GeolocationProvider {
	return &MockGeolocationProvider{}
}

// Geocode converts a locality name to coordinates (mock implementation)
func (m *MockGeolocationProvider) Geocode(ctx context.Context, locality string) (*geo.Coordinates, error) {
	if m.GeocodeFn != nil {
		return m.GeocodeFn(ctx, locality)
	}
	// Notre-Dame, close enough for tests
	return &geo.Coordinates{Latitude: 48.8530, Longitude: 2.3499}, nil
}

// ReverseGeocode converts coordinates to a locality name (mock implementation)
func (m *MockGeolocationProvider) ReverseGeocode(ctx context.Context, position geo.Coordinates) (string, error) {
	if m.ReverseGeocodeFn != nil {
		return m.ReverseGeocodeFn(ctx, position)
	}
	return "Paris", nil
}
