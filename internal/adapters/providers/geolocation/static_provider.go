package geolocation

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/prestataires/backend/internal/domain/localities"
	"github.com/prestataires/backend/internal/domain/providers"
	apperrors "github.com/prestataires/backend/pkg/errors"
	"github.com/prestataires/backend/pkg/geo"
)

// StaticGeolocationProvider resolves localities against the built-in
// locality index. It needs no network and covers exactly the localities the
// marketplace serves.
type StaticGeolocationProvider struct{}

// NewStaticGeolocationProvider creates a new static geolocation provider
func NewStaticGeolocationProvider() providers.GeolocationProvider {
	return &StaticGeolocationProvider{}
}

// Geocode resolves a locality name to its reference center.
func (p *StaticGeolocationProvider) Geocode(ctx context.Context, locality string) (*geo.Coordinates, error) {
	name := strings.TrimSpace(locality)
	if name == "" {
		return nil, apperrors.NewValidationError("locality is required")
	}

	if coords, ok := localities.CoordinateOf(name); ok {
		return &coords, nil
	}
	return nil, apperrors.NewNotFoundError(fmt.Sprintf("unknown locality %q", name))
}

// ReverseGeocode returns the known locality whose center is closest to the
// given position.
func (p *StaticGeolocationProvider) ReverseGeocode(ctx context.Context, position geo.Coordinates) (string, error) {
	nearest := ""
	nearestKm := math.Inf(1)
	for _, region := range localities.Regions() {
		for _, locality := range localities.LocalitiesOf(region) {
			coords, ok := localities.CoordinateOf(locality)
			if !ok {
				continue
			}
			if d := geo.DistanceKm(position, coords); d < nearestKm {
				nearest = locality
				nearestKm = d
			}
		}
	}
	if nearest == "" {
		return "", apperrors.NewNotFoundError("no known locality near position")
	}
	return nearest, nil
}
