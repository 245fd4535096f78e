package providers

import (
	"context"

	"github.com/prestataires/backend/pkg/geo"
)

// GeolocationProvider resolves locality names to reference coordinates.
// The user's own live position is never resolved server-side; browsers send
// it with the search request, or not at all.
type GeolocationProvider interface {
	// Geocode converts a locality name to coordinates
	Geocode(ctx context.Context, locality string) (*geo.Coordinates, error)

	// ReverseGeocode converts coordinates to the nearest known locality
	ReverseGeocode(ctx context.Context, position geo.Coordinates) (string, error)
}
