package geolocation

import (
	"github.com/prestataires/backend/internal/domain/providers"
	"github.com/prestataires/backend/pkg/config"
)

// NewGeolocationProvider creates the geocoder selected by configuration.
// Unknown values fall back to the static provider, which always works.
func NewGeolocationProvider(cfg config.SearchConfig, cache providers.CacheProvider) providers.GeolocationProvider {
	switch cfg.GeolocationProvider {
	case "nominatim":
		return NewNominatimProvider(cfg.NominatimURL, cache)
	case "mock":
		return NewMockGeolocationProvider()
	default:
		return NewStaticGeolocationProvider()
	}
}
