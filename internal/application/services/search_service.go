package services

import (
	"math"
	"sort"

	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/domain/localities"
	"github.com/prestataires/backend/pkg/geo"
)

// DistanceSource selects where a provider's position comes from during
// distance matching.
type DistanceSource string

const (
	// DistanceSourceProvider uses the coordinates the provider declared on
	// their profile. Providers without coordinates are unreachable in
	// distance mode.
	DistanceSourceProvider DistanceSource = "provider"

	// DistanceSourceLocality uses the reference coordinates of the
	// provider's city, so no provider-specific position is ever needed.
	DistanceSourceLocality DistanceSource = "locality"
)

// RadiusChoicesKm are the radii offered in the search UI.
var RadiusChoicesKm = []float64{5, 10, 20, 50}

// DefaultRadiusKm applies when a position is set without an explicit radius.
const DefaultRadiusKm = 10.0

// SearchFilter is the transient filter state driving a search derivation.
// All fields are optional; the zero value matches everything.
type SearchFilter struct {
	Category string
	Locality string
	Region   string

	// Position is the user's live position. Nil means distance matching is
	// inactive, whether geolocation was denied, unavailable or simply not
	// requested.
	Position *geo.Coordinates
	RadiusKm float64
}

// EffectiveRadiusKm returns the radius to apply in distance mode.
func (f SearchFilter) EffectiveRadiusKm() float64 {
	if f.RadiusKm <= 0 {
		return DefaultRadiusKm
	}
	return f.RadiusKm
}

// SearchService derives the visible result list from the raw provider
// collection and the current filter state. Derivation is pure: it never
// mutates its inputs and recomputing with unchanged inputs yields an
// identical list.
type SearchService struct {
	source DistanceSource
}

// NewSearchService creates a search service with the given distance source.
// Unrecognized sources fall back to provider-declared coordinates.
func NewSearchService(source DistanceSource) *SearchService {
	if source != DistanceSourceLocality {
		source = DistanceSourceProvider
	}
	return &SearchService{source: source}
}

// DistanceSource returns the configured distance source.
func (s *SearchService) DistanceSource() DistanceSource {
	return s.source
}

// DeriveResults runs the search pipeline: region membership, exact locality,
// category containment, then distance annotation, radius cut and ascending
// sort when a live position is present. Without a position the incoming
// order (creation time descending) is preserved. An empty result is a
// normal outcome, not an error.
func (s *SearchService) DeriveResults(provs []*entities.Provider, filter SearchFilter) []entities.ProviderSearchResult {
	results := make([]entities.ProviderSearchResult, 0, len(provs))

	for _, p := range provs {
		if p == nil {
			continue
		}
		if filter.Region != "" && !s.matchesRegion(p, filter.Region) {
			continue
		}
		if filter.Locality != "" && p.City != filter.Locality {
			continue
		}
		if filter.Category != "" && !p.HasCategory(filter.Category) {
			continue
		}
		results = append(results, entities.ProviderSearchResult{
			Provider:     p,
			AverageStars: p.AverageRating(),
			RatingCount:  len(p.Ratings),
		})
	}

	if filter.Position == nil {
		return results
	}

	radius := filter.EffectiveRadiusKm()
	within := results[:0]
	for i := range results {
		d := s.resolveDistance(results[i].Provider, *filter.Position)
		if d > radius {
			continue
		}
		dist := d
		results[i].DistanceKm = &dist
		within = append(within, results[i])
	}
	results = within

	// Stable: equal distances keep their creation-time order.
	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].DistanceKm < *results[j].DistanceKm
	})

	return results
}

// matchesRegion passes providers that either declare the region on their
// profile or whose city belongs to the region's locality list. An unknown
// region matches nothing.
func (s *SearchService) matchesRegion(p *entities.Provider, region string) bool {
	if p.Department != "" && p.Department == region {
		return true
	}
	for _, city := range localities.LocalitiesOf(region) {
		if p.City == city {
			return true
		}
	}
	return false
}

// resolveDistance returns the distance from the user's position to the
// provider per the configured source, or +Inf when no position can be
// resolved for the provider.
func (s *SearchService) resolveDistance(p *entities.Provider, position geo.Coordinates) float64 {
	switch s.source {
	case DistanceSourceLocality:
		center, ok := localities.CoordinateOf(p.City)
		if !ok {
			return math.Inf(1)
		}
		return geo.DistanceKm(position, center)
	default:
		if p.Location == nil {
			return math.Inf(1)
		}
		return geo.DistanceKm(position, *p.Location)
	}
}
