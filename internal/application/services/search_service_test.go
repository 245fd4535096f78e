package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/pkg/geo"
)

func coords(lat, lon float64) *geo.Coordinates {
	return &geo.Coordinates{Latitude: lat, Longitude: lon}
}

func testProviders() []*entities.Provider {
	return []*entities.Provider{
		{
			ID:         "p1",
			FirstName:  "Awa",
			LastName:   "Diallo",
			City:       "Paris",
			Department: "75 - Paris",
			Categories: []string{"Coiffeur"},
			Location:   coords(48.8566, 2.3522),
			Ratings:    []entities.Rating{{Stars: 5}, {Stars: 4}},
		},
		{
			ID:         "p2",
			FirstName:  "Karim",
			LastName:   "Benali",
			City:       "Saint-Denis",
			Categories: []string{"Mécanicien"},
			Location:   coords(48.9362, 2.3574),
		},
		{
			ID:         "p3",
			FirstName:  "Léa",
			LastName:   "Moreau",
			City:       "Créteil",
			Categories: []string{"Coiffeur", "Esthéticienne"},
			// No declared coordinates.
		},
	}
}

func TestDeriveResults_EmptyFilterIsIdentity(t *testing.T) {
	svc := NewSearchService(DistanceSourceProvider)
	provs := testProviders()

	results := svc.DeriveResults(provs, SearchFilter{})

	require.Len(t, results, len(provs))
	for i, r := range results {
		assert.Same(t, provs[i], r.Provider)
		assert.Nil(t, r.DistanceKm)
	}
}

func TestDeriveResults_CategoryFilter(t *testing.T) {
	svc := NewSearchService(DistanceSourceProvider)

	results := svc.DeriveResults(testProviders(), SearchFilter{Category: "Coiffeur"})
	require.Len(t, results, 2)
	assert.Equal(t, "p1", results[0].Provider.ID)
	assert.Equal(t, "p3", results[1].Provider.ID)

	assert.Empty(t, svc.DeriveResults(testProviders(), SearchFilter{Category: "Plombier"}))
}

func TestDeriveResults_LocalityFilterIsExact(t *testing.T) {
	svc := NewSearchService(DistanceSourceProvider)

	results := svc.DeriveResults(testProviders(), SearchFilter{Locality: "Paris"})
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].Provider.ID)

	assert.Empty(t, svc.DeriveResults(testProviders(), SearchFilter{Locality: "paris"}))
}

func TestDeriveResults_RegionFilter(t *testing.T) {
	svc := NewSearchService(DistanceSourceProvider)

	// p2 (Saint-Denis) belongs via the locality index; p1 declares 75.
	results := svc.DeriveResults(testProviders(), SearchFilter{Region: "93 - Seine-Saint-Denis"})
	require.Len(t, results, 1)
	assert.Equal(t, "p2", results[0].Provider.ID)

	// Paris is not a member of 93: combining with a mismatched locality is
	// an empty result, not an error.
	results = svc.DeriveResults(testProviders(), SearchFilter{
		Region:   "93 - Seine-Saint-Denis",
		Locality: "Paris",
	})
	assert.Empty(t, results)
}

func TestDeriveResults_UnknownRegionYieldsEmpty(t *testing.T) {
	svc := NewSearchService(DistanceSourceProvider)
	assert.Empty(t, svc.DeriveResults(testProviders(), SearchFilter{Region: "13 - Bouches-du-Rhône"}))
}

func TestDeriveResults_DistanceModeSortsAndAnnotates(t *testing.T) {
	svc := NewSearchService(DistanceSourceProvider)

	// User in central Paris, radius 10km: p1 at ~0km and p2 at ~8.85km both
	// fit, nearest first. p3 has no coordinates and is excluded.
	results := svc.DeriveResults(testProviders(), SearchFilter{
		Position: coords(48.8566, 2.3522),
		RadiusKm: 10,
	})

	require.Len(t, results, 2)
	assert.Equal(t, "p1", results[0].Provider.ID)
	assert.Equal(t, "p2", results[1].Provider.ID)

	require.NotNil(t, results[0].DistanceKm)
	require.NotNil(t, results[1].DistanceKm)
	assert.InDelta(t, 0.0, *results[0].DistanceKm, 0.01)
	assert.InDelta(t, 8.85, *results[1].DistanceKm, 0.1)
}

func TestDeriveResults_RadiusBound(t *testing.T) {
	svc := NewSearchService(DistanceSourceProvider)

	results := svc.DeriveResults(testProviders(), SearchFilter{
		Position: coords(48.8566, 2.3522),
		RadiusKm: 5,
	})

	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].Provider.ID)
	for _, r := range results {
		assert.LessOrEqual(t, *r.DistanceKm, 5.0)
	}
}

func TestDeriveResults_MissingCoordinatesExcludedUnderAnyRadius(t *testing.T) {
	svc := NewSearchService(DistanceSourceProvider)

	results := svc.DeriveResults(testProviders(), SearchFilter{
		Position: coords(48.7904, 2.4556), // Créteil city center, where p3 lives
		RadiusKm: 50,
	})

	for _, r := range results {
		assert.NotEqual(t, "p3", r.Provider.ID)
	}
}

func TestDeriveResults_LocalityCenterSource(t *testing.T) {
	svc := NewSearchService(DistanceSourceLocality)

	// With locality centers, p3 becomes reachable through Créteil's
	// reference point even though it declares no coordinates.
	results := svc.DeriveResults(testProviders(), SearchFilter{
		Position: coords(48.7904, 2.4556),
		RadiusKm: 5,
	})

	require.Len(t, results, 1)
	assert.Equal(t, "p3", results[0].Provider.ID)
	assert.InDelta(t, 0.0, *results[0].DistanceKm, 0.01)
}

func TestDeriveResults_LocalityCenterUnknownCityExcluded(t *testing.T) {
	svc := NewSearchService(DistanceSourceLocality)
	provs := []*entities.Provider{{ID: "px", City: "Lyon", Location: coords(45.76, 4.83)}}

	results := svc.DeriveResults(provs, SearchFilter{
		Position: coords(45.76, 4.83),
		RadiusKm: 50,
	})

	assert.Empty(t, results)
}

func TestDeriveResults_DefaultRadiusApplies(t *testing.T) {
	svc := NewSearchService(DistanceSourceProvider)

	// RadiusKm left at zero: default 10km keeps p2 at ~8.85km.
	results := svc.DeriveResults(testProviders(), SearchFilter{
		Position: coords(48.8566, 2.3522),
	})

	require.Len(t, results, 2)
}

func TestDeriveResults_StableOrderOnDistanceTies(t *testing.T) {
	svc := NewSearchService(DistanceSourceProvider)
	same := coords(48.8566, 2.3522)
	provs := []*entities.Provider{
		{ID: "newer", City: "Paris", Location: same},
		{ID: "older", City: "Paris", Location: same},
	}

	results := svc.DeriveResults(provs, SearchFilter{Position: same, RadiusKm: 5})

	require.Len(t, results, 2)
	assert.Equal(t, "newer", results[0].Provider.ID)
	assert.Equal(t, "older", results[1].Provider.ID)
}

func TestDeriveResults_Idempotent(t *testing.T) {
	svc := NewSearchService(DistanceSourceProvider)
	provs := testProviders()
	filter := SearchFilter{
		Category: "Coiffeur",
		Position: coords(48.8566, 2.3522),
		RadiusKm: 20,
	}

	first := svc.DeriveResults(provs, filter)
	second := svc.DeriveResults(provs, filter)

	assert.Equal(t, first, second)

	// Input collection untouched: no annotation leaks between runs.
	for _, p := range provs {
		assert.NotNil(t, p)
	}
	assert.Equal(t, "p1", provs[0].ID)
	assert.Len(t, provs, 3)
}

func TestDeriveResults_RatingAggregates(t *testing.T) {
	svc := NewSearchService(DistanceSourceProvider)

	results := svc.DeriveResults(testProviders(), SearchFilter{})

	require.Len(t, results, 3)
	assert.InDelta(t, 4.5, results[0].AverageStars, 1e-9)
	assert.Equal(t, 2, results[0].RatingCount)
	assert.Zero(t, results[1].AverageStars)
	assert.Zero(t, results[1].RatingCount)
}

func TestNewSearchService_UnknownSourceFallsBack(t *testing.T) {
	svc := NewSearchService(DistanceSource("gps"))
	assert.Equal(t, DistanceSourceProvider, svc.DistanceSource())
}
