package localities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalitiesOf_KnownRegion(t *testing.T) {
	cities := LocalitiesOf("94 - Val-de-Marne")
	assert.Equal(t, []string{"Vitry-sur-Seine", "Ivry-sur-Seine", "Champigny-sur-Marne", "Créteil"}, cities)
}

func TestLocalitiesOf_UnknownRegion(t *testing.T) {
	assert.Empty(t, LocalitiesOf("2A - Corse-du-Sud"))
	assert.Empty(t, LocalitiesOf(""))
}

func TestCoordinateOf_UnknownLocality(t *testing.T) {
	_, ok := CoordinateOf("Marseille")
	assert.False(t, ok)
}

func TestEveryRegionLocalityHasCoordinates(t *testing.T) {
	for _, region := range Regions() {
		for _, city := range LocalitiesOf(region) {
			coords, ok := CoordinateOf(city)
			require.True(t, ok, "locality %q in region %q has no coordinate entry", city, region)
			assert.NotZero(t, coords.Latitude)
			assert.NotZero(t, coords.Longitude)
		}
	}
}

func TestLookupsReturnCopies(t *testing.T) {
	regions := Regions()
	regions[0] = "mutated"
	assert.Equal(t, "75 - Paris", Regions()[0])

	cities := LocalitiesOf("75 - Paris")
	cities[0] = "mutated"
	assert.Equal(t, "Paris", LocalitiesOf("75 - Paris")[0])
}
