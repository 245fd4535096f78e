// Package localities holds the static region and city reference tables used
// for department filtering and locality-center distance matching. The tables
// are fixed at process start and never mutated.
package localities

import "github.com/prestataires/backend/pkg/geo"

// regionOrder preserves the display order of departments in selection lists.
var regionOrder = []string{
	"75 - Paris",
	"93 - Seine-Saint-Denis",
	"94 - Val-de-Marne",
}

var regionCities = map[string][]string{
	"75 - Paris":             {"Paris"},
	"93 - Seine-Saint-Denis": {"Montreuil", "Saint-Denis"},
	"94 - Val-de-Marne":      {"Vitry-sur-Seine", "Ivry-sur-Seine", "Champigny-sur-Marne", "Créteil"},
}

// cityCenters maps every known locality to its reference coordinates, used
// when distance matching runs against city centers instead of
// provider-declared positions.
var cityCenters = map[string]geo.Coordinates{
	"Paris":               {Latitude: 48.8566, Longitude: 2.3522},
	"Montreuil":           {Latitude: 48.8638, Longitude: 2.4485},
	"Saint-Denis":         {Latitude: 48.9362, Longitude: 2.3574},
	"Vitry-sur-Seine":     {Latitude: 48.7875, Longitude: 2.3928},
	"Ivry-sur-Seine":      {Latitude: 48.8130, Longitude: 2.3840},
	"Champigny-sur-Marne": {Latitude: 48.8171, Longitude: 2.5142},
	"Créteil":             {Latitude: 48.7904, Longitude: 2.4556},
}

// Regions returns the known region names in display order.
func Regions() []string {
	out := make([]string, len(regionOrder))
	copy(out, regionOrder)
	return out
}

// LocalitiesOf returns the localities belonging to a region, in display
// order. Unknown or empty regions yield an empty slice.
func LocalitiesOf(region string) []string {
	cities, ok := regionCities[region]
	if !ok {
		return []string{}
	}
	out := make([]string, len(cities))
	copy(out, cities)
	return out
}

// CoordinateOf returns the reference coordinates of a locality. The second
// return value is false when the locality is unknown.
func CoordinateOf(locality string) (geo.Coordinates, bool) {
	coords, ok := cityCenters[locality]
	return coords, ok
}
