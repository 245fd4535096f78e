package entities

// ProviderSearchResult is the search payload returned to the UI: the
// provider plus its display aggregates. DistanceKm is only set when the
// search ran with a live position; it is recomputed on every derivation and
// never persisted.
type ProviderSearchResult struct {
	Provider     *Provider `json:"provider"`
	AverageStars float64   `json:"average_stars"`
	RatingCount  int       `json:"rating_count"`
	DistanceKm   *float64  `json:"distance_km,omitempty"`
}
