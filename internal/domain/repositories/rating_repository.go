package repositories

import (
	"context"

	"github.com/prestataires/backend/internal/domain/entities"
)

// RatingRepository defines the interface for rating persistence. Uniqueness
// per (provider, user) is enforced by the storage layer's conflict key.
type RatingRepository interface {
	// Upsert inserts or replaces the user's rating for a provider
	Upsert(ctx context.Context, rating *entities.Rating) error

	// ListByProvider retrieves all ratings for a provider
	ListByProvider(ctx context.Context, providerID string) ([]entities.Rating, error)
}
