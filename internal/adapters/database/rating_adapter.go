package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/domain/repositories"
	"github.com/prestataires/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/prestataires/backend/pkg/errors"
)

// RatingAdapter implements the RatingRepository interface over Postgres.
type RatingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRatingAdapter creates a new rating adapter.
func NewRatingAdapter(client *postgres.Client) repositories.RatingRepository {
	return &RatingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert inserts a rating or replaces the stars of an existing one. A user
// keeps a single rating per provider.
func (a *RatingAdapter) Upsert(ctx context.Context, rating *entities.Rating) error {
	query, args, err := a.db.Insert("ratings").
		Rows(goqu.Record{
			"provider_id": rating.ProviderID,
			"user_id":     rating.UserID,
			"stars":       rating.Stars,
			"created_at":  rating.CreatedAt,
		}).
		OnConflict(goqu.DoUpdate("provider_id, user_id", goqu.Record{
			"stars":      rating.Stars,
			"created_at": rating.CreatedAt,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build rating upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to upsert rating", err)
	}
	return nil
}

// ListByProvider retrieves all ratings for a provider.
func (a *RatingAdapter) ListByProvider(ctx context.Context, providerID string) ([]entities.Rating, error) {
	query, args, err := a.db.From("ratings").
		Select("provider_id", "user_id", "stars", "created_at").
		Where(goqu.C("provider_id").Eq(providerID)).
		Order(goqu.C("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build rating list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list ratings", err)
	}
	defer rows.Close()

	ratings := []entities.Rating{}
	for rows.Next() {
		var rating entities.Rating
		if err := rows.Scan(&rating.ProviderID, &rating.UserID, &rating.Stars, &rating.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan rating row", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read rating rows", err)
	}
	return ratings, nil
}
