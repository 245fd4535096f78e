package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/domain/providers"
	"github.com/prestataires/backend/internal/domain/repositories"
	apperrors "github.com/prestataires/backend/pkg/errors"
)

// RatingService handles rating submissions. One rating per (provider, user)
// pair; resubmitting replaces the previous score.
type RatingService struct {
	ratings  repositories.RatingRepository
	provs    repositories.ProviderRepository
	eventBus providers.EventBus
}

// NewRatingService creates a new rating service.
func NewRatingService(
	ratings repositories.RatingRepository,
	provs repositories.ProviderRepository,
	eventBus providers.EventBus,
) *RatingService {
	return &RatingService{
		ratings:  ratings,
		provs:    provs,
		eventBus: eventBus,
	}
}

// Rate records the session user's star score for a provider.
func (s *RatingService) Rate(ctx context.Context, session *entities.Session, providerID string, stars int) error {
	if session == nil {
		return apperrors.NewUnauthorizedError("sign in to rate a provider")
	}
	if stars < 1 || stars > 5 {
		return apperrors.NewValidationError("stars must be between 1 and 5")
	}

	// Ensure the target exists before writing; returns NOT_FOUND otherwise.
	if _, err := s.provs.GetByID(ctx, providerID); err != nil {
		return err
	}

	rating := &entities.Rating{
		ProviderID: providerID,
		UserID:     session.UserID,
		Stars:      stars,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return err
	}

	if s.eventBus != nil {
		event := entities.NewProviderEvent(providerID, entities.ProviderEventTypeRatingUpsert)
		if err := s.eventBus.Publish(ctx, providers.EventChannelProviderUpdates, event); err != nil {
			log.Warn().Err(err).Str("provider_id", providerID).Msg("failed to publish rating event")
		}
	}
	return nil
}

// ListByProvider retrieves all ratings for a provider.
func (s *RatingService) ListByProvider(ctx context.Context, providerID string) ([]entities.Rating, error) {
	return s.ratings.ListByProvider(ctx, providerID)
}
