package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/domain/providers"
	"github.com/prestataires/backend/internal/domain/repositories"
	apperrors "github.com/prestataires/backend/pkg/errors"
)

// ProviderService handles business logic for provider profiles: creation,
// owner-scoped edits, service replacement, indexing and event publication.
type ProviderService struct {
	repo     repositories.ProviderRepository
	index    repositories.ProviderIndexRepository
	eventBus providers.EventBus
}

// NewProviderService creates a new provider service. Index and event bus are
// optional; writes succeed without them.
func NewProviderService(
	repo repositories.ProviderRepository,
	index repositories.ProviderIndexRepository,
	eventBus providers.EventBus,
) *ProviderService {
	return &ProviderService{
		repo:     repo,
		index:    index,
		eventBus: eventBus,
	}
}

// Create creates a provider profile owned by the session user. Incomplete
// service rows are dropped; at least one complete service is required.
func (s *ProviderService) Create(ctx context.Context, session *entities.Session, provider *entities.Provider) error {
	if session == nil {
		return apperrors.NewUnauthorizedError("sign in to create a provider profile")
	}
	if provider.FirstName == "" || provider.LastName == "" || provider.City == "" || provider.Phone == "" {
		return apperrors.NewValidationError("first name, last name, city and phone are required")
	}

	provider.Services = completeServices(provider.Services)
	if len(provider.Services) == 0 {
		return apperrors.NewValidationError("at least one service with a name and a positive price is required")
	}

	if provider.ID == "" {
		provider.ID = uuid.New().String()
	}
	userID := session.UserID
	provider.UserID = &userID
	now := time.Now().UTC()
	provider.CreatedAt = now
	provider.UpdatedAt = now
	for i := range provider.Services {
		if provider.Services[i].ID == "" {
			provider.Services[i].ID = uuid.New().String()
		}
		provider.Services[i].ProviderID = provider.ID
	}

	if err := s.repo.Create(ctx, provider); err != nil {
		return err
	}

	s.reindex(ctx, provider)
	s.publish(ctx, provider.ID, entities.ProviderEventTypeCreated)
	return nil
}

// Update updates a profile and replaces its full service list. Only the
// owning user may edit.
func (s *ProviderService) Update(ctx context.Context, session *entities.Session, provider *entities.Provider) error {
	if session == nil {
		return apperrors.NewUnauthorizedError("sign in to edit a provider profile")
	}

	existing, err := s.repo.GetByID(ctx, provider.ID)
	if err != nil {
		return err
	}
	if existing.UserID == nil || *existing.UserID != session.UserID {
		return apperrors.NewUnauthorizedError("only the profile owner can edit it")
	}

	provider.UserID = existing.UserID
	provider.CreatedAt = existing.CreatedAt
	provider.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, provider); err != nil {
		return err
	}

	provider.Services = completeServices(provider.Services)
	for i := range provider.Services {
		if provider.Services[i].ID == "" {
			provider.Services[i].ID = uuid.New().String()
		}
		provider.Services[i].ProviderID = provider.ID
	}
	if err := s.repo.ReplaceServices(ctx, provider.ID, provider.Services); err != nil {
		return err
	}

	s.reindex(ctx, provider)
	s.publish(ctx, provider.ID, entities.ProviderEventTypeUpdated)
	return nil
}

// Delete removes a profile. Only the owning user may delete.
func (s *ProviderService) Delete(ctx context.Context, session *entities.Session, id string) error {
	if session == nil {
		return apperrors.NewUnauthorizedError("sign in to delete a provider profile")
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID == nil || *existing.UserID != session.UserID {
		return apperrors.NewUnauthorizedError("only the profile owner can delete it")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("provider_id", id).Msg("failed to remove provider from index")
		}
	}
	s.publish(ctx, id, entities.ProviderEventTypeDeleted)
	return nil
}

// GetByID retrieves a provider with nested services and ratings.
func (s *ProviderService) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves providers ordered by creation time descending.
func (s *ProviderService) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	return s.repo.List(ctx, filter)
}

// SearchText runs a free-text search through the index when available,
// falling back to a plain list.
func (s *ProviderService) SearchText(ctx context.Context, query string, limit int) ([]*entities.Provider, error) {
	if s.index != nil && query != "" {
		return s.index.Search(ctx, query, limit)
	}
	return s.repo.List(ctx, repositories.ProviderFilter{Limit: limit})
}

// reindex pushes the provider to the search index, best effort. Index lag is
// acceptable; writes never fail on it.
func (s *ProviderService) reindex(ctx context.Context, provider *entities.Provider) {
	if s.index == nil {
		return
	}
	if err := s.index.Index(ctx, provider); err != nil {
		log.Warn().Err(err).Str("provider_id", provider.ID).Msg("failed to index provider")
	}
}

func (s *ProviderService) publish(ctx context.Context, providerID string, eventType entities.ProviderEventType) {
	if s.eventBus == nil {
		return
	}
	event := entities.NewProviderEvent(providerID, eventType)
	if err := s.eventBus.Publish(ctx, providers.EventChannelProviderUpdates, event); err != nil {
		log.Warn().Err(err).Str("provider_id", providerID).Msg("failed to publish provider event")
	}
}

// completeServices drops rows the editing form leaves half-filled.
func completeServices(services []entities.Service) []entities.Service {
	clean := make([]entities.Service, 0, len(services))
	for _, svc := range services {
		if svc.IsComplete() {
			clean = append(clean, svc)
		}
	}
	return clean
}
