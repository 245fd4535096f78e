package repositories

import (
	"context"

	"github.com/prestataires/backend/internal/domain/entities"
)

// ProviderRepository defines the interface for provider data operations.
type ProviderRepository interface {
	// Create creates a new provider profile with its initial services
	Create(ctx context.Context, provider *entities.Provider) error

	// GetByID retrieves a provider by ID, with nested services and ratings
	GetByID(ctx context.Context, id string) (*entities.Provider, error)

	// Update updates a provider profile
	Update(ctx context.Context, provider *entities.Provider) error

	// Delete deletes a provider
	Delete(ctx context.Context, id string) error

	// List retrieves providers ordered by creation time descending, with
	// nested services and ratings
	List(ctx context.Context, filter ProviderFilter) ([]*entities.Provider, error)

	// ReplaceServices replaces the provider's full service list
	ReplaceServices(ctx context.Context, providerID string, services []entities.Service) error
}

// ProviderIndexRepository defines the interface for the free-text provider
// index (e.g. Typesense).
type ProviderIndexRepository interface {
	// Index indexes a provider
	Index(ctx context.Context, provider *entities.Provider) error

	// Delete removes a provider from the index
	Delete(ctx context.Context, id string) error

	// Search searches indexed providers by free text
	Search(ctx context.Context, query string, limit int) ([]*entities.Provider, error)
}

// ProviderFilter defines filters for listing providers. All fields are
// optional; the zero value lists everything.
type ProviderFilter struct {
	Category   string
	City       string
	Department string
	Limit      int
	Offset     int
}
