package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/domain/providers"
	"github.com/prestataires/backend/internal/domain/repositories"
)

// CachedProviderAdapter wraps a ProviderRepository with caching
type CachedProviderAdapter struct {
	adapter repositories.ProviderRepository
	cache   providers.CacheProvider
}

// NewCachedProviderAdapter creates a new cached provider adapter
func NewCachedProviderAdapter(adapter repositories.ProviderRepository, cache providers.CacheProvider) repositories.ProviderRepository {
	return &CachedProviderAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	providerByIDTTL  = 300 // 5 minutes for single provider
	providersListTTL = 180 // 3 minutes for lists
)

func providerCacheKey(id string) string {
	return fmt.Sprintf("provider:%s", id)
}

func providersListCacheKey(filter repositories.ProviderFilter) string {
	return fmt.Sprintf("providers:list:%s:%s:%s:%d:%d",
		filter.Category, filter.City, filter.Department, filter.Limit, filter.Offset)
}

// GetByID retrieves a provider by ID with caching
func (a *CachedProviderAdapter) GetByID(ctx context.Context, id string) (*entities.Provider, error) {
	cacheKey := providerCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var provider entities.Provider
		if err := json.Unmarshal(cached, &provider); err == nil {
			return &provider, nil
		}
		// If unmarshal fails, continue to fetch from DB
		log.Warn().Err(err).Str("provider_id", id).Msg("failed to unmarshal cached provider")
	}

	provider, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(provider); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, providerByIDTTL); err != nil {
				log.Warn().Err(err).Str("provider_id", id).Msg("failed to cache provider")
			}
		}
	}()

	return provider, nil
}

// List retrieves a list of providers with caching
func (a *CachedProviderAdapter) List(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	cacheKey := providersListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var provs []*entities.Provider
		if err := json.Unmarshal(cached, &provs); err == nil {
			return provs, nil
		}
		log.Warn().Err(err).Msg("failed to unmarshal cached provider list")
	}

	provs, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(provs); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, providersListTTL); err != nil {
				log.Warn().Err(err).Msg("failed to cache provider list")
			}
		}
	}()

	return provs, nil
}

// Create creates a provider and invalidates list caches
func (a *CachedProviderAdapter) Create(ctx context.Context, provider *entities.Provider) error {
	if err := a.adapter.Create(ctx, provider); err != nil {
		return err
	}

	go func() {
		bgCtx := context.Background()
		if err := a.cache.DeletePattern(bgCtx, "providers:list:*"); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate provider list cache")
		}
	}()

	return nil
}

// Update updates a provider and invalidates its caches
func (a *CachedProviderAdapter) Update(ctx context.Context, provider *entities.Provider) error {
	if err := a.adapter.Update(ctx, provider); err != nil {
		return err
	}

	a.invalidate(provider.ID)
	return nil
}

// Delete deletes a provider and invalidates its caches
func (a *CachedProviderAdapter) Delete(ctx context.Context, id string) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}

	a.invalidate(id)
	return nil
}

// ReplaceServices replaces the provider's services and invalidates its caches
func (a *CachedProviderAdapter) ReplaceServices(ctx context.Context, providerID string, services []entities.Service) error {
	if err := a.adapter.ReplaceServices(ctx, providerID, services); err != nil {
		return err
	}

	a.invalidate(providerID)
	return nil
}

func (a *CachedProviderAdapter) invalidate(providerID string) {
	go func() {
		bgCtx := context.Background()

		if err := a.cache.Delete(bgCtx, providerCacheKey(providerID)); err != nil {
			log.Warn().Err(err).Str("provider_id", providerID).Msg("failed to invalidate provider cache")
		}
		if err := a.cache.DeletePattern(bgCtx, "providers:list:*"); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate provider list cache")
		}
	}()
}
