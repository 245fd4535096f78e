package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prestataires/backend/internal/domain/entities"
	"github.com/prestataires/backend/internal/domain/providers"
)

// CacheInvalidationService listens on the event bus and evicts cached
// responses touching an updated provider. Search responses are left to their
// short TTLs; only per-provider entries are dropped eagerly.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service.
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for provider events.
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelProviderUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to provider updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service.
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.ProviderEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.ProviderEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.InvalidateProviderCache(ctx, event.ProviderID); err != nil {
		log.Warn().Err(err).
			Str("provider_id", event.ProviderID).
			Str("event_type", string(event.EventType)).
			Msg("failed to invalidate provider cache")
	}

	// Rating changes alter the aggregates shown in list responses, which
	// list entries cache under their own keys.
	if event.EventType == entities.ProviderEventTypeRatingUpsert ||
		event.EventType == entities.ProviderEventTypeDeleted {
		if err := s.cache.DeletePattern(ctx, "providers:list:*"); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate provider list caches")
		}
	}
}

// InvalidateProviderCache drops cached entries for a single provider.
func (s *CacheInvalidationService) InvalidateProviderCache(ctx context.Context, providerID string) error {
	patterns := []string{
		fmt.Sprintf("provider:%s", providerID),
		fmt.Sprintf("http:cache:*providers/%s*", providerID),
	}
	for _, pattern := range patterns {
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
		}
	}
	return nil
}

// InvalidateSearchCaches drops every cached search response. Only meant for
// maintenance or bulk data loads.
func (s *CacheInvalidationService) InvalidateSearchCaches(ctx context.Context) error {
	if err := s.cache.DeletePattern(ctx, "http:cache:*search*"); err != nil {
		return fmt.Errorf("failed to invalidate search caches: %w", err)
	}
	return nil
}
