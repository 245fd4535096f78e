package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prestataires/backend/internal/application/services"
	"github.com/prestataires/backend/internal/domain/entities"
)

// fakeCache records deletions.
type fakeCache struct {
	mu       sync.Mutex
	deleted  []string
	patterns []string
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, context.Canceled
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (c *fakeCache) deletedPatterns() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.patterns...)
}

// fakeEventBus delivers published events to in-process subscribers.
type fakeEventBus struct {
	mu       sync.Mutex
	channels map[string][]chan *entities.ProviderEvent
}

func newFakeEventBus() *fakeEventBus {
	return &fakeEventBus{channels: map[string][]chan *entities.ProviderEvent{}}
}

func (b *fakeEventBus) Publish(ctx context.Context, channel string, event *entities.ProviderEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.channels[channel] {
		ch <- event
	}
	return nil
}

func (b *fakeEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ProviderEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *entities.ProviderEvent, 10)
	b.channels[channel] = append(b.channels[channel], ch)
	return ch, nil
}

func (b *fakeEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *fakeEventBus) Close() error { return nil }

func TestCacheInvalidationOnProviderUpdate(t *testing.T) {
	cache := &fakeCache{}
	bus := newFakeEventBus()

	svc := services.NewCacheInvalidationService(cache, bus)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	event := entities.NewProviderEvent("p1", entities.ProviderEventTypeUpdated)
	require.NoError(t, bus.Publish(context.Background(), "provider:updates", event))

	require.Eventually(t, func() bool {
		return len(cache.deletedPatterns()) >= 2
	}, time.Second, 10*time.Millisecond)

	patterns := cache.deletedPatterns()
	assert.Contains(t, patterns, "provider:p1")
}

func TestCacheInvalidationRatingDropsListCaches(t *testing.T) {
	cache := &fakeCache{}
	bus := newFakeEventBus()

	svc := services.NewCacheInvalidationService(cache, bus)
	require.NoError(t, svc.Start())
	defer svc.Stop()

	event := entities.NewProviderEvent("p1", entities.ProviderEventTypeRatingUpsert)
	require.NoError(t, bus.Publish(context.Background(), "provider:updates", event))

	require.Eventually(t, func() bool {
		for _, p := range cache.deletedPatterns() {
			if p == "providers:list:*" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestInvalidateProviderCacheDirect(t *testing.T) {
	cache := &fakeCache{}
	svc := services.NewCacheInvalidationService(cache, newFakeEventBus())

	require.NoError(t, svc.InvalidateProviderCache(context.Background(), "p9"))
	assert.Contains(t, cache.deletedPatterns(), "provider:p9")
}
