package providers

import (
	"context"

	"github.com/prestataires/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// provider change events.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ProviderEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ProviderEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelProviderUpdates is the channel for all provider updates
	EventChannelProviderUpdates = "provider:updates"

	// EventChannelProviderPrefix is the prefix for provider-specific channels
	EventChannelProviderPrefix = "provider:"
)

// GetProviderChannel returns the channel name for a specific provider
func GetProviderChannel(providerID string) string {
	return EventChannelProviderPrefix + providerID
}
