package entities

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// ProviderEventType represents the type of provider event.
type ProviderEventType string

const (
	ProviderEventTypeCreated       ProviderEventType = "provider_created"
	ProviderEventTypeUpdated       ProviderEventType = "provider_updated"
	ProviderEventTypeDeleted       ProviderEventType = "provider_deleted"
	ProviderEventTypeRatingUpsert  ProviderEventType = "rating_upserted"
	ProviderEventTypeServicesReset ProviderEventType = "services_replaced"
)

// ProviderEvent represents a change notification for a provider, published
// on the event bus so caches and indexes can react.
type ProviderEvent struct {
	ID         string            `json:"id"`
	ProviderID string            `json:"provider_id"`
	EventType  ProviderEventType `json:"event_type"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewProviderEvent creates a new provider event.
func NewProviderEvent(providerID string, eventType ProviderEventType) *ProviderEvent {
	return &ProviderEvent{
		ID:         generateEventID(),
		ProviderID: providerID,
		EventType:  eventType,
		Timestamp:  time.Now(),
	}
}

func generateEventID() string {
	return time.Now().Format("20060102150405") + "-" + randomString(8)
}

func randomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based if crypto/rand fails
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(bytes)[:length]
}
