package automation

import (
	"context"
	"encoding/json"
	"time"

	"bitbucket.org/mmdatafocus/books_automation/config"
	"bitbucket.org/mmdatafocus/books_automation/models"
	"github.com/google/uuid"
)

// Notifier publishes automation events to the notification bus. The
// delivery fan-out (webhooks, chat integrations, email) lives downstream.
type Notifier interface {
	Publish(ctx context.Context, event models.NotificationEvent) error
}

// PubSubNotifier publishes to the Google Pub/Sub notification topic.
type PubSubNotifier struct{}

func (n *PubSubNotifier) Publish(ctx context.Context, event models.NotificationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return config.PublishJSON(ctx, data, map[string]string{
		"event_type":  string(event.Type),
		"business_id": event.BusinessId,
	})
}

// NopNotifier is for local development without Pub/Sub.
type NopNotifier struct{}

func (n *NopNotifier) Publish(ctx context.Context, event models.NotificationEvent) error {
	return nil
}

// NewEvent builds the bus envelope. Marshal failures of engine-built
// payloads would be programming errors, so the payload falls back to null
// rather than failing the publish path.
func NewEvent(businessId string, eventType models.NotificationEventType, locale string, payload any) models.NotificationEvent {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("null")
	}
	return models.NotificationEvent{
		ID:         uuid.NewString(),
		BusinessId: businessId,
		Type:       eventType,
		Payload:    raw,
		Timestamp:  time.Now().UTC(),
		Locale:     locale,
	}
}
