package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"geofencing-app/geofencing-service/internal/models"
)

// DeliveryResult records the outcome of one webhook delivery attempt.
// Delivery is best effort: the caller never retries and never surfaces a
// failure to the subscriber that created the subscription.
type DeliveryResult struct {
	Sent       bool
	StatusCode int
	Err        error
}

// Dispatcher is what the monitor and the lifecycle service need from the
// notification side.
type Dispatcher interface {
	Notify(ctx context.Context, sub models.Subscription, eventType string, reason models.TerminationReason) DeliveryResult
}

// NotificationAuditor persists an audit record per dispatched event.
type NotificationAuditor interface {
	LogNotification(ctx context.Context, entry models.NotificationLog) error
}

// Notificator builds CloudEvent envelopes and POSTs them to subscription
// sinks. The 5 second client timeout bounds how long one slow sink can hold
// up a monitor pass.
type Notificator struct {
	client  *http.Client
	auditor NotificationAuditor
}

// NewNotificator creates a dispatcher. auditor may be nil to disable audit
// logging.
func NewNotificator(auditor NotificationAuditor) *Notificator {
	return &Notificator{
		client:  &http.Client{Timeout: 5 * time.Second},
		auditor: auditor,
	}
}

func (n *Notificator) Notify(ctx context.Context, sub models.Subscription, eventType string, reason models.TerminationReason) DeliveryResult {
	event := models.CloudEvent{
		ID:              uuid.NewString(),
		Source:          models.EventSource,
		Type:            eventType,
		SpecVersion:     "1.0",
		DataContentType: "application/json",
		Time:            models.UTCTimestamp(time.Now()),
		Data: models.CloudEventData{
			SubscriptionID: sub.ID,
			Device:         sub.Config.SubscriptionDetail.Device,
			Area:           sub.Config.SubscriptionDetail.Area,
		},
	}
	if eventType == models.EventTypeSubscriptionEnds {
		if reason == "" {
			reason = models.ReasonExpired
		}
		event.Data.TerminationReason = reason
	}

	result := n.deliver(ctx, sub.Sink, event)
	n.audit(ctx, sub, event, result)
	return result
}

func (n *Notificator) deliver(ctx context.Context, sink string, event models.CloudEvent) DeliveryResult {
	payload, err := json.Marshal(event)
	if err != nil {
		return DeliveryResult{Err: fmt.Errorf("marshal cloudevent: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sink, bytes.NewBuffer(payload))
	if err != nil {
		return DeliveryResult{Err: fmt.Errorf("build cloudevent request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	log.Printf("[CloudEvent] Sending %s to %s (subscription %s)", event.Type, sink, event.Data.SubscriptionID)
	resp, err := n.client.Do(req)
	if err != nil {
		log.Printf("[CloudEvent] Failed to send: %v", err)
		return DeliveryResult{Err: err}
	}
	defer resp.Body.Close()

	log.Printf("[CloudEvent] Sent! HTTP %d", resp.StatusCode)
	return DeliveryResult{Sent: true, StatusCode: resp.StatusCode}
}

func (n *Notificator) audit(ctx context.Context, sub models.Subscription, event models.CloudEvent, result DeliveryResult) {
	if n.auditor == nil {
		return
	}
	entry := models.NotificationLog{
		SubscriptionID: sub.ID,
		EventID:        event.ID,
		EventType:      event.Type,
		Sink:           sub.Sink,
		Delivered:      result.Sent,
		Timestamp:      time.Now().UTC(),
	}
	if result.Err != nil {
		entry.Error = result.Err.Error()
	}
	if err := n.auditor.LogNotification(ctx, entry); err != nil {
		log.Printf("[CloudEvent] Failed to write audit log: %v", err)
	}
}
