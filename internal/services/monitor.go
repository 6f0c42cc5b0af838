package services

import (
	"context"
	"errors"
	"log"
	"time"

	"geofencing-app/geofencing-service/internal/geo"
	"geofencing-app/geofencing-service/internal/models"
	"geofencing-app/geofencing-service/internal/repository"
)

// PositionProvider resolves a device identifier to its last known location.
// Implementations return models.ErrDeviceNotFound when the device is unknown;
// any other error is transient and the lookup is retried on the next pass.
type PositionProvider interface {
	GetPosition(ctx context.Context, supi string) (*models.Position, error)
}

// Monitor drives the geofencing state machine. Every pass it walks a snapshot
// of the subscription set, checks expiry and event quota, fetches the device
// position and notifies on classification transitions.
type Monitor struct {
	store       *repository.SubscriptionStore
	positions   PositionProvider
	notificator Dispatcher
	interval    time.Duration
	now         func() time.Time
}

func NewMonitor(store *repository.SubscriptionStore, positions PositionProvider, notificator Dispatcher, interval time.Duration) *Monitor {
	return &Monitor{
		store:       store,
		positions:   positions,
		notificator: notificator,
		interval:    interval,
		now:         time.Now,
	}
}

// Start runs passes until ctx is cancelled. The first pass runs immediately.
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.RunPass(ctx)
	for {
		select {
		case <-ticker.C:
			m.RunPass(ctx)
		case <-ctx.Done():
			log.Println("[MONITOR] Shutdown")
			return
		}
	}
}

// RunPass evaluates every subscription once. Exported so tests can drive the
// monitor deterministically without the ticker.
func (m *Monitor) RunPass(ctx context.Context) {
	for _, sub := range m.store.Snapshot() {
		m.processSubscription(ctx, sub)
	}
}

// processSubscription never lets one subscription's failure spill into the
// rest of the pass.
func (m *Monitor) processSubscription(ctx context.Context, sub models.Subscription) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[MONITOR] Panic while processing subscription %s: %v", sub.ID, r)
		}
	}()

	now := m.now().UTC()

	if sub.ExpiresAt != nil && !now.Before(*sub.ExpiresAt) {
		m.terminate(ctx, sub, models.ReasonExpired)
		return
	}

	state, ok := m.store.State(sub.ID)
	if !ok {
		// Deleted since the snapshot was taken.
		return
	}
	maxEvents := sub.Config.SubscriptionMaxEvents
	if maxEvents != nil && state.EventsSent >= *maxEvents {
		m.terminate(ctx, sub, models.ReasonMaxEventsReached)
		return
	}

	device := sub.Config.SubscriptionDetail.Device
	if device == nil || device.NetworkAccessIdentifier == "" {
		// No identifier the NEF can resolve; the subscription idles until
		// deleted, expired or out of quota.
		return
	}

	pos, err := m.positions.GetPosition(ctx, device.NetworkAccessIdentifier)
	if err != nil {
		if !errors.Is(err, models.ErrDeviceNotFound) {
			log.Printf("[MONITOR] Position fetch failed for subscription %s: %v", sub.ID, err)
		}
		return
	}

	area := sub.Config.SubscriptionDetail.Area
	current := models.ClassOutside
	if geo.IsInside(pos.Point(), area) {
		current = models.ClassInside
	}

	m.applyTransition(ctx, sub, state.Classification, current)
}

// applyTransition implements the unknown/inside/outside state machine. The
// classification always follows the device; a notification goes out only when
// the movement matches the subscription's configured event type.
func (m *Monitor) applyTransition(ctx context.Context, sub models.Subscription, prev, current models.Classification) {
	if prev != models.ClassInside && prev != models.ClassOutside {
		// First evaluation, or state read back malformed: settle it now.
		if !m.store.SetClassification(sub.ID, current) {
			return
		}
		if sub.Config.InitialEvent && classMatchesEventType(current, sub.EventType()) {
			m.send(ctx, sub, sub.EventType())
		}
		return
	}

	if prev == current {
		return
	}
	if !m.store.SetClassification(sub.ID, current) {
		return
	}
	if classMatchesEventType(current, sub.EventType()) {
		m.send(ctx, sub, sub.EventType())
	}
}

// send counts the event and dispatches it. The counter moves on attempted
// send, not on confirmed delivery, so a broken sink still exhausts
// subscriptionMaxEvents instead of keeping the subscription alive forever.
func (m *Monitor) send(ctx context.Context, sub models.Subscription, eventType string) {
	if _, ok := m.store.IncrementEvents(sub.ID); !ok {
		// Deleted mid-pass; the subscription-ends event already went out.
		return
	}
	m.notificator.Notify(ctx, sub, eventType, "")
}

// terminate removes the subscription atomically and then emits the
// subscription-ends event. Removing first guarantees a concurrent pass or a
// racing delete cannot emit a second terminal event.
func (m *Monitor) terminate(ctx context.Context, sub models.Subscription, reason models.TerminationReason) {
	if _, ok := m.store.Remove(sub.ID); !ok {
		return
	}
	sub.Status = models.StatusExpired
	log.Printf("[MONITOR] Subscription %s terminated (%s)", sub.ID, reason)
	m.notificator.Notify(ctx, sub, models.EventTypeSubscriptionEnds, reason)
}

func classMatchesEventType(c models.Classification, eventType string) bool {
	switch c {
	case models.ClassInside:
		return eventType == models.EventTypeAreaEntered
	case models.ClassOutside:
		return eventType == models.EventTypeAreaLeft
	default:
		return false
	}
}
