package repository

import (
	"sync"

	"geofencing-app/geofencing-service/internal/models"
)

// SubscriptionStore owns the active subscription set and the per-subscription
// runtime state. The monitor goroutine and the HTTP handlers both go through
// it, so every operation takes the lock; the monitor iterates over Snapshot
// rather than the live map.
type SubscriptionStore struct {
	mu     sync.RWMutex
	subs   map[string]models.Subscription
	states map[string]models.RuntimeState
}

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{
		subs:   make(map[string]models.Subscription),
		states: make(map[string]models.RuntimeState),
	}
}

// Insert stores a new subscription with fresh runtime state.
func (s *SubscriptionStore) Insert(sub models.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[sub.ID] = sub
	s.states[sub.ID] = models.RuntimeState{Classification: models.ClassUnknown}
}

func (s *SubscriptionStore) Get(id string) (models.Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[id]
	return sub, ok
}

// List returns all stored subscriptions; order is not significant.
func (s *SubscriptionStore) List() []models.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	return out
}

// Snapshot is List under a name that states its contract: a stable copy the
// monitor can walk while creates and deletes proceed concurrently.
func (s *SubscriptionStore) Snapshot() []models.Subscription {
	return s.List()
}

// Remove deletes the subscription and its runtime state together and returns
// the removed subscription.
func (s *SubscriptionStore) Remove(id string) (models.Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[id]
	if !ok {
		return models.Subscription{}, false
	}
	delete(s.subs, id)
	delete(s.states, id)
	return sub, true
}

// State returns the runtime state for id. A missing entry (possible only
// through corruption, never in normal operation) reads as unknown/0.
func (s *SubscriptionStore) State(id string) (models.RuntimeState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.subs[id]; !ok {
		return models.RuntimeState{}, false
	}
	st, ok := s.states[id]
	if !ok {
		st = models.RuntimeState{Classification: models.ClassUnknown}
	}
	return st, true
}

// SetClassification updates the classification if the subscription still
// exists. A false return means it was deleted since the caller's snapshot.
func (s *SubscriptionStore) SetClassification(id string, c models.Classification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[id]; !ok {
		return false
	}
	st := s.states[id]
	st.Classification = c
	s.states[id] = st
	return true
}

// IncrementEvents bumps the sent-events counter and returns the new value.
// Like SetClassification it refuses to resurrect a deleted subscription.
func (s *SubscriptionStore) IncrementEvents(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[id]; !ok {
		return 0, false
	}
	st := s.states[id]
	st.EventsSent++
	s.states[id] = st
	return st.EventsSent, true
}
