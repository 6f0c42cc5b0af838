package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"geofencing-app/geofencing-service/internal/models"
	"geofencing-app/geofencing-service/internal/repository"
)

// GeofencingService validates creation requests and owns subscription
// termination (explicit delete here, expiry and quota in the monitor).
type GeofencingService struct {
	store       *repository.SubscriptionStore
	notificator Dispatcher
	minRadius   float64
}

func NewGeofencingService(store *repository.SubscriptionStore, notificator Dispatcher, minRadius float64) *GeofencingService {
	return &GeofencingService{
		store:       store,
		notificator: notificator,
		minRadius:   minRadius,
	}
}

// Create validates the request and stores a new ACTIVE subscription.
// Validation failures return a ServiceError with the CAMARA code; nothing is
// stored on failure.
func (s *GeofencingService) Create(ctx context.Context, req *models.SubscriptionRequest) (*models.Subscription, *models.ServiceError) {
	if req.Protocol != "HTTP" {
		return nil, models.NewServiceError(http.StatusBadRequest,
			models.CodeInvalidProtocol, "Only HTTP is supported.")
	}

	device := req.Config.SubscriptionDetail.Device
	if !device.HasIdentifier() {
		return nil, models.NewServiceError(http.StatusUnprocessableEntity,
			models.CodeMissingIdentifier, "A device identifier is required; only networkAccessIdentifier (IMSI/SUPI) can be monitored.")
	}

	area := req.Config.SubscriptionDetail.Area
	if area.AreaType != "CIRCLE" {
		return nil, models.NewServiceError(http.StatusUnprocessableEntity,
			models.CodeAreaNotCovered, "Only areaType=CIRCLE is supported.")
	}

	if len(req.Types) != 1 {
		return nil, models.NewServiceError(http.StatusUnprocessableEntity,
			models.CodeMultiEventNotSupported, "Multi event types subscription not managed.")
	}

	if area.Radius < s.minRadius {
		return nil, models.NewServiceError(http.StatusUnprocessableEntity,
			models.CodeInvalidArea, "The requested area is too small")
	}

	sub := models.Subscription{
		ID:       uuid.NewString(),
		Protocol: req.Protocol,
		Sink:     req.Sink,
		Types:    req.Types,
		Config:   req.Config,
		StartsAt: models.UTCTimestamp(time.Now()),
		Status:   models.StatusActive,
	}
	if exp := req.Config.SubscriptionExpireTime; exp != "" {
		// The CAMARA schema carries the expire time as an RFC 3339 string;
		// an unparseable value is treated as no expiry rather than rejected.
		if t, err := time.Parse(time.RFC3339, exp); err == nil {
			t = t.UTC()
			sub.ExpiresAt = &t
		}
	}

	s.store.Insert(sub)
	return &sub, nil
}

// Get returns the subscription with the given id or models.ErrNotFound.
func (s *GeofencingService) Get(id string) (*models.Subscription, error) {
	sub, ok := s.store.Get(id)
	if !ok {
		return nil, models.ErrNotFound
	}
	return &sub, nil
}

// List returns all active subscriptions, never nil.
func (s *GeofencingService) List() []models.Subscription {
	return s.store.List()
}

// Delete removes the subscription and emits a subscription-ends event with
// reason SUBSCRIPTION_DELETED. Deleting an unknown id returns ErrNotFound;
// repeated deletes stay idempotent.
func (s *GeofencingService) Delete(ctx context.Context, id string) error {
	sub, ok := s.store.Remove(id)
	if !ok {
		return models.ErrNotFound
	}
	s.notificator.Notify(ctx, sub, models.EventTypeSubscriptionEnds, models.ReasonDeleted)
	return nil
}
