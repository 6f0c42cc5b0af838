package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"geofencing-app/geofencing-service/internal/models"
	"geofencing-app/geofencing-service/internal/repository"
)

func validRequest() *models.SubscriptionRequest {
	return &models.SubscriptionRequest{
		Protocol: "HTTP",
		Sink:     "http://localhost:9000/callback",
		Types:    []string{models.EventTypeAreaEntered},
		Config: models.SubscriptionConfig{
			SubscriptionDetail: models.SubscriptionDetail{
				Device: &models.Device{NetworkAccessIdentifier: "IMSI123456789012345"},
				Area: models.CircleArea{
					AreaType: "CIRCLE",
					Center:   models.Point{Latitude: 38.736946, Longitude: -9.142685},
					Radius:   500,
				},
			},
		},
	}
}

func newService() (*GeofencingService, *repository.SubscriptionStore, *fakeDispatcher) {
	store := repository.NewSubscriptionStore()
	dispatcher := newFakeDispatcher()
	return NewGeofencingService(store, dispatcher, 100), store, dispatcher
}

func TestCreateValid(t *testing.T) {
	svc, store, _ := newService()

	sub, svcErr := svc.Create(context.Background(), validRequest())
	if svcErr != nil {
		t.Fatalf("Create failed: %v", svcErr)
	}
	if sub.ID == "" {
		t.Error("created subscription has no id")
	}
	if sub.Status != models.StatusActive {
		t.Errorf("status = %v, want ACTIVE", sub.Status)
	}
	if sub.StartsAt == "" {
		t.Error("startsAt not set")
	}
	if _, ok := store.Get(sub.ID); !ok {
		t.Error("created subscription not stored")
	}
	st, _ := store.State(sub.ID)
	if st.EventsSent != 0 || st.Classification != models.ClassUnknown {
		t.Errorf("fresh runtime state = %+v, want unknown/0", st)
	}
}

func TestCreateParsesExpireTime(t *testing.T) {
	svc, _, _ := newService()

	req := validRequest()
	req.Config.SubscriptionExpireTime = "2030-01-02T15:04:05Z"
	sub, svcErr := svc.Create(context.Background(), req)
	if svcErr != nil {
		t.Fatalf("Create failed: %v", svcErr)
	}
	if sub.ExpiresAt == nil {
		t.Fatal("expiresAt not parsed")
	}
	if sub.ExpiresAt.Year() != 2030 {
		t.Errorf("expiresAt = %v, want year 2030", sub.ExpiresAt)
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*models.SubscriptionRequest)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unsupported protocol",
			mutate:     func(r *models.SubscriptionRequest) { r.Protocol = "MQTT" },
			wantStatus: http.StatusBadRequest,
			wantCode:   models.CodeInvalidProtocol,
		},
		{
			name:       "missing device",
			mutate:     func(r *models.SubscriptionRequest) { r.Config.SubscriptionDetail.Device = nil },
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   models.CodeMissingIdentifier,
		},
		{
			name: "device without identifying field",
			mutate: func(r *models.SubscriptionRequest) {
				r.Config.SubscriptionDetail.Device = &models.Device{}
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   models.CodeMissingIdentifier,
		},
		{
			name: "unsupported area type",
			mutate: func(r *models.SubscriptionRequest) {
				r.Config.SubscriptionDetail.Area.AreaType = "POLYGON"
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   models.CodeAreaNotCovered,
		},
		{
			name: "multiple event types",
			mutate: func(r *models.SubscriptionRequest) {
				r.Types = []string{models.EventTypeAreaEntered, models.EventTypeAreaLeft}
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   models.CodeMultiEventNotSupported,
		},
		{
			name:       "no event types",
			mutate:     func(r *models.SubscriptionRequest) { r.Types = nil },
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   models.CodeMultiEventNotSupported,
		},
		{
			name: "radius below minimum",
			mutate: func(r *models.SubscriptionRequest) {
				r.Config.SubscriptionDetail.Area.Radius = 50
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   models.CodeInvalidArea,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newService()
			req := validRequest()
			tt.mutate(req)

			sub, svcErr := svc.Create(context.Background(), req)
			if svcErr == nil {
				t.Fatalf("Create succeeded (%+v), want %s", sub, tt.wantCode)
			}
			if svcErr.Status != tt.wantStatus || svcErr.Code != tt.wantCode {
				t.Errorf("error = %d/%s, want %d/%s", svcErr.Status, svcErr.Code, tt.wantStatus, tt.wantCode)
			}
			if got := len(store.List()); got != 0 {
				t.Errorf("store has %d subscriptions after rejected create, want 0", got)
			}
		})
	}
}

func TestGetUnknown(t *testing.T) {
	svc, _, _ := newService()
	if _, err := svc.Get("nope"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get unknown id = %v, want ErrNotFound", err)
	}
}

func TestDeleteEmitsSubscriptionEnds(t *testing.T) {
	svc, store, dispatcher := newService()
	ctx := context.Background()

	sub, svcErr := svc.Create(ctx, validRequest())
	if svcErr != nil {
		t.Fatalf("Create failed: %v", svcErr)
	}

	if err := svc.Delete(ctx, sub.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	events := dispatcher.sent()
	if len(events) != 1 {
		t.Fatalf("events = %v, want one subscription-ends", events)
	}
	if events[0].eventType != models.EventTypeSubscriptionEnds || events[0].reason != models.ReasonDeleted {
		t.Errorf("event = %+v, want subscription-ends/SUBSCRIPTION_DELETED", events[0])
	}
	if _, ok := store.Get(sub.ID); ok {
		t.Error("subscription still stored after delete")
	}

	// Repeated delete is idempotent not-found, with no extra event.
	if err := svc.Delete(ctx, sub.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
	if got := len(dispatcher.sent()); got != 1 {
		t.Errorf("events after repeated delete = %d, want still 1", got)
	}
}
