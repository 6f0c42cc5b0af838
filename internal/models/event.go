package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventSource tags every CloudEvent emitted by this service.
const EventSource = "urn:nef-emulator"

// CloudEventData is the domain payload of a notification.
type CloudEventData struct {
	SubscriptionID    string            `json:"subscriptionId"`
	Device            *Device           `json:"device"`
	Area              CircleArea        `json:"area"`
	TerminationReason TerminationReason `json:"terminationReason,omitempty"`
}

// CloudEvent is the notification envelope POSTed to a subscription's sink.
type CloudEvent struct {
	ID              string         `json:"id"`
	Source          string         `json:"source"`
	Type            string         `json:"type"`
	SpecVersion     string         `json:"specversion"`
	DataContentType string         `json:"datacontenttype"`
	Time            string         `json:"time"`
	Data            CloudEventData `json:"data"`
}

// NotificationLog is the audit record written for every dispatched event.
type NotificationLog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	SubscriptionID string             `bson:"subscription_id"`
	EventID        string             `bson:"event_id"`
	EventType      string             `bson:"event_type"`
	Sink           string             `bson:"sink"`
	Delivered      bool               `bson:"delivered"`
	Error          string             `bson:"error,omitempty"`
	Timestamp      time.Time          `bson:"timestamp"`
}

// UTCTimestamp formats t the way CAMARA expects: UTC with a literal Z suffix.
func UTCTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.999999Z")
}
