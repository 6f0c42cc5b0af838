package models

import (
	"time"
)

type SubscriptionStatus string

const (
	StatusActive  SubscriptionStatus = "ACTIVE"
	StatusExpired SubscriptionStatus = "EXPIRED"
)

// CAMARA geofencing-subscriptions v0.4 event types. A subscription carries
// exactly one of the first two; subscription-ends is emitted on termination.
const (
	EventTypeAreaEntered      = "org.camaraproject.geofencing-subscriptions.v0.area-entered"
	EventTypeAreaLeft         = "org.camaraproject.geofencing-subscriptions.v0.area-left"
	EventTypeSubscriptionEnds = "org.camaraproject.geofencing-subscriptions.v0.subscription-ends"
)

type TerminationReason string

const (
	ReasonExpired          TerminationReason = "SUBSCRIPTION_EXPIRED"
	ReasonMaxEventsReached TerminationReason = "MAX_EVENTS_REACHED"
	ReasonDeleted          TerminationReason = "SUBSCRIPTION_DELETED"
)

// Device identifies the monitored UE. Only NetworkAccessIdentifier (IMSI/SUPI)
// can be resolved against the NEF; the other fields are accepted for
// compatibility with the CAMARA schema.
type Device struct {
	NetworkAccessIdentifier string `json:"networkAccessIdentifier,omitempty"`
	PhoneNumber             string `json:"phoneNumber,omitempty"`
	IPv4Address             string `json:"ipv4Address,omitempty"`
	IPv6Address             string `json:"ipv6Address,omitempty"`
}

// HasIdentifier reports whether at least one identifying field is present.
func (d *Device) HasIdentifier() bool {
	if d == nil {
		return false
	}
	return d.NetworkAccessIdentifier != "" || d.PhoneNumber != "" ||
		d.IPv4Address != "" || d.IPv6Address != ""
}

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CircleArea struct {
	AreaType string  `json:"areaType"`
	Center   Point   `json:"center"`
	Radius   float64 `json:"radius"`
}

type SubscriptionDetail struct {
	Device *Device    `json:"device,omitempty"`
	Area   CircleArea `json:"area"`
}

type SubscriptionConfig struct {
	SubscriptionDetail     SubscriptionDetail `json:"subscriptionDetail"`
	InitialEvent           bool               `json:"initialEvent,omitempty"`
	SubscriptionMaxEvents  *int               `json:"subscriptionMaxEvents,omitempty"`
	SubscriptionExpireTime string             `json:"subscriptionExpireTime,omitempty"`
}

type Subscription struct {
	ID        string             `json:"id"`
	Protocol  string             `json:"protocol"`
	Sink      string             `json:"sink"`
	Types     []string           `json:"types"`
	Config    SubscriptionConfig `json:"config"`
	StartsAt  string             `json:"startsAt"`
	Status    SubscriptionStatus `json:"status"`
	ExpiresAt *time.Time         `json:"expiresAt,omitempty"`
}

// EventType returns the single configured event type.
func (s *Subscription) EventType() string {
	if len(s.Types) == 0 {
		return ""
	}
	return s.Types[0]
}

// Classification is the monitor's current belief about the device's relation
// to the configured area. A fresh subscription starts Unknown; the first
// position fix settles it.
type Classification string

const (
	ClassUnknown Classification = "unknown"
	ClassInside  Classification = "inside"
	ClassOutside Classification = "outside"
)

// RuntimeState is the monitor-owned state attached 1:1 to a subscription.
type RuntimeState struct {
	Classification Classification
	EventsSent     int
}

// SubscriptionRequest is the creation payload as received on the wire.
type SubscriptionRequest struct {
	Protocol string             `json:"protocol" binding:"required"`
	Sink     string             `json:"sink" binding:"required,url"`
	Types    []string           `json:"types" binding:"required"`
	Config   SubscriptionConfig `json:"config"`
}
