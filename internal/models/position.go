package models

import "time"

// Position is a device's last known location as reported by the NEF.
type Position struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	ObservedAt time.Time `json:"observedAt"`
}

func (p Position) Point() Point {
	return Point{Latitude: p.Latitude, Longitude: p.Longitude}
}
