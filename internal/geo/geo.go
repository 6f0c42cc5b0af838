// Package geo holds the great-circle math shared by the geofencing monitor
// and the location-verification endpoint. Both must classify a point the same
// way, so the containment check lives here and nowhere else.
package geo

import (
	"math"

	"geofencing-app/geofencing-service/internal/models"
)

// earthRadiusMeters is the mean Earth radius used by the haversine formula.
const earthRadiusMeters = 6371000

// DistanceMeters returns the great-circle distance between two coordinates.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// IsInside reports whether point falls within the circular area.
func IsInside(point models.Point, area models.CircleArea) bool {
	d := DistanceMeters(point.Latitude, point.Longitude, area.Center.Latitude, area.Center.Longitude)
	return d <= area.Radius
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
