package domain

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used for geodesic distances.
const EarthRadiusMeters = 6371000.0

// GeoPoint is a WGS84 location in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point lies within the WGS84 domain.
func (p GeoPoint) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// IsZero reports whether the point is the unset zero value.
func (p GeoPoint) IsZero() bool {
	return p.Latitude == 0 && p.Longitude == 0
}

// DistanceMeters returns the geodesic distance to another point in meters.
func (p GeoPoint) DistanceMeters(other GeoPoint) float64 {
	a := s2.LatLngFromDegrees(p.Latitude, p.Longitude)
	b := s2.LatLngFromDegrees(other.Latitude, other.Longitude)
	return a.Distance(b).Radians() * EarthRadiusMeters
}
