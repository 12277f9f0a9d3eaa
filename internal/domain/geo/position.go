package geo

import (
	"errors"
	"math"
)

// EarthRadiusM is the mean Earth radius in meters used for all
// spherical distance math in this system.
const EarthRadiusM = 6371000.0

var (
	ErrInvalidLatitude  = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")
)

// Position is an immutable WGS-84 coordinate pair (degrees).
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks coordinate ranges.
func (p Position) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return ErrInvalidLatitude
	}
	if p.Lon < -180 || p.Lon > 180 {
		return ErrInvalidLongitude
	}
	return nil
}

// Haversine returns the great-circle distance between two positions in meters.
func Haversine(a, b Position) float64 {
	la1 := radians(a.Lat)
	la2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusM * c
}

// Bearing returns the initial great-circle bearing from a to b,
// in degrees clockwise from north, normalized to [0, 360).
func Bearing(a, b Position) float64 {
	la1 := radians(a.Lat)
	la2 := radians(b.Lat)
	dLon := radians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(la2)
	x := math.Cos(la1)*math.Sin(la2) - math.Sin(la1)*math.Cos(la2)*math.Cos(dLon)
	deg := degrees(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}

// TurnAngle returns the signed angle in degrees between the segment
// src->mid and the segment mid->dst, normalized to (-180, 180].
// Zero means straight continuation; positive is a right turn,
// negative a left turn.
func TurnAngle(src, mid, dst Position) float64 {
	angle := Bearing(mid, dst) - Bearing(src, mid)
	for angle > 180 {
		angle -= 360
	}
	for angle <= -180 {
		angle += 360
	}
	return angle
}

// DistanceToSegment returns the great-circle distance in meters from p to
// the nearest point of the segment a->b. The perpendicular projection is
// used when it falls within the segment bounds, otherwise the distance to
// the nearer endpoint. The projection is computed on a local tangent
// plane around a, which is accurate at street-network scales.
func DistanceToSegment(p, a, b Position) float64 {
	if a == b {
		return Haversine(p, a)
	}

	// local equirectangular projection, meters relative to a
	latRef := radians(a.Lat)
	px := radians(p.Lon-a.Lon) * math.Cos(latRef) * EarthRadiusM
	py := radians(p.Lat-a.Lat) * EarthRadiusM
	bx := radians(b.Lon-a.Lon) * math.Cos(latRef) * EarthRadiusM
	by := radians(b.Lat-a.Lat) * EarthRadiusM

	t := (px*bx + py*by) / (bx*bx + by*by)
	switch {
	case t <= 0:
		return Haversine(p, a)
	case t >= 1:
		return Haversine(p, b)
	}

	proj := Position{
		Lat: a.Lat + t*(b.Lat-a.Lat),
		Lon: a.Lon + t*(b.Lon-a.Lon),
	}
	return Haversine(p, proj)
}

func radians(d float64) float64 { return d * math.Pi / 180 }

func degrees(r float64) float64 { return r * 180 / math.Pi }
