package nav

import "city-guide/internal/domain/geo"

// Leg is the planning unit of a route. It spans two path segments,
// Src->Mid and Mid->Dst, and carries the turn taken at Mid. Consecutive
// legs overlap: leg i+1 starts at leg i's Mid.
type Leg struct {
	Src geo.Position
	Mid geo.Position
	Dst geo.Position

	// CurrentName names the street of Src->Mid, NextName the street of
	// Mid->Dst. Either may be empty for unnamed ways.
	CurrentName string
	NextName    string

	// Angle is the signed turn angle at Mid in degrees, (-180, 180].
	// Positive is a right turn.
	Angle float64

	// Length is the great-circle length of Src->Mid in meters.
	Length float64
}

// Route is an immutable ordered sequence of legs plus the overall
// destination. A route with zero legs is valid and means the user is
// already at the destination street.
type Route struct {
	ID          string
	Legs        []Leg
	Destination geo.Position
}

// Empty reports whether the route has no legs left to navigate.
func (route Route) Empty() bool {
	return len(route.Legs) == 0
}

// TrimOvershoot drops the final checkpoint when the destination sits
// closer to the last leg's start than to its checkpoint: walking the
// full leg would pass the destination and double back. The previous
// leg becomes the final leg and ends at the destination itself. A
// single-leg route has no earlier leg to retarget and is left alone.
func (route *Route) TrimOvershoot() {
	n := len(route.Legs)
	if n < 2 {
		return
	}

	last := route.Legs[n-1]
	if geo.Haversine(last.Src, route.Destination) >= geo.Haversine(last.Mid, route.Destination) {
		return
	}

	route.Legs = route.Legs[:n-1]
	final := &route.Legs[n-2]
	final.Dst = route.Destination
	final.Angle = geo.TurnAngle(final.Src, final.Mid, final.Dst)
}

// TotalLength returns the summed leg lengths in meters, plus the final
// approach from the last checkpoint to the destination.
func (route Route) TotalLength() float64 {
	var total float64
	for _, leg := range route.Legs {
		total += leg.Length
	}
	if n := len(route.Legs); n > 0 {
		total += geo.Haversine(route.Legs[n-1].Mid, route.Legs[n-1].Dst)
	}
	return total
}
