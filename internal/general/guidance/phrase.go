// Package guidance turns navigation events into short human-readable
// instructions suitable for chat or voice delivery.
package guidance

import (
	"fmt"
	"math"

	"city-guide/internal/domain/session"
)

// Turn sharpness buckets in degrees of absolute turn angle.
const (
	straightMaxDeg = 22.5
	slightMaxDeg   = 67.5
	normalMaxDeg   = 112.5
)

// TurnPhrase describes the maneuver for a signed turn angle, where a
// positive angle turns right and a negative one turns left.
func TurnPhrase(angleDegrees float64) string {
	abs := math.Abs(angleDegrees)
	if abs < straightMaxDeg {
		return "go straight"
	}

	side := "right"
	if angleDegrees < 0 {
		side = "left"
	}

	switch {
	case abs < slightMaxDeg:
		return fmt.Sprintf("make a half-turn to the %s", side)
	case abs < normalMaxDeg:
		return fmt.Sprintf("turn %s", side)
	default:
		return fmt.Sprintf("make a sharp turn to the %s", side)
	}
}

// RoundTo5 rounds a distance in meters to the nearest 5 meters.
// Spoken distances sound odd at single-meter precision.
func RoundTo5(meters float64) int {
	return int(math.Round(meters/5.0)) * 5
}

// EventText renders an event as a user-facing sentence.
func EventText(ev session.Event) string {
	switch ev.Type {
	case session.EventInstruction:
		return instructionText(ev)
	case session.EventOffRouteWarning:
		return fmt.Sprintf("You are about %d m off the route. Please return to %s.",
			RoundTo5(ev.DistanceMeters), ev.CurrentName)
	case session.EventArrived:
		return "You have arrived at your destination."
	case session.EventCancelled:
		return "Navigation cancelled."
	case session.EventNoActiveRoute:
		return "You have no active route."
	default:
		return ""
	}
}

func instructionText(ev session.Event) string {
	// every instruction after the first one marks a reached checkpoint
	var reached string
	if ev.LegIndex > 0 {
		reached = fmt.Sprintf("Well done, you have reached checkpoint #%d! ", ev.LegIndex)
	}

	if ev.FinalLeg {
		return reached + fmt.Sprintf("Follow %s for about %d m. Your destination is ahead.",
			ev.CurrentName, RoundTo5(ev.LegLengthMeters))
	}
	return reached + fmt.Sprintf("Follow %s for about %d m, then %s onto %s.",
		ev.CurrentName, RoundTo5(ev.LegLengthMeters), TurnPhrase(ev.AngleDegrees), ev.NextName)
}
