package session

import (
	"errors"
	"strings"

	"city-guide/internal/domain/nav"
)

// EventType classifies the navigation events a session emits.
type EventType string

const (
	// EventInstruction tells the user how to reach the next checkpoint.
	EventInstruction EventType = "INSTRUCTION"
	// EventOffRouteWarning signals the user left the planned path.
	EventOffRouteWarning EventType = "OFF_ROUTE_WARNING"
	// EventArrived confirms the destination was reached.
	EventArrived EventType = "ARRIVED"
	// EventCancelled confirms an explicit route cancellation.
	EventCancelled EventType = "CANCELLED"
	// EventNoActiveRoute reports a cancel request without an active route.
	EventNoActiveRoute EventType = "NO_ACTIVE_ROUTE"
	// EventNoOp means a position update crossed no threshold.
	EventNoOp EventType = "NO_OP"
)

var ErrInvalidEventType = errors.New("invalid navigation event type")

// ParseEventType normalizes and validates an event type string.
func ParseEventType(in string) (EventType, error) {
	eventType := EventType(strings.ToUpper(strings.TrimSpace(in)))
	if eventType.Valid() {
		return eventType, nil
	}
	return "", ErrInvalidEventType
}

// Valid reports whether eventType is one of the allowed constants.
func (eventType EventType) Valid() bool {
	switch eventType {
	case EventInstruction, EventOffRouteWarning, EventArrived,
		EventCancelled, EventNoActiveRoute, EventNoOp:
		return true
	default:
		return false
	}
}

// String returns the string representation of the EventType.
func (eventType EventType) String() string {
	return string(eventType)
}

// Event is structured navigation output. The core never phrases events
// into user-facing text; the message-delivery layer does that from these
// fields.
type Event struct {
	Type EventType

	// LegIndex is the 0-based index of the leg the event refers to.
	LegIndex int

	// Instruction payload (street names, turn angle, leg length).
	CurrentName     string
	NextName        string
	AngleDegrees    float64
	LegLengthMeters float64

	// DistanceMeters is the off-path distance for OFF_ROUTE_WARNING.
	DistanceMeters float64

	// FinalLeg marks an instruction for the last leg before arrival.
	FinalLeg bool
}

// InstructionEvent builds the instruction for a leg.
func InstructionEvent(leg nav.Leg, index int, final bool) Event {
	return Event{
		Type:            EventInstruction,
		LegIndex:        index,
		CurrentName:     leg.CurrentName,
		NextName:        leg.NextName,
		AngleDegrees:    leg.Angle,
		LegLengthMeters: leg.Length,
		FinalLeg:        final,
	}
}

// OffRouteEvent builds a deviation warning for a leg.
func OffRouteEvent(index int, currentName string, distanceMeters float64) Event {
	return Event{
		Type:           EventOffRouteWarning,
		LegIndex:       index,
		CurrentName:    currentName,
		DistanceMeters: distanceMeters,
	}
}

// ArrivedEvent builds the terminal arrival event.
func ArrivedEvent(index int) Event {
	return Event{Type: EventArrived, LegIndex: index, FinalLeg: true}
}

// CancelledEvent builds the cancellation confirmation.
func CancelledEvent(index int) Event {
	return Event{Type: EventCancelled, LegIndex: index}
}

// NoActiveRouteEvent reports that there was nothing to cancel.
func NoActiveRouteEvent() Event {
	return Event{Type: EventNoActiveRoute}
}

// NoOpEvent reports that an update crossed no threshold.
func NoOpEvent(index int) Event {
	return Event{Type: EventNoOp, LegIndex: index}
}
