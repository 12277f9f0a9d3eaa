package guidance

import (
	"testing"

	"city-guide/internal/domain/session"

	"github.com/stretchr/testify/assert"
)

func TestTurnPhrase(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		want  string
	}{
		{"straight", 0, "go straight"},
		{"slightly off still straight", 20, "go straight"},
		{"half right", 45, "make a half-turn to the right"},
		{"half left", -45, "make a half-turn to the left"},
		{"right", 90, "turn right"},
		{"left", -90, "turn left"},
		{"sharp right", 150, "make a sharp turn to the right"},
		{"sharp left", -150, "make a sharp turn to the left"},
		{"boundary 22.5 is a half-turn", 22.5, "make a half-turn to the right"},
		{"boundary 67.5 is a turn", 67.5, "turn right"},
		{"boundary 112.5 is sharp", 112.5, "make a sharp turn to the right"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TurnPhrase(tt.angle))
		})
	}
}

func TestRoundTo5(t *testing.T) {
	assert.Equal(t, 0, RoundTo5(2.4))
	assert.Equal(t, 5, RoundTo5(2.5))
	assert.Equal(t, 5, RoundTo5(7.4))
	assert.Equal(t, 120, RoundTo5(121.9))
	assert.Equal(t, 125, RoundTo5(123.2))
}

func TestEventText(t *testing.T) {
	t.Run("instruction", func(t *testing.T) {
		text := EventText(session.Event{
			Type:            session.EventInstruction,
			CurrentName:     "Main St",
			NextName:        "Oak Ave",
			AngleDegrees:    90,
			LegLengthMeters: 203,
		})
		assert.Equal(t, "Follow Main St for about 205 m, then turn right onto Oak Ave.", text)
	})

	t.Run("instruction after a reached checkpoint", func(t *testing.T) {
		text := EventText(session.Event{
			Type:            session.EventInstruction,
			LegIndex:        2,
			CurrentName:     "Main St",
			NextName:        "Oak Ave",
			AngleDegrees:    90,
			LegLengthMeters: 203,
		})
		assert.Equal(t,
			"Well done, you have reached checkpoint #2! Follow Main St for about 205 m, then turn right onto Oak Ave.",
			text)
	})

	t.Run("final leg instruction", func(t *testing.T) {
		text := EventText(session.Event{
			Type:            session.EventInstruction,
			CurrentName:     "Oak Ave",
			LegLengthMeters: 48,
			FinalLeg:        true,
		})
		assert.Equal(t, "Follow Oak Ave for about 50 m. Your destination is ahead.", text)
	})

	t.Run("final leg after a reached checkpoint", func(t *testing.T) {
		text := EventText(session.Event{
			Type:            session.EventInstruction,
			LegIndex:        1,
			CurrentName:     "Oak Ave",
			LegLengthMeters: 48,
			FinalLeg:        true,
		})
		assert.Equal(t,
			"Well done, you have reached checkpoint #1! Follow Oak Ave for about 50 m. Your destination is ahead.",
			text)
	})

	t.Run("off route", func(t *testing.T) {
		text := EventText(session.Event{
			Type:           session.EventOffRouteWarning,
			CurrentName:    "Main St",
			DistanceMeters: 52,
		})
		assert.Equal(t, "You are about 50 m off the route. Please return to Main St.", text)
	})

	t.Run("terminal events", func(t *testing.T) {
		assert.Equal(t, "You have arrived at your destination.",
			EventText(session.Event{Type: session.EventArrived}))
		assert.Equal(t, "Navigation cancelled.",
			EventText(session.Event{Type: session.EventCancelled}))
		assert.Equal(t, "You have no active route.",
			EventText(session.Event{Type: session.EventNoActiveRoute}))
	})

	t.Run("no-op has no text", func(t *testing.T) {
		assert.Empty(t, EventText(session.Event{Type: session.EventNoOp}))
	})
}
