package session

import (
	"testing"

	"city-guide/internal/domain/geo"
	"city-guide/internal/domain/nav"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLimits = Limits{ArrivalRadiusM: 15, DeviationThresholdM: 30}

// twoLegRoute goes north on A, turns east onto B, then north again on C.
// Checkpoint spacing is roughly 220 m.
func twoLegRoute(t *testing.T) nav.Route {
	t.Helper()
	route, err := nav.Decompose(nav.RawPath{
		Points: []geo.Position{
			{Lat: 0, Lon: 0},
			{Lat: 0.002, Lon: 0},
			{Lat: 0.002, Lon: 0.002},
			{Lat: 0.004, Lon: 0.002},
		},
		Names: []string{"A", "B", "C"},
	})
	require.NoError(t, err)
	require.Len(t, route.Legs, 2)
	route.ID = "route-1"
	return route
}

func TestNewSession(t *testing.T) {
	t.Run("requires user", func(t *testing.T) {
		_, err := New("  ", nav.Route{})
		assert.ErrorIs(t, err, ErrUserRequired)
	})

	t.Run("starts navigating at leg zero", func(t *testing.T) {
		s, err := New("u1", twoLegRoute(t))
		require.NoError(t, err)
		assert.Equal(t, StatusNavigating, s.Status)
		assert.Equal(t, 0, s.LegIndex)
		assert.False(t, s.HasPosition)
	})
}

func TestFirstInstruction(t *testing.T) {
	s, err := New("u1", twoLegRoute(t))
	require.NoError(t, err)

	ev := s.FirstInstruction()
	assert.Equal(t, EventInstruction, ev.Type)
	assert.Equal(t, 0, ev.LegIndex)
	assert.Equal(t, "A", ev.CurrentName)
	assert.Equal(t, "B", ev.NextName)
	assert.False(t, ev.FinalLeg)
}

func TestObserveValidation(t *testing.T) {
	s, err := New("u1", twoLegRoute(t))
	require.NoError(t, err)

	t.Run("bad limits leave session unchanged", func(t *testing.T) {
		_, err := s.Observe(geo.Position{}, Limits{})
		assert.ErrorIs(t, err, ErrBadLimits)
		assert.Equal(t, 0, s.LegIndex)
		assert.False(t, s.HasPosition)
	})

	t.Run("bad position leaves session unchanged", func(t *testing.T) {
		_, err := s.Observe(geo.Position{Lat: 91}, testLimits)
		assert.Error(t, err)
		assert.Equal(t, 0, s.LegIndex)
		assert.False(t, s.HasPosition)
	})
}

func TestObserveNoOp(t *testing.T) {
	s, err := New("u1", twoLegRoute(t))
	require.NoError(t, err)

	// on the first segment, far from the checkpoint
	events, err := s.Observe(geo.Position{Lat: 0.0005, Lon: 0}, testLimits)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventNoOp, events[0].Type)
	assert.Equal(t, 0, s.LegIndex)
	assert.True(t, s.HasPosition)
	assert.Equal(t, geo.Position{Lat: 0.0005, Lon: 0}, s.LastPosition)
}

func TestObserveAdvancesAtCheckpoint(t *testing.T) {
	s, err := New("u1", twoLegRoute(t))
	require.NoError(t, err)

	// reaching leg 0's Mid advances to leg 1 and emits its instruction
	events, err := s.Observe(geo.Position{Lat: 0.002, Lon: 0}, testLimits)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, EventInstruction, ev.Type)
	assert.Equal(t, 1, ev.LegIndex)
	assert.Equal(t, "B", ev.CurrentName)
	assert.Equal(t, "C", ev.NextName)
	assert.True(t, ev.FinalLeg)
	assert.Equal(t, 1, s.LegIndex)
	assert.Equal(t, StatusNavigating, s.Status)
}

func TestObserveFinalLegArrival(t *testing.T) {
	s, err := New("u1", twoLegRoute(t))
	require.NoError(t, err)

	_, err = s.Observe(geo.Position{Lat: 0.002, Lon: 0}, testLimits)
	require.NoError(t, err)
	require.Equal(t, 1, s.LegIndex)

	// on the final leg the target is the destination itself, not Mid
	events, err := s.Observe(geo.Position{Lat: 0.004, Lon: 0.002}, testLimits)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventArrived, events[0].Type)
	assert.Equal(t, StatusArrived, s.Status)
	assert.True(t, s.Status.Terminal())

	// further updates are rejected
	_, err = s.Observe(geo.Position{Lat: 0.004, Lon: 0.002}, testLimits)
	assert.ErrorIs(t, err, ErrNotNavigating)
}

func TestObserveLegIndexMonotonic(t *testing.T) {
	s, err := New("u1", twoLegRoute(t))
	require.NoError(t, err)

	_, err = s.Observe(geo.Position{Lat: 0.002, Lon: 0}, testLimits)
	require.NoError(t, err)
	require.Equal(t, 1, s.LegIndex)

	// drifting back near the already-passed checkpoint must not rewind
	_, err = s.Observe(geo.Position{Lat: 0.0005, Lon: 0}, testLimits)
	require.NoError(t, err)
	assert.Equal(t, 1, s.LegIndex)
}

func TestObserveOffRouteWarnsOncePerEpisode(t *testing.T) {
	s, err := New("u1", twoLegRoute(t))
	require.NoError(t, err)

	offRoute := geo.Position{Lat: 0.001, Lon: 0.0005} // ~55 m east of leg 0
	onRoute := geo.Position{Lat: 0.001, Lon: 0}

	events, err := s.Observe(offRoute, testLimits)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventOffRouteWarning, events[0].Type)
	assert.Equal(t, "A", events[0].CurrentName)
	assert.Greater(t, events[0].DistanceMeters, testLimits.DeviationThresholdM)

	// still off route: suppressed
	events, err = s.Observe(offRoute, testLimits)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventNoOp, events[0].Type)

	// back on route closes the episode
	events, err = s.Observe(onRoute, testLimits)
	require.NoError(t, err)
	assert.Equal(t, EventNoOp, events[0].Type)

	// a fresh deviation warns again
	events, err = s.Observe(offRoute, testLimits)
	require.NoError(t, err)
	assert.Equal(t, EventOffRouteWarning, events[0].Type)
}

func TestObserveEmptyRoute(t *testing.T) {
	route, err := nav.Decompose(nav.RawPath{
		Points: []geo.Position{{Lat: 0, Lon: 0}, {Lat: 0.001, Lon: 0}},
		Names:  []string{"A"},
	})
	require.NoError(t, err)
	require.True(t, route.Empty())

	s, err := New("u1", route)
	require.NoError(t, err)

	events, err := s.Observe(geo.Position{Lat: 0.005, Lon: 0.005}, testLimits)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventArrived, events[0].Type)
	assert.Equal(t, StatusArrived, s.Status)
}

func TestCancel(t *testing.T) {
	s, err := New("u1", twoLegRoute(t))
	require.NoError(t, err)

	ev, err := s.Cancel()
	require.NoError(t, err)
	assert.Equal(t, EventCancelled, ev.Type)
	assert.Equal(t, StatusCancelled, s.Status)

	// cancelling twice fails
	_, err = s.Cancel()
	assert.ErrorIs(t, err, ErrNotNavigating)
}

func TestClone(t *testing.T) {
	s, err := New("u1", twoLegRoute(t))
	require.NoError(t, err)

	c := s.Clone()
	_, err = c.Observe(geo.Position{Lat: 0.002, Lon: 0}, testLimits)
	require.NoError(t, err)

	// mutating the clone must not touch the original
	assert.Equal(t, 0, s.LegIndex)
	assert.Equal(t, 1, c.LegIndex)

	*s = *c
	assert.Equal(t, 1, s.LegIndex)
}
