package nav

import (
	"testing"

	"city-guide/internal/domain/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecomposeValidation(t *testing.T) {
	t.Run("too few points", func(t *testing.T) {
		_, err := Decompose(RawPath{Points: []geo.Position{{Lat: 1}}, Names: nil})
		assert.ErrorIs(t, err, ErrEmptyPath)
	})

	t.Run("name count mismatch", func(t *testing.T) {
		_, err := Decompose(RawPath{
			Points: []geo.Position{{}, {Lat: 0.001}},
			Names:  []string{"Main St", "Oak Ave"},
		})
		assert.ErrorIs(t, err, ErrMalformedPath)
	})
}

func TestDecomposeSingleStreet(t *testing.T) {
	// every edge on the same street: two checkpoints, zero legs
	route, err := Decompose(RawPath{
		Points: []geo.Position{{}, {Lat: 0.001}, {Lat: 0.002}},
		Names:  []string{"Main St", "Main St"},
	})
	require.NoError(t, err)

	assert.True(t, route.Empty())
	assert.Equal(t, geo.Position{Lat: 0.002}, route.Destination)
	assert.Equal(t, 0.0, route.TotalLength())
}

func TestDecomposeOneTurn(t *testing.T) {
	// four nodes: two edges on Main St heading north, then one edge on
	// Oak Ave heading east
	n0 := geo.Position{Lat: 0, Lon: 0}
	n1 := geo.Position{Lat: 0.001, Lon: 0}
	n2 := geo.Position{Lat: 0.002, Lon: 0}
	n3 := geo.Position{Lat: 0.002, Lon: 0.001}

	route, err := Decompose(RawPath{
		Points: []geo.Position{n0, n1, n2, n3},
		Names:  []string{"Main St", "Main St", "Oak Ave"},
	})
	require.NoError(t, err)
	require.Len(t, route.Legs, 1)

	leg := route.Legs[0]
	assert.Equal(t, n0, leg.Src)
	assert.Equal(t, n2, leg.Mid)
	assert.Equal(t, n3, leg.Dst)
	assert.Equal(t, "Main St", leg.CurrentName)
	assert.Equal(t, "Oak Ave", leg.NextName)

	// heading north then east is a right turn
	assert.InDelta(t, 90, leg.Angle, 0.5)
	assert.InDelta(t, geo.Haversine(n0, n2), leg.Length, 0.01)
	assert.Equal(t, n3, route.Destination)
}

func TestDecomposeMultipleTurns(t *testing.T) {
	n0 := geo.Position{Lat: 0, Lon: 0}
	n1 := geo.Position{Lat: 0.001, Lon: 0}
	n2 := geo.Position{Lat: 0.001, Lon: 0.001}
	n3 := geo.Position{Lat: 0.002, Lon: 0.001}

	route, err := Decompose(RawPath{
		Points: []geo.Position{n0, n1, n2, n3},
		Names:  []string{"A", "B", "C"},
	})
	require.NoError(t, err)
	// checkpoints n0, n1, n2, n3 -> two legs
	require.Len(t, route.Legs, 2)

	assert.Equal(t, "A", route.Legs[0].CurrentName)
	assert.Equal(t, "B", route.Legs[0].NextName)
	assert.Equal(t, "B", route.Legs[1].CurrentName)
	assert.Equal(t, "C", route.Legs[1].NextName)

	// consecutive legs overlap: leg 1 starts at leg 0's Mid
	assert.Equal(t, route.Legs[0].Mid, route.Legs[1].Src)
	assert.Equal(t, route.Legs[0].Dst, route.Legs[1].Mid)

	// angles stay in the signed half-open range
	for _, leg := range route.Legs {
		assert.LessOrEqual(t, leg.Angle, 180.0)
		assert.Greater(t, leg.Angle, -180.0)
	}
}

func TestRouteTrimOvershoot(t *testing.T) {
	n0 := geo.Position{Lat: 0, Lon: 0}
	n1 := geo.Position{Lat: 0.002, Lon: 0}
	n2 := geo.Position{Lat: 0.002, Lon: 0.002}
	n3 := geo.Position{Lat: 0.004, Lon: 0.002}

	decompose := func(t *testing.T) Route {
		t.Helper()
		route, err := Decompose(RawPath{
			Points: []geo.Position{n0, n1, n2, n3},
			Names:  []string{"A", "B", "C"},
		})
		require.NoError(t, err)
		require.Len(t, route.Legs, 2)
		return route
	}

	t.Run("destination before the final checkpoint", func(t *testing.T) {
		// the destination lies on street A, just past n1: walking the
		// last leg via n2 would overshoot, so the last checkpoint is
		// dropped and the route ends at the destination itself
		route := decompose(t)
		route.Destination = geo.Position{Lat: 0.0025, Lon: 0}
		route.TrimOvershoot()

		require.Len(t, route.Legs, 1)
		final := route.Legs[0]
		assert.Equal(t, n0, final.Src)
		assert.Equal(t, n1, final.Mid)
		assert.Equal(t, route.Destination, final.Dst)
		assert.InDelta(t, geo.TurnAngle(n0, n1, route.Destination), final.Angle, 0.001)
	})

	t.Run("destination past the final checkpoint", func(t *testing.T) {
		route := decompose(t)
		route.Destination = n3
		route.TrimOvershoot()
		assert.Len(t, route.Legs, 2)
	})

	t.Run("single leg is never trimmed", func(t *testing.T) {
		route, err := Decompose(RawPath{
			Points: []geo.Position{n0, n1, n2},
			Names:  []string{"A", "B"},
		})
		require.NoError(t, err)
		require.Len(t, route.Legs, 1)

		route.Destination = n0
		route.TrimOvershoot()
		assert.Len(t, route.Legs, 1)
	})
}

func TestRouteTotalLength(t *testing.T) {
	n0 := geo.Position{Lat: 0, Lon: 0}
	n1 := geo.Position{Lat: 0.001, Lon: 0}
	n2 := geo.Position{Lat: 0.001, Lon: 0.001}

	route, err := Decompose(RawPath{
		Points: []geo.Position{n0, n1, n2},
		Names:  []string{"A", "B"},
	})
	require.NoError(t, err)
	require.Len(t, route.Legs, 1)

	want := geo.Haversine(n0, n1) + geo.Haversine(n1, n2)
	assert.InDelta(t, want, route.TotalLength(), 0.01)
}
