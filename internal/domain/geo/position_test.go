package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionValidate(t *testing.T) {
	tests := []struct {
		name    string
		pos     Position
		wantErr error
	}{
		{"valid", Position{Lat: 42.87, Lon: 74.59}, nil},
		{"zero zero is valid", Position{}, nil},
		{"lat too high", Position{Lat: 90.1}, ErrInvalidLatitude},
		{"lat too low", Position{Lat: -90.1}, ErrInvalidLatitude},
		{"lon too high", Position{Lon: 180.1}, ErrInvalidLongitude},
		{"lon too low", Position{Lon: -180.1}, ErrInvalidLongitude},
		{"boundary lat", Position{Lat: 90, Lon: -180}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pos.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestHaversine(t *testing.T) {
	// one degree of latitude is about 111.2 km
	a := Position{Lat: 0, Lon: 0}
	b := Position{Lat: 1, Lon: 0}
	assert.InDelta(t, 111195, Haversine(a, b), 50)

	// symmetric and zero at identity
	assert.Equal(t, Haversine(a, b), Haversine(b, a))
	assert.Equal(t, 0.0, Haversine(a, a))
}

func TestBearing(t *testing.T) {
	origin := Position{Lat: 0, Lon: 0}

	assert.InDelta(t, 0, Bearing(origin, Position{Lat: 1, Lon: 0}), 0.01)    // north
	assert.InDelta(t, 90, Bearing(origin, Position{Lat: 0, Lon: 1}), 0.01)   // east
	assert.InDelta(t, 180, Bearing(origin, Position{Lat: -1, Lon: 0}), 0.01) // south
	assert.InDelta(t, 270, Bearing(origin, Position{Lat: 0, Lon: -1}), 0.01) // west
}

func TestTurnAngle(t *testing.T) {
	src := Position{Lat: 0, Lon: 0}
	mid := Position{Lat: 0, Lon: 0.01} // heading east

	t.Run("right turn is positive", func(t *testing.T) {
		dst := Position{Lat: -0.01, Lon: 0.01} // now heading south
		assert.InDelta(t, 90, TurnAngle(src, mid, dst), 0.1)
	})

	t.Run("left turn is negative", func(t *testing.T) {
		dst := Position{Lat: 0.01, Lon: 0.01} // now heading north
		assert.InDelta(t, -90, TurnAngle(src, mid, dst), 0.1)
	})

	t.Run("straight is near zero", func(t *testing.T) {
		dst := Position{Lat: 0, Lon: 0.02}
		assert.InDelta(t, 0, TurnAngle(src, mid, dst), 0.1)
	})

	t.Run("u-turn stays in range", func(t *testing.T) {
		dst := src
		angle := TurnAngle(src, mid, dst)
		assert.LessOrEqual(t, angle, 180.0)
		assert.Greater(t, angle, -180.0)
	})
}

func TestDistanceToSegment(t *testing.T) {
	// segment running east along the equator, roughly 1.1 km
	a := Position{Lat: 0, Lon: 0}
	b := Position{Lat: 0, Lon: 0.01}

	t.Run("perpendicular distance inside segment", func(t *testing.T) {
		p := Position{Lat: 0.001, Lon: 0.005}
		assert.InDelta(t, 111.2, DistanceToSegment(p, a, b), 1)
	})

	t.Run("on the segment", func(t *testing.T) {
		p := Position{Lat: 0, Lon: 0.005}
		assert.InDelta(t, 0, DistanceToSegment(p, a, b), 0.5)
	})

	t.Run("clamped to start", func(t *testing.T) {
		p := Position{Lat: 0, Lon: -0.01}
		require.InDelta(t, Haversine(p, a), DistanceToSegment(p, a, b), 0.5)
	})

	t.Run("clamped to end", func(t *testing.T) {
		p := Position{Lat: 0, Lon: 0.02}
		require.InDelta(t, Haversine(p, b), DistanceToSegment(p, a, b), 0.5)
	})

	t.Run("degenerate segment", func(t *testing.T) {
		p := Position{Lat: 0.001, Lon: 0}
		assert.InDelta(t, Haversine(p, a), DistanceToSegment(p, a, a), 0.5)
	})
}
