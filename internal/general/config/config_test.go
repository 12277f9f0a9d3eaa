package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
city: "Bishkek, Kyrgyzstan"
database:
  user: cityguide
  password: secret
  name: cityguide
rabbitmq:
  user: guest
  password: guest
`

func TestLoadFromFile(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "Bishkek, Kyrgyzstan", cfg.City)
	assert.Equal(t, "cityguide", cfg.Database.User)

	// defaults
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 5672, cfg.RabbitMQ.Port)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "https://photon.komoot.io", cfg.Geocoder.BaseURL)
	assert.Equal(t, 15.0, cfg.Navigation.ArrivalRadiusM)
	assert.Equal(t, 30.0, cfg.Navigation.DeviationThresholdM)
	assert.NotEmpty(t, cfg.JWT.SecretKey)
}

func TestLoadFromFileOverrides(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig+`
http:
  port: 8080
navigation:
  arrival_radius_m: 20
  deviation_threshold_m: 50
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 20.0, cfg.Navigation.ArrivalRadiusM)
	assert.Equal(t, 50.0, cfg.Navigation.DeviationThresholdM)
}

func TestLoadFromFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := LoadFromFile(writeConfig(t, "city: [unclosed"))
		assert.Error(t, err)
	})

	t.Run("missing city", func(t *testing.T) {
		_, err := LoadFromFile(writeConfig(t, `
database:
  user: u
  password: p
  name: db
rabbitmq:
  user: guest
  password: guest
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "city is required")
	})

	t.Run("missing database credentials", func(t *testing.T) {
		_, err := LoadFromFile(writeConfig(t, `
city: "Bishkek, Kyrgyzstan"
rabbitmq:
  user: guest
  password: guest
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.user is required")
	})

	t.Run("bad navigation thresholds", func(t *testing.T) {
		_, err := LoadFromFile(writeConfig(t, minimalConfig+`
navigation:
  arrival_radius_m: -5
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "arrival_radius_m")
	})
}

func TestGeocoderTimeout(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, "5s", cfg.GeocoderTimeout().String())
}
