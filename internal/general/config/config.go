package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// City is the single city this deployment serves, "<city>, <country>".
	City string `yaml:"city"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	RabbitMQ struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
	} `yaml:"rabbitmq"`

	HTTP struct {
		Port int `yaml:"port"`
	} `yaml:"http"`

	JWT struct {
		SecretKey string `yaml:"secret_key"`
	} `yaml:"jwt"`

	Geocoder struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"geocoder"`

	Navigation struct {
		// ArrivalRadiusM is the distance under which a checkpoint counts
		// as reached.
		ArrivalRadiusM float64 `yaml:"arrival_radius_m"`
		// DeviationThresholdM is the off-path distance that triggers an
		// off-route warning.
		DeviationThresholdM float64 `yaml:"deviation_threshold_m"`
	} `yaml:"navigation"`
}

// LoadFromFile loads config from a YAML file, applies defaults, and
// validates required fields.
func LoadFromFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// GeocoderTimeout returns the geocoder HTTP timeout as a duration.
func (c *Config) GeocoderTimeout() time.Duration {
	return time.Duration(c.Geocoder.TimeoutSeconds) * time.Second
}

// applyDefaults sets safe defaults for some fields.
func applyDefaults(cfg *Config) {
	// Database
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}

	// RabbitMQ
	if cfg.RabbitMQ.Host == "" {
		cfg.RabbitMQ.Host = "localhost"
	}
	if cfg.RabbitMQ.Port == 0 {
		cfg.RabbitMQ.Port = 5672
	}

	// HTTP
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 3000
	}

	// Geocoder (Photon public instance unless self-hosted)
	if cfg.Geocoder.BaseURL == "" {
		cfg.Geocoder.BaseURL = "https://photon.komoot.io"
	}
	if cfg.Geocoder.TimeoutSeconds == 0 {
		cfg.Geocoder.TimeoutSeconds = 5
	}

	// Navigation thresholds (meters)
	if cfg.Navigation.ArrivalRadiusM == 0 {
		cfg.Navigation.ArrivalRadiusM = 15
	}
	if cfg.Navigation.DeviationThresholdM == 0 {
		cfg.Navigation.DeviationThresholdM = 30
	}

	if cfg.JWT.SecretKey == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			// fallback: time-based bytes
			key = []byte(fmt.Sprintf("%d", time.Now().UnixNano()))
		}
		cfg.JWT.SecretKey = base64.StdEncoding.EncodeToString(key)
	}
}

// validate checks required fields and basic ranges.
func (c *Config) validate() error {
	var problems []string

	if strings.TrimSpace(c.City) == "" {
		problems = append(problems, "city is required")
	}

	// DB
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		problems = append(problems, "database.port must be in 1..65535")
	}
	if c.Database.User == "" {
		problems = append(problems, "database.user is required")
	}
	if c.Database.Password == "" {
		problems = append(problems, "database.password is required")
	}
	if c.Database.Name == "" {
		problems = append(problems, "database.name is required")
	}

	// RabbitMQ
	if c.RabbitMQ.Port <= 0 || c.RabbitMQ.Port > 65535 {
		problems = append(problems, "rabbitmq.port must be in 1..65535")
	}
	if c.RabbitMQ.User == "" {
		problems = append(problems, "rabbitmq.user is required")
	}
	if c.RabbitMQ.Password == "" {
		problems = append(problems, "rabbitmq.password is required")
	}

	// HTTP
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		problems = append(problems, "http.port must be in 1..65535")
	}

	// Navigation
	if c.Navigation.ArrivalRadiusM <= 0 {
		problems = append(problems, "navigation.arrival_radius_m must be positive")
	}
	if c.Navigation.DeviationThresholdM <= 0 {
		problems = append(problems, "navigation.deviation_threshold_m must be positive")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
