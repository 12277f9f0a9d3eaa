package service

import (
	"city-guide/internal/domain/session"
	"city-guide/internal/general/logger"
	"city-guide/internal/general/rabbitmq"
	"city-guide/internal/ports"
)

// navigationService encapsulates the live-navigation logic and dependencies.
type navigationService struct {
	logger   *logger.Logger
	graph    ports.GraphProvider
	geocoder ports.Geocoder
	pub      ports.EventPublisher
	rabbitmq *rabbitmq.Client
	registry *Registry
	limits   session.Limits
	city     string
}

// NewNavigationService creates a new navigation service with the provided dependencies.
func NewNavigationService(
	logger *logger.Logger,
	graph ports.GraphProvider,
	geocoder ports.Geocoder,
	pub ports.EventPublisher,
	rabbitmq *rabbitmq.Client,
	registry *Registry,
	limits session.Limits,
	city string,
) ports.NavigationService {
	return &navigationService{
		logger:   logger,
		graph:    graph,
		geocoder: geocoder,
		pub:      pub,
		rabbitmq: rabbitmq,
		registry: registry,
		limits:   limits,
		city:     city,
	}
}
