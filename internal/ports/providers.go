package ports

import (
	"context"

	"city-guide/internal/domain/geo"
	"city-guide/internal/domain/nav"
	"city-guide/internal/domain/session"
)

// GraphNode identifies a node of the street graph.
type GraphNode struct {
	ID  string
	Pos geo.Position
}

// GraphProvider is the street-graph collaborator. It owns the graph
// lifecycle (loading, caching); the core only queries it.
type GraphProvider interface {
	// NearestNode returns the graph node closest to a position.
	NearestNode(ctx context.Context, pos geo.Position) (GraphNode, error)

	// ShortestPath returns the ordered node path between two graph nodes
	// with per-edge street names. Returns nav.ErrUnreachable when no path
	// exists.
	ShortestPath(ctx context.Context, fromID, toID string) (nav.RawPath, error)
}

// Place is a human-readable description of a position.
type Place struct {
	Name     string
	Street   string
	City     string
	Country  string
	Postcode string
}

// Geocoder resolves free-text destinations and reverse-geocodes positions.
// Implementations return nav.ErrUnresolvedDestination for zero matches and
// wrap transport failures in nav.ErrProviderUnavailable.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (geo.Position, Place, error)
	Reverse(ctx context.Context, pos geo.Position) (Place, error)
}

// EventPublisher hands navigation events to the message-delivery
// collaborator. The core supplies structured event data only; phrasing
// and transport live behind this port.
type EventPublisher interface {
	PublishEvent(ctx context.Context, userID, routeID string, event session.Event) error
}
