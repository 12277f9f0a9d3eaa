package graph

import (
	"context"
	"fmt"

	"city-guide/internal/domain/geo"
	"city-guide/internal/domain/nav"
	"city-guide/internal/ports"
)

// Provider exposes a loaded Graph through the routing port.
type Provider struct {
	g *Graph
}

// NewProvider wraps a graph for use by the navigation service.
func NewProvider(g *Graph) *Provider {
	return &Provider{g: g}
}

var _ ports.GraphProvider = (*Provider)(nil)

// NearestNode returns the graph node closest to pos.
func (p *Provider) NearestNode(_ context.Context, pos geo.Position) (ports.GraphNode, error) {
	if err := pos.Validate(); err != nil {
		return ports.GraphNode{}, err
	}

	n := p.g.NearestNode(pos)
	if n == nil {
		return ports.GraphNode{}, fmt.Errorf("graph for %s has no nodes: %w", p.g.City, nav.ErrProviderUnavailable)
	}
	return ports.GraphNode{ID: n.ID, Pos: n.Pos}, nil
}

// ShortestPath routes between two node IDs.
func (p *Provider) ShortestPath(_ context.Context, fromID, toID string) (nav.RawPath, error) {
	return p.g.ShortestPath(fromID, toID)
}
