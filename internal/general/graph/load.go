package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// MapData is the on-disk JSON form of a city map.
type MapData struct {
	City  string `json:"city"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// LoadMapFile reads a city map from a JSON file and builds the graph.
// Edges with a zero length get their length computed from coordinates,
// and every edge is added in both directions.
func LoadMapFile(path string) (*Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map file: %w", err)
	}

	var data MapData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse map file: %w", err)
	}
	if data.City == "" {
		return nil, fmt.Errorf("map file %s: missing city", path)
	}

	g := NewGraph(data.City)

	for i := range data.Nodes {
		n := &data.Nodes[i]
		if err := n.Pos.Validate(); err != nil {
			return nil, fmt.Errorf("map file node %s: %w", n.ID, err)
		}
		g.AddNode(n.ID, n.Pos)
	}

	for i := range data.Edges {
		e := &data.Edges[i]
		if g.Nodes[e.From] == nil || g.Nodes[e.To] == nil {
			return nil, fmt.Errorf("map file edge %s->%s references unknown node", e.From, e.To)
		}
		g.AddEdge(e.From, e.To, e.Street, e.LengthM, true)
	}

	return g, nil
}
