package graph

import (
	"city-guide/internal/domain/geo"
)

// Node is a street intersection or waypoint in the city graph.
type Node struct {
	ID  string       `json:"id"`
	Pos geo.Position `json:"pos"`
}

// Edge connects two nodes along a named street. LengthM is the edge
// length in meters; zero means it is computed from the node coordinates
// at load time.
type Edge struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Street  string  `json:"street"`
	LengthM float64 `json:"length_m"`
}

// Graph is an adjacency-list street network for one city.
type Graph struct {
	City    string
	Nodes   map[string]*Node
	AdjList map[string][]*Edge
}

// NewGraph creates an empty graph for the given city.
func NewGraph(city string) *Graph {
	return &Graph{
		City:    city,
		Nodes:   make(map[string]*Node),
		AdjList: make(map[string][]*Edge),
	}
}

// AddNode registers a node. Re-adding an existing ID replaces it.
func (g *Graph) AddNode(id string, pos geo.Position) *Node {
	n := &Node{ID: id, Pos: pos}
	g.Nodes[id] = n
	return n
}

// AddEdge adds an edge from -> to. Streets are walkable both ways, so
// bidirectional=true also adds the reverse edge unless one already
// exists. A zero length is filled in from the node coordinates.
func (g *Graph) AddEdge(from, to, street string, lengthM float64, bidirectional bool) {
	if lengthM == 0 {
		a, b := g.Nodes[from], g.Nodes[to]
		if a != nil && b != nil {
			lengthM = geo.Haversine(a.Pos, b.Pos)
		}
	}

	g.AdjList[from] = append(g.AdjList[from], &Edge{From: from, To: to, Street: street, LengthM: lengthM})

	if !bidirectional {
		return
	}
	for _, existing := range g.AdjList[to] {
		if existing.To == from {
			return
		}
	}
	g.AdjList[to] = append(g.AdjList[to], &Edge{From: to, To: from, Street: street, LengthM: lengthM})
}

// Neighbors returns the outgoing edges of a node.
func (g *Graph) Neighbors(nodeID string) []*Edge {
	return g.AdjList[nodeID]
}

// NearestNode finds the node closest to the given position by a linear
// scan. City graphs are small enough that an index is not worth it.
func (g *Graph) NearestNode(pos geo.Position) *Node {
	var nearest *Node
	minDist := -1.0

	for _, node := range g.Nodes {
		dist := geo.Haversine(pos, node.Pos)
		if minDist < 0 || dist < minDist {
			minDist = dist
			nearest = node
		}
	}

	return nearest
}
