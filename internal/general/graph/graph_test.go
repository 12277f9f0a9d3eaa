package graph

import (
	"context"
	"testing"

	"city-guide/internal/domain/geo"
	"city-guide/internal/domain/nav"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGraph is a small grid:
//
//	n1 --A-- n2 --B-- n3
//	          |
//	          C
//	          |
//	         n4
func testGraph() *Graph {
	g := NewGraph("Testville")
	g.AddNode("n1", geo.Position{Lat: 0, Lon: 0})
	g.AddNode("n2", geo.Position{Lat: 0, Lon: 0.001})
	g.AddNode("n3", geo.Position{Lat: 0, Lon: 0.002})
	g.AddNode("n4", geo.Position{Lat: -0.001, Lon: 0.001})
	g.AddEdge("n1", "n2", "A", 0, true)
	g.AddEdge("n2", "n3", "B", 0, true)
	g.AddEdge("n2", "n4", "C", 0, true)
	return g
}

func TestAddEdge(t *testing.T) {
	g := testGraph()

	t.Run("length computed from coordinates", func(t *testing.T) {
		edges := g.Neighbors("n1")
		require.Len(t, edges, 1)
		assert.InDelta(t, 111.2, edges[0].LengthM, 1)
	})

	t.Run("bidirectional adds reverse edge once", func(t *testing.T) {
		g.AddEdge("n1", "n2", "A", 0, true) // duplicate forward edge
		back := 0
		for _, e := range g.Neighbors("n2") {
			if e.To == "n1" {
				back++
			}
		}
		assert.Equal(t, 1, back)
	})
}

func TestNearestNode(t *testing.T) {
	g := testGraph()

	n := g.NearestNode(geo.Position{Lat: -0.0009, Lon: 0.0011})
	require.NotNil(t, n)
	assert.Equal(t, "n4", n.ID)

	t.Run("empty graph", func(t *testing.T) {
		empty := NewGraph("Nowhere")
		assert.Nil(t, empty.NearestNode(geo.Position{}))
	})
}

func TestShortestPath(t *testing.T) {
	g := testGraph()

	t.Run("simple path with street names", func(t *testing.T) {
		path, err := g.ShortestPath("n1", "n4")
		require.NoError(t, err)
		require.NoError(t, path.Validate())

		require.Len(t, path.Points, 3)
		assert.Equal(t, []string{"A", "C"}, path.Names)
		assert.Equal(t, geo.Position{Lat: 0, Lon: 0}, path.Points[0])
		assert.Equal(t, geo.Position{Lat: -0.001, Lon: 0.001}, path.Points[2])
	})

	t.Run("picks the shorter route", func(t *testing.T) {
		// direct long edge vs two short hops
		g2 := NewGraph("Testville")
		g2.AddNode("a", geo.Position{Lat: 0, Lon: 0})
		g2.AddNode("b", geo.Position{Lat: 0, Lon: 0.001})
		g2.AddNode("c", geo.Position{Lat: 0, Lon: 0.002})
		g2.AddEdge("a", "b", "Short", 0, true)
		g2.AddEdge("b", "c", "Short", 0, true)
		g2.AddEdge("a", "c", "Detour", 1_000_000, true)

		path, err := g2.ShortestPath("a", "c")
		require.NoError(t, err)
		assert.Equal(t, []string{"Short", "Short"}, path.Names)
	})

	t.Run("unknown node", func(t *testing.T) {
		_, err := g.ShortestPath("n1", "missing")
		assert.ErrorIs(t, err, nav.ErrUnreachable)
	})

	t.Run("disconnected node", func(t *testing.T) {
		g.AddNode("island", geo.Position{Lat: 0.01, Lon: 0.01})
		_, err := g.ShortestPath("n1", "island")
		assert.ErrorIs(t, err, nav.ErrUnreachable)
	})

	t.Run("same start and end", func(t *testing.T) {
		_, err := g.ShortestPath("n1", "n1")
		assert.ErrorIs(t, err, nav.ErrEmptyPath)
	})
}

func TestProvider(t *testing.T) {
	p := NewProvider(testGraph())
	ctx := context.Background()

	node, err := p.NearestNode(ctx, geo.Position{Lat: 0, Lon: 0.0001})
	require.NoError(t, err)
	assert.Equal(t, "n1", node.ID)

	path, err := p.ShortestPath(ctx, node.ID, "n3")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, path.Names)

	t.Run("invalid position", func(t *testing.T) {
		_, err := p.NearestNode(ctx, geo.Position{Lat: 91})
		assert.Error(t, err)
	})

	t.Run("empty graph is unavailable", func(t *testing.T) {
		pEmpty := NewProvider(NewGraph("Nowhere"))
		_, err := pEmpty.NearestNode(ctx, geo.Position{})
		assert.ErrorIs(t, err, nav.ErrProviderUnavailable)
	})
}
