package graph

import (
	"container/heap"
	"math"
	"slices"

	"city-guide/internal/domain/geo"
	"city-guide/internal/domain/nav"
)

// pqItem is an element of the Dijkstra priority queue.
type pqItem struct {
	nodeID string
	cost   float64 // accumulated distance in meters
	index  int     // index in the heap
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].cost < pq[j].cost
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	n := len(*pq)
	item := x.(*pqItem)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // avoid memory leak
	item.index = -1
	*pq = old[0 : n-1]
	return item
}

// ShortestPath runs Dijkstra over edge lengths and returns the walk from
// startID to endID as an ordered point sequence with per-edge street
// names. Returns nav.ErrUnreachable when no path exists.
func (g *Graph) ShortestPath(startID, endID string) (nav.RawPath, error) {
	if g.Nodes[startID] == nil || g.Nodes[endID] == nil {
		return nav.RawPath{}, nav.ErrUnreachable
	}
	if startID == endID {
		return nav.RawPath{}, nav.ErrEmptyPath
	}

	dist := make(map[string]float64, len(g.Nodes))
	prev := make(map[string]string)
	prevEdge := make(map[string]*Edge)
	visited := make(map[string]bool)

	for id := range g.Nodes {
		dist[id] = math.Inf(1)
	}
	dist[startID] = 0

	pq := make(priorityQueue, 0)
	heap.Init(&pq)
	heap.Push(&pq, &pqItem{nodeID: startID, cost: 0})

	for pq.Len() > 0 {
		current := heap.Pop(&pq).(*pqItem)
		currentID := current.nodeID

		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		if currentID == endID {
			break
		}

		for _, edge := range g.AdjList[currentID] {
			newCost := dist[currentID] + edge.LengthM
			if newCost < dist[edge.To] {
				dist[edge.To] = newCost
				prev[edge.To] = currentID
				prevEdge[edge.To] = edge
				heap.Push(&pq, &pqItem{nodeID: edge.To, cost: newCost})
			}
		}
	}

	if math.IsInf(dist[endID], 1) {
		return nav.RawPath{}, nav.ErrUnreachable
	}

	// backtrack node sequence
	ids := []string{}
	for at := endID; at != ""; at = prev[at] {
		ids = append(ids, at)
		if at == startID {
			break
		}
	}
	slices.Reverse(ids)

	path := nav.RawPath{
		Points: make([]geo.Position, 0, len(ids)),
		Names:  make([]string, 0, len(ids)-1),
	}
	for i, id := range ids {
		path.Points = append(path.Points, g.Nodes[id].Pos)
		if i > 0 {
			path.Names = append(path.Names, prevEdge[id].Street)
		}
	}

	return path, nil
}
