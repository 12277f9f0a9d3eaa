package nav

import "city-guide/internal/domain/geo"

// RawPath is the ordered node sequence produced by a shortest-path query,
// together with the street name of every edge between consecutive nodes.
// Names[i] names the edge Points[i] -> Points[i+1], so a valid path holds
// exactly len(Points)-1 names. A RawPath is consumed once by Decompose and
// not retained afterward.
type RawPath struct {
	Points []geo.Position
	Names  []string
}

// Validate checks the structural invariants of the path.
func (path RawPath) Validate() error {
	if len(path.Points) < 2 {
		return ErrEmptyPath
	}
	if len(path.Names) != len(path.Points)-1 {
		return ErrMalformedPath
	}
	return nil
}
