package nav

import "city-guide/internal/domain/geo"

// Decompose turns a raw shortest path into a Route of navigation legs.
//
// Checkpoints are the path's first node, every node where the street name
// changes, and the path's last node. Each consecutive checkpoint triple
// (c_i, c_i+1, c_i+2) yields one leg, so N checkpoints produce N-2 legs.
// A path that never changes street has exactly two checkpoints and yields
// an empty route; the caller treats that as "already arrived".
func Decompose(path RawPath) (Route, error) {
	if err := path.Validate(); err != nil {
		return Route{}, err
	}

	// single linear pass collecting checkpoint indices
	checkpoints := []int{0}
	for i := 1; i < len(path.Names); i++ {
		if path.Names[i] != path.Names[i-1] {
			checkpoints = append(checkpoints, i)
		}
	}
	checkpoints = append(checkpoints, len(path.Points)-1)

	legs := make([]Leg, 0, len(checkpoints))
	for i := 0; i+2 < len(checkpoints); i++ {
		src := path.Points[checkpoints[i]]
		mid := path.Points[checkpoints[i+1]]
		dst := path.Points[checkpoints[i+2]]

		legs = append(legs, Leg{
			Src: src,
			Mid: mid,
			Dst: dst,
			// within a checkpoint group every edge shares one name, so the
			// name of the group's first edge names the whole segment
			CurrentName: path.Names[checkpoints[i]],
			NextName:    path.Names[checkpoints[i+1]],
			Angle:       geo.TurnAngle(src, mid, dst),
			Length:      geo.Haversine(src, mid),
		})
	}

	return Route{
		Legs:        legs,
		Destination: path.Points[len(path.Points)-1],
	}, nil
}
