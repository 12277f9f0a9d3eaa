package nav

import "errors"

var (
	// ErrEmptyPath is returned when a raw path holds fewer than two nodes.
	ErrEmptyPath = errors.New("path must contain at least two nodes")

	// ErrMalformedPath is returned when the edge-name count does not match
	// the node count of a raw path.
	ErrMalformedPath = errors.New("path must carry one street name per edge")

	// ErrUnreachable is returned when no path exists between two nodes.
	ErrUnreachable = errors.New("no possible route between the given points")

	// ErrUnresolvedDestination is returned when a destination query matches
	// no known place.
	ErrUnresolvedDestination = errors.New("destination could not be resolved")

	// ErrProviderUnavailable wraps transient failures of an external
	// collaborator (street graph, geocoder). Callers may retry with backoff.
	ErrProviderUnavailable = errors.New("provider unavailable")
)
