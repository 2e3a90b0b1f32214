package models

import "errors"

// Routing failure kinds. All are recoverable and reported to the caller;
// handlers map each to a distinct HTTP status.
var (
	// ErrInvalidInput indicates out-of-range coordinates, level or threshold
	ErrInvalidInput = errors.New("invalid input")

	// ErrGraphUnavailable indicates the map data source is unreachable or
	// the requested region yields an empty graph
	ErrGraphUnavailable = errors.New("road graph unavailable")

	// ErrStartOrEndInHazard indicates an endpoint lies inside a blocking
	// hazard circle
	ErrStartOrEndInHazard = errors.New("start or end point inside a blocking hazard")

	// ErrNoSafeRoute indicates the safe subgraph is disconnected between
	// start and end
	ErrNoSafeRoute = errors.New("no safe route exists")

	// ErrSearchTimeout indicates the search was cancelled before completing
	ErrSearchTimeout = errors.New("route search timed out")

	// ErrNotFound indicates an unknown route or hazard identifier
	ErrNotFound = errors.New("not found")
)
