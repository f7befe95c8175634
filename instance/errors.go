package instance

import "errors"

var (
	// ErrNoLocations is returned when an instance would contain no location.
	ErrNoLocations = errors.New("instance: no locations")

	// ErrDuplicateID indicates that two locations share the same id.
	ErrDuplicateID = errors.New("instance: duplicate location id")

	// ErrInvalidCoordinate indicates a NaN or infinite coordinate, or
	// coordinates spread so far apart that distances overflow.
	ErrInvalidCoordinate = errors.New("instance: coordinate out of range")

	// ErrUnknownLocation indicates a constraint or lookup referencing an id
	// that is not part of the instance.
	ErrUnknownLocation = errors.New("instance: unknown location id")

	// ErrCycleDetected is returned by TopologicalOrder when the precedence
	// constraints admit no valid visiting order.
	ErrCycleDetected = errors.New("instance: precedence constraints contain a cycle")
)
