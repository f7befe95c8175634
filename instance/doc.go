// Package instance models an ETSPPC problem instance: a set of uniquely
// identified planar locations together with precedence constraints of the
// form "First must be visited before Second".
//
// An *Instance is immutable once New returns it. All accessors hand out
// copies, so an instance can be shared freely between the search goroutine
// and any concurrent reader.
//
// Besides the model itself the package provides:
//   - precedence analysis (valid start locations, predecessors, a
//     topological order and cycle detection), see precedence.go;
//   - a YAML loader (Decode / Load), see load.go.
//
// Errors are strict sentinels (see errors.go); callers match them with
// errors.Is.
package instance
