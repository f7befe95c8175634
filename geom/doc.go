// Package geom provides the planar primitives used by the ETSPPC solver:
// points, identified locations and the Euclidean metric between them.
//
// Everything in this package is an immutable value type. Distances are
// computed with math.Hypot, which avoids intermediate overflow/underflow for
// large or tiny coordinates and is exact enough that coincident points always
// yield a distance of exactly zero.
//
// Contract of Distance / DistanceTo:
//   - non-negative,
//   - symmetric: Distance(a, b) == Distance(b, a),
//   - zero iff both coordinates are equal.
package geom
