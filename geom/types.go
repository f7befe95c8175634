package geom

import (
	"fmt"
	"math"
)

// Point is a coordinate in the Euclidean plane.
type Point struct {
	X float64
	Y float64
}

// DistanceTo returns the Euclidean distance between p and q.
//
// Complexity: O(1).
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Finite reports whether both coordinates are finite (no NaN, no ±Inf).
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) &&
		!math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// String renders the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Location is a uniquely identified point that a tour has to visit.
// IDs are chosen by the caller and only need to be unique within an instance.
type Location struct {
	ID int
	Point
}

// NewLocation builds a Location from an id and raw coordinates.
func NewLocation(id int, x, y float64) Location {
	return Location{ID: id, Point: Point{X: x, Y: y}}
}

// DistanceTo returns the Euclidean distance between the two locations.
func (l Location) DistanceTo(o Location) float64 {
	return l.Point.DistanceTo(o.Point)
}

// String renders the location as "#id(x, y)".
func (l Location) String() string {
	return fmt.Sprintf("#%d%s", l.ID, l.Point)
}

// Distance is the free-function form of Location.DistanceTo.
func Distance(a, b Location) float64 {
	return a.Point.DistanceTo(b.Point)
}
