package instance

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/katalvlaran/etsppc/geom"
)

// Constraint requires First to be visited strictly before Second.
// The closing edge of a tour back to its start does not count as "before".
//
// Constraint is comparable, so equality and hashing are structural and it can
// be used directly as a map key.
type Constraint struct {
	First  int
	Second int
}

// String renders the constraint as "first<second".
func (c Constraint) String() string {
	return fmt.Sprintf("%d<%d", c.First, c.Second)
}

// compareConstraints orders constraints by (First, Second).
func compareConstraints(a, b Constraint) int {
	if c := cmp.Compare(a.First, b.First); c != 0 {
		return c
	}

	return cmp.Compare(a.Second, b.Second)
}

// Option configures optional instance metadata.
type Option func(*Instance)

// WithName attaches a human-readable name to the instance.
func WithName(name string) Option {
	return func(in *Instance) {
		in.name = name
	}
}

// Instance is an immutable ETSPPC instance.
type Instance struct {
	name        string
	ids         []int                 // ascending
	locations   map[int]geom.Location // id -> location
	constraints []Constraint          // deduplicated, sorted by (First, Second)
	preds       map[int][]int         // Second -> ascending unique Firsts
}

// New validates and freezes an instance.
//
// Contract:
//   - at least one location (ErrNoLocations);
//   - unique ids (ErrDuplicateID);
//   - finite coordinates (ErrInvalidCoordinate);
//   - a bounding box small enough that every distance and every tour cost
//     stays finite (ErrInvalidCoordinate);
//   - every constraint endpoint is a known id (ErrUnknownLocation).
//
// Duplicate constraints are collapsed. Self-constraints (A, A) are kept: they
// make the instance infeasible, which is reported by TopologicalOrder and by
// the search returning no solution, not by New.
//
// Complexity: O(n log n + m log m) for n locations and m constraints.
func New(locations []geom.Location, constraints []Constraint, opts ...Option) (*Instance, error) {
	if len(locations) == 0 {
		return nil, ErrNoLocations
	}

	in := &Instance{
		ids:       make([]int, 0, len(locations)),
		locations: make(map[int]geom.Location, len(locations)),
		preds:     make(map[int][]int),
	}
	for _, opt := range opts {
		opt(in)
	}

	// 1. Locations: uniqueness, finiteness and extent.
	lo := geom.Point{X: math.Inf(1), Y: math.Inf(1)}
	hi := geom.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, loc := range locations {
		if _, dup := in.locations[loc.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, loc.ID)
		}
		if !loc.Finite() {
			return nil, fmt.Errorf("%w: location %d at %s", ErrInvalidCoordinate, loc.ID, loc.Point)
		}
		in.locations[loc.ID] = loc
		in.ids = append(in.ids, loc.ID)
		lo.X, lo.Y = min(lo.X, loc.X), min(lo.Y, loc.Y)
		hi.X, hi.Y = max(hi.X, loc.X), max(hi.Y, loc.Y)
	}
	slices.Sort(in.ids)

	// No edge is longer than the box diagonal and a tour has n edges.
	if diag := lo.DistanceTo(hi); math.IsInf(diag*float64(len(in.ids)), 0) {
		return nil, fmt.Errorf("%w: bounding box %s to %s overflows tour costs", ErrInvalidCoordinate, lo, hi)
	}

	// 2. Constraints: known endpoints, set semantics.
	seen := make(map[Constraint]struct{}, len(constraints))
	for _, c := range constraints {
		if _, ok := in.locations[c.First]; !ok {
			return nil, fmt.Errorf("%w: %d in constraint %s", ErrUnknownLocation, c.First, c)
		}
		if _, ok := in.locations[c.Second]; !ok {
			return nil, fmt.Errorf("%w: %d in constraint %s", ErrUnknownLocation, c.Second, c)
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		in.constraints = append(in.constraints, c)
		in.preds[c.Second] = append(in.preds[c.Second], c.First)
	}
	slices.SortFunc(in.constraints, compareConstraints)
	for id := range in.preds {
		slices.Sort(in.preds[id])
	}

	return in, nil
}

// Name returns the optional instance name.
func (in *Instance) Name() string { return in.name }

// Len returns the number of locations.
func (in *Instance) Len() int { return len(in.ids) }

// IDs returns all location ids in ascending order.
func (in *Instance) IDs() []int { return slices.Clone(in.ids) }

// Location looks up a location by id.
func (in *Instance) Location(id int) (geom.Location, bool) {
	loc, ok := in.locations[id]

	return loc, ok
}

// Locations returns a copy of the id -> location mapping.
func (in *Instance) Locations() map[int]geom.Location {
	return maps.Clone(in.locations)
}

// Constraints returns the deduplicated constraints sorted by (First, Second).
func (in *Instance) Constraints() []Constraint {
	return slices.Clone(in.constraints)
}

// Distance returns the Euclidean distance between two locations of the instance.
func (in *Instance) Distance(a, b int) (float64, error) {
	la, ok := in.locations[a]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownLocation, a)
	}
	lb, ok := in.locations[b]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownLocation, b)
	}

	return geom.Distance(la, lb), nil
}

// String summarises the instance for logs.
func (in *Instance) String() string {
	name := in.name
	if name == "" {
		name = "unnamed"
	}

	return fmt.Sprintf("%s (%d locations, %d constraints)", name, len(in.ids), len(in.constraints))
}
