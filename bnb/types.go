package bnb

import (
	"context"
	"errors"
	"slices"
)

var (
	// ErrNilInstance is returned by New when no instance is given.
	ErrNilInstance = errors.New("bnb: instance is nil")

	// ErrNilSink is returned by New when no result sink is given.
	ErrNilSink = errors.New("bnb: result sink is nil")

	// ErrAlreadyRun is returned when Run is called a second time.
	ErrAlreadyRun = errors.New("bnb: engine already ran")

	// ErrStopped is returned by Run when the search was interrupted before
	// exhausting the search space. The sink still holds the best tour found.
	ErrStopped = errors.New("bnb: search stopped before exhaustion")

	// ErrUnknownLocation indicates an id that is not part of the instance.
	ErrUnknownLocation = errors.New("bnb: unknown location id")

	// ErrNotPermutation indicates an order that does not list every location
	// of the instance exactly once.
	ErrNotPermutation = errors.New("bnb: order is not a permutation of the instance ids")

	// ErrPrecedenceViolated indicates an order that breaks a constraint.
	ErrPrecedenceViolated = errors.New("bnb: precedence constraint violated")

	// ErrCostMismatch indicates a solution whose cost does not match its order.
	ErrCostMismatch = errors.New("bnb: solution cost does not match its order")
)

// Solution is a complete tour.
//
// Order lists every location id exactly once; the tour is implicitly closed
// by the edge from the last id back to Order[0]. Cost includes that edge.
type Solution struct {
	Cost  float64
	Order []int
}

// Tour returns the explicitly closed form of the solution: len(Order)+1 ids
// with the start repeated at the end.
func (s Solution) Tour() []int {
	if len(s.Order) == 0 {
		return nil
	}
	out := make([]int, len(s.Order)+1)
	copy(out, s.Order)
	out[len(s.Order)] = s.Order[0]

	return out
}

// Clone returns a deep copy of s.
func (s Solution) Clone() Solution {
	return Solution{Cost: s.Cost, Order: slices.Clone(s.Order)}
}

// Solver is the single entry point a harness invokes once.
type Solver interface {
	Run(ctx context.Context) error
}

// ResultSink receives complete tours from a search and publishes the best one.
//
// TrySet replaces the stored solution only if cost is strictly lower than the
// stored cost, or nothing is stored yet, and reports whether it did. The
// sink may keep order; callers hand over a fresh slice.
//
// Current returns the best solution so far, or false if there is none.
// Implementations must be safe for a concurrent Current during TrySet.
type ResultSink interface {
	TrySet(cost float64, order []int) bool
	Current() (Solution, bool)
}

// upperBounder is implemented by sinks that can report the incumbent cost
// without copying the order. The engine uses it on every node when present.
type upperBounder interface {
	BestCost() float64
}

// PruneReason tells why a node was cut off.
type PruneReason uint8

const (
	// PruneLowerBound: the lower-bound estimate already reaches the incumbent.
	PruneLowerBound PruneReason = iota
	// PruneCost: the accumulated path cost already reaches the incumbent.
	PruneCost
)

// String returns the label used in logs and metrics.
func (r PruneReason) String() string {
	switch r {
	case PruneLowerBound:
		return "lower_bound"
	case PruneCost:
		return "cost"
	default:
		return "unknown"
	}
}

// BoundPolicy selects the lower bound used for pruning.
type BoundPolicy uint8

const (
	// NearestNeighbourBound sums, for every unvisited location, the distance
	// to its nearest other location. This is the default.
	NearestNeighbourBound BoundPolicy = iota
	// NoBound disables lower-bound pruning; only C ≥ U prunes.
	// Intended for tests and benchmarks.
	NoBound
)

// Hooks are optional callbacks invoked synchronously from the search
// goroutine. They must be cheap; a slow hook slows the search down.
type Hooks struct {
	// OnExpand is called for every node that passed the stop check.
	OnExpand func(depth int)
	// OnPrune is called when a node is cut off.
	OnPrune func(reason PruneReason, depth int)
	// OnDeadEnd is called when no feasible candidate remains before the
	// tour is complete (e.g. constraints block every location left).
	OnDeadEnd func(depth int)
	// OnImprove is called with a private copy of every solution the sink
	// accepted.
	OnImprove func(sol Solution)
}

// Options configures an Engine.
type Options struct {
	Bound BoundPolicy
	Hooks Hooks
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the nearest-neighbour bound and no hooks.
func DefaultOptions() Options {
	return Options{
		Bound: NearestNeighbourBound,
		Hooks: Hooks{},
	}
}

// WithBound selects the bound policy.
func WithBound(p BoundPolicy) Option {
	return func(o *Options) {
		o.Bound = p
	}
}

// WithHooks installs search callbacks. Nil fields are skipped.
func WithHooks(h Hooks) Option {
	return func(o *Options) {
		o.Hooks = h
	}
}

// Stats summarises a finished run.
type Stats struct {
	Starts        int   // start locations explored
	Nodes         int64 // nodes expanded
	PrunedByBound int64 // nodes cut by L ≥ U
	PrunedByCost  int64 // nodes cut by C ≥ U
	DeadEnds      int64 // nodes without feasible candidates
	Completed     int64 // complete tours submitted to the sink
	Improvements  int64 // submissions the sink accepted
	Interrupted   bool  // the run stopped before exhaustion
}
