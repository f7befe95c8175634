// Package harness runs the branch-and-bound engine under a wall-clock
// budget, polls the incumbent while the search runs and returns a Report.
//
// Flow of Run:
//  1. Validate the configuration and allocate a run id.
//  2. Pre-check the precedence graph; with SkipInfeasible a cycle
//     short-circuits the run.
//  3. Start the engine in its own goroutine under context.WithTimeout.
//  4. Every ProgressInterval read the tracker and report progress.
//  5. Map interruption to Exhausted == false, verify the tour, record metrics.
package harness

import (
	"errors"
	"time"

	"github.com/katalvlaran/etsppc/bnb"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrNilInstance is returned when Run receives a nil instance.
var ErrNilInstance = errors.New("harness: instance is nil")

// verifyTol is the cost tolerance for the final tour check.
const verifyTol = 1e-9

// Report describes one finished run.
type Report struct {
	RunID     string
	Instance  string
	Solution  bnb.Solution
	Found     bool
	Exhausted bool // search space fully explored; a found tour is optimal
	Skipped   bool // cyclic constraints, search not started
	Elapsed   time.Duration
	Stats     bnb.Stats
}

// Progress is a snapshot handed to the progress callback.
type Progress struct {
	RunID        string
	Elapsed      time.Duration
	Found        bool
	Cost         float64
	Improvements int64
}

// Options tune a run beyond the Config.
type Options struct {
	// Registry receives the search collectors; nil leaves registration to
	// the caller.
	Registry prometheus.Registerer
	// Progress, when set, is called from the Run goroutine on every tick.
	Progress func(Progress)
	// Bound selects the engine's lower-bound policy.
	Bound bnb.BoundPolicy
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns options with no registry, no progress callback and
// the nearest-neighbour bound.
func DefaultOptions() Options {
	return Options{Bound: bnb.NearestNeighbourBound}
}

// WithRegistry registers the search collectors on reg before the run.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(o *Options) { o.Registry = reg }
}

// WithProgress installs a progress callback.
func WithProgress(fn func(Progress)) Option {
	return func(o *Options) { o.Progress = fn }
}

// WithBound overrides the engine's lower-bound policy.
func WithBound(p bnb.BoundPolicy) Option {
	return func(o *Options) { o.Bound = p }
}
