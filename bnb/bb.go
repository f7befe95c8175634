// Package bnb: the branch-and-bound engine.
//
// Engine explores partial tours depth first. State is one shared path and
// one visited bitset: a child is pushed (visited[v]=true, path[d]=v) before
// recursing and popped (visited[v]=false) after the call returns, so every
// level observes exactly the visited set of its own prefix.
//
// Node expansion at depth d (d locations committed, last one is `last`,
// accumulated cost C):
//  1. stop flag set → return;
//  2. U = incumbent cost (or +Inf);
//  3. L = cached global bound when d == 1, else lowerBound(visited, C);
//  4. prune when L ≥ U or C ≥ U (equality prunes: strict improvement only);
//  5. for each candidate in (distance, id) order: push, and if that commits
//     the last location submit C' + w[v, start] to the sink; recurse
//     regardless; pop.
//
// Cancellation is cooperative: a watcher goroutine turns ctx.Done() into an
// atomic stop flag read once per node, so interruption costs at most one
// expansion.
package bnb

import (
	"context"
	"math"
	"slices"

	"github.com/katalvlaran/etsppc/instance"
	"github.com/tevino/abool"
)

// Engine is a one-shot branch-and-bound search over one instance.
type Engine struct {
	m    *model
	sink ResultSink
	ub   upperBounder // nil if the sink cannot report its cost cheaply
	opts Options

	// Search state.
	visited []bool
	path    []int         // path[0:depth], path[0] is the start
	bufs    [][]candidate // per-depth candidate buffers

	stop        abool.AtomicBool
	ran         abool.AtomicBool
	interrupted bool
	stats       Stats
}

var _ Solver = (*Engine)(nil)

// New prepares an engine for in that publishes to sink.
//
// Complexity: O(n² log n) for the prefetch.
func New(in *instance.Instance, sink ResultSink, opts ...Option) (*Engine, error) {
	if in == nil {
		return nil, ErrNilInstance
	}
	if sink == nil {
		return nil, ErrNilSink
	}

	e := &Engine{
		m:    newModel(in),
		sink: sink,
		opts: DefaultOptions(),
	}
	for _, opt := range opts {
		opt(&e.opts)
	}
	if ub, ok := sink.(upperBounder); ok {
		e.ub = ub
	}

	n := e.m.n
	e.visited = make([]bool, n)
	e.path = make([]int, n)
	e.bufs = make([][]candidate, n+1)
	for i := range e.bufs {
		e.bufs[i] = make([]candidate, 0, n)
	}

	return e, nil
}

// GlobalBound returns the cached lower bound with nothing visited.
func (e *Engine) GlobalBound() float64 { return e.m.global }

// LowerBound evaluates the nearest-neighbour bound for a visited id set and
// a running cost.
func (e *Engine) LowerBound(visited []int, running float64) (float64, error) {
	vis, err := e.m.visitedFromIDs(visited)
	if err != nil {
		return 0, err
	}

	return e.m.lowerBound(vis, running), nil
}

// Candidate is a feasible next location and its distance from the current one.
type Candidate struct {
	ID       int
	Distance float64
}

// Candidates lists the feasible next locations from current given the
// visited ids, ascending by distance with ties broken by ascending id.
// current is treated as visited whether or not it appears in visited.
func (e *Engine) Candidates(current int, visited []int) ([]Candidate, error) {
	cur, ok := e.m.index[current]
	if !ok {
		return nil, ErrUnknownLocation
	}
	vis, err := e.m.visitedFromIDs(visited)
	if err != nil {
		return nil, err
	}
	vis[cur] = true

	raw := e.m.candidates(cur, vis, nil)
	out := make([]Candidate, len(raw))
	for i, c := range raw {
		out[i] = Candidate{ID: e.m.ids[c.v], Distance: c.d}
	}

	return out, nil
}

// StartIDs returns the valid start locations in the order they are explored.
func (e *Engine) StartIDs() []int {
	out := make([]int, len(e.m.starts))
	for i, s := range e.m.starts {
		out[i] = e.m.ids[s]
	}

	return out
}

// Stop asks a running search to return at the next node boundary.
// It is safe to call from any goroutine, before or during Run.
func (e *Engine) Stop() { e.stop.Set() }

// Stats returns the counters of the run. Only meaningful once Run returned.
func (e *Engine) Stats() Stats { return e.stats }

// Run explores every valid start in ascending id order.
//
// It returns nil once the search space is exhausted (whether or not a tour
// exists), ErrStopped when interrupted by ctx or Stop, and ErrAlreadyRun on a
// second call. Infeasible instances are not an error: the sink simply stays
// empty.
func (e *Engine) Run(ctx context.Context) error {
	if !e.ran.SetToIf(false, true) {
		return ErrAlreadyRun
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() { e.stats.Interrupted = e.interrupted }()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			e.stop.Set()
		case <-done:
		}
	}()
	if ctx.Err() != nil {
		e.stop.Set()
	}

	for _, s := range e.m.starts {
		if e.stopped() {
			break
		}
		e.stats.Starts++
		e.visited[s] = true
		e.path[0] = s
		if e.m.n == 1 {
			// A single location is a closed tour of length zero.
			e.submit(0)
		} else {
			e.expand(s, 1, 0)
		}
		e.visited[s] = false
	}

	if e.interrupted {
		return ErrStopped
	}

	return nil
}

// stopped reads the stop flag and latches the interruption.
func (e *Engine) stopped() bool {
	if e.stop.IsSet() {
		e.interrupted = true

		return true
	}

	return false
}

// upper returns the incumbent cost or +Inf.
func (e *Engine) upper() float64 {
	if e.ub != nil {
		return e.ub.BestCost()
	}
	if sol, ok := e.sink.Current(); ok {
		return sol.Cost
	}

	return math.Inf(1)
}

// expand processes one node; see the file comment for the steps.
func (e *Engine) expand(last int, depth int, cost float64) {
	if e.stopped() {
		return
	}
	e.stats.Nodes++
	if e.opts.Hooks.OnExpand != nil {
		e.opts.Hooks.OnExpand(depth)
	}

	ub := e.upper()
	if e.opts.Bound != NoBound {
		lb := e.m.global
		if depth > 1 {
			lb = e.m.lowerBound(e.visited, cost)
		}
		if lb >= ub {
			e.prune(PruneLowerBound, depth)

			return
		}
	}
	if cost >= ub {
		e.prune(PruneCost, depth)

		return
	}

	cands := e.m.candidates(last, e.visited, e.bufs[depth][:0])
	e.bufs[depth] = cands
	if len(cands) == 0 {
		if depth < e.m.n {
			e.stats.DeadEnds++
			if e.opts.Hooks.OnDeadEnd != nil {
				e.opts.Hooks.OnDeadEnd(depth)
			}
		}

		return
	}

	var (
		c    candidate
		next float64
	)
	for _, c = range cands {
		if e.stopped() {
			return
		}
		e.visited[c.v] = true
		e.path[depth] = c.v
		next = cost + c.d
		if depth+1 == e.m.n {
			e.submit(next + e.m.at(c.v, e.path[0]))
		}
		e.expand(c.v, depth+1, next)
		e.visited[c.v] = false
	}
}

// prune records a cut-off node.
func (e *Engine) prune(reason PruneReason, depth int) {
	switch reason {
	case PruneLowerBound:
		e.stats.PrunedByBound++
	case PruneCost:
		e.stats.PrunedByCost++
	}
	if e.opts.Hooks.OnPrune != nil {
		e.opts.Hooks.OnPrune(reason, depth)
	}
}

// submit hands the complete path to the sink.
func (e *Engine) submit(total float64) {
	e.stats.Completed++
	order := make([]int, e.m.n)
	for i, v := range e.path {
		order[i] = e.m.ids[v]
	}
	if !e.sink.TrySet(total, order) {
		return
	}
	e.stats.Improvements++
	if e.opts.Hooks.OnImprove != nil {
		e.opts.Hooks.OnImprove(Solution{Cost: total, Order: slices.Clone(order)})
	}
}
