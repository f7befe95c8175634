package bnb

import (
	"math"
	"slices"
	"sync"
	"sync/atomic"
)

// Tracker is the default ResultSink.
//
// The incumbent is kept as an immutable *Solution behind an atomic pointer:
// readers load the pointer and never observe a half-written (cost, order)
// pair. Writers serialise on mu so the compare-and-replace in TrySet is
// atomic with respect to other writers.
//
// The zero value is ready to use.
type Tracker struct {
	mu           sync.Mutex
	best         atomic.Pointer[Solution]
	improvements atomic.Int64
}

var _ ResultSink = (*Tracker)(nil)

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// TrySet stores (cost, order) if cost is strictly lower than the current
// incumbent, or if there is none. NaN costs are always rejected.
// order is copied; the caller may reuse it.
//
// Complexity: O(n) for the copy on acceptance, O(1) otherwise.
func (t *Tracker) TrySet(cost float64, order []int) bool {
	if math.IsNaN(cost) {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if cur := t.best.Load(); cur != nil && !(cost < cur.Cost) {
		return false
	}
	t.best.Store(&Solution{Cost: cost, Order: slices.Clone(order)})
	t.improvements.Add(1)

	return true
}

// Current returns a copy of the incumbent.
func (t *Tracker) Current() (Solution, bool) {
	cur := t.best.Load()
	if cur == nil {
		return Solution{}, false
	}

	return cur.Clone(), true
}

// BestCost returns the incumbent cost, or +Inf when nothing is stored.
// It never allocates.
func (t *Tracker) BestCost() float64 {
	cur := t.best.Load()
	if cur == nil {
		return math.Inf(1)
	}

	return cur.Cost
}

// Improvements returns how many solutions TrySet accepted.
func (t *Tracker) Improvements() int64 {
	return t.improvements.Load()
}
