// Package bnb_test provides helpers shared across the *_test.go files of
// package bnb: small instance builders, a gofakeit-driven random instance
// generator and a brute-force reference solver.
package bnb_test

import (
	"context"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit"
	"github.com/katalvlaran/etsppc/bnb"
	"github.com/katalvlaran/etsppc/geom"
	"github.com/katalvlaran/etsppc/instance"
	"github.com/stretchr/testify/require"
)

const (
	// epsCost is the tolerance for comparing costs accumulated in different
	// summation orders (engine vs brute force rotation).
	epsCost = 1e-9

	// seedDet seeds gofakeit for reproducible instances.
	seedDet = int64(42)
)

// fakeLock serialises access to gofakeit's global generator so that every
// generated instance is reproducible regardless of test ordering.
var fakeLock sync.Mutex

// pt is a shorthand location literal: {id, x, y}.
type pt struct {
	id   int
	x, y float64
}

// mkInstance builds an instance or fails the test.
func mkInstance(t testing.TB, pts []pt, cons ...instance.Constraint) *instance.Instance {
	t.Helper()
	locs := make([]geom.Location, len(pts))
	for i, p := range pts {
		locs[i] = geom.NewLocation(p.id, p.x, p.y)
	}
	in, err := instance.New(locs, cons)
	require.NoError(t, err)

	return in
}

// unitSquare is 1(0,0) 2(0,1) 3(1,1) 4(1,0); optimal perimeter 4.
func unitSquare() []pt {
	return []pt{{1, 0, 0}, {2, 0, 1}, {3, 1, 1}, {4, 1, 0}}
}

// randomInstance draws n locations on a 0..100 integer grid with ids
// 1..n and up to k acyclic constraints obtained by
// orienting random pairs along a hidden random permutation.
func randomInstance(t testing.TB, seed int64, n, k int) *instance.Instance {
	t.Helper()
	fakeLock.Lock()
	defer fakeLock.Unlock()
	gofakeit.Seed(seed)

	pts := make([]pt, n)
	for i := range pts {
		pts[i] = pt{
			id: i + 1,
			x:  float64(gofakeit.Number(0, 100)),
			y:  float64(gofakeit.Number(0, 100)),
		}
	}

	// rank[id] is the position of id in the hidden order.
	rank := make(map[int]int, n)
	hidden := make([]int, n)
	for i := range hidden {
		hidden[i] = i + 1
	}
	for i := n - 1; i > 0; i-- {
		j := gofakeit.Number(0, i)
		hidden[i], hidden[j] = hidden[j], hidden[i]
	}
	for i, id := range hidden {
		rank[id] = i
	}

	cons := make([]instance.Constraint, 0, k)
	for len(cons) < k && n > 1 {
		a := gofakeit.Number(1, n)
		b := gofakeit.Number(1, n)
		if a == b {
			continue
		}
		if rank[a] > rank[b] {
			a, b = b, a
		}
		cons = append(cons, instance.Constraint{First: a, Second: b})
	}

	return mkInstance(t, pts, cons...)
}

// bruteForce enumerates every permutation of the ids and returns the cheapest
// precedence-respecting tour cost, or false if none exists.
func bruteForce(t testing.TB, in *instance.Instance) (float64, bool) {
	t.Helper()
	ids := in.IDs()
	best := math.Inf(1)
	found := false

	var permute func(k int)
	permute = func(k int) {
		if k == len(ids) {
			if bnb.CheckPrecedence(in, ids) != nil {
				return
			}
			c, err := bnb.OrderCost(in, ids)
			require.NoError(t, err)
			if c < best {
				best = c
				found = true
			}

			return
		}
		for i := k; i < len(ids); i++ {
			ids[k], ids[i] = ids[i], ids[k]
			permute(k + 1)
			ids[k], ids[i] = ids[i], ids[k]
		}
	}
	permute(0)

	return best, found
}

// runResult bundles what a single engine run produced.
type runResult struct {
	err          error
	best         bnb.Solution
	found        bool
	stats        bnb.Stats
	improvements []bnb.Solution
}

// runEngine runs a fresh engine to completion (or until ctx ends) and
// records every accepted improvement.
func runEngine(t testing.TB, ctx context.Context, in *instance.Instance, opts ...bnb.Option) runResult {
	t.Helper()
	var res runResult
	tr := bnb.NewTracker()
	hooks := bnb.Hooks{
		OnImprove: func(sol bnb.Solution) {
			res.improvements = append(res.improvements, sol)
		},
	}
	e, err := bnb.New(in, tr, append([]bnb.Option{bnb.WithHooks(hooks)}, opts...)...)
	require.NoError(t, err)

	res.err = e.Run(ctx)
	res.best, res.found = tr.Current()
	res.stats = e.Stats()

	return res
}

// recordingSink wraps a Tracker and remembers every submission.
type recordingSink struct {
	*bnb.Tracker
	submitted []bnb.Solution
}

func (s *recordingSink) TrySet(cost float64, order []int) bool {
	s.submitted = append(s.submitted, bnb.Solution{Cost: cost, Order: slices.Clone(order)})

	return s.Tracker.TrySet(cost, order)
}

// plainSink implements only the ResultSink interface, hiding BestCost so
// the engine falls back to Current for its upper bound.
type plainSink struct {
	inner *bnb.Tracker
}

func (s plainSink) TrySet(cost float64, order []int) bool { return s.inner.TrySet(cost, order) }
func (s plainSink) Current() (bnb.Solution, bool)         { return s.inner.Current() }
