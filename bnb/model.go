// Package bnb: prefetched instance data, lower bound and candidate ordering.
//
// The search never touches *instance.Instance in its hot path. Instead the
// instance is flattened once into dense indices 0..n-1, assigned in ascending
// id order, so that "ascending index" and "ascending id" are the same thing
// and every tie-break by index is a tie-break by id.
package bnb

import (
	"cmp"
	"math"
	"slices"

	"github.com/katalvlaran/etsppc/geom"
	"github.com/katalvlaran/etsppc/instance"
)

// model is the read-only, index-based view of an instance.
type model struct {
	n     int
	ids   []int       // index -> id, ascending
	index map[int]int // id -> index

	w       []float64 // dense distances: w[u*n+v]
	nearest []float64 // per-vertex distance to its nearest other vertex
	global  float64   // lower bound with nothing visited and zero cost

	preds  [][]int // per-vertex predecessor indices
	order  [][]int // per-vertex v≠u sorted by (w[u,v], v)
	starts []int   // vertices without predecessors, ascending
}

// candidate is a feasible next vertex and its distance from the current one.
type candidate struct {
	v int
	d float64
}

// newModel flattens in into dense arrays.
//
// Complexity: O(n² log n + m).
func newModel(in *instance.Instance) *model {
	ids := in.IDs()
	n := len(ids)
	m := &model{
		n:     n,
		ids:   ids,
		index: make(map[int]int, n),
		w:     make([]float64, n*n),
		preds: make([][]int, n),
	}

	locs := make([]geom.Location, n)
	for i, id := range ids {
		m.index[id] = i
		locs[i], _ = in.Location(id)
	}

	// 1. Distances.
	var u, v int
	for u = 0; u < n; u++ {
		for v = u + 1; v < n; v++ {
			d := geom.Distance(locs[u], locs[v])
			m.w[u*n+v] = d
			m.w[v*n+u] = d
		}
	}

	// 2. Predecessors and starts.
	for v = 0; v < n; v++ {
		for _, p := range in.Predecessors(ids[v]) {
			m.preds[v] = append(m.preds[v], m.index[p])
		}
		if len(m.preds[v]) == 0 {
			m.starts = append(m.starts, v)
		}
	}

	m.precomputeNearest()
	m.buildNeighborOrder()

	return m
}

// at is a fast accessor into the dense distance buffer.
func (m *model) at(u, v int) float64 { return m.w[u*m.n+v] }

// precomputeNearest stores, for every vertex, the distance to the first
// nearest other vertex in ascending index order, and caches the global
// bound. A lone vertex has nothing to connect to and contributes 0.
func (m *model) precomputeNearest() {
	m.nearest = make([]float64, m.n)
	if m.n < 2 {
		m.global = 0

		return
	}
	var (
		u, v int
		best float64
		d    float64
	)
	for u = 0; u < m.n; u++ {
		best = math.Inf(1)
		for v = 0; v < m.n; v++ {
			if v == u {
				continue
			}
			if d = m.at(u, v); d < best {
				best = d
			}
		}
		m.nearest[u] = best
	}
	m.global = m.lowerBound(make([]bool, m.n), 0)
}

// buildNeighborOrder lists, for each u, every other vertex nearest first.
// Equal distances fall back to the index, which is the id order.
func (m *model) buildNeighborOrder() {
	m.order = make([][]int, m.n)
	for u := range m.order {
		dist := m.w[u*m.n : (u+1)*m.n]
		row := make([]int, 0, m.n-1)
		for v := range dist {
			if v != u {
				row = append(row, v)
			}
		}
		slices.SortFunc(row, func(a, b int) int {
			if c := cmp.Compare(dist[a], dist[b]); c != 0 {
				return c
			}

			return cmp.Compare(a, b)
		})
		m.order[u] = row
	}
}

// lowerBound returns running plus the nearest-neighbour distance of every
// unvisited vertex. The relaxation ignores direction, precedence and
// connectivity.
//
// Complexity: O(n).
func (m *model) lowerBound(visited []bool, running float64) float64 {
	lb := running
	for v := 0; v < m.n; v++ {
		if !visited[v] {
			lb += m.nearest[v]
		}
	}

	return lb
}

// feasible reports whether v may be visited next given the visited set.
func (m *model) feasible(v int, visited []bool) bool {
	if visited[v] {
		return false
	}
	for _, p := range m.preds[v] {
		if !visited[p] {
			return false
		}
	}

	return true
}

// candidates appends to buf the feasible successors of cur in ascending
// (distance, index) order and returns the extended slice.
//
// Complexity: O(n + p) where p is the number of predecessor checks.
func (m *model) candidates(cur int, visited []bool, buf []candidate) []candidate {
	for _, v := range m.order[cur] {
		if m.feasible(v, visited) {
			buf = append(buf, candidate{v: v, d: m.at(cur, v)})
		}
	}

	return buf
}

// visitedFromIDs converts an id list into a visited bitset.
func (m *model) visitedFromIDs(ids []int) ([]bool, error) {
	visited := make([]bool, m.n)
	for _, id := range ids {
		i, ok := m.index[id]
		if !ok {
			return nil, ErrUnknownLocation
		}
		visited[i] = true
	}

	return visited, nil
}
