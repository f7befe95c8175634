// Package instance: precedence analysis.
//
// The constraints of an instance form a directed graph First→Second. A tour
// exists iff that graph is acyclic; a location may start a tour iff it has no
// incoming edge. TopologicalOrder follows the classic three-colour DFS:
//
//	White: not visited yet
//	Gray:  on the recursion stack
//	Black: fully explored
//
// Reaching a Gray vertex again is a back edge and therefore a cycle.
//
// Complexity: O(n + m) time, O(n + m) memory.
package instance

import "slices"

const (
	white = iota
	gray
	black
)

// Predecessors returns the ids that must be visited before id, ascending.
// The result is nil when id has no predecessor or is unknown.
func (in *Instance) Predecessors(id int) []int {
	return slices.Clone(in.preds[id])
}

// StartIDs returns the ids that never appear as Second in any constraint,
// ascending. Only these locations can start a valid tour.
func (in *Instance) StartIDs() []int {
	out := make([]int, 0, len(in.ids))
	for _, id := range in.ids {
		if len(in.preds[id]) == 0 {
			out = append(out, id)
		}
	}

	return out
}

// topoSorter holds the state of a single TopologicalOrder call.
type topoSorter struct {
	succ  map[int][]int
	state map[int]int
	order []int // post-order
}

// TopologicalOrder returns all ids in an order that satisfies every
// constraint, or ErrCycleDetected. Ties are resolved by ascending id so the
// result is deterministic.
func (in *Instance) TopologicalOrder() ([]int, error) {
	s := &topoSorter{
		succ:  make(map[int][]int, len(in.preds)),
		state: make(map[int]int, len(in.ids)),
		order: make([]int, 0, len(in.ids)),
	}
	// constraints are sorted by (First, Second), so successor lists are ascending.
	for _, c := range in.constraints {
		s.succ[c.First] = append(s.succ[c.First], c.Second)
	}

	// Visit in descending id order so that, without constraints, the
	// reversed post-order is simply the ascending id list.
	for i := len(in.ids) - 1; i >= 0; i-- {
		if s.state[in.ids[i]] == white {
			if !s.visit(in.ids[i]) {
				return nil, ErrCycleDetected
			}
		}
	}
	slices.Reverse(s.order)

	return s.order, nil
}

// visit explores id and reports false on a back edge.
func (s *topoSorter) visit(id int) bool {
	s.state[id] = gray
	next := s.succ[id]
	for i := len(next) - 1; i >= 0; i-- {
		switch s.state[next[i]] {
		case gray:
			return false
		case white:
			if !s.visit(next[i]) {
				return false
			}
		}
	}
	s.state[id] = black
	s.order = append(s.order, id)

	return true
}

// Feasible reports whether the constraints admit at least one visiting order.
func (in *Instance) Feasible() bool {
	_, err := in.TopologicalOrder()

	return err == nil
}
