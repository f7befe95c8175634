// Package bnb implements the branch-and-bound search for the Euclidean
// Travelling Salesman Problem with Precedence Constraints (ETSPPC).
//
// The package is organised around four collaborating pieces:
//
//   - Lower-bound estimator (model.go): running cost plus, for every
//     unvisited location, the distance to its nearest other location.
//     The global form (nothing visited, zero cost) is cached.
//   - Candidate ordering (model.go): feasible next locations from the
//     current one, ascending by distance, ties broken by ascending id.
//   - Search engine (bb.go): depth-first exploration from every valid start
//     over a single shared path/visited buffer (push before recursing, pop
//     after returning), pruning with L ≥ U or C ≥ U.
//   - Solution tracker (tracker.go): the best tour found so far, safe for
//     concurrent readers while the search keeps improving it.
//
// The engine depends only on two narrow interfaces, Solver and ResultSink,
// so a harness can run it under a time budget and read the incumbent from
// another goroutine at any moment.
//
// Determinism: start locations are explored in ascending id order and
// neighbours in ascending (distance, id) order, so for a fixed instance the
// sequence of improving solutions is always the same.
//
// Complexity:
//   - Worst case exponential in n (the problem is NP-hard).
//   - Per node: O(n) for the bound + O(n + p) for candidate filtering,
//     where p is the number of predecessor checks.
//   - Memory: O(n²) for the prefetched distances and neighbour rows,
//     O(n²) for per-depth candidate buffers, O(n) for the path.
package bnb
