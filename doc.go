// Package etsppc solves the Euclidean travelling-salesman problem with
// precedence constraints by exact depth-first branch and bound.
//
// What is in the box?
//
//	geom/      points, locations and Euclidean distance
//	instance/  validated immutable instances, YAML loader, precedence analysis
//	bnb/       the search engine, lower bound, solution tracker, tour checks
//	metrics/   Prometheus collectors fed by search hooks
//	config/    run configuration (YAML + defaults)
//	harness/   time-budget runner with concurrent progress reads
//	cmd/etsppc the `solve` and `check` command line
//
// A tour visits every location exactly once and returns to its start. A
// constraint (a, b) requires a to be visited strictly before b; the closing
// edge gives no credit. The engine explores every valid start in ascending
// id order, prunes with the running cost plus each unvisited location's
// nearest-neighbour distance, and publishes strictly better tours to a
// ResultSink that other goroutines may read at any time.
//
// Quick start:
//
//	in, _ := instance.Load("square.yaml")
//	tr := bnb.NewTracker()
//	e, _ := bnb.New(in, tr)
//	_ = e.Run(ctx)
//	sol, ok := tr.Current()
//
// The search is exponential in the worst case; use harness.Run (or the CLI
// --budget flag) to bound wall time and keep the best tour found so far.
package etsppc
