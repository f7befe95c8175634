// Package metrics exposes Prometheus collectors for branch-and-bound runs
// and a bnb.Hooks adapter that feeds them.
package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/katalvlaran/etsppc/bnb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Run outcomes used as the "outcome" label of RunsTotal.
const (
	OutcomeExhausted   = "exhausted"
	OutcomeInterrupted = "interrupted"
	OutcomeSkipped     = "skipped"
)

var (
	// Registry is the dedicated Prometheus registry served by the CLI.
	Registry = prometheus.NewRegistry()

	// NodesExpanded counts search nodes that passed the stop check.
	NodesExpanded = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "etsppc_nodes_expanded_total", Help: "Search nodes expanded."},
	)
	// Prunes counts pruned subtrees by reason.
	Prunes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "etsppc_prunes_total", Help: "Subtrees pruned, by reason."},
		[]string{"reason"},
	)
	// DeadEnds counts partial paths with no feasible extension.
	DeadEnds = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "etsppc_dead_ends_total", Help: "Partial paths with no feasible extension."},
	)
	// Improvements counts accepted incumbents.
	Improvements = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "etsppc_improvements_total", Help: "Strictly better tours accepted."},
	)
	// BestCost holds the cost of the latest incumbent.
	BestCost = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "etsppc_best_cost", Help: "Cost of the current best tour."},
	)
	// RunsTotal counts finished runs by outcome.
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "etsppc_runs_total", Help: "Finished runs by outcome."},
		[]string{"outcome"},
	)
	// RunDuration records wall time of runs in seconds.
	RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "etsppc_run_duration_seconds",
			Help:    "Run wall time in seconds.",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"outcome"},
	)
)

var regOnce sync.Once

// searchCollectors lists every collector owned by this package.
func searchCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		NodesExpanded, Prunes, DeadEnds, Improvements, BestCost, RunsTotal, RunDuration,
	}
}

// RegisterDefault registers the collectors on Registry together with the Go
// and process collectors. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		for _, c := range searchCollectors() {
			Registry.MustRegister(c)
		}
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Register adds the search collectors to reg. Collectors already present
// on reg are skipped.
func Register(reg prometheus.Registerer) error {
	for _, c := range searchCollectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}

			return err
		}
	}

	return nil
}

// Hooks returns search hooks that update the collectors.
// next, when non-nil, is chained after each metrics update.
func Hooks(next *bnb.Hooks) bnb.Hooks {
	var chain bnb.Hooks
	if next != nil {
		chain = *next
	}

	return bnb.Hooks{
		OnExpand: func(depth int) {
			NodesExpanded.Inc()
			if chain.OnExpand != nil {
				chain.OnExpand(depth)
			}
		},
		OnPrune: func(reason bnb.PruneReason, depth int) {
			Prunes.WithLabelValues(reason.String()).Inc()
			if chain.OnPrune != nil {
				chain.OnPrune(reason, depth)
			}
		},
		OnDeadEnd: func(depth int) {
			DeadEnds.Inc()
			if chain.OnDeadEnd != nil {
				chain.OnDeadEnd(depth)
			}
		},
		OnImprove: func(sol bnb.Solution) {
			Improvements.Inc()
			BestCost.Set(sol.Cost)
			if chain.OnImprove != nil {
				chain.OnImprove(sol)
			}
		},
	}
}

// ObserveRun records the outcome and wall time of a finished run.
func ObserveRun(outcome string, elapsed time.Duration) {
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
