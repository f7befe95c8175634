package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/katalvlaran/etsppc/bnb"
	"github.com/katalvlaran/etsppc/config"
	"github.com/katalvlaran/etsppc/instance"
	"github.com/katalvlaran/etsppc/metrics"
	"github.com/safing/portbase/log"
	"golang.org/x/time/rate"
)

// Run solves in under cfg and blocks until the search finishes, the budget
// elapses or ctx is cancelled. Interruption is not an error: the report then
// carries the best tour found so far with Exhausted == false.
func Run(ctx context.Context, in *instance.Instance, cfg config.Config, opts ...Option) (Report, error) {
	if in == nil {
		return Report{}, ErrNilInstance
	}
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Registry != nil {
		if err := metrics.Register(o.Registry); err != nil {
			return Report{}, fmt.Errorf("harness: register metrics: %w", err)
		}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rep := Report{RunID: uuid.New().String(), Instance: in.Name()}
	started := time.Now()
	log.Infof("harness: run %s: solving %s with %d locations, %d constraints, budget %s",
		rep.RunID, displayName(in), in.Len(), len(in.Constraints()), cfg.TimeBudget)

	// 1) Cyclic precedence admits no tour at all.
	if _, err := in.TopologicalOrder(); errors.Is(err, instance.ErrCycleDetected) {
		log.Warningf("harness: run %s: %s", rep.RunID, err)
		if cfg.SkipInfeasible {
			rep.Skipped = true
			rep.Exhausted = true
			rep.Elapsed = time.Since(started)
			metrics.ObserveRun(metrics.OutcomeSkipped, rep.Elapsed)
			log.Infof("harness: run %s: no tour exists, search skipped", rep.RunID)

			return rep, nil
		}
	}

	// 2) Engine with metrics hooks and throttled improvement logging.
	tr := bnb.NewTracker()
	improveLog := rate.Sometimes{First: 3, Interval: time.Second}
	logged := bnb.Hooks{
		OnImprove: func(sol bnb.Solution) {
			improveLog.Do(func() {
				log.Infof("harness: run %s: improved to %.6f after %s",
					rep.RunID, sol.Cost, time.Since(started).Round(time.Millisecond))
			})
		},
	}
	e, err := bnb.New(in, tr, bnb.WithBound(o.Bound), bnb.WithHooks(metrics.Hooks(&logged)))
	if err != nil {
		return Report{}, err
	}

	// 3) Search in the background, poll the tracker here.
	rctx, cancel := context.WithTimeout(ctx, cfg.TimeBudget)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- e.Run(rctx) }()

	var tick <-chan time.Time
	if cfg.ProgressInterval > 0 {
		ticker := time.NewTicker(cfg.ProgressInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var runErr error
wait:
	for {
		select {
		case runErr = <-done:
			break wait
		case <-tick:
			p := snapshot(rep.RunID, started, tr)
			if p.Found {
				log.Debugf("harness: run %s: %s elapsed, best %.6f", rep.RunID, p.Elapsed.Round(time.Millisecond), p.Cost)
			} else {
				log.Debugf("harness: run %s: %s elapsed, no tour yet", rep.RunID, p.Elapsed.Round(time.Millisecond))
			}
			if o.Progress != nil {
				o.Progress(p)
			}
		}
	}
	rep.Elapsed = time.Since(started)
	rep.Stats = e.Stats()

	// 4) Interruption keeps the incumbent.
	switch {
	case runErr == nil:
		rep.Exhausted = true
	case errors.Is(runErr, bnb.ErrStopped):
		rep.Exhausted = false
	default:
		return Report{}, runErr
	}

	rep.Solution, rep.Found = tr.Current()
	if rep.Found {
		if err = bnb.Verify(in, rep.Solution, verifyTol); err != nil {
			log.Errorf("harness: run %s: invalid tour: %s", rep.RunID, err)

			return Report{}, fmt.Errorf("harness: %w", err)
		}
	}

	outcome := metrics.OutcomeExhausted
	if !rep.Exhausted {
		outcome = metrics.OutcomeInterrupted
	}
	metrics.ObserveRun(outcome, rep.Elapsed)
	logSummary(rep)

	return rep, nil
}

// snapshot reads the tracker without blocking the search.
func snapshot(runID string, started time.Time, tr *bnb.Tracker) Progress {
	p := Progress{RunID: runID, Elapsed: time.Since(started), Improvements: tr.Improvements()}
	if sol, ok := tr.Current(); ok {
		p.Found = true
		p.Cost = sol.Cost
	}

	return p
}

func logSummary(rep Report) {
	switch {
	case rep.Found && rep.Exhausted:
		log.Infof("harness: run %s: optimal tour cost %.6f in %s (%d nodes)",
			rep.RunID, rep.Solution.Cost, rep.Elapsed.Round(time.Millisecond), rep.Stats.Nodes)
	case rep.Found:
		log.Infof("harness: run %s: budget reached, best tour cost %.6f after %s (%d nodes)",
			rep.RunID, rep.Solution.Cost, rep.Elapsed.Round(time.Millisecond), rep.Stats.Nodes)
	case rep.Exhausted:
		log.Infof("harness: run %s: no tour satisfies the constraints", rep.RunID)
	default:
		log.Warningf("harness: run %s: interrupted before any tour was found", rep.RunID)
	}
}

func displayName(in *instance.Instance) string {
	if in.Name() == "" {
		return "unnamed instance"
	}

	return in.Name()
}
