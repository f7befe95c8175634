package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/katalvlaran/etsppc/config"
	"github.com/katalvlaran/etsppc/harness"
	"github.com/katalvlaran/etsppc/instance"
	"github.com/katalvlaran/etsppc/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/safing/portbase/log"
	"github.com/spf13/cobra"
)

func newSolveCmd(rf *rootFlags) *cobra.Command {
	var (
		budget      time.Duration
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "solve <instance>",
		Short: "Search for the cheapest tour within a time budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rf)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("budget") {
				cfg.TimeBudget = budget
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}
			if err = cfg.Validate(); err != nil {
				return err
			}
			if err = startLogging(cfg.LogLevel); err != nil {
				return err
			}

			in, err := instance.Load(args[0])
			if err != nil {
				return err
			}

			if cfg.MetricsAddr != "" {
				stop := serveMetrics(cfg.MetricsAddr)
				defer stop()
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			rep, err := harness.Run(ctx, in, cfg)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), rep)
			if !rep.Found {
				return errNoTour
			}

			return nil
		},
	}
	cmd.Flags().DurationVar(&budget, "budget", config.Default().TimeBudget, "wall-clock limit for the search")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	return cmd
}

// loadConfig merges the optional file and the --log-level flag over the defaults.
func loadConfig(rf *rootFlags) (config.Config, error) {
	cfg := config.Default()
	if rf.configPath != "" {
		var err error
		if cfg, err = config.Load(rf.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if rf.logLevel != "" {
		cfg.LogLevel = rf.logLevel
	}

	return cfg, nil
}

// serveMetrics exposes metrics.Registry on addr and returns a stop func.
func serveMetrics(addr string) func() {
	metrics.RegisterDefault()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Infof("etsppc: serving metrics on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("etsppc: metrics server: %s", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func printReport(w io.Writer, rep harness.Report) {
	status := "no tour"
	switch {
	case rep.Skipped:
		status = "no tour (cyclic constraints)"
	case rep.Found && rep.Exhausted:
		status = "optimal"
	case rep.Found:
		status = "best found (interrupted)"
	case !rep.Exhausted:
		status = "interrupted"
	}

	fmt.Fprintf(w, "run:     %s\n", rep.RunID)
	if rep.Instance != "" {
		fmt.Fprintf(w, "name:    %s\n", rep.Instance)
	}
	fmt.Fprintf(w, "status:  %s\n", status)
	if rep.Found {
		tour := rep.Solution.Tour()
		ids := make([]string, len(tour))
		for i, id := range tour {
			ids[i] = fmt.Sprint(id)
		}
		fmt.Fprintf(w, "cost:    %.6f\n", rep.Solution.Cost)
		fmt.Fprintf(w, "tour:    %s\n", strings.Join(ids, " "))
	}
	fmt.Fprintf(w, "nodes:   %d\n", rep.Stats.Nodes)
	fmt.Fprintf(w, "elapsed: %s\n", rep.Elapsed.Round(time.Millisecond))
}
