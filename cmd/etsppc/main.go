// Command etsppc solves Euclidean travelling-salesman instances with
// precedence constraints.
//
//	etsppc solve instance.yaml --budget 10s --metrics-addr :9090
//	etsppc check instance.yaml
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/safing/portbase/info"
	"github.com/safing/portbase/log"
	"github.com/spf13/cobra"
	"github.com/tevino/abool"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitNoTour = 2
)

// errNoTour marks a run that finished without any tour.
var errNoTour = errors.New("no tour satisfies the constraints")

var logStarted = abool.New()

func main() {
	info.Set("etsppc", "0.1.0", "MIT", false)
	code := run(os.Args[1:], os.Stdout, os.Stderr)
	if logStarted.IsSet() {
		log.Shutdown()
	}
	os.Exit(code)
}

// run executes the command line and maps the outcome to an exit code.
// Logging, once started, stays up until main shuts it down.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errNoTour):
		return exitNoTour
	default:
		return exitFailed
	}
}

type rootFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var rf rootFlags
	root := &cobra.Command{
		Use:           "etsppc",
		Short:         "Branch-and-bound solver for the TSP with precedence constraints",
		Version:       info.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&rf.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&rf.logLevel, "log-level", "", "log level: trace, debug, info, warning, error, critical")

	root.AddCommand(newSolveCmd(&rf), newCheckCmd(&rf))

	return root
}

// startLogging applies the level and starts the portbase logger.
func startLogging(level string) error {
	lvl := log.ParseLevel(level)
	if lvl == 0 {
		return fmt.Errorf("unknown log level %q", level)
	}
	if logStarted.SetToIf(false, true) {
		if err := log.Start(); err != nil {
			return fmt.Errorf("start logging: %w", err)
		}
	}
	log.SetLogLevel(lvl)

	return nil
}
