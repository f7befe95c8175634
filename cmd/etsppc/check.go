package main

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/etsppc/instance"
	"github.com/spf13/cobra"
)

func newCheckCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check <instance>",
		Short: "Validate an instance and report its start locations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rf)
			if err != nil {
				return err
			}
			if err = startLogging(cfg.LogLevel); err != nil {
				return err
			}

			in, err := instance.Load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "locations:   %d\n", in.Len())
			fmt.Fprintf(w, "constraints: %d\n", len(in.Constraints()))
			fmt.Fprintf(w, "starts:      %v\n", in.StartIDs())

			order, err := in.TopologicalOrder()
			if errors.Is(err, instance.ErrCycleDetected) {
				fmt.Fprintln(w, "feasible:    no")

				return errNoTour
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "feasible:    yes")
			fmt.Fprintf(w, "order:       %v\n", order)

			return nil
		},
	}
}
