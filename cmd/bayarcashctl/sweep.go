package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"bayarcash-backend/internal/domains/payment/job"
	"bayarcash-backend/pkg/container"
)

func sweepCmd() *cobra.Command {
	var (
		methods []string
		enqueue bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Requery pending orders now",
		Long: `Run one requery sweep in this process, or with --enqueue hand it to the worker.
A sweep already holding the lease makes this command fail with BC008.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := container.NewContainer()
			if err != nil {
				return err
			}
			defer c.Cleanup()

			if len(methods) == 0 {
				methods = c.Config.Sweep.Methods
			}

			if enqueue {
				info, err := job.EnqueueSweep(cmd.Context(), c.AsynqClient, methods...)
				if err != nil {
					return err
				}
				cmd.Printf("enqueued sweep task %s on queue %s\n", info.ID, info.Queue)
				return nil
			}

			report, err := c.Sweeper.Sweep(cmd.Context(), methods...)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringSliceVarP(&methods, "method", "m", nil, "payment methods to sweep (default SWEEP_METHODS)")
	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "enqueue the sweep for the worker instead of running it here")
	return cmd
}
