package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bayarcash-backend/internal/domains/payment/model"
	"bayarcash-backend/internal/domains/payment/report"
	"bayarcash-backend/pkg/container"
)

func reportCmd() *cobra.Command {
	var (
		output string
		method string
		since  time.Duration
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export received callbacks to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := model.CallbackLogFilter{
				From:          time.Now().Add(-since),
				To:            time.Now(),
				PaymentMethod: method,
				Limit:         limit,
			}
			if err := filter.Validate(); err != nil {
				return err
			}

			c, err := container.NewContainer()
			if err != nil {
				return err
			}
			defer c.Cleanup()

			logs, err := c.CallbackLogs.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			f, err := report.BuildCallbackReport(logs)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := f.SaveAs(output); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d callbacks to %s\n", len(logs), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "callbacks.xlsx", "output file")
	cmd.Flags().StringVar(&method, "method", "", "only callbacks for this payment method")
	cmd.Flags().DurationVar(&since, "since", 24*time.Hour, "how far back to export")
	cmd.Flags().IntVar(&limit, "limit", 1000, "maximum rows")
	return cmd
}
