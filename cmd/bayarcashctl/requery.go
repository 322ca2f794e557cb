package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"bayarcash-backend/internal/config"
	"bayarcash-backend/internal/domains/payment/gateway/bayarcash"
	"bayarcash-backend/internal/domains/payment/model"
	"bayarcash-backend/pkg/container"
)

func requeryCmd() *cobra.Command {
	var (
		method string
		apply  bool
	)

	cmd := &cobra.Command{
		Use:   "requery [transaction-id]",
		Short: "Fetch a transaction from Bayarcash",
		Long:  "Print the authoritative status of a transaction. With --apply the result is reconciled against its order.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			settings, ok := cfg.Bayarcash.Methods[method]
			if !ok || !settings.HasCredentials() {
				return model.NewMissingCredentialsError(method)
			}

			client, err := bayarcash.NewClient(bayarcash.NewConfig(cfg.Bayarcash.HTTPTimeout))
			if err != nil {
				return err
			}
			result, err := client.RequeryTransaction(cmd.Context(), args[0], settings.BearerToken, settings.Sandbox)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}

			if apply {
				return applyResult(cmd, *result)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", model.MethodFPX, "payment method whose bearer token is used")
	cmd.Flags().BoolVar(&apply, "apply", false, "reconcile the result against its order")
	return cmd
}

func applyResult(cmd *cobra.Command, result model.TransactionResult) error {
	c, err := container.NewContainer()
	if err != nil {
		return err
	}
	defer c.Cleanup()

	if err := c.Engine.Apply(cmd.Context(), result); err != nil {
		return err
	}
	cmd.Printf("order %s reconciled\n", result.OrderNumber)
	return nil
}
