package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bayarcash-backend/internal/config"
	"bayarcash-backend/internal/domains/payment/gateway/bayarcash"
	"bayarcash-backend/internal/domains/payment/model"
)

func checksumCmd() *cobra.Command {
	var (
		method string
		secret string
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "checksum key=value...",
		Short: "Sign or verify a callback payload",
		Long: `Compute the checksum Bayarcash would send for a callback, or with --verify
check the payload's own checksum field. The secret defaults to the method's
API secret key.

Example:
  bayarcashctl checksum record_type=transaction_receipt order_number=100 status=3 amount=10.00 ...`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parsePairs(args)
			if err != nil {
				return err
			}

			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				settings, ok := cfg.Bayarcash.Methods[method]
				if !ok || settings.APISecretKey == "" {
					return model.NewMissingCredentialsError(method)
				}
				secret = settings.APISecretKey
			}

			if verify {
				if !bayarcash.VerifyChecksum(payload, secret) {
					return model.NewChecksumMismatchError(payload.OrderNumber())
				}
				fmt.Fprintln(cmd.OutOrStdout(), "checksum OK")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), bayarcash.SignCallback(payload, secret))
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", model.MethodFPX, "payment method whose secret signs the payload")
	cmd.Flags().StringVar(&secret, "secret", "", "explicit API secret key")
	cmd.Flags().BoolVar(&verify, "verify", false, "verify the checksum field instead of computing one")
	return cmd
}

func parsePairs(args []string) (model.CallbackPayload, error) {
	payload := model.CallbackPayload{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		payload[key] = value
	}
	return payload, nil
}
