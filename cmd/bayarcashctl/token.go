package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bayarcash-backend/internal/config"
	"bayarcash-backend/internal/domains/payment/model"
	"bayarcash-backend/internal/domains/payment/token"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue or inspect return tokens with the configured TOKEN_SECRET",
	}

	var purpose, key string
	addFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&purpose, "purpose", model.PurposeCheckout, "token purpose")
		c.Flags().StringVar(&key, "key", model.KeyCheckout, "key the token is bound to")
	}

	issue := &cobra.Command{
		Use:   "issue [payload]",
		Short: "Issue a token for payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := loadCodec()
			if err != nil {
				return err
			}
			raw, err := codec.Issue(args[0], purpose, key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}
	addFlags(issue)

	consume := &cobra.Command{
		Use:   "consume [token]",
		Short: "Decrypt a token and print its payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := loadCodec()
			if err != nil {
				return err
			}
			tok, err := codec.Consume(args[0], key, purpose)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "payload:   %s\n", tok.Payload)
			fmt.Fprintf(out, "purpose:   %s\n", tok.Purpose)
			fmt.Fprintf(out, "issued_at: %s\n", tok.IssuedAt.UTC().Format("2006-01-02T15:04:05Z"))
			fmt.Fprintf(out, "ledger_id: %s\n", tok.ID)
			return nil
		},
	}
	addFlags(consume)

	cmd.AddCommand(issue, consume)
	return cmd
}

func loadCodec() (*token.Codec, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return token.NewCodec(cfg.Token.Secret, cfg.Token.TTL)
}
