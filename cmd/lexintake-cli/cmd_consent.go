package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newConsentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consent",
		Short: "Manage the firm's AI enrichment consent",
	}
	cmd.AddCommand(consentGetCmd())
	cmd.AddCommand(consentSetCmd())
	return cmd
}

func consentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the firm's consent state",
		Run: func(cmd *cobra.Command, args []string) {
			rec, err := apiClient.Consent.Get(context.Background())
			if err != nil {
				fatal("get consent", err)
			}
			output(rec, fmt.Sprintf("%t", rec.Allowed))
		},
	}
}

func consentSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <on|off>",
		Short: "Allow or deny AI enrichment for the firm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var allowed bool
			switch args[0] {
			case "on":
				allowed = true
			case "off":
				allowed = false
			default:
				return fmt.Errorf("argument must be on or off, got %q", args[0])
			}

			rec, err := apiClient.Consent.Set(cmd.Context(), allowed)
			if err != nil {
				return fmt.Errorf("set consent: %w", err)
			}
			output(rec, fmt.Sprintf("%t", rec.Allowed))
			return nil
		},
	}
}
