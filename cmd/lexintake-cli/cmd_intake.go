package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lexintake/lexintake/client"
	"github.com/spf13/cobra"
)

func newIntakeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Inspect and triage intakes",
	}
	cmd.AddCommand(intakeListCmd())
	cmd.AddCommand(intakeGetCmd())
	cmd.AddCommand(intakeStatusCmd())
	cmd.AddCommand(intakeExportCmd())
	return cmd
}

func intakeListCmd() *cobra.Command {
	var (
		status  string
		urgency string
		area    string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List intakes, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			intakes, err := apiClient.Intakes.List(context.Background(), &client.IntakeListOptions{
				Status:  status,
				Urgency: urgency,
				Area:    area,
				Limit:   limit,
			})
			if err != nil {
				fatal("list intakes", err)
			}

			if flagFmt == "table" {
				rows := make([][]string, 0, len(intakes))
				for _, in := range intakes {
					classification, badge := "", ""
					if in.Enrichment != nil {
						classification = in.Enrichment.Classification
					}
					if in.Limitation != nil {
						badge = in.Limitation.Badge
					}
					rows = append(rows, []string{
						in.ID,
						in.Channel,
						truncate(in.ClientName, 24),
						classification,
						badge,
						in.Status,
						in.CreatedAt.Format(time.RFC3339),
					})
				}
				formatTable([]string{"ID", "CHANNEL", "CLIENT", "CLASSIFICATION", "BADGE", "STATUS", "CREATED"}, rows)
				return
			}
			output(intakes, fmt.Sprintf("%d", len(intakes)))
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (new|in-review|closed)")
	cmd.Flags().StringVar(&urgency, "urgency", "", "Filter by limitation badge (red|amber|green)")
	cmd.Flags().StringVar(&area, "area", "", "Filter by claim classification")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum results")
	return cmd
}

func intakeGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an intake by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			in, err := apiClient.Intakes.Get(context.Background(), args[0])
			if err != nil {
				fatal("get intake", err)
			}
			output(in, in.ID)
		},
	}
}

func intakeStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <new|in-review|closed>",
		Short: "Move an intake through the review workflow",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			in, err := apiClient.Intakes.UpdateStatus(context.Background(), args[0], args[1])
			if err != nil {
				fatal("update status", err)
			}
			output(in, in.ID)
		},
	}
}

func intakeExportCmd() *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a finalized intake as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := apiClient.Intakes.Export(cmd.Context(), args[0])
			if err != nil {
				if client.IsGone(err) {
					return fmt.Errorf("intake %s is past its retention period", args[0])
				}
				return fmt.Errorf("export failed: %w", err)
			}

			out, err := json.MarshalIndent(in, "", "  ")
			if err != nil {
				return fmt.Errorf("marshalling export: %w", err)
			}

			if outputPath == "" {
				outputPath = fmt.Sprintf("intake-%s.json", in.ID)
			}
			if outputPath == "-" {
				_, err = os.Stdout.Write(out)
				return err
			}
			if err := os.WriteFile(outputPath, out, 0o600); err != nil {
				return fmt.Errorf("writing export file: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Exported intake %s to %s\n", in.ID, outputPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: intake-<id>.json, use - for stdout)")
	return cmd
}
