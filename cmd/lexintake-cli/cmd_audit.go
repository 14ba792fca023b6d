package main

import (
	"time"

	"github.com/lexintake/lexintake/client"
	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Read the audit trail",
	}
	cmd.AddCommand(auditTailCmd())
	return cmd
}

func auditTailCmd() *cobra.Command {
	var (
		limit    int
		follow   bool
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Show the newest audit events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			events, err := apiClient.Audit.Recent(ctx, limit)
			if err != nil {
				return err
			}
			printAuditEvents(events)

			if !follow {
				return nil
			}

			// Poll the durable log for events newer than the last one seen.
			since := time.Now().UTC()
			if len(events) > 0 {
				since = events[0].CreatedAt
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}

				fresh, _, err := apiClient.Audit.Query(ctx, &client.AuditQueryOptions{Since: &since})
				if err != nil {
					return err
				}
				if len(fresh) > 0 {
					printAuditEvents(fresh)
					since = fresh[0].CreatedAt
				}
			}
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of events to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep polling for new events")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Poll interval with --follow")
	return cmd
}

func printAuditEvents(events []client.AuditEvent) {
	if flagFmt == "table" {
		rows := make([][]string, 0, len(events))
		for _, e := range events {
			rows = append(rows, []string{
				e.EventType,
				e.ActorID,
				e.EntityType,
				e.EntityID,
				e.CreatedAt.Format(time.RFC3339),
			})
		}
		formatTable([]string{"EVENT", "ACTOR", "ENTITY", "ID", "AT"}, rows)
		return
	}
	for _, e := range events {
		formatJSON(e)
	}
}
