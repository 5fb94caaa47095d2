package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newAlertsCmd groups the deadline-alert scheduler commands.
func newAlertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Generate, deliver and summarize tiered deadline alerts",
	}
	cmd.AddCommand(newAlertsGenerateCmd(), newAlertsCheckCmd(), newAlertsSummaryCmd())
	return cmd
}

func newAlertsGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Compute the pending alert schedule for open tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			resp, err := cliCtx.Client.Alerts().Generate(ctx)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, resp, func() error {
				out := cmd.OutOrStdout()
				if resp.Total == 0 {
					fmt.Fprintln(out, "No pending alerts.")
					return nil
				}
				fmt.Fprintf(out, "Pending alerts: %d\n", resp.Total)
				for _, a := range resp.Alerts {
					fmt.Fprintf(out, "  %-5s %s  -> %s  (%s)\n",
						a.Tier, a.ScheduledFor.Format("2006-01-02 15:04"), a.RecipientEmail, a.Title)
				}
				return nil
			})
		},
	}
}

func newAlertsCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Deliver every alert whose scheduled time has passed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			resp, err := cliCtx.Client.Alerts().Check(ctx)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, resp, func() error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Sent: %d  Failed: %d\n", resp.Sent, resp.Failed)
				for _, r := range resp.Results {
					if r.Success {
						continue
					}
					fmt.Fprintf(out, "  FAILED %s: %s\n", r.AlertID, r.Message)
				}
				return nil
			})
		},
	}
}

func newAlertsSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the pending alert workload",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			resp, err := cliCtx.Client.Alerts().Summary(ctx)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, resp, func() error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Due within 24h:     %d\n", resp.DueWithin24h)
				fmt.Fprintf(out, "Scheduled today:    %d\n", resp.ScheduledToday)
				fmt.Fprintf(out, "Scheduled tomorrow: %d\n", resp.ScheduledTomorrow)
				fmt.Fprintf(out, "Total pending:      %d\n", resp.TotalPending)
				return nil
			})
		},
	}
}
