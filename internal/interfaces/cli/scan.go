package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lexwatch/lexwatch/pkg/client"
)

// newScanCmd runs the three-day acceptance rule scan.
func newScanCmd() *cobra.Command {
	var (
		officeID string
		expired  bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan unaccepted notifications against the 72-hour acceptance rule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			if expired {
				resp, err := cliCtx.Client.Deadlines().Expired(ctx)
				if err != nil {
					return err
				}
				return printResult(cmd, cliCtx, resp, func() error {
					if resp.Total == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No expired notifications.")
						return nil
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Expired notifications: %d\n", resp.Total)
					printNotifications(cmd.OutOrStdout(), resp.Notifications)
					return nil
				})
			}

			summary, err := cliCtx.Client.Deadlines().AcceptanceSummary(ctx, officeID)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, summary, func() error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Pending notifications: %d\n", summary.TotalPending)
				if summary.NextExpiration != nil {
					fmt.Fprintf(out, "Next expiration: %s\n", summary.NextExpiration.Format("2006-01-02 15:04 MST"))
				}
				printBucket(out, "CRITICAL", summary.Critical)
				printBucket(out, "URGENT", summary.Urgent)
				printBucket(out, "WARNING", summary.Warning)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&officeID, "office", "", "restrict the scan to one office id")
	cmd.Flags().BoolVar(&expired, "expired", false, "list notifications past the acceptance window instead")
	return cmd
}

func printBucket(out io.Writer, label string, notifications []client.PendingNotification) {
	if len(notifications) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s (%d):\n", label, len(notifications))
	printNotifications(out, notifications)
}

func printNotifications(out io.Writer, notifications []client.PendingNotification) {
	for _, n := range notifications {
		fmt.Fprintf(out, "  %-14s %5.1fh remaining  %s  %s\n",
			n.LexnetID, n.HoursRemaining, n.Court, n.ProcedureNumber)
	}
}
