package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lexwatch/lexwatch/pkg/client"
)

// newDeadlinesCmd lists upcoming procedural deadlines.
func newDeadlinesCmd() *cobra.Command {
	var (
		lawyerID   string
		withinDays int
	)

	cmd := &cobra.Command{
		Use:   "deadlines",
		Short: "List upcoming procedural deadlines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			resp, err := cliCtx.Client.Deadlines().ListUpcoming(ctx, client.ListDeadlinesOptions{
				LawyerID:   lawyerID,
				WithinDays: withinDays,
			})
			if err != nil {
				return err
			}

			return printResult(cmd, cliCtx, resp, func() error {
				if resp.Total == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No upcoming deadlines.")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "DUE DATE\tDAYS\tPRIORITY\tTITLE\tLAWYER\tPROCEDURE")
				for _, d := range resp.Deadlines {
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
						d.DueDate.Format("2006-01-02"),
						d.BusinessDaysRemaining,
						d.Priority,
						d.Title,
						d.LawyerName,
						d.ProcedureNumber)
				}
				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&lawyerID, "lawyer", "", "restrict to one lawyer id")
	cmd.Flags().IntVar(&withinDays, "within-days", 7, "calendar-day lookahead")
	return cmd
}
