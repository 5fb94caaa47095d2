package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexwatch/lexwatch/pkg/client"
)

// newHearingsCmd groups hearing-related commands.
func newHearingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hearings",
		Short: "Manage hearing preparation task chains",
	}
	cmd.AddCommand(newHearingsGenerateCmd())
	return cmd
}

// newHearingsGenerateCmd expands a hearing into its preparatory task chain.
func newHearingsGenerateCmd() *cobra.Command {
	var req client.GenerateHearingTasksRequest

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the preparatory task chain for a hearing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			resp, err := cliCtx.Client.Tasks().GenerateHearingTasks(ctx, req)
			if err != nil {
				return err
			}

			return printResult(cmd, cliCtx, resp, func() error {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %d tasks:\n", resp.Total)
				for _, id := range resp.TaskIDs {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", id)
				}
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.NotificationID, "notification", "", "source notification id (required)")
	f.StringVar(&req.LawyerID, "lawyer", "", "responsible lawyer id (required)")
	f.StringVar(&req.OfficeID, "office", "", "office id for template lookup")
	f.StringVar(&req.HearingDate, "date", "", "hearing date, 2006-01-02 (required)")
	f.StringVar(&req.Court, "court", "", "court name")
	f.StringVar(&req.ProcedureNumber, "procedure", "", "procedure number")
	f.StringVar(&req.ClientName, "client", "", "client name")
	f.StringVar(&req.OpposingParty, "opposing", "", "opposing party name")
	_ = cmd.MarkFlagRequired("notification")
	_ = cmd.MarkFlagRequired("lawyer")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
