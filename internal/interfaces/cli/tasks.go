package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lexwatch/lexwatch/pkg/client"
)

// newTasksCmd groups task lookup and completion commands.
func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect and complete procedural tasks",
	}
	cmd.AddCommand(newTasksGetCmd(), newTasksCompleteCmd())
	return cmd
}

func newTasksGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			task, err := cliCtx.Client.Tasks().Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, task, func() error {
				printTask(cmd.OutOrStdout(), task)
				return nil
			})
		},
	}
}

func newTasksCompleteCmd() *cobra.Command {
	var req client.CompleteTaskRequest

	cmd := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			task, err := cliCtx.Client.Tasks().Complete(ctx, args[0], req)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx, task, func() error {
				fmt.Fprintf(cmd.OutOrStdout(), "Task %s completed.\n", task.ID)
				printTask(cmd.OutOrStdout(), task)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.CompletedBy, "by", "", "lawyer id completing the task (required)")
	cmd.Flags().StringVar(&req.Justification, "justification", "", "reason for early or late completion")
	_ = cmd.MarkFlagRequired("by")
	return cmd
}

func printTask(out io.Writer, t *client.Task) {
	fmt.Fprintf(out, "ID:         %s\n", t.ID)
	fmt.Fprintf(out, "Type:       %s\n", t.Type)
	fmt.Fprintf(out, "Status:     %s\n", t.Status)
	fmt.Fprintf(out, "Priority:   %s\n", t.Priority)
	fmt.Fprintf(out, "Title:      %s\n", t.Title)
	fmt.Fprintf(out, "Due:        %s\n", t.DueDate.Format("2006-01-02"))
	if t.Court != "" {
		fmt.Fprintf(out, "Court:      %s\n", t.Court)
	}
	if t.ProcedureNumber != "" {
		fmt.Fprintf(out, "Procedure:  %s\n", t.ProcedureNumber)
	}
	if t.CompletedAt != nil {
		fmt.Fprintf(out, "Completed:  %s by %s\n", t.CompletedAt.Format("2006-01-02 15:04"), t.CompletedBy)
		if t.Justification != "" {
			fmt.Fprintf(out, "Reason:     %s\n", t.Justification)
		}
	}
}
