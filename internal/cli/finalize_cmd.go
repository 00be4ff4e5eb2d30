package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmelnikov/taskalloc/internal/contract"
)

func newFinalizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <preview-id>",
		Short: "Commit a previewed assignment batch to the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			result, err := app.Scheduler.FinalizeAssignments(ctx, args[0])
			if err != nil {
				return decoratePreviewErr(err)
			}

			fmt.Printf("Finalized preview %s: %d assignments stored.\n",
				result.PreviewID, result.AssignmentsStored)
			return nil
		},
	}
}

func newDiscardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <preview-id>",
		Short: "Drop a previewed assignment batch without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := app.Scheduler.DiscardPreview(ctx, args[0]); err != nil {
				return decoratePreviewErr(err)
			}
			fmt.Printf("Discarded preview %s.\n", args[0])
			return nil
		},
	}
}

// decoratePreviewErr adds a usage hint to preview lookups, since previews
// are held in process memory and do not survive across invocations.
func decoratePreviewErr(err error) error {
	var schedErr *contract.ScheduleError
	if errors.As(err, &schedErr) && schedErr.Code == contract.ErrPreviewNotFound {
		return fmt.Errorf("%w (previews expire with the process; use plan --auto-finalize for one-shot runs)", err)
	}
	return err
}
