package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Load an employee/task snapshot into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			result, err := app.Importer.ImportSnapshot(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d employees, %d tasks, %d progress logs from %s\n",
				result.Employees, result.Tasks, result.ProgressLogs, args[0])
			return nil
		},
	}
}
