package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmelnikov/taskalloc/internal/contract"
)

func newDetectCmd(app *App) *cobra.Command {
	var triage bool

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Scan assignments and progress for risk anomalies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			tasks, employees, assignments, logs, err := app.Loader.LoadSnapshot(ctx)
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}

			report, err := app.Detector.Detect(ctx, contract.DetectRequest{
				Tasks:        tasks,
				Employees:    employees,
				Assignments:  assignments,
				ProgressLogs: logs,
				EnrichTriage: triage,
			})
			if err != nil {
				return err
			}

			if len(report.Anomalies) == 0 {
				fmt.Printf("No anomalies across %d tasks and %d employees.\n",
					report.TasksScanned, report.EmployeesScanned)
				return nil
			}

			fmt.Printf("%d anomalies (%d tasks, %d employees scanned):\n\n",
				len(report.Anomalies), report.TasksScanned, report.EmployeesScanned)

			rows := make([][]string, 0, len(report.Anomalies))
			for _, a := range report.Anomalies {
				subject := a.TaskID
				if subject == "" {
					subject = a.EmployeeID
				}
				rows = append(rows, []string{
					string(a.Type),
					string(a.Severity),
					subject,
					truncate(a.Description, 56),
				})
			}
			printTable([]string{"TYPE", "SEVERITY", "SUBJECT", "DESCRIPTION"}, rows)

			if report.Enriched {
				fmt.Println()
				for _, a := range report.Anomalies {
					if a.TriageNotes == "" {
						continue
					}
					fmt.Printf("[%s] %s (priority %s)\n", a.Type, a.TriageNotes, a.TriagePriority)
					for _, action := range a.RecommendedActions {
						fmt.Printf("  - %s\n", action)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&triage, "triage", false,
		"Attach advisory triage notes to each anomaly")

	return cmd
}
