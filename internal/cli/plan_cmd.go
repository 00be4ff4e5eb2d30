package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmelnikov/taskalloc/internal/contract"
	"github.com/kmelnikov/taskalloc/internal/domain"
)

func newPlanCmd(app *App) *cobra.Command {
	var strategy string
	var maxAssignments int
	var requireAvailable bool
	var workloadWeight float64
	var autoFinalize bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview assignments for pending tasks",
		Long: "Plan scores every pending task against every employee, previews the\n" +
			"proposed assignments, and optionally finalizes them into the database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			tasks, employees, _, _, err := app.Loader.LoadSnapshot(ctx)
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}

			pending := make([]domain.Task, 0, len(tasks))
			for _, t := range tasks {
				if t.Status == domain.TaskPending {
					pending = append(pending, t)
				}
			}
			if len(pending) == 0 {
				fmt.Println("No pending tasks to assign.")
				return nil
			}
			if len(employees) == 0 {
				fmt.Println("No employees in the database. Run import first.")
				return nil
			}

			fitMatcher(app, pending, employees)

			cons := contract.Constraints{
				MaxAssignmentsPerEmployee: maxAssignments,
				RequireAvailable:          requireAvailable,
				WorkloadWeight:            workloadWeight,
			}
			preview, err := app.Scheduler.PreviewAssignments(ctx, contract.PreviewRequest{
				Tasks:       pending,
				Employees:   employees,
				Strategy:    domain.Strategy(strategy),
				Constraints: &cons,
			})
			if err != nil {
				return err
			}

			printPreview(preview)

			if preview.Summary.AssignmentsCreated == 0 {
				return nil
			}
			if !autoFinalize && !confirmFinalize(app) {
				if err := app.Scheduler.DiscardPreview(ctx, preview.ID); err != nil {
					return err
				}
				fmt.Println("Preview discarded.")
				return nil
			}

			result, err := app.Scheduler.FinalizeAssignments(ctx, preview.ID)
			if err != nil {
				return err
			}
			fmt.Printf("Finalized preview %s: %d assignments stored.\n",
				result.PreviewID, result.AssignmentsStored)
			return nil
		},
	}

	cfg := app.Cfg
	cmd.Flags().StringVar(&strategy, "strategy", cfg.Strategy,
		"Assignment strategy: priority_greedy, workload_balanced, optimal_bipartite")
	cmd.Flags().IntVar(&maxAssignments, "max-assignments", cfg.MaxAssignments,
		"Maximum tasks assigned to one employee per run")
	cmd.Flags().BoolVar(&requireAvailable, "require-available", cfg.RequireAvailable,
		"Only assign to employees marked available")
	cmd.Flags().Float64Var(&workloadWeight, "workload-weight", cfg.WorkloadWeight,
		"Workload blend weight for the workload_balanced strategy")
	cmd.Flags().BoolVar(&autoFinalize, "auto-finalize", false,
		"Finalize the preview immediately without prompting")

	return cmd
}

// fitMatcher rebuilds the skill vocabulary from the live snapshot so cosine
// similarity reflects the terms actually in play.
func fitMatcher(app *App, tasks []domain.Task, employees []domain.Employee) {
	if app.Matcher == nil {
		return
	}
	corpus := make([]string, 0, len(tasks)+len(employees))
	for _, t := range tasks {
		corpus = append(corpus, t.RequiredSkills)
	}
	for _, e := range employees {
		corpus = append(corpus, e.Skills)
	}
	app.Matcher.Fit(corpus)
}

// confirmFinalize asks the operator whether to commit the preview. Previews
// live in process memory, so a non-interactive run without --auto-finalize
// can only discard.
func confirmFinalize(app *App) bool {
	if app.IsInteractive == nil || !app.IsInteractive() {
		fmt.Println("Non-interactive session: rerun with --auto-finalize to commit.")
		return false
	}
	fmt.Print("Finalize these assignments? [y/N] ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printPreview(p *contract.Preview) {
	fmt.Printf("Preview %s (strategy %s)\n", p.ID, p.Strategy)
	fmt.Printf("Tasks: %d  Employees: %d  Assigned: %d  Unassigned: %d\n\n",
		p.Summary.TotalTasks, p.Summary.TotalEmployees,
		p.Summary.AssignmentsCreated, p.Summary.UnassignedTasks)

	if len(p.Assignments) == 0 {
		fmt.Println("No viable assignments under the current constraints.")
		return
	}

	rows := make([][]string, 0, len(p.Assignments))
	for _, a := range p.Assignments {
		rows = append(rows, []string{
			truncate(a.TaskTitle, 32),
			truncate(a.EmployeeName, 24),
			fmt.Sprintf("%.3f", a.Score),
			fmt.Sprintf("%.2f", a.Confidence),
			fmt.Sprintf("%.1fh", a.EstimatedHours),
		})
	}
	printTable([]string{"TASK", "EMPLOYEE", "SCORE", "CONF", "EST"}, rows)
}
