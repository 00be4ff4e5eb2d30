// Package cli wires the allocator services into a cobra command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/kmelnikov/taskalloc/internal/config"
	"github.com/kmelnikov/taskalloc/internal/matching"
	"github.com/kmelnikov/taskalloc/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Scheduler service.SchedulerService
	Detector  service.DetectorService
	Importer  service.ImportService
	Loader    service.SnapshotLoader

	// Matcher is fit on the snapshot's skill corpus before each plan run.
	Matcher *matching.Matcher

	// Cfg supplies defaults for strategy and constraint flags.
	Cfg *config.Config

	// IsInteractive reports whether stdin is a terminal, gating the
	// finalize prompt after a plan run.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "taskalloc" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskalloc",
		Short: "Task allocation planner and anomaly detector",
	}

	root.AddCommand(
		newImportCmd(app),
		newPlanCmd(app),
		newFinalizeCmd(app),
		newDiscardCmd(app),
		newDetectCmd(app),
	)

	return root
}
