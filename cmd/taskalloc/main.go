package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/kmelnikov/taskalloc/internal/advisory"
	"github.com/kmelnikov/taskalloc/internal/cli"
	"github.com/kmelnikov/taskalloc/internal/config"
	"github.com/kmelnikov/taskalloc/internal/db"
	"github.com/kmelnikov/taskalloc/internal/matching"
	"github.com/kmelnikov/taskalloc/internal/repository"
	"github.com/kmelnikov/taskalloc/internal/scoring"
	"github.com/kmelnikov/taskalloc/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	employeeRepo := repository.NewSQLiteEmployeeRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database)
	progressRepo := repository.NewSQLiteProgressLogRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Wire the scoring engine. A missing or unloadable model artifact
	// selects the heuristic path.
	matcher := matching.NewMatcher()
	builder := scoring.NewBuilder(matcher)
	var predictor scoring.Predictor
	if cfg.ModelPath != "" {
		predictor, err = scoring.LoadPredictor(cfg.ModelPath)
		if err != nil {
			logger.Warn("model artifact unavailable, using heuristic scoring",
				"path", cfg.ModelPath, "err", err)
			predictor = nil
		}
	}
	engine := scoring.NewEngine(builder, predictor, logger)

	observer := service.NewLogOpObserver(os.Stderr)

	// Wire the advisory collaborator (only when enabled)
	var advisor advisory.Advisor
	advCfg := advisory.LoadConfig()
	if advCfg.Enabled {
		advisor = advisory.NewClient(advCfg, advisory.NewLogObserver(os.Stderr))
	}

	ttl := time.Duration(cfg.PreviewTTLMin) * time.Minute
	app := &cli.App{
		Scheduler: service.NewSchedulerService(engine, uow, ttl, observer),
		Detector:  service.NewDetectorService(advisor, observer),
		Importer:  service.NewImportService(uow, observer),
		Loader:    service.NewSnapshotLoader(employeeRepo, taskRepo, assignmentRepo, progressRepo),
		Matcher:   matcher,
		Cfg:       cfg,
	}

	// Detect interactive terminal for the finalize prompt.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
