package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmelnikov/taskalloc/internal/config"
	"github.com/kmelnikov/taskalloc/internal/db"
	"github.com/kmelnikov/taskalloc/internal/matching"
	"github.com/kmelnikov/taskalloc/internal/repository"
	"github.com/kmelnikov/taskalloc/internal/scoring"
	"github.com/kmelnikov/taskalloc/internal/service"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()

	conn, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	employeeRepo := repository.NewSQLiteEmployeeRepo(conn)
	taskRepo := repository.NewSQLiteTaskRepo(conn)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(conn)
	progressRepo := repository.NewSQLiteProgressLogRepo(conn)
	uow := db.NewSQLiteUnitOfWork(conn)

	matcher := matching.NewMatcher()
	engine := scoring.NewEngine(scoring.NewBuilder(matcher), nil, nil)

	return &App{
		Scheduler:     service.NewSchedulerService(engine, uow, 0),
		Detector:      service.NewDetectorService(nil),
		Importer:      service.NewImportService(uow),
		Loader:        service.NewSnapshotLoader(employeeRepo, taskRepo, assignmentRepo, progressRepo),
		Matcher:       matcher,
		Cfg:           config.New(),
		IsInteractive: func() bool { return false },
	}
}

// executeCmd runs a cobra command, capturing everything the handlers print.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = pw

	var buf strings.Builder
	done := make(chan struct{})
	go func() {
		io.Copy(&buf, pr)
		close(done)
	}()

	root := NewRootCmd(app)
	root.SetOut(pw)
	root.SetErr(pw)
	root.SetArgs(args)
	root.SilenceUsage = true
	execErr := root.Execute()

	pw.Close()
	os.Stdout = origStdout
	<-done
	return buf.String(), execErr
}

func writeTestSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	content := `{
		"employees": [
			{"id": "e1", "name": "Dana", "skills": "Go, SQL", "experience_years": 6,
			 "current_workload": 10, "max_workload": 40, "availability": "available",
			 "performance_rating": 4},
			{"id": "e2", "name": "Riley", "skills": "Python, Flask", "experience_years": 3,
			 "current_workload": 5, "max_workload": 40, "availability": "available",
			 "performance_rating": 3.5}
		],
		"tasks": [
			{"id": "t1", "title": "Build exporter", "required_skills": "Go",
			 "priority": "high", "estimated_hours": 8, "complexity_score": 3},
			{"id": "t2", "title": "Patch API", "required_skills": "Python",
			 "priority": "medium", "estimated_hours": 4, "complexity_score": 2}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportCmd(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "import", writeTestSnapshot(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 employees, 2 tasks")
}

func TestImportCmd_MissingFile(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "import", filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestPlanCmd_PreviewOnly(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", writeTestSnapshot(t))
	require.NoError(t, err)

	// Non-interactive without --auto-finalize discards after previewing.
	out, err := executeCmd(t, app, "plan")
	require.NoError(t, err)
	assert.Contains(t, out, "Assigned: 2")
	assert.Contains(t, out, "Build exporter")
	assert.Contains(t, out, "Preview discarded.")

	planOut, err := executeCmd(t, app, "plan")
	require.NoError(t, err)
	assert.Contains(t, planOut, "Assigned: 2", "discarded previews leave tasks pending")
}

func TestPlanCmd_AutoFinalize(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", writeTestSnapshot(t))
	require.NoError(t, err)

	out, err := executeCmd(t, app, "plan", "--auto-finalize")
	require.NoError(t, err)
	assert.Contains(t, out, "2 assignments stored")

	// Finalized tasks are no longer pending.
	out, err = executeCmd(t, app, "plan")
	require.NoError(t, err)
	assert.Contains(t, out, "No pending tasks to assign.")
}

func TestPlanCmd_UnknownStrategy(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", writeTestSnapshot(t))
	require.NoError(t, err)

	_, err = executeCmd(t, app, "plan", "--strategy", "coin_flip")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNKNOWN_STRATEGY")
}

func TestPlanCmd_EmptyDatabase(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "plan")
	require.NoError(t, err)
	assert.Contains(t, out, "No pending tasks to assign.")
}

func TestFinalizeCmd_UnknownPreview(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "finalize", "no-such-preview")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREVIEW_NOT_FOUND")
}

func TestDiscardCmd_UnknownPreview(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "discard", "no-such-preview")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PREVIEW_NOT_FOUND")
}

func TestDetectCmd_CleanDatabase(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "import", writeTestSnapshot(t))
	require.NoError(t, err)

	out, err := executeCmd(t, app, "detect")
	require.NoError(t, err)
	assert.Contains(t, out, "No anomalies")
}

func TestDetectCmd_FindsOverload(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "overload.json")
	content := `{
		"employees": [
			{"id": "e1", "name": "Swamped", "skills": "Go",
			 "current_workload": 41, "max_workload": 40, "availability": "busy"}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	_, err := executeCmd(t, app, "import", path)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "detect")
	require.NoError(t, err)
	assert.Contains(t, out, "workload_overload")
	assert.Contains(t, out, "e1")
}
