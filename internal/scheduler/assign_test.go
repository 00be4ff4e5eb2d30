package scheduler

import (
	"testing"
	"time"

	"github.com/kmelnikov/taskalloc/internal/contract"
	"github.com/kmelnikov/taskalloc/internal/domain"
	"github.com/kmelnikov/taskalloc/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedScorer returns canned scores keyed by "employeeID|taskID", with a
// default for pairs not listed.
type fixedScorer struct {
	scores map[string]float64
	def    float64
}

func (f *fixedScorer) Score(e *domain.Employee, t *domain.Task, _ time.Time) scoring.Result {
	score, ok := f.scores[e.ID+"|"+t.ID]
	if !ok {
		score = f.def
	}
	return scoring.Result{Score: score, Confidence: 0.6, Features: []float64{score}}
}

func worker(id string, workload, max float64) domain.Employee {
	return domain.Employee{
		ID: id, Name: "worker-" + id, Skills: "Python, Flask",
		ExperienceYears: 5, CurrentWorkload: workload, MaxWorkload: max,
		Availability: domain.Available,
	}
}

func job(id string, priority domain.Priority, hours float64) domain.Task {
	return domain.Task{
		ID: id, Title: "task-" + id, RequiredSkills: "Python",
		Priority: priority, EstimatedHours: hours, Status: domain.TaskPending,
	}
}

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func TestPriorityGreedy_CapacityEnforced(t *testing.T) {
	employees := []domain.Employee{worker("e1", 35, 40)}
	tasks := []domain.Task{job("t1", domain.PriorityHigh, 10)}

	out := Assign(tasks, employees, domain.StrategyPriorityGreedy,
		contract.DefaultConstraints(), &fixedScorer{def: 0.9}, testNow)

	assert.Empty(t, out, "35h committed plus a 10h task exceeds the 40h cap")
}

func TestPriorityGreedy_MaxAssignmentsPerEmployee(t *testing.T) {
	employees := []domain.Employee{worker("e1", 0, 100)}
	tasks := []domain.Task{
		job("t-low", domain.PriorityLow, 5),
		job("t-crit", domain.PriorityCritical, 5),
	}
	cons := contract.DefaultConstraints()
	cons.MaxAssignmentsPerEmployee = 1

	out := Assign(tasks, employees, domain.StrategyPriorityGreedy,
		cons, &fixedScorer{def: 0.8}, testNow)

	require.Len(t, out, 1)
	assert.Equal(t, "t-crit", out[0].TaskID, "critical outranks low when only one slot remains")
}

func TestPriorityGreedy_PicksBestScore(t *testing.T) {
	employees := []domain.Employee{worker("e1", 0, 40), worker("e2", 0, 40)}
	tasks := []domain.Task{job("t1", domain.PriorityMedium, 8)}

	scorer := &fixedScorer{scores: map[string]float64{
		"e1|t1": 0.4,
		"e2|t1": 0.7,
	}}
	out := Assign(tasks, employees, domain.StrategyPriorityGreedy,
		contract.DefaultConstraints(), scorer, testNow)

	require.Len(t, out, 1)
	assert.Equal(t, "e2", out[0].EmployeeID)
	assert.Equal(t, 0.7, out[0].Score)
	assert.Equal(t, domain.StrategyPriorityGreedy, out[0].Strategy)
}

func TestPriorityGreedy_SkipsUnavailable(t *testing.T) {
	busy := worker("e1", 0, 40)
	busy.Availability = domain.OnLeave
	employees := []domain.Employee{busy}
	tasks := []domain.Task{job("t1", domain.PriorityHigh, 8)}

	out := Assign(tasks, employees, domain.StrategyPriorityGreedy,
		contract.DefaultConstraints(), &fixedScorer{def: 0.9}, testNow)
	assert.Empty(t, out)

	cons := contract.DefaultConstraints()
	cons.RequireAvailable = false
	out = Assign(tasks, employees, domain.StrategyPriorityGreedy,
		cons, &fixedScorer{def: 0.9}, testNow)
	assert.Len(t, out, 1, "availability filter is a constraint, not a hard rule")
}

func TestSortTasks_PriorityThenDeadline(t *testing.T) {
	d1 := testNow.Add(24 * time.Hour)
	d2 := testNow.Add(72 * time.Hour)

	a := job("a", domain.PriorityLow, 4)
	b := job("b", domain.PriorityCritical, 4)
	b.Deadline = &d2
	c := job("c", domain.PriorityCritical, 4)
	c.Deadline = &d1
	d := job("d", domain.PriorityCritical, 4)

	sorted := sortTasks([]domain.Task{a, b, c, d})
	ids := []string{sorted[0].ID, sorted[1].ID, sorted[2].ID, sorted[3].ID}
	assert.Equal(t, []string{"c", "b", "d", "a"}, ids)
}

func TestWorkloadBalanced_SpreadsAcrossEmployees(t *testing.T) {
	// Equal raw scores; the headroom term must steer the second task to the
	// idle employee.
	employees := []domain.Employee{worker("e1", 0, 40), worker("e2", 0, 40)}
	tasks := []domain.Task{
		job("t1", domain.PriorityHigh, 20),
		job("t2", domain.PriorityHigh, 20),
	}

	out := Assign(tasks, employees, domain.StrategyWorkloadBalanced,
		contract.DefaultConstraints(), &fixedScorer{def: 0.5}, testNow)

	require.Len(t, out, 2)
	assert.NotEqual(t, out[0].EmployeeID, out[1].EmployeeID)
}

func TestWorkloadBalanced_FallsThroughWhenFull(t *testing.T) {
	// e1 scores higher but has no headroom for the task.
	employees := []domain.Employee{worker("e1", 38, 40), worker("e2", 0, 40)}
	tasks := []domain.Task{job("t1", domain.PriorityHigh, 10)}

	scorer := &fixedScorer{scores: map[string]float64{
		"e1|t1": 0.95,
		"e2|t1": 0.10,
	}}
	cons := contract.DefaultConstraints()
	cons.WorkloadWeight = 0.0

	out := Assign(tasks, employees, domain.StrategyWorkloadBalanced,
		cons, scorer, testNow)

	require.Len(t, out, 1)
	assert.Equal(t, "e2", out[0].EmployeeID)
}

func TestWorkloadBalanced_AssignmentCapNotEnforced(t *testing.T) {
	// The balanced strategy bounds concentration by hours, not by count:
	// a low cap that would stop the greedy strategy is ignored here.
	employees := []domain.Employee{worker("e1", 0, 100)}
	tasks := []domain.Task{
		job("t1", domain.PriorityHigh, 5),
		job("t2", domain.PriorityHigh, 5),
		job("t3", domain.PriorityHigh, 5),
	}
	cons := contract.DefaultConstraints()
	cons.MaxAssignmentsPerEmployee = 1

	out := Assign(tasks, employees, domain.StrategyWorkloadBalanced,
		cons, &fixedScorer{def: 0.5}, testNow)

	require.Len(t, out, 3)
	for _, a := range out {
		assert.Equal(t, "e1", a.EmployeeID)
	}
}

func TestOptimalBipartite_GlobalOptimum(t *testing.T) {
	// Greedy per task would give t1→e1 (0.9) then t2→e2 (0.2), total 1.1;
	// the optimum is t1→e2 (0.8) and t2→e1 (0.8), total 1.6.
	employees := []domain.Employee{worker("e1", 0, 40), worker("e2", 0, 40)}
	tasks := []domain.Task{job("t1", domain.PriorityHigh, 8), job("t2", domain.PriorityHigh, 8)}

	scorer := &fixedScorer{scores: map[string]float64{
		"e1|t1": 0.9, "e2|t1": 0.8,
		"e1|t2": 0.8, "e2|t2": 0.2,
	}}
	out := Assign(tasks, employees, domain.StrategyOptimalBipartite,
		contract.DefaultConstraints(), scorer, testNow)

	require.Len(t, out, 2)
	got := map[string]string{}
	for _, a := range out {
		got[a.TaskID] = a.EmployeeID
		assert.Equal(t, domain.StrategyOptimalBipartite, a.Strategy)
	}
	assert.Equal(t, map[string]string{"t1": "e2", "t2": "e1"}, got)
}

func TestOptimalBipartite_OneAssignmentPerSide(t *testing.T) {
	employees := []domain.Employee{worker("e1", 0, 40), worker("e2", 0, 40)}
	tasks := []domain.Task{
		job("t1", domain.PriorityHigh, 8),
		job("t2", domain.PriorityHigh, 8),
		job("t3", domain.PriorityHigh, 8),
	}

	out := Assign(tasks, employees, domain.StrategyOptimalBipartite,
		contract.DefaultConstraints(), &fixedScorer{def: 0.5}, testNow)

	assert.Len(t, out, 2, "assignments are bounded by min(tasks, employees)")
	seenTask, seenEmp := map[string]bool{}, map[string]bool{}
	for _, a := range out {
		assert.False(t, seenTask[a.TaskID])
		assert.False(t, seenEmp[a.EmployeeID])
		seenTask[a.TaskID] = true
		seenEmp[a.EmployeeID] = true
	}
}

func TestAssign_UnknownStrategyFallsBackToGreedy(t *testing.T) {
	employees := []domain.Employee{worker("e1", 0, 40)}
	tasks := []domain.Task{job("t1", domain.PriorityHigh, 8)}

	out := Assign(tasks, employees, domain.Strategy("nonsense"),
		contract.DefaultConstraints(), &fixedScorer{def: 0.5}, testNow)

	require.Len(t, out, 1)
	assert.Equal(t, domain.StrategyPriorityGreedy, out[0].Strategy)
}

func TestAssign_Determinism(t *testing.T) {
	employees := []domain.Employee{worker("e1", 5, 40), worker("e2", 10, 40), worker("e3", 0, 40)}
	tasks := []domain.Task{
		job("t1", domain.PriorityCritical, 12),
		job("t2", domain.PriorityMedium, 6),
		job("t3", domain.PriorityLow, 9),
	}
	scorer := &fixedScorer{def: 0.5, scores: map[string]float64{
		"e1|t1": 0.7, "e2|t2": 0.8, "e3|t3": 0.6,
	}}

	for _, strategy := range []domain.Strategy{
		domain.StrategyPriorityGreedy,
		domain.StrategyWorkloadBalanced,
		domain.StrategyOptimalBipartite,
	} {
		first := Assign(tasks, employees, strategy, contract.DefaultConstraints(), scorer, testNow)
		second := Assign(tasks, employees, strategy, contract.DefaultConstraints(), scorer, testNow)
		assert.Equal(t, first, second, "strategy %s must be deterministic", strategy)
	}
}

func TestAssign_DoesNotMutateInputs(t *testing.T) {
	employees := []domain.Employee{worker("e1", 5, 40)}
	tasks := []domain.Task{job("t2", domain.PriorityLow, 4), job("t1", domain.PriorityHigh, 4)}

	Assign(tasks, employees, domain.StrategyPriorityGreedy,
		contract.DefaultConstraints(), &fixedScorer{def: 0.5}, testNow)

	assert.Equal(t, 5.0, employees[0].CurrentWorkload)
	assert.Equal(t, "t2", tasks[0].ID, "task order is preserved in the caller's slice")
}
