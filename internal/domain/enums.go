package domain

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// PriorityRank returns the ordering rank of a priority (higher = more urgent).
// Unknown values rank as medium.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityLow:
		return 1
	default:
		return 2
	}
}

type Availability string

const (
	Available Availability = "available"
	Busy      Availability = "busy"
	OnLeave   Availability = "on_leave"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskAssigned   TaskStatus = "assigned"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// Active reports whether a task in this status still needs attention.
func (s TaskStatus) Active() bool {
	return s != TaskCompleted && s != TaskCancelled
}

type Strategy string

const (
	StrategyPriorityGreedy   Strategy = "priority_greedy"
	StrategyWorkloadBalanced Strategy = "workload_balanced"
	StrategyOptimalBipartite Strategy = "optimal_bipartite"
)

// ValidStrategies is the canonical set of accepted strategy names.
var ValidStrategies = map[Strategy]bool{
	StrategyPriorityGreedy:   true,
	StrategyWorkloadBalanced: true,
	StrategyOptimalBipartite: true,
}

type AnomalyType string

const (
	AnomalyDeadlineRisk     AnomalyType = "deadline_risk"
	AnomalyProgressDelay    AnomalyType = "progress_delay"
	AnomalyWorkloadOverload AnomalyType = "workload_overload"
	AnomalyStagnation       AnomalyType = "stagnation"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)
