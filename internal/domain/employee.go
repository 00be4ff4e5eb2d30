package domain

type Employee struct {
	ID   string
	Name string

	// Skills is the raw free-text skill list, comma or semicolon delimited.
	Skills string

	ExperienceYears float64

	// Workload in committed hours. CurrentWorkload ≤ MaxWorkload is a soft
	// constraint enforced at assignment time, not a storage invariant.
	CurrentWorkload float64
	MaxWorkload     float64

	Availability      Availability
	PerformanceRating float64
	ActiveTasks       int
	AvgCompletionTime float64
	Department        string
	SuccessRate       float64
}

// RemainingCapacity returns the hours the employee can still take on.
func (e *Employee) RemainingCapacity() float64 {
	return e.MaxWorkload - e.CurrentWorkload
}

// WorkloadRatio returns current committed hours over capacity, 0 if no capacity.
func (e *Employee) WorkloadRatio() float64 {
	if e.MaxWorkload <= 0 {
		return 0
	}
	return e.CurrentWorkload / e.MaxWorkload
}
