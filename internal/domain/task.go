package domain

import (
	"strings"
	"time"
)

type Task struct {
	ID    string
	Title string

	// RequiredSkills is free text, comma or semicolon delimited.
	RequiredSkills string

	Priority       Priority
	EstimatedHours float64

	// Deadline is optional; nil means no deadline pressure.
	Deadline *time.Time

	ComplexityScore float64

	// Dependencies is a comma-delimited list of task ids.
	Dependencies string

	Department string
	CreatedAt  time.Time
	Status     TaskStatus
}

// DependencyCount returns the number of non-empty dependency entries.
func (t *Task) DependencyCount() int {
	if strings.TrimSpace(t.Dependencies) == "" {
		return 0
	}
	n := 0
	for _, d := range strings.Split(t.Dependencies, ",") {
		if strings.TrimSpace(d) != "" {
			n++
		}
	}
	return n
}

// DaysUntilDeadline returns whole days between now and the deadline.
// Negative when past due. The second value is false when no deadline is set.
func (t *Task) DaysUntilDeadline(now time.Time) (int, bool) {
	if t.Deadline == nil {
		return 0, false
	}
	return int(t.Deadline.Sub(now).Hours() / 24), true
}
