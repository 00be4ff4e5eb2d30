package matching

import (
	"sort"

	"github.com/kmelnikov/taskalloc/internal/domain"
)

// RankedMatch pairs an employee with their skill similarity for one task.
type RankedMatch struct {
	EmployeeID string
	Score      float64
}

// MatchEmployeesToTask ranks employees by skill similarity against the
// task's requirements and returns the top k (all when k <= 0). Ties keep
// input order so runs are deterministic.
func (m *Matcher) MatchEmployeesToTask(employees []domain.Employee, task domain.Task, topK int) []RankedMatch {
	out := make([]RankedMatch, 0, len(employees))
	for _, e := range employees {
		out = append(out, RankedMatch{
			EmployeeID: e.ID,
			Score:      m.Similarity(e.Skills, task.RequiredSkills),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if topK > 0 && topK < len(out) {
		out = out[:topK]
	}
	return out
}
