package scheduler

import "math"

// matchPair is one (task row, employee column) selected by the solver.
type matchPair struct {
	row int
	col int
}

// solveAssignment finds the minimum-cost bipartite assignment for a
// rectangular cost matrix using the Hungarian algorithm with potentials
// (O(n²m)). Every row and column is used at most once; min(rows, cols)
// pairs are returned, ordered by row.
func solveAssignment(cost [][]float64) []matchPair {
	n := len(cost)
	if n == 0 {
		return nil
	}
	m := len(cost[0])
	if m == 0 {
		return nil
	}

	if n > m {
		// The potentials formulation needs rows ≤ cols; transpose and swap back.
		transposed := make([][]float64, m)
		for j := 0; j < m; j++ {
			transposed[j] = make([]float64, n)
			for i := 0; i < n; i++ {
				transposed[j][i] = cost[i][j]
			}
		}
		pairs := solveAssignment(transposed)
		out := make([]matchPair, len(pairs))
		for i, p := range pairs {
			out[i] = matchPair{row: p.col, col: p.row}
		}
		sortPairs(out)
		return out
	}

	// 1-indexed potentials over rows (u) and columns (v); p[j] is the row
	// matched to column j, p[0] the row currently being placed.
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1)
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0

			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Walk the augmenting path back, flipping matched edges.
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	pairs := make([]matchPair, 0, n)
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			pairs = append(pairs, matchPair{row: p[j] - 1, col: j - 1})
		}
	}
	sortPairs(pairs)
	return pairs
}

func sortPairs(pairs []matchPair) {
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && pairs[j].row < pairs[j-1].row; j-- {
			pairs[j], pairs[j-1] = pairs[j-1], pairs[j]
		}
	}
}
