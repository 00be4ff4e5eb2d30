// Package matching turns free-text skill lists into comparable vectors and
// scores how well an employee's skills cover a task's requirements.
package matching

import (
	"math"
	"sort"
	"strings"
	"sync"
)

// skillSynonyms maps vocabulary variants onto shared groups so that e.g.
// "ml" on a task still matches "machine learning" on an employee.
var skillSynonyms = map[string][]string{
	"ml":       {"machine learning", "ml", "ai"},
	"frontend": {"frontend", "front-end", "ui", "user interface"},
	"backend":  {"backend", "back-end", "server-side"},
	"database": {"database", "db", "sql", "postgresql", "mysql"},
	"api":      {"api", "rest", "restful", "web service"},
}

// hashEmbeddingDim is the fallback embedding size used before the vocabulary
// has been fit on a corpus.
const hashEmbeddingDim = 100

// Overlap reports the token-level intersection between an employee's skills
// and a task's required skills, for explainability.
type Overlap struct {
	Matching      []string
	Missing       []string
	Extra         []string
	OverlapRatio  float64
	TotalRequired int
	TotalEmployee int
}

// Matcher computes similarity between skill strings. Similarity is pure once
// the vocabulary has been fit; before a fit it degrades to a deterministic
// character-hash embedding and never fails.
type Matcher struct {
	mu     sync.RWMutex
	vocab  map[string]int
	fitted bool
}

func NewMatcher() *Matcher {
	return &Matcher{vocab: make(map[string]int)}
}

// ParseSkills splits a raw skill string on commas and semicolons into
// trimmed, lowercased tokens. Empty input yields an empty slice.
func ParseSkills(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(strings.ReplaceAll(s, ";", ","), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ExpandSkills widens a token set with known synonyms.
func ExpandSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		seen[s] = true
	}
	for _, s := range skills {
		for _, group := range skillSynonyms {
			for _, syn := range group {
				if syn == s {
					for _, g := range group {
						seen[g] = true
					}
					break
				}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Fit builds the term vocabulary from a corpus of skill strings. Calling it
// again replaces the vocabulary; concurrent similarity calls see either the
// old or the new vocabulary, never a partial one.
func (m *Matcher) Fit(corpus []string) {
	vocab := make(map[string]int)
	for _, doc := range corpus {
		for _, tok := range ExpandSkills(ParseSkills(doc)) {
			if _, ok := vocab[tok]; !ok {
				vocab[tok] = len(vocab)
			}
		}
	}

	m.mu.Lock()
	m.vocab = vocab
	m.fitted = len(vocab) > 0
	m.mu.Unlock()
}

// Fitted reports whether a vocabulary is loaded.
func (m *Matcher) Fitted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fitted
}

// Similarity returns the cosine similarity between two skill strings,
// clamped to [0,1]. Empty inputs score 0. Symmetric in its arguments.
func (m *Matcher) Similarity(a, b string) float64 {
	va := m.embed(a)
	vb := m.embed(b)
	return clamp01(cosine(va, vb))
}

// BatchSimilarity scores each employee skill string against one task
// requirement string.
func (m *Matcher) BatchSimilarity(employeeSkills []string, taskSkills string) []float64 {
	vt := m.embed(taskSkills)
	out := make([]float64, len(employeeSkills))
	for i, es := range employeeSkills {
		out[i] = clamp01(cosine(m.embed(es), vt))
	}
	return out
}

// Overlap reports exact token overlap between employee and required skills.
// Unlike Similarity it does not expand synonyms: it explains the literal lists.
func (m *Matcher) Overlap(employeeSkills, taskSkills string) Overlap {
	emp := toSet(ParseSkills(employeeSkills))
	req := toSet(ParseSkills(taskSkills))

	var o Overlap
	for s := range req {
		if emp[s] {
			o.Matching = append(o.Matching, s)
		} else {
			o.Missing = append(o.Missing, s)
		}
	}
	for s := range emp {
		if !req[s] {
			o.Extra = append(o.Extra, s)
		}
	}
	sort.Strings(o.Matching)
	sort.Strings(o.Missing)
	sort.Strings(o.Extra)

	o.TotalRequired = len(req)
	o.TotalEmployee = len(emp)
	if len(req) > 0 {
		o.OverlapRatio = float64(len(o.Matching)) / float64(len(req))
	}
	return o
}

// embed produces a term-frequency vector over the fitted vocabulary, or the
// hash fallback when no vocabulary is loaded.
func (m *Matcher) embed(skills string) []float64 {
	tokens := ExpandSkills(ParseSkills(skills))

	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.fitted {
		return hashEmbedding(strings.Join(tokens, " "))
	}

	vec := make([]float64, len(m.vocab))
	for _, tok := range tokens {
		if idx, ok := m.vocab[tok]; ok {
			vec[idx]++
		}
	}
	return vec
}

// hashEmbedding is a stable per-character embedding used before any fit so
// similarity always returns a comparable, if degraded, score.
func hashEmbedding(text string) []float64 {
	vec := make([]float64, hashEmbeddingDim)
	for i := 0; i < len(text) && i < hashEmbeddingDim; i++ {
		vec[i] = float64(text[i]) / 255.0
	}
	return vec
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range a {
		na += v * v
	}
	for _, v := range b {
		nb += v * v
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func toSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}
