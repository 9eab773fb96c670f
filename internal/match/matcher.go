package match

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Kind labels how an external row was matched.
type Kind string

// Match kinds, in stage order.
const (
	KindCRD   Kind = "matched_crd"
	KindEmail Kind = "email_matched"
	KindFuzzy Kind = "fuzzy_matched"
	KindNone  Kind = "unmatched"
)

// Query is one external-table row prepared for matching.
type Query struct {
	Row    int
	First  string
	Last   string
	Email  string
	Domain string
	Key    string
	CRD    string
}

// Result is the single outcome for one external row. CandidateRow is -1 and
// Email/RecordID are empty when Kind is KindNone.
type Result struct {
	Row          int
	Kind         Kind
	Score        int
	CandidateRow int
	Email        string
	RecordID     string
}

func unmatched(row int) Result {
	return Result{Row: row, Kind: KindNone, CandidateRow: -1}
}

// DefaultInitialsLimit is the pool size above which initials blocking kicks in.
const DefaultInitialsLimit = 100

// FuzzyMatcher resolves external rows against internal candidates with an
// exact-email stage followed by blocked token-set scoring. Consumption is an
// owned set of internal row indices scoped to one matcher instance: a
// candidate matched once is excluded from every later query's pool.
type FuzzyMatcher struct {
	cands         []Candidate
	consumed      []bool
	threshold     int
	initialsLimit int
}

// NewFuzzyMatcher creates a matcher over the internal candidate pool.
// Scores at or above threshold accept a fuzzy match.
func NewFuzzyMatcher(cands []Candidate, threshold int) *FuzzyMatcher {
	return &FuzzyMatcher{
		cands:         cands,
		consumed:      make([]bool, len(cands)),
		threshold:     threshold,
		initialsLimit: DefaultInitialsLimit,
	}
}

// unconsumed returns the indices of candidates not yet consumed this run.
func (m *FuzzyMatcher) unconsumed() []int {
	pool := make([]int, 0, len(m.cands))
	for i := range m.cands {
		if !m.consumed[i] {
			pool = append(pool, i)
		}
	}
	return pool
}

// Resolve applies the stages in order, stopping at the first success.
// Every query yields exactly one result.
func (m *FuzzyMatcher) Resolve(q Query) Result {
	pool := m.unconsumed()

	// Stage 1: exact normalized-email equality.
	if q.Email != "" {
		for _, i := range pool {
			if m.cands[i].Email == q.Email {
				m.consumed[i] = true
				c := m.cands[i]
				return Result{
					Row: q.Row, Kind: KindEmail, Score: 100,
					CandidateRow: c.Row, Email: c.Email, RecordID: DecimalID(c.RecordID),
				}
			}
		}
	}

	// Stage 2: blocked fuzzy scoring.
	blocked := ByDomain(pool, m.cands, q.Domain)
	blocked = ByInitials(blocked, m.cands, q.First, q.Last, m.initialsLimit)

	best, bestIdx := 0, -1
	for _, i := range blocked {
		if s := TokenSetRatio(q.Key, m.cands[i].Key); s > best {
			best, bestIdx = s, i
		}
	}
	if bestIdx >= 0 && best >= m.threshold {
		m.consumed[bestIdx] = true
		c := m.cands[bestIdx]
		return Result{
			Row: q.Row, Kind: KindFuzzy, Score: best,
			CandidateRow: c.Row, Email: c.Email, RecordID: DecimalID(c.RecordID),
		}
	}

	return unmatched(q.Row)
}

// ResolveAll resolves queries in order, preserving one result per query row.
func (m *FuzzyMatcher) ResolveAll(qs []Query) []Result {
	log := zap.L().With(zap.String("component", "fuzzy_matcher"))

	results := make([]Result, len(qs))
	counts := map[Kind]int{}
	for i, q := range qs {
		results[i] = m.Resolve(q)
		counts[results[i].Kind]++
	}

	log.Info("email+fuzzy matching complete",
		zap.Int("queries", len(qs)),
		zap.Int("email_matched", counts[KindEmail]),
		zap.Int("fuzzy_matched", counts[KindFuzzy]),
		zap.Int("unmatched", counts[KindNone]),
	)
	return results
}

// DecimalID renders a record identifier as a plain decimal string.
// Spreadsheet round-trips turn large ids into floats ("1.2345678e+08",
// "12345.0"); those are folded back to integer form. Non-numeric ids pass
// through trimmed.
func DecimalID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, ".eE") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
