package match

import (
	"strings"
	"unicode/utf8"
)

// Candidate is one internal-table row prepared for matching. Fields are
// pre-normalized at load time so blocking and scoring never re-normalize.
type Candidate struct {
	Row      int // source row index in the internal table
	First    string
	Last     string
	Email    string
	Domain   string
	Key      string
	CRD      string
	RecordID string
}

// ByDomain restricts pool to candidates sharing the query's email domain.
// When the query has no domain, or no candidate shares it, the pool is
// returned unchanged: blocking must never empty a non-empty pool.
func ByDomain(pool []int, cands []Candidate, domain string) []int {
	if domain == "" {
		return pool
	}
	var out []int
	for _, i := range pool {
		if cands[i].Domain == domain {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		return pool
	}
	return out
}

// ByInitials restricts an oversized pool to candidates whose first letters
// of first and last name match the query's. Initials are compared per rune,
// so multi-byte letters do not collide on a shared lead byte. Applies only
// when the pool exceeds limit and the query has both name parts; an emptied
// pool falls back to the input pool.
func ByInitials(pool []int, cands []Candidate, first, last string, limit int) []int {
	if len(pool) <= limit || first == "" || last == "" {
		return pool
	}
	qf, ql := firstRune(first), firstRune(last)
	var out []int
	for _, i := range pool {
		c := cands[i]
		if c.First == "" || c.Last == "" {
			continue
		}
		if firstRune(c.First) == qf && firstRune(c.Last) == ql {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		return pool
	}
	return out
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// ByKeyShape restricts an oversized pool to keys sharing the query key's
// first byte with a length within 30% (minimum 1) of the query's. An
// emptied pool falls back to the input pool.
func ByKeyShape(pool []int, keys []string, queryKey string, limit int) []int {
	if len(pool) <= limit || queryKey == "" {
		return pool
	}
	tol := len(queryKey) * 3 / 10
	if tol < 1 {
		tol = 1
	}
	var out []int
	for _, i := range pool {
		k := keys[i]
		if k == "" || !strings.HasPrefix(k, queryKey[:1]) {
			continue
		}
		diff := len(k) - len(queryKey)
		if diff < 0 {
			diff = -diff
		}
		if diff <= tol {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		return pool
	}
	return out
}
