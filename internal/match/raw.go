package match

import "go.uber.org/zap"

// DefaultShapeLimit is the pool size above which key-shape blocking kicks in
// for the raw pass.
const DefaultShapeLimit = 500

// RawMatch is the outcome of one raw name+company lookup. Score carries the
// best observed score even when it falls short of the threshold, so callers
// can report near-misses. CandidateRow is -1 when Matched is false.
type RawMatch struct {
	Matched      bool
	Score        int
	CandidateRow int
}

// RawMatcher fuzzy-matches "first last | company" keys against a contact
// export, blocking oversized pools by key shape (shared first byte, similar
// length). Unlike FuzzyMatcher it does not consume candidates: the raw pass
// deliberately allows several attendee rows to hit the same contact.
type RawMatcher struct {
	keys       []string
	pool       []int
	threshold  int
	shapeLimit int
}

// NewRawMatcher creates a matcher over the contact keys. Scores at or above
// threshold accept a match.
func NewRawMatcher(keys []string, threshold int) *RawMatcher {
	pool := make([]int, len(keys))
	for i := range keys {
		pool[i] = i
	}
	return &RawMatcher{keys: keys, pool: pool, threshold: threshold, shapeLimit: DefaultShapeLimit}
}

// Resolve scores one query key against the (possibly shape-blocked) pool and
// returns the best candidate. An empty key never matches.
func (m *RawMatcher) Resolve(key string) RawMatch {
	if key == "" {
		return RawMatch{CandidateRow: -1}
	}

	pool := ByKeyShape(m.pool, m.keys, key, m.shapeLimit)

	best, bestIdx := 0, -1
	for _, i := range pool {
		if s := TokenSetRatio(key, m.keys[i]); s > best {
			best, bestIdx = s, i
		}
	}
	if bestIdx >= 0 && best >= m.threshold {
		return RawMatch{Matched: true, Score: best, CandidateRow: bestIdx}
	}
	return RawMatch{Score: best, CandidateRow: -1}
}

// ResolveAll resolves keys in order, logging progress roughly every tenth of
// the input.
func (m *RawMatcher) ResolveAll(keys []string) []RawMatch {
	log := zap.L().With(zap.String("component", "raw_matcher"))

	step := len(keys) / 10
	if step < 1 {
		step = 1
	}

	results := make([]RawMatch, len(keys))
	matched := 0
	for i, k := range keys {
		results[i] = m.Resolve(k)
		if results[i].Matched {
			matched++
		}
		if (i+1)%step == 0 {
			log.Info("raw matching progress",
				zap.Int("processed", i+1),
				zap.Int("total", len(keys)),
			)
		}
	}

	log.Info("raw matching complete",
		zap.Int("queries", len(keys)),
		zap.Int("matched", matched),
	)
	return results
}
