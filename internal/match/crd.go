package match

import "go.uber.org/zap"

// CRDIndex maps each CRD key to one representative internal candidate.
// The CRD path is many-to-one: several external rows may match the same
// representative, so no consumption applies here.
type CRDIndex struct {
	reps map[string]Candidate
}

// BuildCRDIndex reduces candidates to one representative per CRD key with a
// deterministic, order-stable fold: the first candidate with a non-empty
// email wins; if none in the group has an email, the first encountered does.
// Candidates without a CRD are skipped.
func BuildCRDIndex(cands []Candidate) *CRDIndex {
	reps := make(map[string]Candidate)
	for _, c := range cands {
		if c.CRD == "" {
			continue
		}
		rep, ok := reps[c.CRD]
		if !ok {
			reps[c.CRD] = c
			continue
		}
		if rep.Email == "" && c.Email != "" {
			reps[c.CRD] = c
		}
	}
	return &CRDIndex{reps: reps}
}

// Len returns the number of distinct CRD keys in the index.
func (x *CRDIndex) Len() int { return len(x.reps) }

// Resolve matches one external row by exact CRD lookup. A query without a
// CRD, or with a CRD absent from the index, is unmatched.
func (x *CRDIndex) Resolve(q Query) Result {
	if q.CRD == "" {
		return unmatched(q.Row)
	}
	rep, ok := x.reps[q.CRD]
	if !ok {
		return unmatched(q.Row)
	}
	return Result{
		Row: q.Row, Kind: KindCRD, Score: 100,
		CandidateRow: rep.Row, Email: rep.Email, RecordID: DecimalID(rep.RecordID),
	}
}

// ResolveAll resolves every query against the index, preserving row order.
// An empty index (no CRD column found on the internal side) downgrades the
// whole stage to a no-op: every row comes back unmatched, with a warning
// rather than an error.
func (x *CRDIndex) ResolveAll(qs []Query) []Result {
	log := zap.L().With(zap.String("component", "crd_matcher"))

	if len(x.reps) == 0 {
		log.Warn("no CRD keys on internal side; skipping exact-key stage")
	}

	results := make([]Result, len(qs))
	matched := 0
	for i, q := range qs {
		results[i] = x.Resolve(q)
		if results[i].Kind == KindCRD {
			matched++
		}
	}

	log.Info("CRD matching complete",
		zap.Int("queries", len(qs)),
		zap.Int("matched", matched),
	)
	return results
}
