// Package pipeline wires the matching core to its spreadsheet collaborators:
// it loads the source workbooks, runs the matchers, and writes the annotated
// output workbook in one atomic batch.
package pipeline

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/contact-match/internal/config"
	"github.com/sells-group/contact-match/internal/match"
	"github.com/sells-group/contact-match/internal/table"
)

// Annotation columns appended to every output row.
const (
	ColMatchKind  = "Matched_or_not"
	ColMatchScore = "Match_Score"
	ColAdvEmail   = "adv_Email_"
	ColAdvRecord  = "adv_Record_ID"
)

// Reconciler runs the full reconciliation: CRD matching over the
// already-matched sheet pair, then email+fuzzy matching over the unmatched
// pair, producing a two-sheet annotated workbook.
type Reconciler struct {
	cfg     config.ReconcileConfig
	aliases table.Aliases
}

// NewReconciler creates a Reconciler.
func NewReconciler(cfg config.ReconcileConfig, aliases table.Aliases) *Reconciler {
	return &Reconciler{cfg: cfg, aliases: aliases}
}

// Run executes the pipeline. Output is written only after both stages
// complete; any error aborts the run with no partial output.
func (r *Reconciler) Run(ctx context.Context) error {
	log := zap.L().With(
		zap.String("component", "reconcile"),
		zap.String("run_id", uuid.NewString()),
	)

	var crmMatched, crmUnmatched, attMatched, attUnmatched *table.Table

	// The two workbooks load concurrently; everything stateful (the
	// consumption set) stays inside the single-threaded matchers.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		crmMatched, err = table.ReadSheet(r.cfg.CRMFile, table.SheetOptions{SheetName: r.cfg.CRMMatchedSheet})
		return err
	})
	g.Go(func() (err error) {
		crmUnmatched, err = table.ReadSheet(r.cfg.CRMFile, table.SheetOptions{SheetName: r.cfg.CRMUnmatchedSheet})
		return err
	})
	g.Go(func() (err error) {
		attMatched, err = table.ReadSheet(r.cfg.AttendeeFile, table.SheetOptions{SheetName: r.cfg.AttendeeMatchedSheet})
		return err
	})
	g.Go(func() (err error) {
		attUnmatched, err = table.ReadSheet(r.cfg.AttendeeFile, table.SheetOptions{SheetName: r.cfg.AttendeeUnmatchedSheet})
		return err
	})
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "reconcile: load sources")
	}

	log.Info("sources loaded",
		zap.Int("crm_matched_rows", crmMatched.Len()),
		zap.Int("crm_unmatched_rows", crmUnmatched.Len()),
		zap.Int("attendee_matched_rows", attMatched.Len()),
		zap.Int("attendee_unmatched_rows", attUnmatched.Len()),
	)

	matchedOut, err := r.runCRDStage(log, crmMatched, attMatched)
	if err != nil {
		return err
	}

	unmatchedOut, err := r.runFuzzyStage(crmUnmatched, attUnmatched)
	if err != nil {
		return err
	}

	sheets := []table.NamedTable{
		{Name: "matched", Table: matchedOut},
		{Name: "unmatched", Table: unmatchedOut},
	}
	if err := table.WriteWorkbook(r.cfg.OutputFile, sheets); err != nil {
		return eris.Wrap(err, "reconcile: write output")
	}

	log.Info("workbook written",
		zap.String("path", r.cfg.OutputFile),
		zap.Int("matched_rows", matchedOut.Len()),
		zap.Int("unmatched_rows", unmatchedOut.Len()),
	)
	return nil
}

// runCRDStage matches the already-matched attendee sheet against the CRM
// export by exact CRD key, many-to-one via one representative per key.
func (r *Reconciler) runCRDStage(log *zap.Logger, crm, att *table.Table) (*table.Table, error) {
	if _, ok := crm.PickName(r.aliases.CRD); !ok {
		// Degrades to a fully-unmatched stage rather than aborting.
		log.Warn("no CRD column found in CRM export",
			zap.Strings("columns", head(crm.Header, 10)),
		)
	}
	if _, ok := att.PickName(r.aliases.MatchedCRD); !ok {
		log.Warn("no CRD column found in attendee sheet",
			zap.Strings("columns", head(att.Header, 10)),
		)
	}

	idx := match.BuildCRDIndex(buildCandidates(crm, r.aliases))
	results := idx.ResolveAll(buildQueries(att, r.aliases))

	return annotate(att, results)
}

// runFuzzyStage matches the unmatched attendee sheet against the CRM export
// by exact email then blocked fuzzy scoring, one-to-one.
func (r *Reconciler) runFuzzyStage(crm, att *table.Table) (*table.Table, error) {
	m := match.NewFuzzyMatcher(buildCandidates(crm, r.aliases), r.cfg.Threshold)
	results := m.ResolveAll(buildQueries(att, r.aliases))

	out, err := annotate(att, results)
	if err != nil {
		return nil, err
	}
	if err := ensureEmailDomain(out, r.aliases); err != nil {
		return nil, err
	}
	return out, nil
}

// buildCandidates prepares the internal (CRM) side: every identifying field
// resolved through the alias lists and pre-normalized.
func buildCandidates(t *table.Table, a table.Aliases) []match.Candidate {
	firsts := t.Pick(a.FirstName, "")
	lasts := t.Pick(a.LastName, "")
	companies := t.Pick(a.Company, "")
	emails := t.Pick(a.Email, "")
	crds := t.Pick(a.CRD, "")
	ids := t.Pick(a.RecordID, "")

	cands := make([]match.Candidate, t.Len())
	for i := range cands {
		cands[i] = match.Candidate{
			Row:      i,
			First:    match.NamePart(firsts[i]),
			Last:     match.NamePart(lasts[i]),
			Email:    match.Email(emails[i]),
			Domain:   match.Domain(emails[i]),
			Key:      match.IdentityKey(firsts[i], lasts[i], companies[i]),
			CRD:      match.DecimalID(crds[i]),
			RecordID: ids[i],
		}
	}
	return cands
}

// buildQueries prepares the external (attendee) side using the
// external-precedence alias lists.
func buildQueries(t *table.Table, a table.Aliases) []match.Query {
	firsts := t.Pick(a.FirstName, "")
	lasts := t.Pick(a.LastName, "")
	companies := t.Pick(a.Business, "")
	emails := t.Pick(a.EmailAddr, "")
	crds := t.Pick(a.MatchedCRD, "")

	qs := make([]match.Query, t.Len())
	for i := range qs {
		qs[i] = match.Query{
			Row:    i,
			First:  match.NamePart(firsts[i]),
			Last:   match.NamePart(lasts[i]),
			Email:  match.Email(emails[i]),
			Domain: match.Domain(emails[i]),
			Key:    match.IdentityKey(firsts[i], lasts[i], companies[i]),
			CRD:    match.DecimalID(crds[i]),
		}
	}
	return qs
}

// annotate clones the external table and appends the four summary columns.
// Row count and order always equal the source table's.
func annotate(att *table.Table, results []match.Result) (*table.Table, error) {
	out := att.Clone()

	kinds := make([]string, len(results))
	scores := make([]string, len(results))
	advEmails := make([]string, len(results))
	advIDs := make([]string, len(results))
	for i, res := range results {
		kinds[i] = string(res.Kind)
		scores[i] = strconv.Itoa(res.Score)
		advEmails[i] = res.Email
		advIDs[i] = res.RecordID
	}

	for _, col := range []struct {
		name   string
		values []string
	}{
		{ColMatchKind, kinds},
		{ColMatchScore, scores},
		{ColAdvEmail, advEmails},
		{ColAdvRecord, advIDs},
	} {
		if err := out.AppendColumn(col.name, col.values); err != nil {
			return nil, eris.Wrap(err, "reconcile: annotate")
		}
	}
	return out, nil
}

// ensureEmailDomain backfills an Email_Domain column from the email address
// column when the source sheet lacks one.
func ensureEmailDomain(t *table.Table, a table.Aliases) error {
	if _, ok := t.PickName(a.EmailDomain); ok {
		return nil
	}
	emails := t.Pick(a.EmailAddr, "")
	domains := make([]string, len(emails))
	for i, e := range emails {
		domains[i] = match.Domain(e)
	}
	if err := t.AppendColumn("Email_Domain", domains); err != nil {
		return eris.Wrap(err, "reconcile: email domain")
	}
	return nil
}

func head(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
