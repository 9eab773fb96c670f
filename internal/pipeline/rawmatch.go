package pipeline

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-match/internal/config"
	"github.com/sells-group/contact-match/internal/match"
	"github.com/sells-group/contact-match/internal/table"
)

// Prefix applied to contact columns merged into raw match output rows.
const rawAdvPrefix = "Adv_"

// RawRunner runs the raw name+company fuzzy pass: each configured attendee
// sheet matched against the full contact export with key-shape blocking.
type RawRunner struct {
	cfg     config.RawmatchConfig
	aliases table.Aliases
}

// NewRawRunner creates a RawRunner.
func NewRawRunner(cfg config.RawmatchConfig, aliases table.Aliases) *RawRunner {
	return &RawRunner{cfg: cfg, aliases: aliases}
}

// Run executes the pass over every configured sheet and writes one output
// workbook with a result sheet per input sheet.
func (r *RawRunner) Run(ctx context.Context) error {
	log := zap.L().With(
		zap.String("component", "rawmatch"),
		zap.String("run_id", uuid.NewString()),
	)

	contacts, err := table.ReadSheet(r.cfg.ContactsFile, table.SheetOptions{})
	if err != nil {
		return eris.Wrap(err, "rawmatch: load contacts")
	}
	log.Info("contacts loaded", zap.Int("rows", contacts.Len()))

	contactKeys := buildRawKeys(contacts, r.aliases.ContactCompany, r.aliases)
	matcher := match.NewRawMatcher(contactKeys, r.cfg.Threshold)

	var sheets []table.NamedTable
	for _, name := range r.cfg.Sheets {
		if ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "rawmatch: cancelled")
		}

		att, err := table.ReadSheet(r.cfg.AttendeeFile, table.SheetOptions{SheetName: name})
		if err != nil {
			return eris.Wrapf(err, "rawmatch: load sheet %q", name)
		}
		log.Info("attendee sheet loaded", zap.String("sheet", name), zap.Int("rows", att.Len()))

		results := matcher.ResolveAll(buildRawKeys(att, r.aliases.Business, r.aliases))

		out, err := annotateRaw(att, contacts, results)
		if err != nil {
			return eris.Wrapf(err, "rawmatch: annotate sheet %q", name)
		}
		sheets = append(sheets, table.NamedTable{Name: name, Table: out})
	}

	if err := table.WriteWorkbook(r.cfg.OutputFile, sheets); err != nil {
		return eris.Wrap(err, "rawmatch: write output")
	}

	log.Info("workbook written",
		zap.String("path", r.cfg.OutputFile),
		zap.Int("sheets", len(sheets)),
	)
	return nil
}

// buildRawKeys derives "first last | company" keys for every row, using the
// given company alias precedence for the table's side.
func buildRawKeys(t *table.Table, companyAliases []string, a table.Aliases) []string {
	firsts := t.Pick(a.FirstName, "")
	lasts := t.Pick(a.LastName, "")
	companies := t.Pick(companyAliases, "")

	keys := make([]string, t.Len())
	for i := range keys {
		keys[i] = match.RawKey(firsts[i], lasts[i], companies[i])
	}
	return keys
}

// annotateRaw clones the attendee sheet and appends the matched contact's
// columns (Adv_-prefixed to avoid collisions) plus Matched and Match_Score.
// Unmatched rows keep empty contact columns but still carry their best score.
func annotateRaw(att, contacts *table.Table, results []match.RawMatch) (*table.Table, error) {
	out := att.Clone()

	for _, col := range contacts.Header {
		values := make([]string, len(results))
		for i, res := range results {
			if res.Matched {
				values[i] = contacts.Cell(res.CandidateRow, col)
			}
		}
		if err := out.AppendColumn(rawAdvPrefix+col, values); err != nil {
			return nil, err
		}
	}

	matched := make([]string, len(results))
	scores := make([]string, len(results))
	for i, res := range results {
		matched[i] = strconv.FormatBool(res.Matched)
		scores[i] = strconv.Itoa(res.Score)
	}
	if err := out.AppendColumn("Matched", matched); err != nil {
		return nil, err
	}
	if err := out.AppendColumn(ColMatchScore, scores); err != nil {
		return nil, err
	}
	return out, nil
}
