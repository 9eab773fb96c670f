package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-match/internal/config"
	"github.com/sells-group/contact-match/internal/table"
)

func writeReconcileFixtures(t *testing.T, dir string) config.ReconcileConfig {
	t.Helper()

	crmPath := filepath.Join(dir, "crm.xlsx")
	require.NoError(t, table.WriteWorkbook(crmPath, []table.NamedTable{
		{Name: "crm matched", Table: table.New(
			[]string{"CRD", "Email_", "Record_ID", "First_Name_", "Last_Name_", "Company_Name"},
			[][]string{
				{"111", "", "5001", "Al", "Adams", "Acme"},
				{"111", "a@x.com", "5002", "Al", "Adams", "Acme"},
				{"222", "", "5003", "Bo", "Brown", "Widgets"},
			},
		)},
		{Name: "crm unmatched", Table: table.New(
			[]string{"First_Name_", "Last_Name_", "Company_Name", "Email_", "Record_ID"},
			[][]string{
				{"Jane", "Doe", "Widgets LLC", "b@y.com", "7001"},
				{"John", "Smith", "Acme Inc", "", "7002"},
			},
		)},
	}))

	attPath := filepath.Join(dir, "attendees.xlsx")
	require.NoError(t, table.WriteWorkbook(attPath, []table.NamedTable{
		{Name: "att matched", Table: table.New(
			[]string{"First_Name_", "Last_Name_", "Email_Address", "Matched_CRD"},
			[][]string{
				{"Al", "Adams", "al@conf.com", "111"},
				{"Cy", "Clark", "cy@conf.com", "999"},
				{"Di", "Dean", "di@conf.com", ""},
			},
		)},
		{Name: "att unmatched", Table: table.New(
			[]string{"First_Name_", "Last_Name_", "Business_Name", "Email_Address"},
			[][]string{
				{"Jane", "Doe", "Other Co", "b@y.com"},
				{"John", "Smith", "Acme LLC", ""},
				{"Zz", "Qq", "Nothing Here", ""},
			},
		)},
	}))

	return config.ReconcileConfig{
		CRMFile:                crmPath,
		AttendeeFile:           attPath,
		OutputFile:             filepath.Join(dir, "out", "reconciled.xlsx"),
		CRMMatchedSheet:        "crm matched",
		CRMUnmatchedSheet:      "crm unmatched",
		AttendeeMatchedSheet:   "att matched",
		AttendeeUnmatchedSheet: "att unmatched",
		Threshold:              80,
	}
}

func TestReconcilerRun(t *testing.T) {
	cfg := writeReconcileFixtures(t, t.TempDir())

	r := NewReconciler(cfg, table.DefaultAliases())
	require.NoError(t, r.Run(context.Background()))

	matched, err := table.ReadSheet(cfg.OutputFile, table.SheetOptions{SheetName: "matched"})
	require.NoError(t, err)
	unmatched, err := table.ReadSheet(cfg.OutputFile, table.SheetOptions{SheetName: "unmatched"})
	require.NoError(t, err)

	// Row count and order parity with the attendee sheets.
	require.Equal(t, 3, matched.Len())
	require.Equal(t, 3, unmatched.Len())
	assert.Equal(t, "Al", matched.Cell(0, "First_Name_"))
	assert.Equal(t, "Jane", unmatched.Cell(0, "First_Name_"))

	// CRD stage: representative per key prefers the row with an email.
	assert.Equal(t, "matched_crd", matched.Cell(0, ColMatchKind))
	assert.Equal(t, "100", matched.Cell(0, ColMatchScore))
	assert.Equal(t, "a@x.com", matched.Cell(0, ColAdvEmail))
	assert.Equal(t, "5002", matched.Cell(0, ColAdvRecord))

	// Unknown and absent CRDs stay unmatched.
	assert.Equal(t, "unmatched", matched.Cell(1, ColMatchKind))
	assert.Equal(t, "unmatched", matched.Cell(2, ColMatchKind))
	assert.Equal(t, "", matched.Cell(1, ColAdvRecord))

	// Fuzzy stage: exact email first, then blocked fuzzy, then unmatched.
	assert.Equal(t, "email_matched", unmatched.Cell(0, ColMatchKind))
	assert.Equal(t, "b@y.com", unmatched.Cell(0, ColAdvEmail))
	assert.Equal(t, "7001", unmatched.Cell(0, ColAdvRecord))

	assert.Equal(t, "fuzzy_matched", unmatched.Cell(1, ColMatchKind))
	assert.Equal(t, "100", unmatched.Cell(1, ColMatchScore))
	assert.Equal(t, "7002", unmatched.Cell(1, ColAdvRecord))

	assert.Equal(t, "unmatched", unmatched.Cell(2, ColMatchKind))
	assert.Equal(t, "0", unmatched.Cell(2, ColMatchScore))

	// Email_Domain is backfilled when the source sheet lacks it.
	assert.Equal(t, "y.com", unmatched.Cell(0, "Email_Domain"))
	assert.Equal(t, "", unmatched.Cell(2, "Email_Domain"))
}

func TestReconcilerRun_OneToOneAcrossOutput(t *testing.T) {
	dir := t.TempDir()

	crmPath := filepath.Join(dir, "crm.xlsx")
	// One plausible candidate, two attendee rows that both want it.
	require.NoError(t, table.WriteWorkbook(crmPath, []table.NamedTable{
		{Name: "m", Table: table.New([]string{"CRD"}, nil)},
		{Name: "u", Table: table.New(
			[]string{"First_Name_", "Last_Name_", "Company_Name", "Email_", "Record_ID"},
			[][]string{{"John", "Smith", "Acme", "", "9001"}},
		)},
	}))

	attPath := filepath.Join(dir, "att.xlsx")
	require.NoError(t, table.WriteWorkbook(attPath, []table.NamedTable{
		{Name: "m", Table: table.New([]string{"Matched_CRD"}, nil)},
		{Name: "u", Table: table.New(
			[]string{"First_Name_", "Last_Name_", "Business_Name"},
			[][]string{
				{"John", "Smith", "Acme"},
				{"John", "Smith", "Acme"},
			},
		)},
	}))

	cfg := config.ReconcileConfig{
		CRMFile: crmPath, AttendeeFile: attPath,
		OutputFile:      filepath.Join(dir, "out.xlsx"),
		CRMMatchedSheet: "m", CRMUnmatchedSheet: "u",
		AttendeeMatchedSheet: "m", AttendeeUnmatchedSheet: "u",
		Threshold: 80,
	}
	require.NoError(t, NewReconciler(cfg, table.DefaultAliases()).Run(context.Background()))

	out, err := table.ReadSheet(cfg.OutputFile, table.SheetOptions{SheetName: "unmatched"})
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	// The first row consumes the only candidate; the second must not.
	assert.Equal(t, "fuzzy_matched", out.Cell(0, ColMatchKind))
	assert.Equal(t, "9001", out.Cell(0, ColAdvRecord))
	assert.Equal(t, "unmatched", out.Cell(1, ColMatchKind))
	assert.Equal(t, "", out.Cell(1, ColAdvRecord))
}

func TestReconcilerRun_MissingSourceAborts(t *testing.T) {
	dir := t.TempDir()
	cfg := config.ReconcileConfig{
		CRMFile:      filepath.Join(dir, "absent.xlsx"),
		AttendeeFile: filepath.Join(dir, "also-absent.xlsx"),
		OutputFile:   filepath.Join(dir, "out.xlsx"),
	}

	err := NewReconciler(cfg, table.DefaultAliases()).Run(context.Background())
	require.Error(t, err)
	assert.NoFileExists(t, cfg.OutputFile)
}
