// Package table provides the in-memory tabular model shared by both sides of
// the reconciliation: ordered-header string tables read from and written to
// xlsx workbooks, plus alias-based column resolution that insulates the
// pipeline from schema drift across export versions.
package table

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a header-ordered table of string cells. Rows shorter than the
// header read as empty cells.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// New builds a Table over the given header and rows.
func New(header []string, rows [][]string) *Table {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, ok := index[h]; !ok {
			index[h] = i
		}
	}
	return &Table{Header: header, Rows: rows, index: index}
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether a column with this exact name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the trimmed cell at (row, column name), or "" when the column
// is absent or the row is ragged.
func (t *Table) Cell(row int, name string) string {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][i])
}

// PickName returns the first candidate present as a column. Candidate order
// encodes precedence: most preferred name first.
func (t *Table) PickName(candidates []string) (string, bool) {
	for _, c := range candidates {
		if t.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}

// Pick returns the first present candidate column as a cleaned
// (whitespace-trimmed, def-for-empty) column. When no candidate is present
// it returns a constant column of def aligned to the row count, so missing
// schema fields degrade to defaults instead of failing.
func (t *Table) Pick(candidates []string, def string) []string {
	out := make([]string, len(t.Rows))

	name, ok := t.PickName(candidates)
	if !ok {
		for i := range out {
			out[i] = def
		}
		return out
	}

	for i := range t.Rows {
		v := t.Cell(i, name)
		if v == "" {
			v = def
		}
		out[i] = v
	}
	return out
}

// Clone returns a deep copy of the table. Output sheets are built from a
// clone so annotation never mutates the loaded source.
func (t *Table) Clone() *Table {
	header := append([]string(nil), t.Header...)
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append([]string(nil), r...)
	}
	return New(header, rows)
}

// AppendColumn adds a column aligned to the row count. Short rows are padded
// to the current header width first so the new values land in one column.
func (t *Table) AppendColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return eris.Errorf("table: column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}
	width := len(t.Header)
	t.Header = append(t.Header, name)
	if _, ok := t.index[name]; !ok {
		t.index[name] = width
	}
	for i := range t.Rows {
		for len(t.Rows[i]) < width {
			t.Rows[i] = append(t.Rows[i], "")
		}
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}
