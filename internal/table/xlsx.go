package table

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// SheetOptions selects one sheet within a workbook.
type SheetOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// NamedTable pairs a table with its output sheet name.
type NamedTable struct {
	Name  string
	Table *Table
}

// ReadSheet loads one worksheet as a Table. The first row is the header;
// a missing file or sheet is an error (the run aborts, no partial output).
func ReadSheet(path string, opts SheetOptions) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: open %s", path)
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var header []string
	var rows [][]string
	for i, row := range sheet.Rows {
		cells := rowToStrings(row)
		if i == 0 {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}

	return New(header, rows), nil
}

// WriteWorkbook writes the named tables as sheets of one workbook, creating
// the parent directory if needed. All cells are written as text so record
// ids survive without scientific-notation mangling.
func WriteWorkbook(path string, sheets []NamedTable) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "xlsx: create output dir")
		}
	}

	f := xlsx.NewFile()
	for _, nt := range sheets {
		sheet, err := f.AddSheet(nt.Name)
		if err != nil {
			return eris.Wrapf(err, "xlsx: add sheet %q", nt.Name)
		}

		hr := sheet.AddRow()
		for _, h := range nt.Table.Header {
			hr.AddCell().Value = h
		}
		for _, row := range nt.Table.Rows {
			r := sheet.AddRow()
			for _, v := range row {
				r.AddCell().Value = v
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

func getSheet(f *xlsx.File, opts SheetOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found (have: %s)", opts.SheetName, strings.Join(sheetNames(f), ", "))
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

func sheetNames(f *xlsx.File) []string {
	names := make([]string, len(f.Sheets))
	for i, s := range f.Sheets {
		names[i] = s.Name
	}
	return names
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
