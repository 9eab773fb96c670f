// Package schema dumps the observed shape of a source workbook so column
// drift between export versions can be diagnosed before a matching run.
package schema

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-match/internal/table"
)

// SampleRows is the number of leading rows written to the sample CSV.
const SampleRows = 100

// Schema describes one sheet of a source workbook.
type Schema struct {
	SourceFile  string            `json:"source_file"`
	Sheet       string            `json:"sheet"`
	RowCount    int               `json:"row_count"`
	ColumnCount int               `json:"column_count"`
	Columns     []string          `json:"columns"`
	Kinds       map[string]string `json:"kinds"`
}

// Describe inspects a loaded table. Kinds classifies each column by the
// non-empty cells it holds: "number", "text", or "empty".
func Describe(t *table.Table, sourceFile, sheetName string) Schema {
	kinds := make(map[string]string, len(t.Header))
	for _, col := range t.Header {
		kinds[col] = columnKind(t, col)
	}
	return Schema{
		SourceFile:  sourceFile,
		Sheet:       sheetName,
		RowCount:    t.Len(),
		ColumnCount: len(t.Header),
		Columns:     append([]string(nil), t.Header...),
		Kinds:       kinds,
	}
}

// Dump writes the schema JSON and a head-sample CSV into outDir, returning
// the two paths written.
func Dump(t *table.Table, sourceFile, sheetName, outDir string) (string, string, error) {
	log := zap.L().With(zap.String("component", "schema"))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", "", eris.Wrap(err, "schema: create output dir")
	}

	s := Describe(t, sourceFile, sheetName)

	schemaPath := filepath.Join(outDir, "sheet_schema.json")
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", "", eris.Wrap(err, "schema: marshal")
	}
	if err := os.WriteFile(schemaPath, raw, 0o644); err != nil {
		return "", "", eris.Wrap(err, "schema: write json")
	}

	samplePath := filepath.Join(outDir, "sheet_sample.csv")
	if err := writeSample(t, samplePath); err != nil {
		return "", "", err
	}

	log.Info("schema dump written",
		zap.String("schema", schemaPath),
		zap.String("sample", samplePath),
		zap.Int("rows", s.RowCount),
		zap.Int("columns", s.ColumnCount),
	)
	return schemaPath, samplePath, nil
}

func writeSample(t *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "schema: create sample csv")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return eris.Wrap(err, "schema: write sample header")
	}
	n := t.Len()
	if n > SampleRows {
		n = SampleRows
	}
	for _, row := range t.Rows[:n] {
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "schema: write sample row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "schema: flush sample csv")
	}
	return nil
}

func columnKind(t *table.Table, col string) string {
	kind := "empty"
	for i := 0; i < t.Len(); i++ {
		v := t.Cell(i, col)
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err == nil {
			if kind == "empty" {
				kind = "number"
			}
			continue
		}
		return "text"
	}
	return kind
}
