package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contact-match/internal/schema"
	"github.com/sells-group/contact-match/internal/table"
)

var (
	schemaFile   string
	schemaSheet  string
	schemaOutDir string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Dump a workbook sheet's schema as JSON plus a sample CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if schemaFile == "" {
			return eris.New("workbook path is required (--file)")
		}

		// First sheet when the requested name is absent, matching the
		// loose behavior schema inspection wants.
		t, err := table.ReadSheet(schemaFile, table.SheetOptions{SheetName: schemaSheet})
		if err != nil && schemaSheet != "" {
			t, err = table.ReadSheet(schemaFile, table.SheetOptions{})
		}
		if err != nil {
			return eris.Wrap(err, "schema: load sheet")
		}

		schemaPath, samplePath, err := schema.Dump(t, schemaFile, schemaSheet, schemaOutDir)
		if err != nil {
			return err
		}

		zap.L().Info("schema extracted",
			zap.String("schema", schemaPath),
			zap.String("sample", samplePath),
		)
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaFile, "file", "", "path to workbook (required)")
	schemaCmd.Flags().StringVar(&schemaSheet, "sheet", "Sheet1", "sheet name to inspect")
	schemaCmd.Flags().StringVar(&schemaOutDir, "out-dir", "data", "directory for schema dump outputs")
	_ = schemaCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(schemaCmd)
}
