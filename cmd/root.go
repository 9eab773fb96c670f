package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contact-match/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "contact-match",
	Short: "Contact list reconciliation pipeline",
	Long:  "Reconciles a CRM contact export against an attendee list: exact CRD and email matching first, blocked fuzzy name+company matching as fallback, annotated xlsx output.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
