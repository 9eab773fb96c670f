package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/contact-match/internal/pipeline"
	"github.com/sells-group/contact-match/internal/table"
)

var (
	reconcileCRMFile      string
	reconcileAttendeeFile string
	reconcileOut          string
	reconcileThreshold    int
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run CRD + email/fuzzy reconciliation and write the combined workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rc := cfg.Reconcile
		if reconcileCRMFile != "" {
			rc.CRMFile = reconcileCRMFile
		}
		if reconcileAttendeeFile != "" {
			rc.AttendeeFile = reconcileAttendeeFile
		}
		if reconcileOut != "" {
			rc.OutputFile = reconcileOut
		}
		if cmd.Flags().Changed("threshold") {
			rc.Threshold = reconcileThreshold
		}

		if rc.CRMFile == "" {
			return eris.New("CRM export file is required (--crm or CONTACTMATCH_RECONCILE_CRM_FILE)")
		}
		if rc.AttendeeFile == "" {
			return eris.New("attendee file is required (--attendees or CONTACTMATCH_RECONCILE_ATTENDEE_FILE)")
		}

		aliases, err := table.LoadAliases(cfg.Aliases.File)
		if err != nil {
			return eris.Wrap(err, "reconcile: load aliases")
		}

		return pipeline.NewReconciler(rc, aliases).Run(ctx)
	},
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileCRMFile, "crm", "", "path to CRM export workbook")
	reconcileCmd.Flags().StringVar(&reconcileAttendeeFile, "attendees", "", "path to attendee workbook")
	reconcileCmd.Flags().StringVarP(&reconcileOut, "out", "o", "", "output workbook path")
	reconcileCmd.Flags().IntVar(&reconcileThreshold, "threshold", 80, "fuzzy match acceptance score (0-100)")
	rootCmd.AddCommand(reconcileCmd)
}
