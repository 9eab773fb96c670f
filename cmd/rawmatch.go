package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/contact-match/internal/pipeline"
	"github.com/sells-group/contact-match/internal/table"
)

var (
	rawmatchAttendeeFile string
	rawmatchContactsFile string
	rawmatchOut          string
	rawmatchThreshold    int
)

var rawmatchCmd = &cobra.Command{
	Use:   "rawmatch",
	Short: "Fuzzy-match attendee sheets against the full contact export by name and company",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rc := cfg.Rawmatch
		if rawmatchAttendeeFile != "" {
			rc.AttendeeFile = rawmatchAttendeeFile
		}
		if rawmatchContactsFile != "" {
			rc.ContactsFile = rawmatchContactsFile
		}
		if rawmatchOut != "" {
			rc.OutputFile = rawmatchOut
		}
		if cmd.Flags().Changed("threshold") {
			rc.Threshold = rawmatchThreshold
		}

		if rc.AttendeeFile == "" {
			return eris.New("attendee file is required (--attendees or CONTACTMATCH_RAWMATCH_ATTENDEE_FILE)")
		}
		if rc.ContactsFile == "" {
			return eris.New("contacts file is required (--contacts or CONTACTMATCH_RAWMATCH_CONTACTS_FILE)")
		}

		aliases, err := table.LoadAliases(cfg.Aliases.File)
		if err != nil {
			return eris.Wrap(err, "rawmatch: load aliases")
		}

		return pipeline.NewRawRunner(rc, aliases).Run(ctx)
	},
}

func init() {
	rawmatchCmd.Flags().StringVar(&rawmatchAttendeeFile, "attendees", "", "path to attendee workbook")
	rawmatchCmd.Flags().StringVar(&rawmatchContactsFile, "contacts", "", "path to full contact export workbook")
	rawmatchCmd.Flags().StringVarP(&rawmatchOut, "out", "o", "", "output workbook path")
	rawmatchCmd.Flags().IntVar(&rawmatchThreshold, "threshold", 90, "fuzzy match acceptance score (0-100)")
	rootCmd.AddCommand(rawmatchCmd)
}
