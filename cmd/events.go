package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/vitacheck/internal/telemetry"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recently journaled telemetry events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		path, err := telemetry.DefaultJournalPath()
		if err != nil {
			return err
		}
		journal, err := telemetry.OpenJournal(path)
		if err != nil {
			return err
		}
		defer journal.Close()

		entries, err := journal.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No telemetry events journaled yet.")
			return nil
		}

		for _, e := range entries {
			assessment := "-"
			if e.AssessmentID != nil {
				assessment = fmt.Sprintf("%d", *e.AssessmentID)
			}
			timeLeft := "-"
			if e.TimeLeft != nil {
				timeLeft = fmt.Sprintf("%ds", *e.TimeLeft)
			}
			fmt.Printf("%s  %-45s stage=%-10s level=%-2s assessment=%-6s time_left=%-6s %s\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"),
				e.EventType, e.Stage, e.Level, assessment, timeLeft, e.Details)
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().Int("limit", 20, "Maximum number of events to show")
}
