package cli

import (
	"fmt"

	"github.com/keepsakehq/keepsake/internal/journal"
	"github.com/spf13/cobra"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "List saved memories, newest first",
	RunE:  runTimeline,
}

func runTimeline(cmd *cobra.Command, args []string) error {
	db, j, err := openJournal()
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := j.Timeline()
	if err != nil {
		return fmt.Errorf("load timeline: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No memories yet. Choose a moment to begin.")
		return nil
	}

	currentMonth := ""
	for _, e := range entries {
		month := journal.MonthLabel(e.DayKey)
		if month != currentMonth {
			currentMonth = month
			fmt.Printf("\n## %s\n", month)
		}
		fmt.Printf("  %s  %s %-9s  %s", journal.PrettyDayKey(e.DayKey), e.MoodGlyph, e.Mood, e.Reflection)
		if e.Category != "" {
			fmt.Printf("  [%s]", e.Category)
		}
		fmt.Println()
	}
	return nil
}
