package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/keepsakehq/keepsake/internal/journal"
	"github.com/spf13/cobra"
)

var (
	savePhoto      string
	saveMood       string
	saveReflection string
	saveCategory   string
	saveDate       string
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Record today's memory",
	Long:  "Save one memory for a day: a photo, a mood, and a short reflection. Use --date to backfill a past day (limited credits).",
	RunE:  runSave,
}

func init() {
	saveCmd.Flags().StringVarP(&savePhoto, "photo", "p", "", "Path to the photo file (required)")
	saveCmd.Flags().StringVarP(&saveMood, "mood", "m", "", "Mood tag: "+moodKeys())
	saveCmd.Flags().StringVarP(&saveReflection, "reflection", "r", "", "Short reflection text (required)")
	saveCmd.Flags().StringVarP(&saveCategory, "category", "c", "", "Optional category")
	saveCmd.Flags().StringVarP(&saveDate, "date", "d", "", "Target date YYYY-MM-DD (default today)")
	saveCmd.MarkFlagRequired("photo")
	saveCmd.MarkFlagRequired("mood")
	saveCmd.MarkFlagRequired("reflection")
}

func moodKeys() string {
	keys := make([]string, len(journal.Moods))
	for i, m := range journal.Moods {
		keys[i] = m.Key
	}
	return strings.Join(keys, ", ")
}

func runSave(cmd *cobra.Command, args []string) error {
	photo, err := os.ReadFile(savePhoto)
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}

	db, j, err := openJournal()
	if err != nil {
		return err
	}
	defer db.Close()

	entry, err := j.Save(journal.SaveRequest{
		DayKey:     saveDate,
		Mood:       saveMood,
		Reflection: saveReflection,
		Category:   saveCategory,
		Photo:      photo,
	})
	if err != nil {
		var d *journal.DenialError
		if errors.As(err, &d) {
			fmt.Fprintf(os.Stderr, "not saved: %s\n", d.Error())
			os.Exit(1)
		}
		return err
	}

	fmt.Printf("Saved %s %s — %s\n", entry.MoodGlyph, entry.Mood, journal.PrettyDayKey(entry.DayKey))

	sum := j.Streak()
	if sum.Active > 0 {
		fmt.Printf("🔥 Streak: %d day%s\n", sum.Active, plural(sum.Active))
	}
	return nil
}

func plural(n int64) string {
	if n == 1 {
		return ""
	}
	return "s"
}
