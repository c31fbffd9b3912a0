package cli

import (
	"fmt"

	"github.com/keepsakehq/keepsake/internal/journal"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the gate status and streak",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	db, j, err := openJournal()
	if err != nil {
		return err
	}
	defer db.Close()

	st := j.Status()
	switch st.Kind {
	case journal.StatusOpen:
		fmt.Println("Open — one memory per 24 hours. Permanent once saved.")
	case journal.StatusCooldown:
		fmt.Printf("Cooldown — next save in %s\n", journal.FormatCountdown(st.Remaining))
	case journal.StatusCredits:
		fmt.Printf("Cooldown — next free save in %s, or spend one of %d credit%s now\n",
			journal.FormatCountdown(st.Remaining), st.Credits, plural(st.Credits))
	case journal.StatusBackfill:
		fmt.Printf("Cooldown — next save in %s (%d backfill credit%s left for past days)\n",
			journal.FormatCountdown(st.Remaining), st.Credits, plural(st.Credits))
	}

	sum := j.Streak()
	fmt.Printf("🔥 Streak: %d day%s", sum.Active, plural(sum.Active))
	if sum.Best > sum.Active {
		fmt.Printf(" (best %d)", sum.Best)
	}
	fmt.Println()
	if sum.Active == 0 && sum.LastRun > 0 {
		fmt.Printf("Last run: %d day%s\n", sum.LastRun, plural(sum.LastRun))
	}
	return nil
}
