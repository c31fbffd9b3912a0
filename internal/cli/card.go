package cli

import (
	"fmt"
	"os"

	"github.com/keepsakehq/keepsake/internal/card"
	"github.com/spf13/cobra"
)

var cardOut string

var cardCmd = &cobra.Command{
	Use:   "card [day]",
	Short: "Render a memory's shareable card to a PNG file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCard,
}

func init() {
	cardCmd.Flags().StringVarP(&cardOut, "out", "o", "", "Output file (default keepsake-<day>.png)")
}

func runCard(cmd *cobra.Command, args []string) error {
	dayKey := args[0]

	db, j, err := openJournal()
	if err != nil {
		return err
	}
	defer db.Close()

	entry, err := j.Entry(dayKey)
	if err != nil {
		return fmt.Errorf("load entry: %w", err)
	}
	if entry == nil {
		return fmt.Errorf("no memory for %s", dayKey)
	}

	photo, err := j.Photo(dayKey)
	if err != nil {
		return fmt.Errorf("load photo: %w", err)
	}

	img, err := card.Render(entry, photo)
	if err != nil {
		return fmt.Errorf("render card: %w", err)
	}

	out := cardOut
	if out == "" {
		out = card.Filename(dayKey)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if err := card.EncodePNG(f, img); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}
