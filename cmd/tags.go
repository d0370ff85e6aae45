package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/config"
	"github.com/chriserin/gk/internal/ui"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Show how many indexed scenarios carry each tag",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunTags(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}

func RunTags(w io.Writer, cfg *config.Config) error {
	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer ix.Close()

	rows, err := ix.List("")
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Scenarios: %d\n", len(rows))
	if len(rows) == 0 {
		return nil
	}

	counts, err := ix.TagCounts()
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		ui.Empty(w, "no tags")
		return nil
	}

	width := 0
	for _, c := range counts {
		if len(c.Name) > width {
			width = len(c.Name)
		}
	}
	for _, c := range counts {
		ui.TagRow(w, c.Name, c.Count, width)
	}
	return nil
}
