package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/config"
	"github.com/chriserin/gk/internal/ui"
)

var tagFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), cfg, tagFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&tagFlag, "tag", "", "Only scenarios carrying this tag, e.g. @smoke")
	rootCmd.AddCommand(listCmd)
}

func RunList(w io.Writer, cfg *config.Config, tag string) error {
	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer ix.Close()

	rows, err := ix.List(tag)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		ui.Empty(w, "no scenarios")
		return nil
	}

	idWidth, fileWidth := 0, 0
	for _, r := range rows {
		if n := len(fmt.Sprintf("#%d", r.ID)); n > idWidth {
			idWidth = n
		}
		if n := len(filepath.Base(r.FilePath)); n > fileWidth {
			fileWidth = n
		}
	}

	for _, r := range rows {
		ui.ListRow(w, r.ID, filepath.Base(r.FilePath), r.Name, idWidth, fileWidth)
	}
	return nil
}
