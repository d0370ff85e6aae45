package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/config"
	"github.com/chriserin/gk/internal/i18n"
	"github.com/chriserin/gk/internal/index"
	"github.com/chriserin/gk/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a scenario by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), cfg, args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, cfg *config.Config, rawID string) error {
	rawID = strings.TrimPrefix(rawID, "#")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid scenario ID: %s", rawID)
	}

	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer ix.Close()

	d, err := ix.Scenario(id)
	if errors.Is(err, index.ErrNotFound) {
		return fmt.Errorf("scenario %d not found", id)
	}
	if err != nil {
		return err
	}

	keywords := languageKeywords(d.Language)
	ui.ShowHeader(w, d.ID, d.FilePath, d.Line)
	ui.ShowTags(w, d.Tags)

	if d.Background != "" {
		fmt.Fprintln(w)
		ui.ShowGherkin(w, d.Background, keywords)
	}

	fmt.Fprintln(w)
	ui.ShowGherkin(w, d.Content, keywords)
	return nil
}

// languageKeywords returns every keyword of the language, longest first.
func languageKeywords(code string) []string {
	lang, err := i18n.Get(code)
	if err != nil {
		lang = i18n.MustGet(i18n.DefaultLanguage)
	}
	var keywords []string
	for _, key := range i18n.KeywordKeys {
		keywords = append(keywords, lang.Keywords(key)...)
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return len(keywords[i]) > len(keywords[j])
	})
	return keywords
}
