package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/i18n"
	"github.com/chriserin/gk/internal/ui"
)

var i18nCmd = &cobra.Command{
	Use:   "i18n [language]",
	Short: "List supported languages or the keywords of one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := ""
		if len(args) == 1 {
			code = args[0]
		}
		return RunI18n(cmd.OutOrStdout(), code)
	},
}

func init() {
	rootCmd.AddCommand(i18nCmd)
}

func RunI18n(w io.Writer, code string) error {
	if code == "" {
		ui.Table(w, []string{"code", "name", "native"}, i18n.LanguageTable())
		return nil
	}
	lang, err := i18n.Get(code)
	if err != nil {
		return err
	}
	ui.Table(w, []string{"keyword", lang.Native}, lang.KeywordTable())
	return nil
}
