package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/i18n"
	"github.com/chriserin/gk/internal/lexer"
	"github.com/chriserin/gk/internal/ui"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Print the lexer events of a feature file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunLex(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func RunLex(w io.Writer, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	lang, err := i18n.Resolve(string(content))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	err = lexer.New(lang).Scan(string(content), lexer.HandlerFunc(func(e lexer.Event) error {
		ui.EventLine(w, e)
		return nil
	}))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
