package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/config"
	"github.com/chriserin/gk/internal/i18n"
	"github.com/chriserin/gk/internal/index"
	"github.com/chriserin/gk/internal/parser"
	"github.com/chriserin/gk/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Parse feature files and record them in the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.OutOrStdout(), cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

// RunSync records every feature file under the configured directory. Files
// that fail to parse are reported and keep their previous index rows. With
// parse.strict off, a syntax error is only a warning and the file is recorded
// up to the line that broke it.
func RunSync(w io.Writer, cfg *config.Config, logger *log.Logger) error {
	ix, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer ix.Close()

	paths, err := discover(cfg)
	if err != nil {
		return err
	}

	count := 0
	for _, path := range paths {
		uri := filepath.ToSlash(path)
		summary, lang, warn, err := summarizeFile(path, uri, cfg)
		if err != nil {
			ui.ErrLine(w, uri, err)
			logger.Printf("sync skipped: path=%q err=%v", uri, err)
			continue
		}
		if warn != nil {
			ui.WarnLine(w, uri, warn)
			logger.Printf("sync partial: path=%q err=%v", uri, warn)
		}
		created, err := ix.Record(summary, lang)
		if err != nil {
			return err
		}
		if created {
			ui.NewLine(w, uri)
		} else {
			ui.TrkLine(w, uri)
		}
		count++
	}

	ui.SummaryLine(w, count)
	return nil
}

func discover(cfg *config.Config) ([]string, error) {
	if _, err := os.Stat(cfg.Features.Dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("features directory %s does not exist", cfg.Features.Dir)
	}
	return index.Discover(cfg.Features.Dir, cfg.Features.Glob)
}

// summarizeFile parses the file at path. When parsing is not strict, a
// syntax error comes back as warn alongside a summary of the lines above it.
func summarizeFile(path, uri string, cfg *config.Config) (s *parser.Summary, lang string, warn, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var opts []parser.Option
	if !cfg.Parse.Strict {
		opts = append(opts, parser.WithReportedErrors())
	}
	doc, err := parser.ParseDocument(uri, content, opts...)
	if err != nil {
		return nil, "", nil, err
	}
	if len(doc.Errors) > 0 {
		warn = doc.Errors[0]
		content = linesBefore(content, doc.Errors[0].Line)
	}
	return parser.Summarize(doc, uri, content), i18n.DetectCode(string(content)), warn, nil
}

// linesBefore returns the lines of content that come before line.
func linesBefore(content []byte, line int) []byte {
	lines := bytes.SplitAfter(content, []byte("\n"))
	if line < 1 || line > len(lines) {
		return content
	}
	return bytes.Join(lines[:line-1], nil)
}
