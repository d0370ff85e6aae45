package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/config"
	"github.com/chriserin/gk/internal/lexer"
	"github.com/chriserin/gk/internal/parser"
	"github.com/chriserin/gk/internal/ui"
	"github.com/chriserin/gk/internal/watch"
)

var watchFlag bool

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Parse feature files and report syntax errors",
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchFlag {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return RunCheckWatch(ctx, cmd.OutOrStdout(), cfg, args, logger)
		}
		return RunCheck(cmd.OutOrStdout(), cfg, args)
	},
}

func init() {
	checkCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-check files as they change")
	rootCmd.AddCommand(checkCmd)
}

// RunCheck parses each path, or every configured feature file when paths is
// empty, and fails if any of them does not parse. With parse.strict off,
// syntax errors are printed as warnings and only lex errors fail a file.
func RunCheck(w io.Writer, cfg *config.Config, paths []string) error {
	if len(paths) == 0 {
		var err error
		if paths, err = discover(cfg); err != nil {
			return err
		}
	}

	failed := 0
	for _, path := range paths {
		if !checkFile(w, path, cfg) {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

// RunCheckWatch checks once, then re-checks each file that changes until
// ctx is done.
func RunCheckWatch(ctx context.Context, w io.Writer, cfg *config.Config, paths []string, logger *log.Logger) error {
	watched := paths
	if len(watched) == 0 {
		watched = []string{cfg.Features.Dir}
	}
	if err := RunCheck(w, cfg, paths); err != nil {
		fmt.Fprintln(w, err)
	}

	watcher, err := watch.New(watch.Options{
		Paths: watched,
		Match: func(path string) bool {
			ok, _ := filepath.Match(cfg.Features.Glob, filepath.Base(path))
			return ok
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("watching: %w", err)
	}
	defer watcher.Close()

	return watcher.Run(ctx, func(path string) {
		checkFile(w, path, cfg)
	})
}

func checkFile(w io.Writer, path string, cfg *config.Config) bool {
	var opts []parser.Option
	if !cfg.Parse.Strict {
		opts = append(opts, parser.WithReportedErrors())
	}
	doc, err := parser.ParseFile(path, opts...)
	if err == nil {
		if len(doc.Errors) > 0 {
			ui.WarnLine(w, path, doc.Errors[0])
		} else {
			ui.OKLine(w, path)
		}
		return true
	}
	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		err = fmt.Errorf("%s:%d: %s", path, lexErr.Line, lexErr.Message)
	}
	ui.FailLine(w, err)
	return false
}
