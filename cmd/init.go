package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/config"
	"github.com/chriserin/gk/internal/index"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the gk index in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer, cfg *config.Config) error {
	dbPath := filepath.ToSlash(cfg.Index.Path)
	dir := filepath.Dir(cfg.Index.Path)

	_, err := os.Stat(dir)
	dirExists := err == nil
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", dir, err)
	}
	if dir != "." {
		if dirExists {
			fmt.Fprintf(w, "%s/ already exists\n", filepath.ToSlash(dir))
		} else {
			fmt.Fprintf(w, "%s/ created\n", filepath.ToSlash(dir))
		}
	}

	_, err = os.Stat(cfg.Index.Path)
	dbExists := err == nil
	ix, err := index.Open(cfg.Index.Path)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	ix.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", dbPath)
	} else {
		fmt.Fprintf(w, "%s created\n", dbPath)
	}

	msgs, err := ensureGitignore(dbPath)
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}
	return nil
}

func ensureGitignore(entry string) ([]string, error) {
	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}

// openIndex opens the configured index, which `gk init` must have created.
func openIndex(cfg *config.Config) (*index.Index, error) {
	if _, err := os.Stat(cfg.Index.Path); os.IsNotExist(err) {
		return nil, fmt.Errorf("run `gk init` first")
	}
	ix, err := index.Open(cfg.Index.Path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	return ix, nil
}
