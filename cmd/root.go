package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/gk/internal/config"
	"github.com/chriserin/gk/internal/ui"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	cfg    = config.Default()
	logger = log.New(io.Discard, "", 0)
)

var rootCmd = &cobra.Command{
	Use:           "gk",
	Short:         "Parse Gherkin feature files and index their scenarios",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		if noColor {
			cfg.Output.Color = config.ColorNever
		}
		ui.SetColor(cfg.Output.Color, cmd.OutOrStdout())
		if verbose {
			logger = log.New(cmd.ErrOrStderr(), "gk: ", log.LstdFlags)
			if f := cfg.File(); f != "" {
				logger.Printf("config loaded: file=%q", f)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .gk/config.yaml or ~/.config/gk/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gk: "+err.Error())
		os.Exit(1)
	}
}
