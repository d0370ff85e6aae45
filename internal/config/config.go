// Package config loads gk settings using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full set of gk settings.
type Config struct {
	Features Features `mapstructure:"features"`
	Index    Index    `mapstructure:"index"`
	Parse    Parse    `mapstructure:"parse"`
	Output   Output   `mapstructure:"output"`

	file string
}

// Features says where feature files live.
type Features struct {
	Dir  string `mapstructure:"dir"`
	Glob string `mapstructure:"glob"`
}

type Index struct {
	Path string `mapstructure:"path"`
}

// Parse controls how syntax errors surface. Strict parsing fails the file;
// otherwise the error is a warning, sync records the lines above it and
// check does not count the file as failed.
type Parse struct {
	Strict bool `mapstructure:"strict"`
}

// Output.Color is one of auto, always or never.
type Output struct {
	Color string `mapstructure:"color"`
}

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ProjectDir holds the project-local config file and the index.
const ProjectDir = ".gk"

func userConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gk"), nil
}

// Load reads the configuration. Config files are searched in order:
// 1. Explicit path via cfgPath (--config flag)
// 2. Project-local: .gk/config.yaml
// 3. User global: ~/.config/gk/config.yaml
//
// A missing file is not an error. GK_ environment variables override file
// values, e.g. GK_FEATURES_DIR.
func Load(cfgPath string) (*Config, error) {
	v := viper.New()
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(ProjectDir)
		if dir, err := userConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("features.dir", "features")
	v.SetDefault("features.glob", "*.feature")
	v.SetDefault("index.path", filepath.Join(ProjectDir, "index.db"))
	v.SetDefault("parse.strict", true)
	v.SetDefault("output.color", ColorAuto)

	v.SetEnvPrefix("GK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{file: v.ConfigFileUsed()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the settings used when no file or environment overrides
// anything.
func Default() *Config {
	return &Config{
		Features: Features{Dir: "features", Glob: "*.feature"},
		Index:    Index{Path: filepath.Join(ProjectDir, "index.db")},
		Parse:    Parse{Strict: true},
		Output:   Output{Color: ColorAuto},
	}
}

// File returns the config file that was read, or "" if none was.
func (c *Config) File() string {
	return c.file
}

func (c *Config) validate() error {
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid output.color %q: want auto, always or never", c.Output.Color)
	}
	if c.Features.Glob == "" {
		return fmt.Errorf("features.glob must not be empty")
	}
	if _, err := filepath.Match(c.Features.Glob, ""); err != nil {
		return fmt.Errorf("invalid features.glob %q: %w", c.Features.Glob, err)
	}
	return nil
}
