// Package commands implements the cstlint subcommands.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cstlint/cstlint/internal/logger"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/rules/standard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Apply adds the cstlint subcommands to rootCmd.
func Apply(rootCmd *cobra.Command) {
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(docsCmd)
}

// newLogger builds the logger from the root command's persistent flags.
func newLogger(cmd *cobra.Command, w io.Writer) (*zap.Logger, error) {
	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		level = logger.LevelOff
	}
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format = string(logger.FormatConsole)
	}
	return logger.New(level, logger.Format(format), w)
}

// selection holds the flags that decide which rules run.
type selection struct {
	configFile string
	ruleset    string
	disable    []string
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.configFile, "config", "c", "", "Path to a YAML or TOML lint config file (default: ~/.cstlint/lint.yaml)")
	cmd.Flags().StringVarP(&s.ruleset, "ruleset", "r", "", "Ruleset to use instead of the configured ones")
	cmd.Flags().StringSliceVarP(&s.disable, "disable", "d", nil, "Rule IDs to disable (can be repeated)")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"lint.yaml", "lint.yml", "lint.toml"} {
		p := filepath.Join(home, ".cstlint", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// load returns the run configuration and the raw bytes it was read from.
func (s *selection) load() (*linter.Config, []byte, error) {
	cfg := linter.NewConfig()
	var raw []byte

	path := s.configFile
	if path == "" {
		path = defaultConfigPath()
	}
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}
		loaded, err := linter.ParseConfig(data, linter.ConfigFormatFor(path))
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		cfg, raw = loaded, data
	}

	if s.ruleset != "" {
		cfg.Extends = []string{s.ruleset}
	}
	for _, id := range s.disable {
		cfg.Rules = append(cfg.Rules, linter.RuleEntry{
			ID:      id,
			Enabled: ptr(false),
		})
	}
	return cfg, raw, nil
}

// registry returns the rules known to the command line tool.
func registry() (*linter.Registry, error) {
	return standard.NewRegistry()
}

func ptr[T any](v T) *T {
	return &v
}
