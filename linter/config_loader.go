package linter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cstlint/cstlint/errors"
	"gopkg.in/yaml.v3"
)

// ConfigFormat is the encoding of a lint configuration file.
type ConfigFormat string

const (
	ConfigFormatYAML ConfigFormat = "yaml"
	ConfigFormatTOML ConfigFormat = "toml"
)

// ConfigFormatFor picks the encoding from the file extension. Anything but
// .toml is read as YAML.
func ConfigFormatFor(path string) ConfigFormat {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ConfigFormatTOML
	}
	return ConfigFormatYAML
}

// LoadConfig loads lint configuration from a YAML reader.
func LoadConfig(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data, ConfigFormatYAML)
}

// LoadConfigFromFile loads lint configuration from a YAML or TOML file.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	return ParseConfig(data, ConfigFormatFor(path))
}

// ParseConfig validates data against the configuration schema and decodes it.
// TOML is converted to YAML first so both encodings share one schema and one decoder.
func ParseConfig(data []byte, format ConfigFormat) (*Config, error) {
	switch format {
	case ConfigFormatYAML, "":
	case ConfigFormatTOML:
		converted, err := tomlToYAML(data)
		if err != nil {
			return nil, err
		}
		data = converted
	default:
		return nil, errors.ErrConfiguration.Wrapf("unknown config format %q", format)
	}

	if err := ValidateConfigData(data); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ErrConfiguration.Wrapf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func tomlToYAML(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.ErrConfiguration.Wrapf("failed to parse config: %w", err)
	}
	if len(doc) == 0 {
		return nil, nil
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.ErrConfiguration.Wrapf("failed to convert config: %w", err)
	}
	return out, nil
}

// applyDefaults fills the fields a configuration file left out.
func (c *Config) applyDefaults() {
	if len(c.Extends) == 0 {
		c.Extends = []string{"all"}
	}
	if c.Categories == nil {
		c.Categories = make(map[string]CategoryConfig)
	}
	if c.Rules == nil {
		c.Rules = []RuleEntry{}
	}
	if c.OutputFormat == "" {
		c.OutputFormat = OutputFormatText
	}
	if c.MaxRounds == 0 {
		c.MaxRounds = DefaultMaxRounds
	}
}
