package linter_test

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/cstlint/cstlint/errors"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleConfig_GetSeverity(t *testing.T) {
	t.Parallel()

	t.Run("returns configured severity when set", func(t *testing.T) {
		t.Parallel()

		warningSeverity := validation.SeverityWarning
		config := linter.RuleConfig{
			Severity: &warningSeverity,
		}

		assert.Equal(t, validation.SeverityWarning, config.GetSeverity(validation.SeverityError))
	})

	t.Run("returns default severity when not set", func(t *testing.T) {
		t.Parallel()

		config := linter.RuleConfig{}

		assert.Equal(t, validation.SeverityError, config.GetSeverity(validation.SeverityError))
	})

	t.Run("nil config returns default", func(t *testing.T) {
		t.Parallel()

		var config *linter.RuleConfig

		assert.Equal(t, validation.SeverityHint, config.GetSeverity(validation.SeverityHint))
	})
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	config := linter.NewConfig()
	assert.NotNil(t, config)
	assert.Equal(t, linter.OutputFormatText, config.OutputFormat)
	assert.Equal(t, []string{"all"}, config.Extends)
	assert.Equal(t, linter.DefaultMaxRounds, config.Rounds())
	assert.NotNil(t, config.Rules)
	assert.NotNil(t, config.Categories)
	require.NoError(t, config.Validate())
}

func TestLoadConfig_ExtendsString(t *testing.T) {
	t.Parallel()

	config, err := linter.LoadConfig(strings.NewReader(`extends: standard`))
	require.NoError(t, err)
	assert.Equal(t, []string{"standard"}, config.Extends)
	assert.Equal(t, linter.DefaultMaxRounds, config.MaxRounds)
}

func TestLoadConfig_ExtendsList(t *testing.T) {
	t.Parallel()

	configYAML := `extends:
  - standard
  - experimental`
	config, err := linter.LoadConfig(strings.NewReader(configYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"standard", "experimental"}, config.Extends)
}

func TestLoadConfig_Full(t *testing.T) {
	t.Parallel()

	configYAML := `extends: standard
max_rounds: 5
output_format: json
properties:
  indent_size: 2
  max_line_length: off
rules:
  - id: max-line-length
    severity: hint
    options:
      ignore_comments: true
  - id: no-multi-spaces
    autocorrect: false
categories:
  wrapping:
    enabled: false
ignores:
  - rule: no-trailing-spaces
    path: "*.kts"
`
	config, err := linter.LoadConfig(strings.NewReader(configYAML))
	require.NoError(t, err)

	assert.Equal(t, 5, config.Rounds())
	assert.Equal(t, linter.OutputFormatJSON, config.OutputFormat)
	assert.Equal(t, map[string]string{"indent_size": "2", "max_line_length": "off"}, config.Properties)

	require.Len(t, config.Rules, 2)
	require.NotNil(t, config.Rules[0].Severity)
	assert.Equal(t, validation.SeverityHint, *config.Rules[0].Severity)
	assert.Equal(t, map[string]any{"ignore_comments": true}, config.Rules[0].Options)
	require.NotNil(t, config.Rules[1].Autocorrect)
	assert.False(t, *config.Rules[1].Autocorrect)

	require.Contains(t, config.Categories, "wrapping")
	assert.False(t, *config.Categories["wrapping"].Enabled)

	require.Len(t, config.Ignores, 1)
	assert.Equal(t, "*.kts", config.Ignores[0].Path)
}

func TestLoadConfig_MatchRegex(t *testing.T) {
	t.Parallel()

	configYAML := `rules:
  - id: range-spacing
    match: ".*before.*"`
	config, err := linter.LoadConfig(strings.NewReader(configYAML))
	require.NoError(t, err)
	require.Len(t, config.Rules, 1)
	require.NotNil(t, config.Rules[0].Match)
	assert.Equal(t, regexp.MustCompile(".*before.*").String(), config.Rules[0].Match.String())
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		yaml     string
		contains string
	}{
		{name: "unknown key", yaml: "custom_rules:\n  paths: [a]\n", contains: "custom_rules"},
		{name: "rule without id", yaml: "rules:\n  - enabled: false\n", contains: "id"},
		{name: "unknown severity", yaml: "rules:\n  - id: a\n    severity: fatal\n", contains: "severity"},
		{name: "rounds out of range", yaml: "max_rounds: 11\n", contains: "max_rounds"},
		{name: "invalid match pattern", yaml: "rules:\n  - id: a\n    match: \"(\"\n", contains: "invalid match pattern"},
		{name: "invalid ignore pattern", yaml: "ignores:\n  - message_pattern: \"[\"\n", contains: "invalid message pattern"},
		{name: "malformed yaml", yaml: "rules: [\n", contains: "failed to parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := linter.LoadConfig(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrConfiguration), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lint.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extends: all\nmax_rounds: 2\n"), 0o600))

	config, err := linter.LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, config.Rounds())

	_, err = linter.LoadConfigFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigFromFile_TOML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "lint.toml")
	data := `extends = ["standard"]
max_rounds = 4

[[rules]]
id = "max-line-length"
enabled = false

[properties]
max_line_length = "100"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	config, err := linter.LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"standard"}, config.Extends)
	assert.Equal(t, 4, config.Rounds())
	require.Len(t, config.Rules, 1)
	assert.Equal(t, "max-line-length", config.Rules[0].ID)
	require.NotNil(t, config.Rules[0].Enabled)
	assert.False(t, *config.Rules[0].Enabled)
	assert.Equal(t, "100", config.Properties["max_line_length"])
}

func TestParseConfig_Formats(t *testing.T) {
	t.Parallel()

	assert.Equal(t, linter.ConfigFormatTOML, linter.ConfigFormatFor("/x/LINT.TOML"))
	assert.Equal(t, linter.ConfigFormatYAML, linter.ConfigFormatFor("lint.yml"))

	config, err := linter.ParseConfig(nil, linter.ConfigFormatTOML)
	require.NoError(t, err)
	assert.Equal(t, []string{"all"}, config.Extends)

	_, err = linter.ParseConfig([]byte("max_rounds = \"many\"\n"), linter.ConfigFormatTOML)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration), "got %v", err)

	_, err = linter.ParseConfig([]byte("extends = [\n"), linter.ConfigFormatTOML)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration), "got %v", err)

	_, err = linter.ParseConfig([]byte("extends: all\n"), "json")
	assert.Error(t, err)
}

func TestConfig_ValidateMissingRuleID(t *testing.T) {
	t.Parallel()

	config := &linter.Config{
		Rules: []linter.RuleEntry{{}},
	}

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule entry missing id")
}

func TestConfigSchema_IsPublished(t *testing.T) {
	t.Parallel()

	assert.Contains(t, linter.ConfigSchema(), `"max_rounds"`)
	require.NoError(t, linter.ValidateConfigData([]byte("extends: standard\n")))
	require.NoError(t, linter.ValidateConfigData([]byte("")))
}
