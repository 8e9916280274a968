package standard_test

import (
	"strings"
	"testing"

	"github.com/cstlint/cstlint/internal/testutils"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/rules/standard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxLineLengthRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		props    map[string]string
		expected []string
	}{
		{
			name:     "line over the limit",
			src:      "val short = 1\nval tooLong = \"abcdefghijklmnop\"\n",
			props:    map[string]string{"max_line_length": "20"},
			expected: []string{"2:1 max-line-length Exceeded max line length (20)"},
		},
		{
			name:  "line at the limit",
			src:   "val x = \"abcdefghij\"\n",
			props: map[string]string{"max_line_length": "20"},
		},
		{
			name:  "runes are counted, not bytes",
			src:   "val s = \"" + strings.Repeat("é", 10) + "\"\n",
			props: map[string]string{"max_line_length": "20"},
		},
		{
			name:  "imports are exempt",
			src:   "import com.example.some.very.long.pkg.Name\n",
			props: map[string]string{"max_line_length": "20"},
		},
		{
			name:  "off",
			src:   "val tooLong = \"abcdefghijklmnop\"\n",
			props: map[string]string{"max_line_length": "off"},
		},
		{
			name:     "comments count by default",
			src:      "// a comment that is far too long\nval x = 1\n",
			props:    map[string]string{"max_line_length": "20"},
			expected: []string{"1:1 max-line-length Exceeded max line length (20)"},
		},
		{
			name: "official style default",
			src:  "val s = \"" + strings.Repeat("a", 120) + "\"\n",
		},
		{
			name:     "android studio style default",
			src:      "val s = \"" + strings.Repeat("a", 120) + "\"\n",
			props:    map[string]string{"code_style": "android_studio"},
			expected: []string{"1:1 max-line-length Exceeded max line length (100)"},
		},
		{
			name:  "intellij idea style has no limit",
			src:   "val s = \"" + strings.Repeat("a", 300) + "\"\n",
			props: map[string]string{"code_style": "intellij_idea"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := check(t, standard.NewMaxLineLengthRule, tt.src, tt.props)
			if len(tt.expected) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func newMaxLineLengthLinter(t *testing.T, options map[string]any) (*linter.Linter, error) {
	t.Helper()
	cfg := linter.NewConfig()
	cfg.Rules = []linter.RuleEntry{{ID: standard.RuleMaxLineLength, Options: options}}
	return linter.NewLinter(cfg, testutils.NewRegistry(t, standard.NewMaxLineLengthRule))
}

func TestMaxLineLengthRule_IgnoreComments(t *testing.T) {
	t.Parallel()

	l, err := newMaxLineLengthLinter(t, map[string]any{"ignore_comments": true})
	require.NoError(t, err)

	src := "// a comment that is far too long\nval tooLong = \"abcdefghijklmnop\"\n"
	res := lintWith(t, l, src, map[string]string{"max_line_length": "20"})
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"2:1 max-line-length Exceeded max line length (20)"}, testutils.Brief(res.Violations))
	assert.False(t, res.Violations[0].Autocorrectable)
}

func TestMaxLineLengthRule_InvalidOptions(t *testing.T) {
	t.Parallel()

	for _, options := range []map[string]any{
		{"ignore_comments": "yes"},
		{"ignore_blank_lines": true},
	} {
		_, err := newMaxLineLengthLinter(t, options)
		assert.Error(t, err, "options %v", options)
	}
}

func TestMaxLineLengthRule_NotAutocorrected(t *testing.T) {
	t.Parallel()

	src := "val tooLong = \"abcdefghijklmnop\"\n"
	res := format(t, src, map[string]string{"max_line_length": "20"}, standard.NewMaxLineLengthRule)
	assert.Equal(t, src, res.Text)
	assert.False(t, res.Changed)
	require.Len(t, res.Remaining(), 1)
	assert.False(t, res.Remaining()[0].Corrected)
}
