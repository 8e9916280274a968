package suppress_test

import (
	"strings"
	"testing"

	"github.com/cstlint/cstlint/config"
	"github.com/cstlint/cstlint/internal/testutils"
	"github.com/cstlint/cstlint/linter/suppress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type aliases map[string]string

func (a aliases) Canonical(id string) string {
	if c, ok := a[id]; ok {
		return c
	}
	return id
}

func newFilter(t *testing.T, src string, props map[string]string) *suppress.Filter {
	t.Helper()
	tree := testutils.MustParse(t, src)
	tree.Reindex()
	return suppress.NewFilter(tree, config.New("Test.kt", props), aliases{"OldX": "rule-x"})
}

// at returns the offset of the first occurrence of marker in src.
func at(t *testing.T, src, marker string) int {
	t.Helper()
	i := strings.Index(src, marker)
	require.GreaterOrEqual(t, i, 0, "marker %q not found", marker)
	return i
}

type query struct {
	rule       string
	marker     string
	suppressed bool
}

func TestFilter_Suppressed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		props   map[string]string
		queries []query
	}{
		{
			name: "annotation on a declaration",
			src:  "val a = 1\n@Suppress(\"cstlint:rule-x\")\nfun f() {\n    val b = 2\n}\nval c = 3\n",
			queries: []query{
				{rule: "rule-x", marker: "a = 1"},
				{rule: "rule-x", marker: "fun f", suppressed: true},
				{rule: "rule-x", marker: "b = 2", suppressed: true},
				{rule: "rule-y", marker: "b = 2"},
				{rule: "rule-x", marker: "c = 3"},
			},
		},
		{
			name: "annotation for every rule",
			src:  "@Suppress(\"cstlint\")\nval b = 2\nval c = 3\n",
			queries: []query{
				{rule: "rule-x", marker: "b = 2", suppressed: true},
				{rule: "rule-y", marker: "b = 2", suppressed: true},
				{rule: "rule-x", marker: "c = 3"},
			},
		},
		{
			name: "ruleset-qualified identifier",
			src:  "@SuppressWarnings(\"unused\", \"cstlint:standard:rule-x\")\nval b = 2\n",
			queries: []query{
				{rule: "rule-x", marker: "b = 2", suppressed: true},
				{rule: "rule-y", marker: "b = 2"},
			},
		},
		{
			name: "legacy alias in an annotation",
			src:  "@Suppress(\"cstlint:OldX\")\nval b = 2\n",
			queries: []query{
				{rule: "rule-x", marker: "b = 2", suppressed: true},
			},
		},
		{
			name: "annotations for other tools",
			src:  "@Suppress(\"unused\")\nval b = 2\n@Deprecated(\"cstlint\")\nval c = 3\n",
			queries: []query{
				{rule: "rule-x", marker: "b = 2"},
				{rule: "rule-x", marker: "c = 3"},
			},
		},
		{
			name: "file annotation",
			src:  "@file:Suppress(\"cstlint:rule-x\")\n\nprintln(1)\n",
			queries: []query{
				{rule: "rule-x", marker: "println", suppressed: true},
				{rule: "rule-x", marker: "1)", suppressed: true},
				{rule: "rule-y", marker: "println"},
			},
		},
		{
			name: "disable and enable one rule",
			src:  "val a = 1\n// cstlint-disable rule-x\nval b = 2\n// cstlint-enable rule-x\nval c = 3\n",
			queries: []query{
				{rule: "rule-x", marker: "a = 1"},
				{rule: "rule-x", marker: "b = 2", suppressed: true},
				{rule: "rule-y", marker: "b = 2"},
				{rule: "rule-x", marker: "c = 3"},
			},
		},
		{
			name: "disable without enable runs to the end of the file",
			src:  "val a = 1\n/* cstlint-disable */\nval b = 2\n",
			queries: []query{
				{rule: "rule-x", marker: "a = 1"},
				{rule: "rule-x", marker: "b = 2", suppressed: true},
				{rule: "rule-y", marker: "b = 2", suppressed: true},
			},
		},
		{
			name: "enable without rules closes every open region",
			src:  "// cstlint-disable rule-x rule-y\nval b = 2\n// cstlint-enable\nval c = 3\n",
			queries: []query{
				{rule: "rule-x", marker: "b = 2", suppressed: true},
				{rule: "rule-y", marker: "b = 2", suppressed: true},
				{rule: "rule-x", marker: "c = 3"},
				{rule: "rule-y", marker: "c = 3"},
			},
		},
		{
			name: "enable for another rule keeps the region open",
			src:  "// cstlint-disable rule-x\nval b = 2\n// cstlint-enable rule-y\nval c = 3\n",
			queries: []query{
				{rule: "rule-x", marker: "c = 3", suppressed: true},
			},
		},
		{
			name: "disable-line",
			src:  "val a = 1 // cstlint-disable-line rule-x\nval b = 2\n",
			queries: []query{
				{rule: "rule-x", marker: "a = 1", suppressed: true},
				{rule: "rule-y", marker: "a = 1"},
				{rule: "rule-x", marker: "b = 2"},
			},
		},
		{
			name: "disable-line for every rule",
			src:  "val a = 1 // cstlint-disable-line\nval b = 2\n",
			queries: []query{
				{rule: "rule-x", marker: "a = 1", suppressed: true},
				{rule: "rule-y", marker: "a = 1", suppressed: true},
				{rule: "rule-y", marker: "b = 2"},
			},
		},
		{
			name: "legacy alias in a directive",
			src:  "// cstlint-disable OldX\nval b = 2\n",
			queries: []query{
				{rule: "rule-x", marker: "b = 2", suppressed: true},
			},
		},
		{
			name: "ordinary comments",
			src:  "// cstlint is great\nval b = 2\n",
			queries: []query{
				{rule: "rule-x", marker: "b = 2"},
			},
		},
		{
			name:  "rule disabled by configuration",
			src:   "val a = 1\n",
			props: map[string]string{"rule.rule-x": "disabled"},
			queries: []query{
				{rule: "rule-x", marker: "a = 1", suppressed: true},
				{rule: "rule-y", marker: "a = 1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFilter(t, tt.src, tt.props)
			for _, q := range tt.queries {
				assert.Equal(t, q.suppressed, f.Suppressed(q.rule, at(t, tt.src, q.marker)),
					"rule %s at %q", q.rule, q.marker)
			}
		})
	}
}

func TestFilter_Regions(t *testing.T) {
	t.Parallel()

	src := "@Suppress(\"cstlint:rule-x\")\nval a = 1\n// cstlint-disable rule-y\nval b = 2\n// cstlint-enable rule-y\n"
	f := newFilter(t, src, nil)

	regions := f.Regions()
	require.Len(t, regions, 2)

	assert.Equal(t, 0, regions[0].Start)
	assert.Equal(t, at(t, src, "\n// cstlint-disable"), regions[0].End)
	assert.Equal(t, []string{"rule-x"}, regions[0].Rules)
	assert.Equal(t, `@Suppress("cstlint:rule-x")`, regions[0].Source)

	assert.Equal(t, at(t, src, "// cstlint-disable"), regions[1].Start)
	assert.Equal(t, at(t, src, "// cstlint-enable"), regions[1].End)
	assert.Equal(t, []string{"rule-y"}, regions[1].Rules)
}

func TestFilter_NilTree(t *testing.T) {
	t.Parallel()

	f := suppress.NewFilter(nil, config.New("Test.kt", map[string]string{"rule.rule-x": "disabled"}), nil)
	assert.Empty(t, f.Regions())
	assert.True(t, f.Suppressed("rule-x", 0))
	assert.False(t, f.Suppressed("rule-y", 0))
}
