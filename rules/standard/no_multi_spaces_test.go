package standard_test

import (
	"testing"

	"github.com/cstlint/cstlint/rules/standard"
	"github.com/stretchr/testify/assert"
)

func TestNoMultiSpacesRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		src       string
		expected  []string
		formatted string
	}{
		{
			name: "single spaces",
			src:  "val x = 1\n",
		},
		{
			name:      "double space",
			src:       "val x  = 1\n",
			expected:  []string{"1:7 no-multi-spaces Unnecessary long whitespace"},
			formatted: "val x = 1\n",
		},
		{
			name: "every gap",
			src:  "val  x  =  1\n",
			expected: []string{
				"1:5 no-multi-spaces Unnecessary long whitespace",
				"1:8 no-multi-spaces Unnecessary long whitespace",
				"1:11 no-multi-spaces Unnecessary long whitespace",
			},
			formatted: "val x = 1\n",
		},
		{
			name: "indentation",
			src:  "fun f() {\n    val x = 1\n}\n",
		},
		{
			name: "alignment before a trailing comment",
			src:  "val x = 1  // one\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := check(t, standard.NewNoMultiSpacesRule, tt.src, nil)
			if len(tt.expected) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)

			res := format(t, tt.src, nil, standard.NewNoMultiSpacesRule)
			assert.Equal(t, tt.formatted, res.Text)
			assert.Empty(t, res.Remaining())
		})
	}
}
