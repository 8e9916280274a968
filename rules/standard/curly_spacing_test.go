package standard_test

import (
	"testing"

	"github.com/cstlint/cstlint/rules/standard"
	"github.com/stretchr/testify/assert"
)

func TestCurlySpacingRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		expected []string
	}{
		{
			name: "brace on the declaration line",
			src:  "fun main() {\n    run()\n}\n",
		},
		{
			name:     "brace on the next line",
			src:      "fun main()\n{\n    run()\n}\n",
			expected: []string{`2:1 curly-spacing Unexpected newline before "{"`},
		},
		{
			name:     "no space before function body",
			src:      "fun main(){\n    run()\n}\n",
			expected: []string{`1:11 curly-spacing Missing spacing before "{"`},
		},
		{
			name:     "no space before class body",
			src:      "class A{\n}\n",
			expected: []string{`1:8 curly-spacing Missing spacing before "{"`},
		},
		{
			name:     "no space before lambda",
			src:      "val xs = listOf(1).map{ it }\n",
			expected: []string{`1:23 curly-spacing Missing spacing before "{"`},
		},
		{
			name: "standalone block",
			src:  "fun f() {\n    {\n    }\n}\n",
		},
		{
			name: "brace after a line comment",
			src:  "fun main() // entry point\n{\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := check(t, standard.NewCurlySpacingRule, tt.src, nil)
			if len(tt.expected) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCurlySpacingRule_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name:     "joins the brace onto the declaration line",
			src:      "fun main()\n{\n    run()\n}\n",
			expected: "fun main() {\n    run()\n}\n",
		},
		{
			name:     "inserts a space",
			src:      "fun main(){\n    run()\n}\n",
			expected: "fun main() {\n    run()\n}\n",
		},
		{
			name:     "lambda",
			src:      "val xs = listOf(1).map{ it }\n",
			expected: "val xs = listOf(1).map { it }\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := format(t, tt.src, nil, standard.NewCurlySpacingRule, standard.NewNoMultiSpacesRule)
			assert.Equal(t, tt.expected, res.Text)
			assert.True(t, res.Converged)
			assert.Empty(t, res.Remaining())
		})
	}
}
