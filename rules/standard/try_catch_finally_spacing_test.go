package standard_test

import (
	"testing"

	"github.com/cstlint/cstlint/rules/standard"
	"github.com/stretchr/testify/assert"
)

func TestTryCatchFinallySpacingRule(t *testing.T) {
	t.Parallel()

	src := `fun foo() {
    try { bar() }
    catch (e: Exception) { baz() }  finally {
        qux()
    }
}
`
	got := check(t, standard.NewTryCatchFinallySpacingRule, src, nil)
	assert.Equal(t, []string{
		"2:10 try-catch-finally-spacing Expected a newline after '{'",
		"2:17 try-catch-finally-spacing Expected a newline before '}'",
		"3:5 try-catch-finally-spacing A single space is required before 'catch'",
		"3:27 try-catch-finally-spacing Expected a newline after '{'",
		"3:34 try-catch-finally-spacing Expected a newline before '}'",
		"3:37 try-catch-finally-spacing A single space is required before 'finally'",
	}, got)

	res := format(t, src, nil, standard.NewTryCatchFinallySpacingRule)
	assert.Equal(t, `fun foo() {
    try {
        bar()
    } catch (e: Exception) {
        baz()
    } finally {
        qux()
    }
}
`, res.Text)
	assert.Empty(t, res.Remaining())
}

func TestTryCatchFinallySpacingRule_CommentBetweenClauses(t *testing.T) {
	t.Parallel()

	src := `fun foo() {
    try {
        bar()
    } // no comment here
    catch (e: Exception) {
        baz()
    }
}
`
	got := check(t, standard.NewTryCatchFinallySpacingRule, src, nil)
	assert.Equal(t, []string{
		"4:7 try-catch-finally-spacing No comment expected at this location",
		"5:5 try-catch-finally-spacing A single space is required before 'catch'",
	}, got)

	res := format(t, src, nil, standard.NewTryCatchFinallySpacingRule)
	assert.Equal(t, src, res.Text, "clauses after a comment are not joined")
	assert.Len(t, res.Remaining(), 2)
}

func TestTryCatchFinallySpacingRule_IndentProperties(t *testing.T) {
	t.Parallel()

	src := "fun foo() {\n\ttry { bar() } finally { baz() }\n}\n"
	res := format(t, src, map[string]string{"indent_style": "tab"}, standard.NewTryCatchFinallySpacingRule)
	assert.Equal(t, "fun foo() {\n\ttry {\n\t\tbar()\n\t} finally {\n\t\tbaz()\n\t}\n}\n", res.Text)
}

func TestTryCatchFinallySpacingRule_OfficialStyleOnly(t *testing.T) {
	t.Parallel()

	src := "fun foo() {\n    try { bar() } finally { baz() }\n}\n"

	got := check(t, standard.NewTryCatchFinallySpacingRule, src, map[string]string{"code_style": "intellij_idea"})
	assert.Empty(t, got, "official style rules are off for other code styles")

	got = check(t, standard.NewTryCatchFinallySpacingRule, src, map[string]string{
		"code_style":                     "intellij_idea",
		"rule.try-catch-finally-spacing": "enabled",
	})
	assert.Len(t, got, 4, "explicitly enabled rules run for every code style")
}

func TestTryCatchFinallySpacingRule_InvalidIndentSize(t *testing.T) {
	t.Parallel()

	l := newLinter(t, standard.NewTryCatchFinallySpacingRule)
	res := lintWith(t, l, "fun foo() {}\n", map[string]string{"indent_size": "wide"})
	assert.Error(t, res.Err)
	assert.Empty(t, res.Violations)
}
