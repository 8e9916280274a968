package standard_test

import (
	"testing"

	"github.com/cstlint/cstlint/internal/testutils"
	"github.com/cstlint/cstlint/linter"
	"github.com/stretchr/testify/require"
)

// check lints src with a single rule and returns the violations in brief form.
func check(t *testing.T, provider linter.RuleProvider, src string, props map[string]string) []string {
	t.Helper()
	res := testutils.Lint(t, testutils.NewLinter(t, false, provider), "Test.kt", src, props)
	require.NoError(t, res.Err)
	require.Empty(t, res.RuleErrors)
	require.Equal(t, src, res.Text, "lint without autocorrect must not change the text")
	return testutils.Brief(res.Violations)
}

// format autocorrects src with the given rules and returns the result.
func format(t *testing.T, src string, props map[string]string, providers ...linter.RuleProvider) *linter.FileResult {
	t.Helper()
	res := testutils.Lint(t, testutils.NewLinter(t, true, providers...), "Test.kt", src, props)
	require.NoError(t, res.Err)
	require.Empty(t, res.RuleErrors)
	return res
}

func newLinter(t *testing.T, providers ...linter.RuleProvider) *linter.Linter {
	t.Helper()
	return testutils.NewLinter(t, false, providers...)
}

func lintWith(t *testing.T, l *linter.Linter, src string, props map[string]string) *linter.FileResult {
	t.Helper()
	return testutils.Lint(t, l, "Test.kt", src, props)
}
