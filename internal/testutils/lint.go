package testutils

import (
	"context"
	"fmt"
	"testing"

	"github.com/cstlint/cstlint/config"
	"github.com/cstlint/cstlint/cst"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/linter/fix"
	"github.com/cstlint/cstlint/validation"
	"github.com/stretchr/testify/require"
)

// MustParse parses src with ParseKotlin and fails the test on error.
func MustParse(t testing.TB, src string) *cst.Tree {
	t.Helper()
	tree, err := ParseKotlin(src)
	require.NoError(t, err, "parse %q", src)
	require.Equal(t, src, tree.Text(), "parser must preserve the input text")
	return tree
}

// NewRegistry registers providers in order.
func NewRegistry(t testing.TB, providers ...linter.RuleProvider) *linter.Registry {
	t.Helper()
	reg := linter.NewRegistry()
	for _, p := range providers {
		require.NoError(t, reg.Register(p))
	}
	return reg
}

// NewLinter builds a linter over the providers with the default configuration.
func NewLinter(t testing.TB, autocorrect bool, providers ...linter.RuleProvider) *linter.Linter {
	t.Helper()
	opts := []linter.Option{}
	if autocorrect {
		opts = append(opts, linter.WithFixOptions(fix.Options{Mode: fix.ModeAuto}))
	}
	l, err := linter.NewLinter(linter.NewConfig(), NewRegistry(t, providers...), opts...)
	require.NoError(t, err)
	return l
}

// Lint parses src and lints it as path with the given properties. Trees are
// rebuilt with ParseKotlin after mutating passes.
func Lint(t testing.TB, l *linter.Linter, path, src string, props map[string]string) *linter.FileResult {
	t.Helper()
	doc := linter.NewDocumentInfo(path, MustParse(t, src), config.New(path, props)).WithReparse(ParseKotlin)
	return l.Lint(context.Background(), doc)
}

// Brief renders violations as "line:col rule message" for compact assertions.
func Brief(violations []validation.Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		s := fmt.Sprintf("%d:%d %s %s", v.Line, v.Column, v.Rule, v.Message)
		if v.Corrected {
			s += " (corrected)"
		}
		out = append(out, s)
	}
	return out
}
