package treesitter_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cstlint/cstlint/cst"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/linter/fix"
	"github.com/cstlint/cstlint/parser/treesitter"
	"github.com/cstlint/cstlint/rules/standard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func find(t *testing.T, tree *cst.Tree, kind cst.Kind) cst.Node {
	t.Helper()
	for n := range tree.Root().Preorder() {
		if n.Kind() == kind {
			return n
		}
	}
	require.Failf(t, "node not found", "no %s node in %q", kind, tree.Text())
	return cst.Node{}
}

func TestParse_PreservesText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "empty", src: ""},
		{name: "property", src: "val x = 1\n"},
		{name: "leading comment", src: "// header\n\npackage demo\n\nimport kotlin.math.max\n"},
		{name: "function", src: "fun main(args: Array<String>) {\n    println(\"hi ${args.size}\")\n}\n"},
		{name: "try", src: "fun f() {\n    try {\n        work()\n    } catch (e: Exception) {\n        log(e)\n    } finally {\n        done()\n    }\n}\n"},
		{name: "class", src: "/** Docs. */\n@Suppress(\"cstlint\")\nclass A(val x: Int) {\n    fun g() = x * 2\n}\n"},
		{name: "crlf", src: "val a = 1\r\nval b = 0..a\r\n"},
		{name: "syntax error", src: "fun (\n}} val = \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := treesitter.Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.src, tree.Text())
			require.NoError(t, tree.Validate())
		})
	}
}

func TestParse_Kinds(t *testing.T) {
	t.Parallel()

	src := "fun f() {\n    try {\n        work(0 .. 3)\n    } catch (e: Exception) {\n    } finally {\n    }\n}\n"
	tree, err := treesitter.Parse(src)
	require.NoError(t, err)

	fn := find(t, tree, cst.KindFunction)
	assert.Equal(t, src[:len(src)-1], fn.Text())
	body := fn.FindChild(cst.KindBlock)
	require.False(t, body.IsNil(), "function body is a block")
	assert.Equal(t, cst.KindLBrace, body.FirstChild().Kind())
	assert.Equal(t, cst.KindRBrace, body.LastChild().Kind())

	for _, kind := range []cst.Kind{cst.KindTry, cst.KindCatch, cst.KindFinally} {
		n := find(t, tree, kind)
		block := n.FindChild(cst.KindBlock)
		require.False(t, block.IsNil(), "%s owns a block", kind)
		assert.Equal(t, "{", block.FirstChild().Text())
	}

	catch := find(t, tree, cst.KindCatch)
	params := catch.FindChild(cst.KindParameterList)
	require.False(t, params.IsNil())
	assert.Equal(t, "(e: Exception)", params.Text())

	op := find(t, tree, cst.KindRangeOperator)
	assert.Equal(t, "..", op.Text())
	assert.Equal(t, cst.KindRangeExpression, op.Parent().Kind())
	assert.True(t, op.PrevLeaf().IsWhitespace())
}

func TestParse_Trivia(t *testing.T) {
	t.Parallel()

	tree, err := treesitter.Parse("/** Docs. */\n/* note */\n// line\nval x = 1\n")
	require.NoError(t, err)

	assert.Equal(t, "/** Docs. */", find(t, tree, cst.KindKDoc).Text())
	assert.Equal(t, "/* note */", find(t, tree, cst.KindBlockComment).Text())
	assert.Equal(t, "// line", find(t, tree, cst.KindComment).Text())

	for leaf := range tree.Root().Leaves() {
		if leaf.IsWhitespace() {
			assert.NotEmpty(t, leaf.Text())
		}
	}
}

func TestParse_FileAnnotation(t *testing.T) {
	t.Parallel()

	tree, err := treesitter.Parse("@file:Suppress(\"cstlint:range-spacing\")\n\npackage demo\n")
	require.NoError(t, err)

	ann := find(t, tree, cst.KindAnnotation)
	assert.Equal(t, `@file:Suppress("cstlint:range-spacing")`, ann.Text())
}

func TestParse_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := treesitter.ParseContext(ctx, "val x = 1\n")
	require.Error(t, err)
}

func TestParse_StandardRules(t *testing.T) {
	t.Parallel()

	reg, err := standard.NewRegistry()
	require.NoError(t, err)
	l, err := linter.NewLinter(linter.NewConfig(), reg, linter.WithFixOptions(fix.Options{Mode: fix.ModeAuto}))
	require.NoError(t, err)

	src := "fun main() {\n    for (i in 0 .. 3) {\n        println(i)\n    }\n}\n"
	tree, err := treesitter.Parse(src)
	require.NoError(t, err)

	res := l.Lint(context.Background(), linter.NewDocumentInfo("Main.kt", tree, nil).WithReparse(treesitter.Parse))
	require.NoError(t, res.Err)
	require.Empty(t, res.RuleErrors)
	assert.Equal(t, "fun main() {\n    for (i in 0..3) {\n        println(i)\n    }\n}\n", res.Text)
	assert.True(t, res.Converged)
	assert.Equal(t, src, tree.Text(), "the input tree is left untouched")
}

func TestParse_DetachedAnnotation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		src        string
		annotation string
	}{
		{
			name:       "followed by another declaration",
			src:        "@Suppress(\"cstlint:range-spacing\")\nfun f() = 1 .. 2\nval x = 1 .. 2\n",
			annotation: `@Suppress("cstlint:range-spacing")`,
		},
		{
			name:       "after a declaration",
			src:        "val a = 1\n\n@Suppress(\"cstlint\")\nfun f() = 1\n",
			annotation: `@Suppress("cstlint")`,
		},
		{
			name:       "block body",
			src:        "@Suppress(\"cstlint\")\nfun f() {\n    val r = 0 .. 1\n}\nfun g() = 0 .. 1\n",
			annotation: `@Suppress("cstlint")`,
		},
		{
			name:       "with modifiers",
			src:        "@Suppress(\"cstlint\")\nprivate fun f() = 1\nval y = 2\n",
			annotation: `@Suppress("cstlint")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := treesitter.Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.src, tree.Text())
			require.NoError(t, tree.Validate())

			fn := find(t, tree, cst.KindFunction)
			assert.True(t, strings.HasPrefix(fn.Text(), tt.annotation), "function starts with its annotation: %q", fn.Text())
			mods := fn.FirstChild()
			require.Equal(t, cst.KindModifierList, mods.Kind())
			ann := mods.FindChild(cst.KindAnnotation)
			require.False(t, ann.IsNil())
			assert.Equal(t, tt.annotation, ann.Text())
		})
	}
}

func standardLinter(t *testing.T, opts ...linter.Option) *linter.Linter {
	t.Helper()
	reg, err := standard.NewRegistry()
	require.NoError(t, err)
	l, err := linter.NewLinter(linter.NewConfig(), reg, opts...)
	require.NoError(t, err)
	return l
}

func TestParse_SuppressAnnotationScopesToDeclaration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		line int
	}{
		{
			name: "expression body",
			src:  "@Suppress(\"cstlint:range-spacing\")\nfun f() = 1 .. 2\nval x = 1 .. 2\n",
			line: 3,
		},
		{
			name: "block body",
			src:  "@Suppress(\"cstlint\")\nfun f() {\n    val r = 0 .. 1\n}\nfun g() = 0 .. 1\n",
			line: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree, err := treesitter.Parse(tt.src)
			require.NoError(t, err)

			res := standardLinter(t).Lint(context.Background(), linter.NewDocumentInfo("Main.kt", tree, nil))
			require.NoError(t, res.Err)
			require.Len(t, res.Violations, 1)
			assert.Equal(t, standard.RuleRangeSpacing, res.Violations[0].Rule)
			assert.Equal(t, tt.line, res.Violations[0].Line)
		})
	}
}

func TestParse_RangeUntil(t *testing.T) {
	t.Parallel()

	src := "fun f(n: Int) {\n    for (i in 0 ..< n) {\n        println(i)\n    }\n}\n"
	tree, err := treesitter.Parse(src)
	require.NoError(t, err)
	assert.Equal(t, src, tree.Text())

	op := find(t, tree, cst.KindRangeUntilOperator)
	assert.Equal(t, "..<", op.Text())
	assert.True(t, op.PrevLeaf().IsWhitespace())
	assert.True(t, op.NextLeaf().IsWhitespace())

	l := standardLinter(t, linter.WithFixOptions(fix.Options{Mode: fix.ModeAuto}))
	res := l.Lint(context.Background(), linter.NewDocumentInfo("Main.kt", tree, nil).WithReparse(treesitter.Parse))
	require.NoError(t, res.Err)
	assert.Equal(t, "fun f(n: Int) {\n    for (i in 0..<n) {\n        println(i)\n    }\n}\n", res.Text)
	require.NotEmpty(t, res.Violations)
	assert.Equal(t, standard.RuleRangeSpacing, res.Violations[0].Rule)
	assert.Equal(t, 2, res.Violations[0].Line)
}
