package standard

import (
	"strings"

	"github.com/cstlint/cstlint/cst"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/validation"
)

const RuleCurlySpacing = "curly-spacing"

// CurlySpacingRule keeps an opening brace on the line of the construct it
// belongs to. The fix turns the line break into a space and leaves collapsing
// the remaining indentation to no-multi-spaces, which therefore runs after it.
type CurlySpacingRule struct{}

var (
	_ linter.DocumentedRule = (*CurlySpacingRule)(nil)
	_ linter.OrderedRule    = (*CurlySpacingRule)(nil)
)

func NewCurlySpacingRule() linter.Visitor {
	return &CurlySpacingRule{}
}

func (r *CurlySpacingRule) ID() string {
	return RuleCurlySpacing
}

func (r *CurlySpacingRule) Category() string {
	return CategoryWrapping
}

func (r *CurlySpacingRule) Description() string {
	return "An opening curly brace starts on the same line as the declaration, clause or call it belongs to, separated by a space."
}

func (r *CurlySpacingRule) Summary() string {
	return "Opening braces stay on the line of their owner."
}

func (r *CurlySpacingRule) Link() string {
	return linkBase + RuleCurlySpacing
}

func (r *CurlySpacingRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}

func (r *CurlySpacingRule) Stateless() bool {
	return true
}

func (r *CurlySpacingRule) RunAfter() []linter.Dependency {
	return nil
}

func (r *CurlySpacingRule) RunBefore() []linter.Dependency {
	return []linter.Dependency{linter.After(RuleNoMultiSpaces)}
}

func (r *CurlySpacingRule) GoodExample() string {
	return "fun main() {\n    run()\n}\n"
}

func (r *CurlySpacingRule) BadExample() string {
	return "fun main()\n{\n    run()\n}\n"
}

func (r *CurlySpacingRule) Rationale() string {
	return "Braces on their own line waste vertical space and are not the Kotlin convention."
}

func (r *CurlySpacingRule) FixAvailable() bool {
	return true
}

func (r *CurlySpacingRule) BeforeVisit(node cst.Node, emit linter.Emit) {
	if node.Kind() != cst.KindLBrace || !hasOwner(node) {
		return
	}
	t := node.Tree()
	prev := node.PrevLeaf()

	switch {
	case prev.IsWhitespaceWithNewline():
		if !prev.PrevLeaf().IsPartOfComment() {
			emit(node.Offset(), `Unexpected newline before "{"`, func() error {
				return t.SetText(prev, strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(prev.Text()))
			})
		}
	case !prev.IsWhitespace() && !prev.Is(cst.KindLParen, cst.KindLBrace, cst.KindAt):
		emit(node.Offset(), `Missing spacing before "{"`, func() error {
			return t.UpsertWhitespaceBefore(node, " ")
		})
	}
}

// hasOwner reports whether the block opened by lbrace continues a declaration,
// clause or expression rather than standing alone.
func hasOwner(lbrace cst.Node) bool {
	block := lbrace.Parent()
	if block.Kind() != cst.KindBlock || block.FirstChild() != lbrace {
		return false
	}
	owner := block.Parent()
	switch owner.Kind() {
	case cst.KindFunction, cst.KindClass, cst.KindTry, cst.KindCatch, cst.KindFinally:
		return true
	case cst.KindFile, cst.KindBlock:
		return false
	}
	prevCode := lbrace.PrevCodeLeaf()
	return !prevCode.IsNil() && prevCode.Offset() >= owner.Offset()
}
