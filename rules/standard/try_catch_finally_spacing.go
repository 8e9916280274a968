package standard

import (
	"strings"

	"github.com/cstlint/cstlint/config"
	"github.com/cstlint/cstlint/cst"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/validation"
)

const RuleTryCatchFinallySpacing = "try-catch-finally-spacing"

// TryCatchFinallySpacingRule checks the layout of try/catch/finally: the
// blocks open and close on their own lines, every clause is preceded by a
// single space, and no comment sits between the clauses.
type TryCatchFinallySpacingRule struct {
	indent config.IndentConfig
}

var (
	_ linter.DocumentedRule    = (*TryCatchFinallySpacingRule)(nil)
	_ linter.FileStarter       = (*TryCatchFinallySpacingRule)(nil)
	_ linter.OfficialStyleRule = (*TryCatchFinallySpacingRule)(nil)
	_ linter.PropertyUser      = (*TryCatchFinallySpacingRule)(nil)
)

func NewTryCatchFinallySpacingRule() linter.Visitor {
	return &TryCatchFinallySpacingRule{indent: config.DefaultIndentConfig}
}

func (r *TryCatchFinallySpacingRule) ID() string {
	return RuleTryCatchFinallySpacing
}

func (r *TryCatchFinallySpacingRule) Category() string {
	return CategoryWrapping
}

func (r *TryCatchFinallySpacingRule) Description() string {
	return "The blocks of a try/catch/finally statement start with a line break after `{` and end with a line break before `}`. " +
		"`catch` and `finally` follow the closing brace of the previous block after a single space, and comments between the clauses are not allowed."
}

func (r *TryCatchFinallySpacingRule) Summary() string {
	return "Consistent spacing and wrapping of try/catch/finally."
}

func (r *TryCatchFinallySpacingRule) Link() string {
	return linkBase + RuleTryCatchFinallySpacing
}

func (r *TryCatchFinallySpacingRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}

func (r *TryCatchFinallySpacingRule) Aliases() []string {
	return []string{"TryCatchFinallySpacing"}
}

func (r *TryCatchFinallySpacingRule) OfficialStyle() bool {
	return true
}

func (r *TryCatchFinallySpacingRule) Properties() []config.Descriptor {
	return []config.Descriptor{
		config.IndentSizeProperty.Describe(),
		config.IndentStyleProperty.Describe(),
	}
}

func (r *TryCatchFinallySpacingRule) GoodExample() string {
	return "try {\n    call()\n} catch (e: Exception) {\n    handle(e)\n} finally {\n    close()\n}\n"
}

func (r *TryCatchFinallySpacingRule) BadExample() string {
	return "try { call() }\ncatch (e: Exception) { handle(e) }  finally {\n    close()\n}\n"
}

func (r *TryCatchFinallySpacingRule) Rationale() string {
	return "Exception handling is easier to scan when every clause starts on the line that closes the previous one."
}

func (r *TryCatchFinallySpacingRule) FixAvailable() bool {
	return true
}

func (r *TryCatchFinallySpacingRule) FileStart(cfg *config.EffectiveConfig) error {
	indent, err := config.NewIndentConfig(cfg)
	if err != nil {
		return err
	}
	r.indent = indent
	return nil
}

func (r *TryCatchFinallySpacingRule) BeforeVisit(node cst.Node, emit linter.Emit) {
	if node.IsPartOfComment() && isTryClause(node.Parent()) {
		emit(node.Offset(), "No comment expected at this location", nil)
		return
	}
	switch node.Kind() {
	case cst.KindBlock:
		r.visitBlock(node, emit)
	case cst.KindCatch, cst.KindFinally:
		r.visitClause(node, emit)
	}
}

func isTryClause(n cst.Node) bool {
	return n.Is(cst.KindTry, cst.KindCatch, cst.KindFinally)
}

func notComment(n cst.Node) bool {
	return !n.IsPartOfComment()
}

func (r *TryCatchFinallySpacingRule) visitBlock(block cst.Node, emit linter.Emit) {
	if !isTryClause(block.Parent()) {
		return
	}
	t := block.Tree()

	if lbrace := block.FindChild(cst.KindLBrace); !lbrace.IsNil() {
		next := lbrace.NextSiblingFunc(notComment)
		if !next.IsNil() && !strings.HasPrefix(next.Text(), "\n") {
			emit(lbrace.End(), "Expected a newline after '{'", func() error {
				return t.UpsertWhitespaceAfter(lbrace, "\n"+r.indent.ChildIndentOf(block))
			})
		}
	}

	if rbrace := block.FindChild(cst.KindRBrace); !rbrace.IsNil() {
		prev := rbrace.PrevSiblingFunc(notComment)
		if !prev.IsNil() && !strings.HasPrefix(prev.Text(), "\n") {
			emit(rbrace.Offset(), "Expected a newline before '}'", func() error {
				return t.UpsertWhitespaceBefore(rbrace, "\n"+r.indent.SiblingIndentOf(block))
			})
		}
	}
}

func (r *TryCatchFinallySpacingRule) visitClause(clause cst.Node, emit linter.Emit) {
	prev := clause.PrevLeaf()
	if prev.IsNil() || prev.Text() == " " {
		return
	}
	msg := "A single space is required before '" + string(clause.Kind()) + "'"
	for l := prev; !l.IsNil() && l.IsTrivia(); l = l.PrevLeaf() {
		if l.IsComment() {
			// Joining the clause onto the comment's line would comment it out.
			emit(clause.Offset(), msg, nil)
			return
		}
	}
	emit(clause.Offset(), msg, func() error {
		return clause.Tree().UpsertWhitespaceBefore(clause, " ")
	})
}
