package standard

import (
	"strings"

	"github.com/cstlint/cstlint/cst"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/validation"
)

const RuleNoTrailingSpaces = "no-trailing-spaces"

// NoTrailingSpacesRule removes spaces and tabs at the end of lines.
type NoTrailingSpacesRule struct{}

var (
	_ linter.DocumentedRule = (*NoTrailingSpacesRule)(nil)
	_ linter.LateRule       = (*NoTrailingSpacesRule)(nil)
)

func NewNoTrailingSpacesRule() linter.Visitor {
	return &NoTrailingSpacesRule{}
}

func (r *NoTrailingSpacesRule) ID() string {
	return RuleNoTrailingSpaces
}

func (r *NoTrailingSpacesRule) Category() string {
	return CategorySpacing
}

func (r *NoTrailingSpacesRule) Description() string {
	return "Lines do not end with spaces or tabs, in code and in end-of-line comments alike."
}

func (r *NoTrailingSpacesRule) Summary() string {
	return "No trailing whitespace."
}

func (r *NoTrailingSpacesRule) Link() string {
	return linkBase + RuleNoTrailingSpaces
}

func (r *NoTrailingSpacesRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}

func (r *NoTrailingSpacesRule) Stateless() bool {
	return true
}

// RunAsLateAsPossible lets other fixes leave their whitespace first.
func (r *NoTrailingSpacesRule) RunAsLateAsPossible() bool {
	return true
}

func (r *NoTrailingSpacesRule) GoodExample() string {
	return "val x = 1\n"
}

func (r *NoTrailingSpacesRule) BadExample() string {
	return "val x = 1   \n"
}

func (r *NoTrailingSpacesRule) Rationale() string {
	return "Trailing whitespace is invisible noise in diffs."
}

func (r *NoTrailingSpacesRule) FixAvailable() bool {
	return true
}

func (r *NoTrailingSpacesRule) BeforeVisit(node cst.Node, emit linter.Emit) {
	switch {
	case node.IsWhitespace():
		r.visitWhitespace(node, emit)
	case node.Kind() == cst.KindComment:
		r.visitComment(node, emit)
	}
}

func (r *NoTrailingSpacesRule) visitWhitespace(node cst.Node, emit linter.Emit) {
	text := node.Text()
	lines := strings.Split(text, "\n")
	// The last segment is indentation unless the file ends here.
	checked := len(lines) - 1
	if node.NextLeaf().IsNil() {
		checked = len(lines)
	}

	offset := node.Offset()
	for i := 0; i < checked; i++ {
		segment := lines[i]
		if strings.TrimRight(segment, "\r") != "" {
			emit(offset, "Trailing space(s)", func() error {
				current := strings.Split(node.Text(), "\n")
				current[i] = strings.TrimLeft(current[i], " \t")
				return node.Tree().SetText(node, strings.Join(current, "\n"))
			})
		}
		offset += len(segment) + 1
	}
}

func (r *NoTrailingSpacesRule) visitComment(node cst.Node, emit linter.Emit) {
	text := node.Text()
	trimmed := strings.TrimRight(text, " \t")
	if trimmed == text {
		return
	}
	emit(node.Offset()+len(trimmed), "Trailing space(s)", func() error {
		return node.Tree().SetText(node, trimmed)
	})
}
