package standard

import (
	"github.com/cstlint/cstlint/cst"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/validation"
)

const RuleRangeSpacing = "range-spacing"

// RangeSpacingRule forbids whitespace around the range operators ".." and "..<".
type RangeSpacingRule struct{}

var _ linter.DocumentedRule = (*RangeSpacingRule)(nil)

func NewRangeSpacingRule() linter.Visitor {
	return &RangeSpacingRule{}
}

func (r *RangeSpacingRule) ID() string {
	return RuleRangeSpacing
}

func (r *RangeSpacingRule) Category() string {
	return CategorySpacing
}

func (r *RangeSpacingRule) Description() string {
	return "Range operators bind their operands without whitespace on either side, as in `1..10` and `0..<size`."
}

func (r *RangeSpacingRule) Summary() string {
	return "No spacing around range operators."
}

func (r *RangeSpacingRule) Link() string {
	return linkBase + RuleRangeSpacing
}

func (r *RangeSpacingRule) DefaultSeverity() validation.Severity {
	return validation.SeverityError
}

func (r *RangeSpacingRule) Aliases() []string {
	return []string{"SpacingAroundRangeOperator"}
}

func (r *RangeSpacingRule) Stateless() bool {
	return true
}

func (r *RangeSpacingRule) GoodExample() string {
	return "val a = 1..10\nval b = 0..<size\n"
}

func (r *RangeSpacingRule) BadExample() string {
	return "val a = 1 .. 10\nval b = 0 ..< size\n"
}

func (r *RangeSpacingRule) Rationale() string {
	return "A range is a single value; spacing makes it read like two separate operands."
}

func (r *RangeSpacingRule) FixAvailable() bool {
	return true
}

func (r *RangeSpacingRule) BeforeVisit(node cst.Node, emit linter.Emit) {
	if !node.Is(cst.KindRangeOperator, cst.KindRangeUntilOperator) {
		return
	}
	t := node.Tree()
	prev := node.PrevLeaf()
	next := node.NextLeaf()
	op := node.Text()

	switch {
	case prev.IsWhitespace() && next.IsWhitespace():
		emit(node.Offset(), `Unexpected spacing around "`+op+`"`, func() error {
			if err := t.Remove(prev); err != nil {
				return err
			}
			return t.Remove(next)
		})
	case prev.IsWhitespace():
		emit(prev.Offset(), `Unexpected spacing before "`+op+`"`, func() error {
			return t.Remove(prev)
		})
	case next.IsWhitespace():
		emit(next.Offset(), `Unexpected spacing after "`+op+`"`, func() error {
			return t.Remove(next)
		})
	}
}
