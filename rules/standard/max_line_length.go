package standard

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cstlint/cstlint/config"
	"github.com/cstlint/cstlint/cst"
	"github.com/cstlint/cstlint/linter"
	"github.com/cstlint/cstlint/validation"
)

const RuleMaxLineLength = "max-line-length"

// MaxLineLengthRule reports lines longer than max_line_length. It has no fix:
// breaking a line is left to the author.
type MaxLineLengthRule struct {
	max            int
	ignoreComments bool
}

var (
	_ linter.DocumentedRule   = (*MaxLineLengthRule)(nil)
	_ linter.ConfigurableRule = (*MaxLineLengthRule)(nil)
	_ linter.FileStarter      = (*MaxLineLengthRule)(nil)
	_ linter.PropertyUser     = (*MaxLineLengthRule)(nil)
	_ linter.LateRule         = (*MaxLineLengthRule)(nil)
)

func NewMaxLineLengthRule() linter.Visitor {
	return &MaxLineLengthRule{max: config.MaxLineLengthOff}
}

func (r *MaxLineLengthRule) ID() string {
	return RuleMaxLineLength
}

func (r *MaxLineLengthRule) Category() string {
	return CategoryStyle
}

func (r *MaxLineLengthRule) Description() string {
	return "Lines are at most max_line_length characters long. Package and import lines are exempt, and comment-only lines can be exempted with the ignore_comments option."
}

func (r *MaxLineLengthRule) Summary() string {
	return "Lines do not exceed the maximum length."
}

func (r *MaxLineLengthRule) Link() string {
	return linkBase + RuleMaxLineLength
}

func (r *MaxLineLengthRule) DefaultSeverity() validation.Severity {
	return validation.SeverityWarning
}

func (r *MaxLineLengthRule) Properties() []config.Descriptor {
	return []config.Descriptor{
		config.MaxLineLengthProperty.Describe(),
		config.CodeStyleProperty.Describe(),
	}
}

// RunAsLateAsPossible measures lines after every fix that can shorten them.
func (r *MaxLineLengthRule) RunAsLateAsPossible() bool {
	return true
}

func (r *MaxLineLengthRule) RunAfter() []linter.Dependency {
	return []linter.Dependency{linter.After(RuleNoTrailingSpaces)}
}

func (r *MaxLineLengthRule) RunBefore() []linter.Dependency {
	return nil
}

func (r *MaxLineLengthRule) ConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"ignore_comments": map[string]any{
				"type":        "boolean",
				"description": "Skip lines that hold nothing but a comment",
			},
		},
		"additionalProperties": false,
	}
}

func (r *MaxLineLengthRule) ConfigDefaults() map[string]any {
	return map[string]any{"ignore_comments": false}
}

func (r *MaxLineLengthRule) Configure(options map[string]any) error {
	if v, ok := options["ignore_comments"]; ok {
		b, isBool := v.(bool)
		if !isBool {
			return fmt.Errorf("ignore_comments must be a boolean, got %T", v)
		}
		r.ignoreComments = b
	}
	return nil
}

func (r *MaxLineLengthRule) GoodExample() string {
	return "val greeting = \"hello\"\n"
}

func (r *MaxLineLengthRule) BadExample() string {
	return "val greeting = \"" + strings.Repeat("hello ", 25) + "\"\n"
}

func (r *MaxLineLengthRule) Rationale() string {
	return "Long lines force horizontal scrolling in editors and side-by-side diffs."
}

func (r *MaxLineLengthRule) FixAvailable() bool {
	return false
}

func (r *MaxLineLengthRule) FileStart(cfg *config.EffectiveConfig) error {
	n, err := config.Get(cfg, config.MaxLineLengthProperty)
	if err != nil {
		return err
	}
	r.max = n
	return nil
}

func (r *MaxLineLengthRule) BeforeVisit(node cst.Node, emit linter.Emit) {
	if r.max <= 0 || node != node.Tree().Root() {
		return
	}
	lines := node.Tree().Lines()
	for i := 1; i <= lines.LineCount(); i++ {
		line := lines.Line(i)
		if utf8.RuneCountInString(line) <= r.max || r.exempt(line) {
			continue
		}
		emit(lines.LineStart(i), fmt.Sprintf("Exceeded max line length (%d)", r.max), nil)
	}
}

func (r *MaxLineLengthRule) exempt(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "package ") || strings.HasPrefix(trimmed, "import ") {
		return true
	}
	return r.ignoreComments && (strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*"))
}
