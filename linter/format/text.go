package format

import (
	"fmt"
	"strings"

	"github.com/cstlint/cstlint/validation"
	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	hintColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
	pathColor    = color.New(color.Underline)
	problemColor = color.New(color.FgRed, color.Bold)
)

// TextFormatter renders one aligned line per violation, grouped by file.
type TextFormatter struct {
	// Color enables ANSI colors. fatih/color still turns them off for non-terminals.
	Color bool
}

func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

func (f *TextFormatter) paint(c *color.Color, s string) string {
	if !f.Color {
		return s
	}
	return c.Sprint(s)
}

func (f *TextFormatter) Format(report *Report) (string, error) {
	var sb strings.Builder

	for _, file := range report.Files {
		if len(file.Violations) == 0 && len(file.Problems) == 0 && len(file.Warnings) == 0 {
			continue
		}
		sb.WriteString(f.paint(pathColor, file.Path))
		sb.WriteString("\n")

		locWidth, sevWidth, ruleWidth := 0, 0, 0
		for _, v := range file.Violations {
			locWidth = max(locWidth, len(location(v)))
			sevWidth = max(sevWidth, len(v.Severity.String()))
			ruleWidth = max(ruleWidth, len(v.Rule))
		}

		for _, v := range file.Violations {
			loc := fmt.Sprintf("%*s", locWidth, location(v))
			sev := fmt.Sprintf("%-*s", sevWidth, v.Severity.String())
			rule := fmt.Sprintf("%-*s", ruleWidth, v.Rule)

			marker := ""
			switch {
			case v.Corrected:
				marker = " " + f.paint(dimColor, "(corrected)")
			case v.Autocorrectable:
				marker = " [fixable]"
			}
			fmt.Fprintf(&sb, "  %s %s %s %s%s\n", f.paint(dimColor, loc), f.paint(severityColor(v.Severity), sev), rule, v.Message, marker)
		}
		for _, p := range file.Problems {
			fmt.Fprintf(&sb, "  %s %v\n", f.paint(problemColor, "failed"), p)
		}
		for _, w := range file.Warnings {
			fmt.Fprintf(&sb, "  %s %v\n", f.paint(warningColor, "note"), w)
		}
	}

	t := report.totals()
	if t.total > 0 || t.corrected > 0 || t.problems > 0 {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "✖ %d problems (%d errors, %d warnings, %d hints)", t.total, t.errors, t.warnings, t.hints)
		if t.corrected > 0 {
			fmt.Fprintf(&sb, ", %d corrected", t.corrected)
		}
		if t.problems > 0 {
			fmt.Fprintf(&sb, ", %d failures", t.problems)
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func location(v validation.Violation) string {
	return fmt.Sprintf("%d:%d", v.Line, v.Column)
}

func severityColor(s validation.Severity) *color.Color {
	switch s {
	case validation.SeverityError:
		return errorColor
	case validation.SeverityWarning:
		return warningColor
	default:
		return hintColor
	}
}
