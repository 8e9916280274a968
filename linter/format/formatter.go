// Package format renders lint reports.
package format

import (
	"github.com/cstlint/cstlint/validation"
)

// Formatter renders a report.
type Formatter interface {
	Format(report *Report) (string, error)
}

// Report is what a lint run hands to a formatter.
type Report struct {
	Files []FileReport
	// Categories maps rule identifiers to their category.
	Categories map[string]string
}

// FileReport holds the findings of one file.
type FileReport struct {
	Path       string
	Violations []validation.Violation
	// Problems are failures of the file or of single rules.
	Problems []error
	// Warnings are non-fatal notes such as autocorrection that did not converge.
	Warnings []error
}

type totals struct {
	total, errors, warnings, hints, corrected, problems int
}

func (r *Report) totals() totals {
	var t totals
	for _, f := range r.Files {
		for _, v := range f.Violations {
			if v.Corrected {
				t.corrected++
				continue
			}
			t.total++
			switch v.Severity {
			case validation.SeverityError:
				t.errors++
			case validation.SeverityWarning:
				t.warnings++
			case validation.SeverityHint:
				t.hints++
			}
		}
		t.problems += len(f.Problems)
	}
	return t
}

func (r *Report) category(rule string) string {
	if c, ok := r.Categories[rule]; ok && c != "" {
		return c
	}
	return "unknown"
}

// ForFormat returns the formatter registered under name, text when name is empty.
func ForFormat(name string, color bool) (Formatter, bool) {
	switch name {
	case "", "text":
		return &TextFormatter{Color: color}, true
	case "json":
		return NewJSONFormatter(), true
	case "summary":
		return NewSummaryFormatter(), true
	case "checkstyle":
		return NewCheckstyleFormatter(), true
	default:
		return nil, false
	}
}
