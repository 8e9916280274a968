package linter

import (
	"github.com/cstlint/cstlint/errors"
	"github.com/cstlint/cstlint/linter/fix"
	"github.com/cstlint/cstlint/linter/format"
	"github.com/cstlint/cstlint/validation"
)

// FileResult is the outcome of linting one document.
type FileResult struct {
	Path string
	// Violations are sorted by offset, rule identifier and discovery order.
	// Corrected violations of every round come first in discovery, unfixed
	// ones are those of the final round.
	Violations []validation.Violation
	// Text is the corrected text, or the input text when nothing changed or the file failed.
	Text    string
	Changed bool
	Rounds  int
	// Converged reports that the final round left the tree untouched.
	Converged  bool
	Warnings   []error
	RuleErrors []*RuleError
	Fixes      *fix.Result
	// Err fails the whole file: configuration, tree invariant or timeout.
	Err error
}

// Remaining returns the violations that were not corrected.
func (r *FileResult) Remaining() []validation.Violation {
	return validation.Remaining(r.Violations)
}

// Failed reports whether the file or one of its rules failed.
func (r *FileResult) Failed() bool {
	return r.Err != nil || len(r.RuleErrors) > 0
}

// Output represents the result of linting
type Output struct {
	Files  []*FileResult
	Format OutputFormat
	// Categories maps rule identifiers to their category for formatters.
	Categories map[string]string
}

// ExitCode is 0 when nothing remains, 1 when violations remain and 2 when a
// file or a rule failed.
func (o *Output) ExitCode() int {
	code := 0
	for _, f := range o.Files {
		if f.Failed() {
			return 2
		}
		if len(f.Remaining()) > 0 {
			code = 1
		}
	}
	return code
}

// HasErrors reports whether any remaining violation has error severity or a file failed.
func (o *Output) HasErrors() bool {
	return o.ErrorCount() > 0
}

// ErrorCount counts remaining error-severity violations and failures.
func (o *Output) ErrorCount() int {
	count := 0
	for _, f := range o.Files {
		if f.Err != nil {
			count++
		}
		count += len(f.RuleErrors)
		count += validation.CountBySeverity(f.Violations)[validation.SeverityError]
	}
	return count
}

// Violations returns the violations of every file in file order.
func (o *Output) Violations() []validation.Violation {
	var out []validation.Violation
	for _, f := range o.Files {
		out = append(out, f.Violations...)
	}
	return out
}

// Changed returns the results whose text was corrected.
func (o *Output) Changed() []*FileResult {
	var out []*FileResult
	for _, f := range o.Files {
		if f.Changed {
			out = append(out, f)
		}
	}
	return out
}

// Report converts the output into the formatter's input.
func (o *Output) Report() *format.Report {
	r := &format.Report{Categories: o.Categories}
	for _, f := range o.Files {
		fr := format.FileReport{Path: f.Path, Violations: f.Violations, Warnings: f.Warnings}
		if f.Err != nil {
			fr.Problems = append(fr.Problems, f.Err)
		}
		for _, re := range f.RuleErrors {
			fr.Problems = append(fr.Problems, re)
		}
		r.Files = append(r.Files, fr)
	}
	return r
}

// FormatAs renders the output with the named formatter.
func (o *Output) FormatAs(name OutputFormat, color bool) (string, error) {
	f, ok := format.ForFormat(string(name), color)
	if !ok {
		return "", errors.ErrConfiguration.Wrapf("unknown output format %q", name)
	}
	return f.Format(o.Report())
}

func (o *Output) FormatText() string {
	s, _ := format.NewTextFormatter().Format(o.Report())
	return s
}

func (o *Output) FormatJSON() string {
	s, _ := format.NewJSONFormatter().Format(o.Report())
	return s
}
