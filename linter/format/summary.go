package format

import (
	"sort"
	"strings"

	"github.com/cstlint/cstlint/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SummaryFormatter formats results as a per-rule summary table.
type SummaryFormatter struct {
	printer *message.Printer
}

// NewSummaryFormatter creates a new SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{printer: message.NewPrinter(language.English)}
}

type ruleSummary struct {
	rule      string
	category  string
	severity  validation.Severity
	count     int
	corrected int
}

// Format outputs a per-rule summary table sorted by count descending.
func (f *SummaryFormatter) Format(report *Report) (string, error) {
	byRule := make(map[string]*ruleSummary)

	for _, file := range report.Files {
		for _, v := range file.Violations {
			rs, ok := byRule[v.Rule]
			if !ok {
				rs = &ruleSummary{
					rule:     v.Rule,
					category: report.category(v.Rule),
					severity: v.Severity,
				}
				byRule[v.Rule] = rs
			}
			if v.Corrected {
				rs.corrected++
			} else {
				rs.count++
			}
		}
	}

	// Sort by count descending, then by rule name
	sorted := make([]*ruleSummary, 0, len(byRule))
	for _, rs := range byRule {
		sorted = append(sorted, rs)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].rule < sorted[j].rule
	})

	p := f.printer
	var sb strings.Builder

	// Header
	sb.WriteString(p.Sprintf("%-40s %8s %10s %8s %10s\n", "Rule", "Severity", "Category", "Count", "Corrected"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, rs := range sorted {
		sb.WriteString(p.Sprintf("%-40s %8s %10s %8d %10d\n", rs.rule, rs.severity, rs.category, rs.count, rs.corrected))
	}

	t := report.totals()
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")
	sb.WriteString(p.Sprintf("✖ %d problems (%d errors, %d warnings, %d hints) across %d rules in %d files\n",
		t.total, t.errors, t.warnings, t.hints, len(byRule), len(report.Files)))
	if t.problems > 0 {
		sb.WriteString(p.Sprintf("%d files or rules failed\n", t.problems))
	}

	return sb.String(), nil
}
