package validation

import (
	"slices"
	"strings"
)

// SortViolations sorts violations by offset, then by rule identifier, then by discovery order.
func SortViolations(violations []Violation) {
	if len(violations) < 2 {
		return
	}
	slices.SortStableFunc(violations, compareViolations)
}

// SortViolationsByPosition sorts violations by line and column, then by rule
// identifier, then by discovery order. Use it when the offsets were read from
// different versions of the text.
func SortViolationsByPosition(violations []Violation) {
	if len(violations) < 2 {
		return
	}
	slices.SortStableFunc(violations, func(a, b Violation) int {
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		if a.Column != b.Column {
			return a.Column - b.Column
		}
		if c := strings.Compare(a.Rule, b.Rule); c != 0 {
			return c
		}
		return a.seq - b.seq
	})
}

func compareViolations(a, b Violation) int {
	if a.Offset != b.Offset {
		return a.Offset - b.Offset
	}
	if c := strings.Compare(a.Rule, b.Rule); c != 0 {
		return c
	}
	return a.seq - b.seq
}

// Remaining returns the violations that were not corrected.
func Remaining(violations []Violation) []Violation {
	out := make([]Violation, 0, len(violations))
	for _, v := range violations {
		if !v.Corrected {
			out = append(out, v)
		}
	}
	return out
}

// CountBySeverity counts uncorrected violations per severity.
func CountBySeverity(violations []Violation) map[Severity]int {
	counts := make(map[Severity]int)
	for _, v := range violations {
		if v.Corrected {
			continue
		}
		counts[v.Severity]++
	}
	return counts
}
