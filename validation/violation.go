// Package validation holds the records the engine reports: violations and their severity.
package validation

import "fmt"

// Violation is a single reported instance of a rule's condition at a source location.
// Line and Column are 1-based; Column counts runes.
type Violation struct {
	// File is the path of the document the violation belongs to.
	File string `json:"file,omitempty" msgpack:"file,omitempty"`
	// Rule is the identifier of the rule that emitted the violation.
	Rule string `json:"rule" msgpack:"rule"`
	// Offset is the byte offset in the text the emitting rule observed.
	Offset int `json:"offset" msgpack:"offset"`
	Line   int `json:"line" msgpack:"line"`
	Column int `json:"column" msgpack:"column"`

	Message  string   `json:"message" msgpack:"message"`
	Severity Severity `json:"severity" msgpack:"severity"`

	// Autocorrectable reports whether the rule supplied a fix.
	Autocorrectable bool `json:"autocorrectable" msgpack:"autocorrectable"`
	// Corrected reports whether the engine applied that fix.
	Corrected bool `json:"corrected" msgpack:"corrected"`

	// seq is the discovery order, the last tie-break when sorting.
	seq int
}

// WithSeq returns a copy of v stamped with its discovery order.
func (v Violation) WithSeq(seq int) Violation {
	v.seq = seq
	return v
}

// Seq returns the discovery order of the violation.
func (v Violation) Seq() int {
	return v.seq
}

func (v Violation) String() string {
	suffix := ""
	switch {
	case v.Corrected:
		suffix = " (corrected)"
	case !v.Autocorrectable:
		suffix = " (cannot be auto-corrected)"
	}
	return fmt.Sprintf("%d:%d %s %s%s", v.Line, v.Column, v.Rule, v.Message, suffix)
}
