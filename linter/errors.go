package linter

import (
	"fmt"

	"github.com/cstlint/cstlint/errors"
)

// RuleError reports a rule that panicked or overran its traversal budget.
// The rule is skipped for the rest of the file.
type RuleError struct {
	Rule   string
	Offset int
	Err    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s%s%s at offset %d: %v", errors.ErrRuleFailure, errors.ErrSeparator, e.Rule, e.Offset, e.Err)
}

func (e *RuleError) Unwrap() []error {
	return []error{errors.ErrRuleFailure, e.Err}
}

// TreeError reports a fix or a reparse that left the tree inconsistent. The
// file's output reverts to its original text.
type TreeError struct {
	Rule   string
	Offset int
	Err    error
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("%s%srule %s at offset %d: %v", errors.ErrTreeInvariant, errors.ErrSeparator, e.Rule, e.Offset, e.Err)
}

func (e *TreeError) Unwrap() []error {
	return []error{errors.ErrTreeInvariant, e.Err}
}

// ConvergenceWarning reports autocorrection that stopped before a fixed point.
type ConvergenceWarning struct {
	Path   string
	Rounds int
	// Cycle is set when a round brought the text back to an earlier state.
	Cycle bool
}

func (w *ConvergenceWarning) Error() string {
	reason := fmt.Sprintf("still changing after %d rounds", w.Rounds)
	if w.Cycle {
		reason = fmt.Sprintf("round %d reproduced an earlier state", w.Rounds)
	}
	return fmt.Sprintf("%s%s%s: %s", errors.ErrNotConverged, errors.ErrSeparator, w.Path, reason)
}

func (w *ConvergenceWarning) Unwrap() error {
	return errors.ErrNotConverged
}
