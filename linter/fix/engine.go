// Package fix decides whether a violation's autocorrection runs and records
// what happened to every fix offered during a file.
package fix

import (
	"fmt"
	"strconv"

	"github.com/cstlint/cstlint/validation"
)

// Mode controls whether fixes are applied.
type Mode int

const (
	// ModeNone means no fixing (normal lint).
	ModeNone Mode = iota
	// ModeAuto applies every fix the policy allows.
	ModeAuto
	// ModeInteractive asks the Prompter before applying each fix.
	ModeInteractive
)

// Options configures fix engine behavior.
type Options struct {
	// Mode controls whether fixes are applied.
	Mode Mode
	// DryRun when true reports what would be fixed without applying changes.
	// Acts as a modifier on ModeAuto.
	DryRun bool
	// Prompter confirms fixes in ModeInteractive.
	Prompter Prompter
}

// Prompter asks the user whether a fix should be applied.
type Prompter interface {
	ConfirmFix(v validation.Violation) (bool, error)
}

// Decision is the engine's answer to an emitted violation.
type Decision int

const (
	// DecisionNotAllowed means the fix did not run: the violation was
	// suppressed, no autocorrection was requested, or it has no fix.
	DecisionNotAllowed Decision = iota
	// DecisionSuppressedByPolicy means autocorrection was requested but
	// dry-run or the rule's policy blocked it.
	DecisionSuppressedByPolicy
	// DecisionApplied means the fix ran and the violation is corrected.
	DecisionApplied
)

func (d Decision) String() string {
	switch d {
	case DecisionNotAllowed:
		return "not-allowed"
	case DecisionSuppressedByPolicy:
		return "suppressed-by-policy"
	case DecisionApplied:
		return "applied"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// SkipReason explains why a fix was skipped.
type SkipReason int

const (
	// SkipDryRun means the run only reports what would change.
	SkipDryRun SkipReason = iota
	// SkipRulePolicy means autocorrection is turned off for the rule.
	SkipRulePolicy
	// SkipUserDeclined means the fix was declined at the prompt.
	SkipUserDeclined
)

func (r SkipReason) String() string {
	switch r {
	case SkipDryRun:
		return "dry-run"
	case SkipRulePolicy:
		return "rule policy"
	case SkipUserDeclined:
		return "declined"
	default:
		return fmt.Sprintf("skip(%d)", int(r))
	}
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Violation validation.Violation
}

// SkippedFix records a fix that was skipped.
type SkippedFix struct {
	Violation validation.Violation
	Reason    SkipReason
}

// FailedFix records a fix that failed to apply.
type FailedFix struct {
	Violation validation.Violation
	FixError  error
}

// Result tracks what the engine did.
type Result struct {
	Applied []AppliedFix
	Skipped []SkippedFix
	Failed  []FailedFix
}

// Engine applies fixes for one file. It is not safe for concurrent use.
//
// A fix that was skipped stays skipped for the rest of the file: when a later
// round offers it again, the engine answers without prompting and without a
// second Skipped record.
type Engine struct {
	opts   Options
	policy *Policy
	result Result

	skipped map[string]bool
	// occurrences counts offers per key in the current round, so identical
	// lines keep distinct identities.
	occurrences map[string]int
}

// NewEngine creates a new fix engine. A nil policy allows every rule.
func NewEngine(opts Options, policy *Policy) *Engine {
	return &Engine{
		opts:   opts,
		policy: policy,
	}
}

// Requested reports whether the run asks for autocorrection at all.
func (e *Engine) Requested() bool {
	return e.opts.Mode != ModeNone
}

// StartRound begins a new pass over the file's rules.
func (e *Engine) StartRound() {
	clear(e.occurrences)
}

// Decide runs fix for v when the options and policy allow it.
//
// A nil fix means the violation is not autocorrectable. A fix that returns an
// error or panics is recorded as failed and its error is returned; the caller
// must treat the tree as corrupt.
func (e *Engine) Decide(v validation.Violation, fix func() error) (Decision, error) {
	return e.DecideAt(v, "", fix)
}

// DecideAt is Decide with an anchor identifying the violation across rounds,
// such as the code of its line. Rule, message and anchor together name the
// fix; an empty anchor falls back to the column and offset.
func (e *Engine) DecideAt(v validation.Violation, anchor string, fix func() error) (Decision, error) {
	if fix == nil || e.opts.Mode == ModeNone {
		return DecisionNotAllowed, nil
	}
	key := e.key(v, anchor)
	if e.skipped[key] {
		return DecisionSuppressedByPolicy, nil
	}
	if e.opts.DryRun {
		return e.skip(key, v, SkipDryRun), nil
	}
	if !e.policy.Allowed(v.Rule) {
		return e.skip(key, v, SkipRulePolicy), nil
	}
	if e.opts.Mode == ModeInteractive && !e.confirm(v) {
		return e.skip(key, v, SkipUserDeclined), nil
	}

	if err := run(fix); err != nil {
		e.result.Failed = append(e.result.Failed, FailedFix{Violation: v, FixError: err})
		return DecisionNotAllowed, err
	}

	v.Corrected = true
	e.result.Applied = append(e.result.Applied, AppliedFix{Violation: v})
	return DecisionApplied, nil
}

func (e *Engine) key(v validation.Violation, anchor string) string {
	if anchor == "" {
		anchor = strconv.Itoa(v.Column) + "@" + strconv.Itoa(v.Offset)
	}
	base := v.Rule + "\x00" + v.Message + "\x00" + anchor
	if e.occurrences == nil {
		e.occurrences = make(map[string]int)
	}
	n := e.occurrences[base]
	e.occurrences[base] = n + 1
	return base + "\x00" + strconv.Itoa(n)
}

func (e *Engine) skip(key string, v validation.Violation, reason SkipReason) Decision {
	if e.skipped == nil {
		e.skipped = make(map[string]bool)
	}
	e.skipped[key] = true
	e.result.Skipped = append(e.result.Skipped, SkippedFix{Violation: v, Reason: reason})
	return DecisionSuppressedByPolicy
}

// confirm asks the prompter. A missing prompter or a failed prompt declines.
func (e *Engine) confirm(v validation.Violation) bool {
	if e.opts.Prompter == nil {
		return false
	}
	ok, err := e.opts.Prompter.ConfirmFix(v)
	return err == nil && ok
}

func run(fix func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fix panicked: %v", r)
		}
	}()
	return fix()
}

// Result returns what the engine did so far.
func (e *Engine) Result() *Result {
	return &e.result
}
