// Package standard is the standard rule catalog: spacing and wrapping rules
// for Kotlin sources.
package standard

import (
	"github.com/cstlint/cstlint/linter"
)

// Providers returns the providers of every standard rule in registration order.
func Providers() []linter.RuleProvider {
	return []linter.RuleProvider{
		NewCurlySpacingRule,
		NewRangeSpacingRule,
		NewTryCatchFinallySpacingRule,
		NewNoMultiSpacesRule,
		NewNoTrailingSpacesRule,
		NewMaxLineLengthRule,
	}
}

// Register adds the standard rules and the standard ruleset to reg.
func Register(reg *linter.Registry) error {
	ids := make([]string, 0, len(Providers()))
	for _, p := range Providers() {
		if err := reg.Register(p); err != nil {
			return err
		}
		ids = append(ids, p().ID())
	}
	return reg.RegisterRuleset(RulesetStandard, ids)
}

// NewRegistry returns a registry holding the standard rules.
func NewRegistry() (*linter.Registry, error) {
	reg := linter.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
