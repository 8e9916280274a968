package linter

import (
	"fmt"
	"slices"
	"sort"
)

type registeredRule struct {
	provider  RuleProvider
	prototype Visitor
	desc      Descriptor
}

// Registry holds registered rules
type Registry struct {
	rules    map[string]*registeredRule
	order    []string            // registration order
	rulesets map[string][]string // ruleset name -> rule IDs
	aliases  map[string]string   // legacy id -> rule ID
}

// NewRegistry creates a new rule registry
func NewRegistry() *Registry {
	return &Registry{
		rules:    make(map[string]*registeredRule),
		rulesets: make(map[string][]string),
		aliases:  make(map[string]string),
	}
}

// Register registers a rule provider. The provider is called once here to
// derive the rule's descriptor and again for every file unless the rule is stateless.
func (r *Registry) Register(provider RuleProvider) error {
	prototype := provider()
	if prototype == nil {
		return fmt.Errorf("rule provider returned nil")
	}
	id := prototype.ID()
	if id == "" {
		return fmt.Errorf("rule %T has an empty id", prototype)
	}
	if _, exists := r.rules[id]; exists {
		return fmt.Errorf("rule %q already registered", id)
	}
	if target, exists := r.aliases[id]; exists {
		return fmt.Errorf("rule %q collides with an alias of %q", id, target)
	}

	desc := Describe(prototype)
	desc.index = len(r.order)
	for _, alias := range desc.Aliases {
		if _, exists := r.rules[alias]; exists {
			return fmt.Errorf("alias %q of rule %q collides with a registered rule", alias, id)
		}
		if target, exists := r.aliases[alias]; exists {
			return fmt.Errorf("alias %q of rule %q already maps to %q", alias, id, target)
		}
	}
	for _, alias := range desc.Aliases {
		r.aliases[alias] = id
	}

	r.rules[id] = &registeredRule{provider: provider, prototype: prototype, desc: desc}
	r.order = append(r.order, id)
	return nil
}

// MustRegister is Register for static rule sets; it panics on error.
func (r *Registry) MustRegister(providers ...RuleProvider) {
	for _, p := range providers {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
}

// RegisterRuleset registers a ruleset
func (r *Registry) RegisterRuleset(name string, ruleIDs []string) error {
	if name == "all" {
		return fmt.Errorf("ruleset name %q is reserved", name)
	}
	if _, exists := r.rulesets[name]; exists {
		return fmt.Errorf("ruleset %q already registered", name)
	}

	// Validate rule IDs
	for _, id := range ruleIDs {
		if _, exists := r.rules[id]; !exists {
			return fmt.Errorf("rule %q in ruleset %q not found", id, name)
		}
	}

	r.rulesets[name] = ruleIDs
	return nil
}

// GetRule returns the prototype instance of a rule by ID or legacy alias
func (r *Registry) GetRule(id string) (Visitor, bool) {
	rule, ok := r.rules[r.Canonical(id)]
	if !ok {
		return nil, false
	}
	return rule.prototype, true
}

// Descriptor returns the capability summary of a rule
func (r *Registry) Descriptor(id string) (Descriptor, bool) {
	rule, ok := r.rules[r.Canonical(id)]
	if !ok {
		return Descriptor{}, false
	}
	return rule.desc, true
}

// Instance returns the instance that should run for one file and round:
// the shared prototype for stateless rules, a fresh one otherwise.
func (r *Registry) Instance(id string) Visitor {
	rule, ok := r.rules[id]
	if !ok {
		return nil
	}
	if rule.desc.Stateless {
		return rule.prototype
	}
	return rule.provider()
}

// Canonical maps a legacy alias to its current rule ID. Unknown IDs are returned unchanged.
func (r *Registry) Canonical(id string) string {
	if target, ok := r.aliases[id]; ok {
		return target
	}
	return id
}

// Aliases returns a copy of the legacy alias table
func (r *Registry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

// GetRuleset returns rule IDs for a ruleset
func (r *Registry) GetRuleset(name string) ([]string, bool) {
	if name == "all" {
		return r.AllRuleIDs(), true
	}
	ids, ok := r.rulesets[name]
	return ids, ok
}

// AllRules returns all registered rule prototypes sorted by ID
func (r *Registry) AllRules() []Visitor {
	rules := make([]Visitor, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule.prototype)
	}
	// Sort for deterministic order
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID() < rules[j].ID()
	})
	return rules
}

// RegistrationOrder returns rule IDs in the order they were registered
func (r *Registry) RegistrationOrder() []string {
	return slices.Clone(r.order)
}

// AllRuleIDs returns all registered rule IDs
func (r *Registry) AllRuleIDs() []string {
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AllCategories returns all unique categories
func (r *Registry) AllCategories() []string {
	categories := make(map[string]bool)
	for _, rule := range r.rules {
		categories[rule.desc.Category] = true
	}

	cats := make([]string, 0, len(categories))
	for cat := range categories {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

// AllRulesets returns all registered ruleset names
func (r *Registry) AllRulesets() []string {
	names := make([]string, 0, len(r.rulesets)+1)
	names = append(names, "all")
	for name := range r.rulesets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RulesetsContaining returns names of rulesets that contain the given rule ID
func (r *Registry) RulesetsContaining(ruleID string) []string {
	var sets []string

	// "all" always contains everything
	sets = append(sets, "all")

	for name, ids := range r.rulesets {
		if slices.Contains(ids, ruleID) {
			sets = append(sets, name)
		}
	}
	sort.Strings(sets)
	return sets
}
