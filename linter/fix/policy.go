package fix

import "sync"

// Policy holds per-rule autocorrection switches. The zero value and a nil
// Policy allow every rule.
type Policy struct {
	mu       sync.RWMutex
	disabled map[string]bool
}

// NewPolicy creates a policy with autocorrection turned off for the given rules.
func NewPolicy(disabled ...string) *Policy {
	p := &Policy{disabled: make(map[string]bool, len(disabled))}
	for _, id := range disabled {
		p.disabled[id] = true
	}
	return p
}

// Disable turns autocorrection off for ruleID.
func (p *Policy) Disable(ruleID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disabled == nil {
		p.disabled = make(map[string]bool)
	}
	p.disabled[ruleID] = true
}

// Allowed reports whether fixes of ruleID may run.
func (p *Policy) Allowed(ruleID string) bool {
	if p == nil {
		return true
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.disabled[ruleID]
}
