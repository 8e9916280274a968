package linter

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cstlint/cstlint/config"
	"github.com/cstlint/cstlint/cst"
	"github.com/cstlint/cstlint/errors"
	"github.com/cstlint/cstlint/linter/fix"
	"github.com/cstlint/cstlint/linter/suppress"
	"github.com/cstlint/cstlint/validation"
	"go.uber.org/zap"
)

const (
	minVisitBudget    = 4096
	visitBudgetFactor = 8
)

var (
	errVisitBudget        = errors.New("traversal exceeded its visit budget")
	errMutationOutsideFix = errors.New("rule mutated the tree outside of a fix")
)

// fileRun holds the state of one document while its rounds run.
type fileRun struct {
	l      *Linter
	doc    *DocumentInfo
	tree   *cst.Tree
	cfg    *config.EffectiveConfig
	fixer  *fix.Engine
	active []string
	logger *zap.Logger

	// failed rules are skipped for the rest of the file.
	failed     map[string]bool
	ruleErrors []*RuleError
	fatal      error

	seq       int
	corrected []validation.Violation
	unfixed   []validation.Violation

	// Per rule pass: the mutation count at its start, the mutations made by
	// fixes the engine ran, and the offset of the last applied fix.
	passStart    int
	fixMutations int
	lastFix      int
}

// activeRules filters the run's schedule for one file's configuration.
func (l *Linter) activeRules(cfg *config.EffectiveConfig) []string {
	style, err := cfg.CodeStyle()
	if err != nil {
		style = config.CodeStyleProperty.Default
	}

	active := make(map[string]bool, len(l.schedule.Order))
	for _, id := range l.schedule.Order {
		if cfg.RuleDisabled(id) {
			continue
		}
		if slices.ContainsFunc(l.registry.RulesetsContaining(id), cfg.RulesetDisabled) {
			continue
		}
		desc, _ := l.registry.Descriptor(id)
		if desc.Official && style != config.CodeStyleOfficial && !cfg.RuleEnabled(id) {
			continue
		}
		active[id] = true
	}

	// A rule disabled for this file may be required by another one.
	for changed := true; changed; {
		changed = false
		for id := range active {
			desc, _ := l.registry.Descriptor(id)
			for _, dep := range slices.Concat(desc.RunAfter, desc.RunBefore) {
				if dep.Mode == Required && !active[l.registry.Canonical(dep.RuleID)] {
					delete(active, id)
					changed = true
					break
				}
			}
		}
	}

	out := make([]string, 0, len(active))
	for _, id := range l.schedule.Order {
		if active[id] {
			out = append(out, id)
		}
	}
	return out
}

// instantiate creates this round's rule instances and runs their FileStart hooks.
func (r *fileRun) instantiate() ([]Visitor, error) {
	rules := make([]Visitor, 0, len(r.active))
	for _, id := range r.active {
		if r.failed[id] {
			continue
		}
		inst := r.l.registry.Instance(id)
		if c, ok := inst.(ConfigurableRule); ok {
			opts := r.l.ruleConfigs[id].Options
			if opts == nil {
				opts = c.ConfigDefaults()
			}
			if err := c.Configure(opts); err != nil {
				return nil, &config.Error{Path: r.doc.Path, Key: "rules." + id + ".options", Err: err}
			}
		}
		if s, ok := inst.(FileStarter); ok {
			if err := s.FileStart(r.cfg); err != nil {
				if errors.Is(err, errors.ErrConfiguration) {
					return nil, err
				}
				return nil, &config.Error{Path: r.doc.Path, Key: id, Err: err}
			}
		}
		rules = append(rules, inst)
	}
	return rules, nil
}

// runRound runs every active rule once over the tree. It reports whether the tree mutated.
func (r *fileRun) runRound(ctx context.Context) (bool, error) {
	rules, err := r.instantiate()
	if err != nil {
		return false, err
	}

	r.unfixed = nil
	r.fixer.StartRound()
	mutated := false

	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if r.failed[rule.ID()] {
			continue
		}

		r.tree.Reindex()
		before := r.tree.Mutations()
		r.passStart, r.fixMutations, r.lastFix = before, 0, 0
		filter := suppress.NewFilter(r.tree, r.cfg, r.l.registry)

		if ruleErr := r.runRule(rule, r.emitter(rule, filter)); ruleErr != nil {
			r.failed[rule.ID()] = true
			r.ruleErrors = append(r.ruleErrors, ruleErr)
			r.checkMutations(rule.ID(), ruleErr.Offset)
			r.logger.Error("rule failed", zap.String("rule", ruleErr.Rule), zap.Int("offset", ruleErr.Offset), zap.Error(ruleErr.Err))
		}
		if r.fatal != nil {
			return false, r.fatal
		}

		if r.tree.Mutations() == before {
			continue
		}
		mutated = true
		if err := r.refresh(rule.ID()); err != nil {
			return false, err
		}
	}

	return mutated, nil
}

// refresh brings offsets up to date after a mutating rule pass.
func (r *fileRun) refresh(ruleID string) error {
	if r.doc.Reparse != nil {
		tree, err := r.doc.Reparse(r.tree.Text())
		if err != nil {
			return &TreeError{Rule: ruleID, Offset: r.lastFix, Err: fmt.Errorf("reparse: %w", err)}
		}
		r.tree = tree
	}
	r.tree.Reindex()
	if err := r.tree.Validate(); err != nil {
		offset := r.lastFix
		var inv *cst.InvariantError
		if errors.As(err, &inv) && inv.Offset >= 0 {
			offset = inv.Offset
		}
		return &TreeError{Rule: ruleID, Offset: offset, Err: err}
	}
	return nil
}

// checkMutations fails the file when the tree changed other than through a
// fix the engine ran. offset locates the hook that was running.
func (r *fileRun) checkMutations(ruleID string, offset int) {
	if r.fatal == nil && r.tree.Mutations()-r.passStart != r.fixMutations {
		r.fatal = &TreeError{Rule: ruleID, Offset: offset, Err: errMutationOutsideFix}
	}
}

// emitter builds the Emit callback of one rule pass.
func (r *fileRun) emitter(rule Visitor, filter *suppress.Filter) Emit {
	id := rule.ID()
	ruleCfg := r.l.ruleConfigs[id]
	severity := ruleCfg.GetSeverity(rule.DefaultSeverity())
	lines := r.tree.Lines()

	return func(offset int, message string, f Fix) fix.Decision {
		if r.fatal != nil {
			return fix.DecisionNotAllowed
		}
		if filter.Suppressed(id, offset) || r.l.config.ignored(r.doc.Path, id, message) {
			return fix.DecisionNotAllowed
		}
		sev, ok := r.l.config.matchOverride(id, message, severity, r.l.registry.Canonical)
		if !ok {
			return fix.DecisionNotAllowed
		}

		line, col := lines.Position(offset)
		v := validation.Violation{
			File:            r.doc.Path,
			Rule:            id,
			Offset:          offset,
			Line:            line,
			Column:          col,
			Message:         message,
			Severity:        sev,
			Autocorrectable: f != nil,
		}.WithSeq(r.seq)
		r.seq++

		var fn func() error
		if f != nil {
			fn = f
		}
		// Mutations made by the rule before this emit are not the fix's.
		r.checkMutations(id, offset)
		if r.fatal != nil {
			return fix.DecisionNotAllowed
		}
		m := r.tree.Mutations()
		decision, err := r.fixer.DecideAt(v, fixAnchor(lines, line, offset), fn)
		r.fixMutations += r.tree.Mutations() - m
		if err != nil {
			r.fatal = &TreeError{Rule: id, Offset: offset, Err: err}
			return decision
		}
		if decision == fix.DecisionApplied {
			r.lastFix = offset
			v.Corrected = true
			r.corrected = append(r.corrected, v)
		} else {
			r.unfixed = append(r.unfixed, v)
		}
		return decision
	}
}

// fixAnchor identifies a violation across rounds by the code on its line and
// the number of code bytes before it there. Whitespace fixes elsewhere on the
// line leave it unchanged.
func fixAnchor(lines *cst.LineIndex, line, offset int) string {
	text := lines.Line(line)
	at := offset - lines.LineStart(line)
	var sb strings.Builder
	pos := 0
	for i := 0; i < len(text); i++ {
		if c := text[i]; c == ' ' || c == '\t' {
			continue
		}
		if i < at {
			pos++
		}
		sb.WriteByte(text[i])
	}
	return strconv.Itoa(pos) + ":" + sb.String()
}

// runRule traverses the tree in pre-order for one rule. Panics and budget
// overruns become a RuleError.
func (r *fileRun) runRule(rule Visitor, emit Emit) (ruleErr *RuleError) {
	cur := r.tree.Root()
	defer func() {
		if rec := recover(); rec != nil {
			ruleErr = &RuleError{Rule: rule.ID(), Offset: cur.Offset(), Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	after, hasAfter := rule.(AfterVisitor)
	root := cur
	budget := max(minVisitBudget, r.tree.Len()*visitBudgetFactor)

	for visits := 1; !cur.IsNil(); visits++ {
		if r.fatal != nil {
			return nil
		}
		if visits > budget {
			return &RuleError{Rule: rule.ID(), Offset: cur.Offset(), Err: errVisitBudget}
		}

		at := cur.Offset()
		rule.BeforeVisit(cur, emit)
		r.checkMutations(rule.ID(), at)

		if cur.IsAlive() {
			if c := cur.FirstChild(); !c.IsNil() {
				cur = c
				continue
			}
		}

		cur = r.climb(rule.ID(), cur, root, after, hasAfter, emit)
	}

	if e, ok := rule.(FileEnder); ok && r.fatal == nil {
		e.FileEnd(emit)
		r.checkMutations(rule.ID(), r.tree.Root().End())
	}
	return nil
}

// climb finishes cur and its completed ancestors and returns the next node
// to visit, or the zero Node once the root is done. Removed nodes are left
// through their stale sibling and parent links.
func (r *fileRun) climb(ruleID string, cur, root cst.Node, after AfterVisitor, hasAfter bool, emit Emit) cst.Node {
	for !cur.IsNil() {
		if hasAfter && cur.IsAlive() && r.fatal == nil {
			at := cur.Offset()
			after.AfterVisit(cur, emit)
			r.checkMutations(ruleID, at)
		}
		if cur == root {
			return cst.Node{}
		}
		next := cur.NextSibling()
		for !next.IsNil() && !next.IsAlive() {
			next = next.NextSibling()
		}
		if !next.IsNil() {
			return next
		}
		cur = cur.Parent()
	}
	return cst.Node{}
}
