// Package suppress decides whether a violation of a rule at an offset is
// silenced by an in-source directive or by configuration.
//
// Directives:
//
//	@Suppress("cstlint")                       every rule, on the annotated declaration
//	@Suppress("cstlint:range-spacing")         one rule, on the annotated declaration
//	@Suppress("cstlint:standard:range-spacing") same, qualified with the ruleset
//	// cstlint-disable [rule ...]              until the matching cstlint-enable or end of file
//	// cstlint-enable [rule ...]
//	// cstlint-disable-line [rule ...]         the line holding the comment
package suppress

import (
	"regexp"
	"strings"

	"github.com/cstlint/cstlint/config"
	"github.com/cstlint/cstlint/cst"
)

// Prefix is the tool name suppression directives are keyed by.
const Prefix = "cstlint"

// Region is a suppressed offset range. An empty Rules list suppresses every rule.
type Region struct {
	Start int
	End   int
	Rules []string
	// Source is the directive text, for diagnostics.
	Source string
}

func (r Region) covers(ruleID string, offset int) bool {
	if offset < r.Start || offset >= r.End {
		return false
	}
	if len(r.Rules) == 0 {
		return true
	}
	for _, id := range r.Rules {
		if id == ruleID {
			return true
		}
	}
	return false
}

// Filter answers suppression queries for one file during one rule pass.
type Filter struct {
	regions   []Region
	cfg       *config.EffectiveConfig
	canonical func(string) string
}

// Canonicalizer maps legacy rule names to current identifiers.
type Canonicalizer interface {
	Canonical(id string) string
}

// NewFilter scans tree for directives. Offsets are read from the tree as
// indexed, so the tree must be reindexed before the call.
func NewFilter(tree *cst.Tree, cfg *config.EffectiveConfig, aliases Canonicalizer) *Filter {
	f := &Filter{cfg: cfg, canonical: func(id string) string { return id }}
	if aliases != nil {
		f.canonical = aliases.Canonical
	}
	if tree != nil {
		f.regions = append(f.regions, annotationRegions(tree, f.canonical)...)
		f.regions = append(f.regions, commentRegions(tree, f.canonical)...)
	}
	return f
}

// Regions returns the suppressed ranges found in the tree.
func (f *Filter) Regions() []Region {
	return f.regions
}

// Suppressed reports whether ruleID must not report at offset.
func (f *Filter) Suppressed(ruleID string, offset int) bool {
	if f.cfg.RuleDisabled(ruleID) {
		return true
	}
	for _, r := range f.regions {
		if r.covers(ruleID, offset) {
			return true
		}
	}
	return false
}

var stringLiteral = regexp.MustCompile(`"([^"\\]*)"`)

func annotationRegions(tree *cst.Tree, canonical func(string) string) []Region {
	var out []Region
	for n := range tree.Root().Preorder() {
		if n.Kind() != cst.KindAnnotation {
			continue
		}
		text := n.Text()
		if !isSuppressAnnotation(text) {
			continue
		}
		all, rules, ok := parseSuppressArgs(text, canonical)
		if !ok {
			continue
		}
		decl := enclosingDeclaration(n)
		if decl.IsNil() {
			continue
		}
		r := Region{Start: decl.Offset(), End: decl.End(), Source: text}
		if !all {
			r.Rules = rules
		}
		out = append(out, r)
	}
	return out
}

func isSuppressAnnotation(text string) bool {
	name := strings.TrimPrefix(strings.TrimSpace(text), "@")
	name = strings.TrimPrefix(name, "file:")
	if i := strings.IndexAny(name, "( \t\n"); i >= 0 {
		name = name[:i]
	}
	switch name {
	case "Suppress", "SuppressWarnings", "kotlin.Suppress", "java.lang.SuppressWarnings":
		return true
	default:
		return false
	}
}

// parseSuppressArgs extracts the cstlint arguments. ok is false when none apply.
func parseSuppressArgs(text string, canonical func(string) string) (all bool, rules []string, ok bool) {
	for _, m := range stringLiteral.FindAllStringSubmatch(text, -1) {
		arg := m[1]
		if arg == Prefix {
			all, ok = true, true
			continue
		}
		rest, found := strings.CutPrefix(arg, Prefix+":")
		if !found || rest == "" {
			continue
		}
		// cstlint:<ruleset>:<id> addresses the rule by its qualified name.
		if i := strings.LastIndexByte(rest, ':'); i >= 0 {
			rest = rest[i+1:]
		}
		rules = append(rules, canonical(rest))
		ok = true
	}
	return all, rules, ok
}

// enclosingDeclaration returns the declaration an annotation applies to:
// the owner of its modifier list, its direct declaration parent, or the file
// for file-targeted annotations.
func enclosingDeclaration(annotation cst.Node) cst.Node {
	for a := range annotation.Ancestors() {
		if a.Kind().IsDeclaration() {
			return a
		}
	}
	return cst.Node{}
}

type directive struct {
	verb   string
	rules  []string
	offset int
}

func parseDirective(comment string, canonical func(string) string) (directive, bool) {
	body := strings.TrimSpace(comment)
	switch {
	case strings.HasPrefix(body, "//"):
		body = body[2:]
	case strings.HasPrefix(body, "/*"):
		body = strings.TrimSuffix(body[2:], "*/")
	default:
		return directive{}, false
	}
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return directive{}, false
	}
	verb := fields[0]
	switch verb {
	case Prefix + "-disable", Prefix + "-enable", Prefix + "-disable-line":
	default:
		return directive{}, false
	}
	d := directive{verb: verb}
	for _, f := range fields[1:] {
		f = strings.TrimSuffix(f, ",")
		if f == "" {
			continue
		}
		if i := strings.LastIndexByte(f, ':'); i >= 0 {
			f = f[i+1:]
		}
		d.rules = append(d.rules, canonical(f))
	}
	return d, true
}

func commentRegions(tree *cst.Tree, canonical func(string) string) []Region {
	lines := tree.Lines()
	textLen := len(tree.IndexedText())

	var out []Region
	// open maps a rule ("" for all) to the offset of its disable directive.
	open := map[string]int{}
	var openOrder []string

	for n := range tree.Root().Leaves() {
		if !n.IsComment() {
			continue
		}
		d, ok := parseDirective(n.Text(), canonical)
		if !ok {
			continue
		}
		d.offset = n.Offset()

		switch d.verb {
		case Prefix + "-disable-line":
			line, _ := lines.Position(d.offset)
			start := lines.LineStart(line)
			end := start + len(lines.Line(line)) + 1
			out = append(out, Region{Start: start, End: end, Rules: d.rules, Source: n.Text()})
		case Prefix + "-disable":
			keys := d.rules
			if len(keys) == 0 {
				keys = []string{""}
			}
			for _, k := range keys {
				if _, already := open[k]; already {
					continue
				}
				open[k] = d.offset
				openOrder = append(openOrder, k)
			}
		case Prefix + "-enable":
			closing := d.rules
			if len(closing) == 0 {
				closing = openOrder
			}
			for _, k := range closing {
				start, isOpen := open[k]
				if !isOpen {
					continue
				}
				out = append(out, region(start, d.offset, k, n.Text()))
				delete(open, k)
			}
			openOrder = remaining(openOrder, open)
		}
	}

	for _, k := range openOrder {
		out = append(out, region(open[k], textLen+1, k, ""))
	}
	return out
}

func region(start, end int, rule, source string) Region {
	r := Region{Start: start, End: end, Source: source}
	if rule != "" {
		r.Rules = []string{rule}
	}
	return r
}

func remaining(order []string, open map[string]int) []string {
	out := order[:0]
	for _, k := range order {
		if _, ok := open[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
