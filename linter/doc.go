package linter

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/cstlint/cstlint/config"
)

// DocGenerator generates documentation from registered rules
type DocGenerator struct {
	registry *Registry
}

// NewDocGenerator creates a new documentation generator
func NewDocGenerator(registry *Registry) *DocGenerator {
	return &DocGenerator{registry: registry}
}

// RuleDoc represents documentation for a single rule
type RuleDoc struct {
	ID              string              `json:"id" yaml:"id"`
	Category        string              `json:"category" yaml:"category"`
	Summary         string              `json:"summary" yaml:"summary"`
	Description     string              `json:"description" yaml:"description"`
	Rationale       string              `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	Link            string              `json:"link,omitempty" yaml:"link,omitempty"`
	DefaultSeverity string              `json:"default_severity" yaml:"default_severity"`
	Aliases         []string            `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	RunAfter        []string            `json:"run_after,omitempty" yaml:"run_after,omitempty"`
	RunBefore       []string            `json:"run_before,omitempty" yaml:"run_before,omitempty"`
	Late            bool                `json:"run_as_late_as_possible,omitempty" yaml:"run_as_late_as_possible,omitempty"`
	Official        bool                `json:"official_code_style,omitempty" yaml:"official_code_style,omitempty"`
	Properties      []config.Descriptor `json:"properties,omitempty" yaml:"properties,omitempty"`
	GoodExample     string              `json:"good_example,omitempty" yaml:"good_example,omitempty"`
	BadExample      string              `json:"bad_example,omitempty" yaml:"bad_example,omitempty"`
	FixAvailable    bool                `json:"fix_available" yaml:"fix_available"`
	ConfigSchema    map[string]any      `json:"config_schema,omitempty" yaml:"config_schema,omitempty"`
	ConfigDefaults  map[string]any      `json:"config_defaults,omitempty" yaml:"config_defaults,omitempty"`
	Rulesets        []string            `json:"rulesets" yaml:"rulesets"`
}

// GenerateRuleDoc generates documentation for a single rule
func (g *DocGenerator) GenerateRuleDoc(rule Visitor) *RuleDoc {
	desc := Describe(rule)
	doc := &RuleDoc{
		ID:              rule.ID(),
		Category:        rule.Category(),
		Summary:         rule.Summary(),
		Description:     rule.Description(),
		Link:            rule.Link(),
		DefaultSeverity: rule.DefaultSeverity().String(),
		Aliases:         desc.Aliases,
		RunAfter:        dependencyIDs(desc.RunAfter),
		RunBefore:       dependencyIDs(desc.RunBefore),
		Late:            desc.Late,
		Official:        desc.Official,
		Properties:      desc.Properties,
		Rulesets:        g.registry.RulesetsContaining(rule.ID()),
	}

	// Check for optional documentation interface
	if documented, ok := any(rule).(DocumentedRule); ok {
		doc.GoodExample = documented.GoodExample()
		doc.BadExample = documented.BadExample()
		doc.Rationale = documented.Rationale()
		doc.FixAvailable = documented.FixAvailable()
	}

	// Check for configuration interface
	if configurable, ok := any(rule).(ConfigurableRule); ok {
		doc.ConfigSchema = configurable.ConfigSchema()
		doc.ConfigDefaults = configurable.ConfigDefaults()
	}

	return doc
}

func dependencyIDs(deps []Dependency) []string {
	if len(deps) == 0 {
		return nil
	}
	ids := make([]string, 0, len(deps))
	for _, d := range deps {
		id := d.RuleID
		if d.Mode == Required {
			id += " (required)"
		}
		ids = append(ids, id)
	}
	return ids
}

// GenerateAllRuleDocs generates documentation for all registered rules
func (g *DocGenerator) GenerateAllRuleDocs() []*RuleDoc {
	var docs []*RuleDoc
	for _, rule := range g.registry.AllRules() {
		docs = append(docs, g.GenerateRuleDoc(rule))
	}
	return docs
}

// GenerateCategoryDocs groups rules by category
func (g *DocGenerator) GenerateCategoryDocs() map[string][]*RuleDoc {
	categories := make(map[string][]*RuleDoc)
	for _, rule := range g.registry.AllRules() {
		doc := g.GenerateRuleDoc(rule)
		categories[doc.Category] = append(categories[doc.Category], doc)
	}
	return categories
}

// WriteJSON writes rule documentation as JSON
func (g *DocGenerator) WriteJSON(w io.Writer) error {
	docs := g.GenerateAllRuleDocs()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"rules":      docs,
		"categories": g.registry.AllCategories(),
		"rulesets":   g.registry.AllRulesets(),
		"properties": config.StandardProperties(),
	})
}

// WriteMarkdown writes rule documentation as Markdown
func (g *DocGenerator) WriteMarkdown(w io.Writer) error {
	docs := g.GenerateCategoryDocs()
	categories := make([]string, 0, len(docs))
	for category := range docs {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	if err := writeLine(w, "# Lint Rules Reference"); err != nil {
		return err
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}

	// Table of contents
	if err := writeLine(w, "## Categories"); err != nil {
		return err
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}
	for _, category := range categories {
		if err := writeF(w, "- [%s](#%s)\n", category, category); err != nil {
			return err
		}
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}

	// Rules by category
	for _, category := range categories {
		if err := writeF(w, "## %s\n\n", category); err != nil {
			return err
		}

		for _, rule := range docs[category] {
			if err := g.writeRuleMarkdown(w, rule); err != nil {
				return err
			}
		}
	}

	return g.writePropertiesMarkdown(w)
}

func (g *DocGenerator) writeRuleMarkdown(w io.Writer, rule *RuleDoc) error {
	if err := writeF(w, "### %s\n\n", rule.ID); err != nil {
		return err
	}
	if err := writeF(w, "**Severity:** %s  \n", rule.DefaultSeverity); err != nil {
		return err
	}
	if err := writeF(w, "**Category:** %s  \n", rule.Category); err != nil {
		return err
	}
	if rule.Summary != "" {
		if err := writeF(w, "**Summary:** %s  \n", rule.Summary); err != nil {
			return err
		}
	}
	if len(rule.Aliases) > 0 {
		if err := writeF(w, "**Also known as:** %s  \n", strings.Join(rule.Aliases, ", ")); err != nil {
			return err
		}
	}
	if len(rule.RunAfter) > 0 {
		if err := writeF(w, "**Runs after:** %s  \n", strings.Join(rule.RunAfter, ", ")); err != nil {
			return err
		}
	}
	if len(rule.RunBefore) > 0 {
		if err := writeF(w, "**Runs before:** %s  \n", strings.Join(rule.RunBefore, ", ")); err != nil {
			return err
		}
	}
	if rule.Late {
		if err := writeLine(w, "**Runs as late as possible**  "); err != nil {
			return err
		}
	}
	if rule.Official {
		if err := writeLine(w, "**Code style:** official only  "); err != nil {
			return err
		}
	}
	if rule.FixAvailable {
		if err := writeLine(w, "**Auto-fix available:** Yes  "); err != nil {
			return err
		}
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}

	if err := writeF(w, "%s\n\n", rule.Description); err != nil {
		return err
	}

	if rule.Rationale != "" {
		if err := writeF(w, "#### Rationale\n\n%s\n\n", rule.Rationale); err != nil {
			return err
		}
	}

	if err := writeExample(w, "#### ❌ Incorrect", rule.BadExample); err != nil {
		return err
	}
	if err := writeExample(w, "#### ✅ Correct", rule.GoodExample); err != nil {
		return err
	}

	if len(rule.Properties) > 0 {
		if err := writeLine(w, "#### Properties"); err != nil {
			return err
		}
		if err := writeEmptyLine(w); err != nil {
			return err
		}
		for _, p := range rule.Properties {
			if err := writeF(w, "- `%s` (default `%s`): %s\n", p.Name, p.Default, p.Description); err != nil {
				return err
			}
		}
		if err := writeEmptyLine(w); err != nil {
			return err
		}
	}

	if len(rule.ConfigSchema) > 0 {
		if err := writeConfigTable(w, rule); err != nil {
			return err
		}
	}

	if rule.Link != "" {
		if err := writeF(w, "[Documentation →](%s)\n\n", rule.Link); err != nil {
			return err
		}
	}

	if err := writeLine(w, "---"); err != nil {
		return err
	}
	return writeEmptyLine(w)
}

func writeExample(w io.Writer, title, example string) error {
	if example == "" {
		return nil
	}
	if err := writeLine(w, title); err != nil {
		return err
	}
	if err := writeLine(w, "```kotlin"); err != nil {
		return err
	}
	if err := writeLine(w, example); err != nil {
		return err
	}
	if err := writeLine(w, "```"); err != nil {
		return err
	}
	return writeEmptyLine(w)
}

func writeConfigTable(w io.Writer, rule *RuleDoc) error {
	if err := writeLine(w, "#### Configuration"); err != nil {
		return err
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}
	if err := writeLine(w, "| Option | Type | Default | Description |"); err != nil {
		return err
	}
	if err := writeLine(w, "|--------|------|---------|-------------|"); err != nil {
		return err
	}

	props, _ := rule.ConfigSchema["properties"].(map[string]any)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		prop, _ := props[name].(map[string]any)
		typ, _ := prop["type"].(string)
		description, _ := prop["description"].(string)
		def := ""
		if v, ok := rule.ConfigDefaults[name]; ok {
			def = fmt.Sprintf("`%v`", v)
		}
		if err := writeF(w, "| `%s` | %s | %s | %s |\n", name, typ, def, description); err != nil {
			return err
		}
	}
	return writeEmptyLine(w)
}

func (g *DocGenerator) writePropertiesMarkdown(w io.Writer) error {
	if err := writeLine(w, "## Properties"); err != nil {
		return err
	}
	if err := writeEmptyLine(w); err != nil {
		return err
	}
	if err := writeLine(w, "| Property | Default | Description |"); err != nil {
		return err
	}
	if err := writeLine(w, "|----------|---------|-------------|"); err != nil {
		return err
	}
	for _, p := range config.StandardProperties() {
		if err := writeF(w, "| `%s` | `%s` | %s |\n", p.Name, p.Default, p.Description); err != nil {
			return err
		}
	}
	return writeEmptyLine(w)
}

func writeLine(w io.Writer, text string) error {
	_, err := fmt.Fprintln(w, text)
	return err
}

func writeEmptyLine(w io.Writer) error {
	_, err := fmt.Fprintln(w)
	return err
}

func writeF(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
