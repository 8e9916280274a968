// Package config resolves the scoped properties that apply to a single file.
package config

import (
	"slices"
	"strings"
)

const (
	// RulePrefix prefixes per-rule properties, e.g. rule.range-spacing=disabled.
	RulePrefix = "rule."
	// RulesetPrefix prefixes per-ruleset properties, e.g. ruleset.standard=disabled.
	RulesetPrefix = "ruleset."
	// Disabled is the value that turns a rule or ruleset off.
	Disabled = "disabled"
)

// EffectiveConfig is the ordered set of properties in effect for one file.
// Keys are lower case.
type EffectiveConfig struct {
	path    string
	keys    []string
	values  map[string]string
	sources map[string]string
}

// New builds an EffectiveConfig from literal properties. Keys are applied in sorted order.
func New(path string, props map[string]string) *EffectiveConfig {
	c := newEffective(path)
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		c.set(k, props[k], "")
	}
	return c
}

func newEffective(path string) *EffectiveConfig {
	return &EffectiveConfig{path: path, values: map[string]string{}, sources: map[string]string{}}
}

func (c *EffectiveConfig) set(key, value, source string) {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
	c.sources[key] = source
}

// Path returns the file the configuration was resolved for.
func (c *EffectiveConfig) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// Raw returns the unparsed value of key.
func (c *EffectiveConfig) Raw(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.values[strings.ToLower(key)]
	return v, ok
}

// Keys returns the property keys in the order they were first set.
func (c *EffectiveConfig) Keys() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.keys)
}

// Source returns the scope file that last set key, or "" for defaults and overrides.
func (c *EffectiveConfig) Source(key string) string {
	if c == nil {
		return ""
	}
	return c.sources[strings.ToLower(key)]
}

// RuleDisabled reports whether rule.<id> is set to disabled.
func (c *EffectiveConfig) RuleDisabled(id string) bool {
	v, _ := c.Raw(RulePrefix + id)
	return strings.EqualFold(v, Disabled)
}

// RuleEnabled reports whether rule.<id> is explicitly set to enabled.
func (c *EffectiveConfig) RuleEnabled(id string) bool {
	v, _ := c.Raw(RulePrefix + id)
	return strings.EqualFold(v, "enabled")
}

// RulesetDisabled reports whether ruleset.<name> is set to disabled.
func (c *EffectiveConfig) RulesetDisabled(name string) bool {
	v, _ := c.Raw(RulesetPrefix + name)
	return strings.EqualFold(v, Disabled)
}

// CodeStyle returns the configured code style.
func (c *EffectiveConfig) CodeStyle() (CodeStyle, error) {
	return Get(c, CodeStyleProperty)
}

// Validate parses every standard property so that malformed values surface
// before any rule runs.
func (c *EffectiveConfig) Validate() error {
	if _, err := Get(c, IndentSizeProperty); err != nil {
		return err
	}
	if _, err := Get(c, IndentStyleProperty); err != nil {
		return err
	}
	if _, err := Get(c, MaxLineLengthProperty); err != nil {
		return err
	}
	if _, err := Get(c, CodeStyleProperty); err != nil {
		return err
	}
	_, err := Get(c, InsertFinalNewlineProperty)
	return err
}

// Fingerprint returns the properties as sorted key=value pairs, used for cache keys.
func (c *EffectiveConfig) Fingerprint() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, k+"="+c.values[k])
	}
	slices.Sort(out)
	return out
}
