package config

import (
	"strings"

	"github.com/cstlint/cstlint/cst"
)

// IndentConfig renders indentation according to indent_style and indent_size.
type IndentConfig struct {
	Style IndentStyle
	Size  int
}

// DefaultIndentConfig is four spaces per level.
var DefaultIndentConfig = IndentConfig{Style: IndentStyleSpace, Size: 4}

// NewIndentConfig reads the indent properties of c.
func NewIndentConfig(c *EffectiveConfig) (IndentConfig, error) {
	style, err := Get(c, IndentStyleProperty)
	if err != nil {
		return IndentConfig{}, err
	}
	size, err := Get(c, IndentSizeProperty)
	if err != nil {
		return IndentConfig{}, err
	}
	return IndentConfig{Style: style, Size: size}, nil
}

// Unit returns the indentation of a single level.
func (ic IndentConfig) Unit() string {
	if ic.Style == IndentStyleTab {
		return "\t"
	}
	return strings.Repeat(" ", max(ic.Size, 1))
}

// Indent returns the indentation of the given nesting level.
func (ic IndentConfig) Indent(level int) string {
	return strings.Repeat(ic.Unit(), max(level, 0))
}

// SiblingIndentOf returns the indentation of the line n starts on.
func (ic IndentConfig) SiblingIndentOf(n cst.Node) string {
	return cst.IndentOf(n)
}

// ChildIndentOf returns the indentation one level deeper than n.
func (ic IndentConfig) ChildIndentOf(n cst.Node) string {
	return cst.IndentOf(n) + ic.Unit()
}

// ParentIndentOf returns the indentation one level shallower than n.
func (ic IndentConfig) ParentIndentOf(n cst.Node) string {
	indent := cst.IndentOf(n)
	if trimmed, ok := strings.CutSuffix(indent, ic.Unit()); ok {
		return trimmed
	}
	return ""
}
