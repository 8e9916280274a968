package config

import (
	"fmt"
	"strconv"
	"strings"
)

// CodeStyle selects a family of defaults.
type CodeStyle string

const (
	CodeStyleOfficial      CodeStyle = "official"
	CodeStyleIntelliJIdea  CodeStyle = "intellij_idea"
	CodeStyleAndroidStudio CodeStyle = "android_studio"
)

// IndentStyle is the character used for indentation.
type IndentStyle string

const (
	IndentStyleSpace IndentStyle = "space"
	IndentStyleTab   IndentStyle = "tab"
)

// MaxLineLengthOff disables line length checks.
const MaxLineLengthOff = -1

// Property is a typed, documented configuration key.
type Property[T any] struct {
	Name        string
	Description string
	Default     T
	// StyleDefaults override Default for specific code styles.
	StyleDefaults map[CodeStyle]T
	Parse         func(raw string) (T, error)
}

// Descriptor is the untyped documentation of a property.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     string `json:"default"`
}

// Describe returns the documentation of p.
func (p Property[T]) Describe() Descriptor {
	return Descriptor{Name: p.Name, Description: p.Description, Default: fmt.Sprint(p.Default)}
}

// Get returns the value of p in c, falling back to the code style default and then to p.Default.
func Get[T any](c *EffectiveConfig, p Property[T]) (T, error) {
	if c != nil {
		if raw, ok := c.Raw(p.Name); ok && raw != "unset" {
			v, err := p.Parse(raw)
			if err != nil {
				var zero T
				return zero, &Error{Path: c.Path(), Key: p.Name, Value: raw, Err: err}
			}
			return v, nil
		}
	}
	if v, ok := p.StyleDefaults[c.codeStyleOrDefault()]; ok {
		return v, nil
	}
	return p.Default, nil
}

func (c *EffectiveConfig) codeStyleOrDefault() CodeStyle {
	if c == nil {
		return CodeStyleProperty.Default
	}
	raw, ok := c.Raw(CodeStyleProperty.Name)
	if !ok {
		return CodeStyleProperty.Default
	}
	style, err := parseCodeStyle(raw)
	if err != nil {
		return CodeStyleProperty.Default
	}
	return style
}

var (
	IndentSizeProperty = Property[int]{
		Name:        "indent_size",
		Description: "Number of columns used for each indentation level.",
		Default:     4,
		Parse:       parsePositiveInt,
	}
	IndentStyleProperty = Property[IndentStyle]{
		Name:        "indent_style",
		Description: "Indentation character, 'space' or 'tab'.",
		Default:     IndentStyleSpace,
		Parse:       parseIndentStyle,
	}
	MaxLineLengthProperty = Property[int]{
		Name:        "max_line_length",
		Description: "Maximum line length, or 'off'.",
		Default:     MaxLineLengthOff,
		StyleDefaults: map[CodeStyle]int{
			CodeStyleOfficial:      140,
			CodeStyleAndroidStudio: 100,
		},
		Parse: parseLineLength,
	}
	CodeStyleProperty = Property[CodeStyle]{
		Name:        "code_style",
		Description: "Code style whose defaults apply: official, intellij_idea or android_studio.",
		Default:     CodeStyleOfficial,
		Parse:       parseCodeStyle,
	}
	InsertFinalNewlineProperty = Property[bool]{
		Name:        "insert_final_newline",
		Description: "Whether files end with a line break.",
		Default:     true,
		Parse:       strconv.ParseBool,
	}
)

// StandardProperties documents the properties every file resolves.
func StandardProperties() []Descriptor {
	return []Descriptor{
		IndentSizeProperty.Describe(),
		IndentStyleProperty.Describe(),
		MaxLineLengthProperty.Describe(),
		CodeStyleProperty.Describe(),
		InsertFinalNewlineProperty.Describe(),
	}
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

func parseLineLength(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "off") {
		return MaxLineLengthOff, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return MaxLineLengthOff, nil
	}
	return n, nil
}

func parseIndentStyle(raw string) (IndentStyle, error) {
	switch s := IndentStyle(strings.ToLower(strings.TrimSpace(raw))); s {
	case IndentStyleSpace, IndentStyleTab:
		return s, nil
	default:
		return "", fmt.Errorf("unknown indent style %q", raw)
	}
}

func parseCodeStyle(raw string) (CodeStyle, error) {
	switch s := CodeStyle(strings.ToLower(strings.TrimSpace(raw))); s {
	case CodeStyleOfficial, CodeStyleIntelliJIdea, CodeStyleAndroidStudio:
		return s, nil
	default:
		return "", fmt.Errorf("unknown code style %q", raw)
	}
}
