package standard

// Rule categories of the standard ruleset

const (
	// CategorySpacing represents rules that check horizontal whitespace between tokens
	CategorySpacing = "spacing"

	// CategoryWrapping represents rules that check line breaks and block layout
	CategoryWrapping = "wrapping"

	// CategoryStyle represents rules that check general formatting limits
	CategoryStyle = "style"
)

// RulesetStandard is the name of the ruleset holding every rule of this package.
const RulesetStandard = "standard"

const linkBase = "https://github.com/cstlint/cstlint/blob/main/docs/rules.md#"
