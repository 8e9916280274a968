package cst

// Kind tags a node. Parsers map their grammar onto these kinds; rules match on them.
type Kind string

const (
	KindFile  Kind = "file"
	KindError Kind = "error"

	// Trivia.
	KindWhitespace   Kind = "whitespace"
	KindComment      Kind = "comment"
	KindBlockComment Kind = "block-comment"
	KindKDoc         Kind = "kdoc"

	// Tokens.
	KindIdentifier         Kind = "identifier"
	KindKeyword            Kind = "keyword"
	KindLiteral            Kind = "literal"
	KindOperator           Kind = "operator"
	KindRangeOperator      Kind = "range-operator"
	KindRangeUntilOperator Kind = "range-until-operator"
	KindLBrace             Kind = "lbrace"
	KindRBrace             Kind = "rbrace"
	KindLParen             Kind = "lparen"
	KindRParen             Kind = "rparen"
	KindComma              Kind = "comma"
	KindColon              Kind = "colon"
	KindAt                 Kind = "at"
	KindToken              Kind = "token"

	// Composites.
	KindBlock           Kind = "block"
	KindTry             Kind = "try"
	KindCatch           Kind = "catch"
	KindFinally         Kind = "finally"
	KindAnnotation      Kind = "annotation"
	KindModifierList    Kind = "modifier-list"
	KindFunction        Kind = "function"
	KindClass           Kind = "class"
	KindProperty        Kind = "property"
	KindParameterList   Kind = "parameter-list"
	KindArguments       Kind = "arguments"
	KindRangeExpression Kind = "range-expression"
	KindBinary          Kind = "binary-expression"
	KindCall            Kind = "call-expression"
	KindString          Kind = "string"
	KindStatement       Kind = "statement"
)

// IsDeclaration reports whether k opens a declaration that suppression annotations attach to.
func (k Kind) IsDeclaration() bool {
	switch k {
	case KindFunction, KindClass, KindProperty, KindFile:
		return true
	default:
		return false
	}
}

// IsComment reports whether k is any comment flavor.
func (k Kind) IsComment() bool {
	return k == KindComment || k == KindBlockComment || k == KindKDoc
}

// IsTrivia reports whether k carries no semantic content.
func (k Kind) IsTrivia() bool {
	return k == KindWhitespace || k.IsComment()
}
