// Package treesitter builds cst trees from the tree-sitter Kotlin grammar.
//
// Tree-sitter nodes cover tokens only, so the gaps between them become
// whitespace leaves. Braced bodies the grammar inlines into their owner
// (try, catch, finally, when) are wrapped in a block node so that every
// braced body is a block.
package treesitter

import (
	"context"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/cstlint/cstlint/cst"
	"github.com/cstlint/cstlint/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"
)

// ErrSyntax reports a parse that did not reproduce the source text.
const ErrSyntax = errors.Error("syntax tree does not cover the source")

// Extensions lists the file extensions the Kotlin grammar parses.
var Extensions = []string{".kt", ".kts"}

// composites maps grammar node types to cst kinds.
var composites = map[string]cst.Kind{
	"function_declaration":      cst.KindFunction,
	"class_declaration":         cst.KindClass,
	"object_declaration":        cst.KindClass,
	"companion_object":          cst.KindClass,
	"property_declaration":      cst.KindProperty,
	"modifiers":                 cst.KindModifierList,
	"annotation":                cst.KindAnnotation,
	"file_annotation":           cst.KindAnnotation,
	"function_value_parameters": cst.KindParameterList,
	"value_arguments":           cst.KindArguments,
	"call_expression":           cst.KindCall,
	"try_expression":            cst.KindTry,
	"catch_block":               cst.KindCatch,
	"finally_block":             cst.KindFinally,
	"range_expression":          cst.KindRangeExpression,
	"additive_expression":       cst.KindBinary,
	"multiplicative_expression": cst.KindBinary,
	"comparison_expression":     cst.KindBinary,
	"equality_expression":       cst.KindBinary,
	"conjunction_expression":    cst.KindBinary,
	"disjunction_expression":    cst.KindBinary,
	"elvis_expression":          cst.KindBinary,
	"infix_expression":          cst.KindBinary,
	"class_body":                cst.KindBlock,
	"enum_class_body":           cst.KindBlock,
	"lambda_literal":            cst.KindBlock,
	"ERROR":                     cst.KindError,
}

// atoms are composites in the grammar that the cst keeps as a single token.
var atoms = map[string]cst.Kind{
	"string_literal":            cst.KindString,
	"line_string_literal":       cst.KindString,
	"multi_line_string_literal": cst.KindString,
	"character_literal":         cst.KindLiteral,
	"boolean_literal":           cst.KindLiteral,
	"long_literal":              cst.KindLiteral,
	"unsigned_literal":          cst.KindLiteral,
	"line_comment":              cst.KindComment,
	"multiline_comment":         cst.KindBlockComment,
}

var punctuation = map[string]cst.Kind{
	"{":   cst.KindLBrace,
	"}":   cst.KindRBrace,
	"(":   cst.KindLParen,
	")":   cst.KindRParen,
	",":   cst.KindComma,
	":":   cst.KindColon,
	"@":   cst.KindAt,
	"..":  cst.KindRangeOperator,
	"..<": cst.KindRangeUntilOperator,
}

// Parse parses Kotlin source into a cst tree. It matches linter.ReparseFunc.
func Parse(src string) (*cst.Tree, error) {
	return ParseContext(context.Background(), src)
}

// ParseContext parses src, stopping when ctx is cancelled.
func ParseContext(ctx context.Context, src string) (*cst.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(kotlin.GetLanguage())

	source := []byte(src)
	tree, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	c := &converter{src: source, b: cst.NewBuilder(cst.KindFile)}
	if err := c.children(tree.RootNode(), cst.KindFile); err != nil {
		return nil, err
	}
	c.gap(len(source))

	out, err := c.b.Finish()
	if err != nil {
		return nil, err
	}
	if out, err = attachAnnotations(out); err != nil {
		return nil, err
	}
	if out.Text() != src {
		return nil, ErrSyntax
	}
	return out, nil
}

// converter walks a tree-sitter tree in document order. pos is the end of
// the text emitted so far.
type converter struct {
	src []byte
	b   *cst.Builder
	pos int
}

func (c *converter) offsets(n *sitter.Node) (int, int, error) {
	start, err := safecast.Conv[int](n.StartByte())
	if err != nil {
		return 0, 0, err
	}
	end, err := safecast.Conv[int](n.EndByte())
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// gap emits the text between pos and end as whitespace and token leaves.
func (c *converter) gap(end int) {
	for c.pos < end {
		i := c.pos
		ws := isSpace(c.src[i])
		for i < end && isSpace(c.src[i]) == ws {
			i++
		}
		kind := cst.KindToken
		if ws {
			kind = cst.KindWhitespace
		}
		c.b.Leaf(kind, string(c.src[c.pos:i]))
		c.pos = i
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

func (c *converter) node(n *sitter.Node) error {
	start, end, err := c.offsets(n)
	if err != nil {
		return err
	}
	if end <= start || start < c.pos {
		// Missing nodes have no text; overlapping ones were already emitted.
		return nil
	}
	c.gap(start)

	typ := n.Type()
	if kind, ok := atoms[typ]; ok || n.ChildCount() == 0 {
		if !ok {
			kind = leafKind(n, typ)
		}
		if kind == cst.KindBlockComment && strings.HasPrefix(string(c.src[start:end]), "/**") && end-start > 4 {
			kind = cst.KindKDoc
		}
		c.b.Leaf(kind, string(c.src[start:end]))
		c.pos = end
		return nil
	}

	kind, ok := composites[typ]
	if typ == "function_body" {
		// Expression bodies belong to the function itself.
		if first := n.Child(0); first != nil && first.Type() == "{" {
			kind, ok = cst.KindBlock, true
		}
	}
	if !ok {
		if typ == "function_body" || flattened(typ) {
			return c.children(n, "")
		}
		kind = cst.KindStatement
	}

	c.b.Open(kind)
	if err := c.children(n, kind); err != nil {
		return err
	}
	c.gap(end)
	c.b.Close()
	return nil
}

// children emits the children of n. Inside owners other than blocks, a
// brace-delimited run of children becomes a block and, in catch clauses,
// the parenthesized parameter becomes a parameter list.
func (c *converter) children(n *sitter.Node, owner cst.Kind) error {
	count, err := safecast.Conv[int](n.ChildCount())
	if err != nil {
		return err
	}
	wrapBraces := owner != "" && owner != cst.KindBlock && owner != cst.KindFile
	depth := 0
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if i+1 < count {
			merged, err := c.rangeUntil(child, n.Child(i+1))
			if err != nil {
				return err
			}
			if merged {
				i++
				continue
			}
		}
		opener := !child.IsNamed() && child.Type() == "{" && wrapBraces
		params := !child.IsNamed() && child.Type() == "(" && owner == cst.KindCatch
		if opener || params {
			if start, _, err := c.offsets(child); err == nil {
				c.gap(start)
			}
			if opener {
				c.b.Open(cst.KindBlock)
			} else {
				c.b.Open(cst.KindParameterList)
			}
			depth++
		}
		if err := c.node(child); err != nil {
			return err
		}
		closer := !child.IsNamed() && ((child.Type() == "}" && wrapBraces) || (child.Type() == ")" && owner == cst.KindCatch))
		if closer && depth > 0 {
			c.b.Close()
			depth--
		}
	}
	for ; depth > 0; depth-- {
		c.b.Close()
	}
	return nil
}

// rangeUntil emits ".." followed by an error node holding only "<" as one
// range-until operator, which the grammar does not know.
func (c *converter) rangeUntil(child, next *sitter.Node) (bool, error) {
	if next == nil || child.IsNamed() || child.Type() != ".." || next.Type() != "ERROR" {
		return false, nil
	}
	start, end, err := c.offsets(child)
	if err != nil {
		return false, err
	}
	nextStart, nextEnd, err := c.offsets(next)
	if err != nil {
		return false, err
	}
	if start < c.pos || nextStart != end || nextEnd != end+1 || c.src[end] != '<' {
		return false, nil
	}
	c.gap(start)
	c.b.Leaf(cst.KindRangeUntilOperator, "..<")
	c.pos = nextEnd
	return true, nil
}

// flattened reports grammar nodes whose children belong to the parent.
func flattened(typ string) bool {
	switch typ {
	case "statements", "source_file", "simple_user_type", "user_type", "navigation_suffix", "call_suffix":
		return true
	}
	return strings.HasSuffix(typ, "_modifier")
}

func leafKind(n *sitter.Node, typ string) cst.Kind {
	if !n.IsNamed() {
		if kind, ok := punctuation[typ]; ok {
			return kind
		}
		if isWord(typ) {
			return cst.KindKeyword
		}
		return cst.KindOperator
	}
	switch {
	case typ == "simple_identifier" || typ == "type_identifier" || typ == "identifier":
		return cst.KindIdentifier
	case strings.HasSuffix(typ, "_literal"):
		return cst.KindLiteral
	default:
		return cst.KindToken
	}
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
