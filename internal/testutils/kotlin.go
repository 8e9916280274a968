// Package testutils holds helpers shared by the cstlint tests: a small
// Kotlin-like parser producing cst trees and helpers to lint snippets.
package testutils

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cstlint/cstlint/cst"
)

var keywords = map[string]bool{
	"fun": true, "val": true, "var": true, "class": true, "object": true, "interface": true,
	"try": true, "catch": true, "finally": true, "if": true, "else": true, "when": true,
	"for": true, "while": true, "do": true, "return": true, "in": true, "is": true,
	"package": true, "import": true, "throw": true, "null": true, "true": true, "false": true,
}

var modifiers = map[string]bool{
	"private": true, "public": true, "internal": true, "protected": true, "override": true,
	"open": true, "abstract": true, "data": true, "inline": true, "suspend": true, "const": true,
	"lateinit": true, "final": true, "sealed": true, "enum": true,
}

var operators = []string{"===", "!==", "==", "!=", "<=", ">=", "&&", "||", "->", "+=", "-=", "*=", "/=", "?:", "?.", "!!", "++", "--"}

type token struct {
	kind cst.Kind
	text string
}

func (t token) is(kind cst.Kind, text string) bool {
	return t.kind == kind && t.text == text
}

func lex(src string) []token {
	var toks []token
	add := func(kind cst.Kind, text string) { toks = append(toks, token{kind: kind, text: text}) }

	for i := 0; i < len(src); {
		rest := src[i:]
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			j := i
			for j < len(src) && strings.IndexByte(" \t\r\n", src[j]) >= 0 {
				j++
			}
			add(cst.KindWhitespace, src[i:j])
			i = j
		case strings.HasPrefix(rest, "//"):
			j := strings.IndexAny(rest, "\r\n")
			if j < 0 {
				j = len(rest)
			}
			add(cst.KindComment, rest[:j])
			i += j
		case strings.HasPrefix(rest, "/*"):
			kind := cst.KindBlockComment
			if strings.HasPrefix(rest, "/**") && !strings.HasPrefix(rest, "/**/") {
				kind = cst.KindKDoc
			}
			end := len(rest)
			if j := strings.Index(rest[2:], "*/"); j >= 0 {
				end = j + 4
			}
			add(kind, rest[:end])
			i += end
		case c == '"':
			j := 1
			for j < len(rest) && rest[j] != '"' && rest[j] != '\n' {
				if rest[j] == '\\' {
					j++
				}
				j++
			}
			if j < len(rest) && rest[j] == '"' {
				j++
			}
			j = min(j, len(rest))
			add(cst.KindString, rest[:j])
			i += j
		case strings.HasPrefix(rest, "..<"):
			add(cst.KindRangeUntilOperator, "..<")
			i += 3
		case strings.HasPrefix(rest, ".."):
			add(cst.KindRangeOperator, "..")
			i += 2
		case c >= '0' && c <= '9':
			j := 1
			for j < len(rest) {
				d := rest[j]
				if isWordByte(d) || (d == '.' && j+1 < len(rest) && rest[j+1] >= '0' && rest[j+1] <= '9') {
					j++
					continue
				}
				break
			}
			add(cst.KindLiteral, rest[:j])
			i += j
		case c == '{':
			add(cst.KindLBrace, "{")
			i++
		case c == '}':
			add(cst.KindRBrace, "}")
			i++
		case c == '(':
			add(cst.KindLParen, "(")
			i++
		case c == ')':
			add(cst.KindRParen, ")")
			i++
		case c == ',':
			add(cst.KindComma, ",")
			i++
		case c == ':':
			add(cst.KindColon, ":")
			i++
		case c == '@':
			add(cst.KindAt, "@")
			i++
		case strings.IndexByte("=+-*/%<>!&|?.;", c) >= 0:
			op := string(c)
			for _, o := range operators {
				if strings.HasPrefix(rest, o) {
					op = o
					break
				}
			}
			add(cst.KindOperator, op)
			i += len(op)
		default:
			r, size := utf8.DecodeRuneInString(rest)
			if r == '_' || unicode.IsLetter(r) {
				j := size
				for j < len(rest) {
					r2, s2 := utf8.DecodeRuneInString(rest[j:])
					if r2 != '_' && !unicode.IsLetter(r2) && !unicode.IsDigit(r2) {
						break
					}
					j += s2
				}
				word := rest[:j]
				kind := cst.KindIdentifier
				if keywords[word] || modifiers[word] {
					kind = cst.KindKeyword
				}
				add(kind, word)
				i += j
				continue
			}
			add(cst.KindToken, rest[:size])
			i += size
		}
	}
	return toks
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isTrivia(t token) bool {
	return t.kind.IsTrivia()
}

func hasNewline(t token) bool {
	return t.kind == cst.KindWhitespace && strings.ContainsAny(t.text, "\r\n")
}

type parser struct {
	toks []token
	pos  int
	b    *cst.Builder
}

// ParseKotlin parses a small Kotlin subset: declarations with annotations and
// modifiers, blocks, try/catch/finally, calls and range expressions. Anything
// else becomes flat statement tokens, so every input round-trips to the same text.
func ParseKotlin(src string) (*cst.Tree, error) {
	p := &parser{toks: lex(src), b: cst.NewBuilder(cst.KindFile)}
	p.items(false)
	return p.b.Finish()
}

func (p *parser) eof() bool {
	return p.pos >= len(p.toks)
}

func (p *parser) cur() token {
	if p.eof() {
		return token{}
	}
	return p.toks[p.pos]
}

func (p *parser) emit() {
	t := p.toks[p.pos]
	p.b.Leaf(t.kind, t.text)
	p.pos++
}

// nextCode returns the index of the first non-trivia token at or after i.
func (p *parser) nextCode(i int) int {
	for i < len(p.toks) && isTrivia(p.toks[i]) {
		i++
	}
	return i
}

func (p *parser) items(inBlock bool) {
	for !p.eof() {
		t := p.cur()
		switch {
		case isTrivia(t):
			p.emit()
		case t.kind == cst.KindRBrace:
			if inBlock {
				return
			}
			p.b.Open(cst.KindError)
			p.emit()
			p.b.Close()
		case p.declKeyword() >= 0:
			p.declaration(p.declKeyword())
		case t.is(cst.KindKeyword, "try"):
			p.try()
		case t.kind == cst.KindAt:
			p.annotation()
		default:
			p.statement()
		}
	}
}

// declKeyword returns the index of the declaration keyword reached by
// skipping annotations and modifiers, or -1.
func (p *parser) declKeyword() int {
	i := p.pos
	for i < len(p.toks) {
		t := p.toks[i]
		switch {
		case isTrivia(t):
			i++
		case t.kind == cst.KindAt:
			i = p.annotationEnd(i)
		case t.kind == cst.KindKeyword && modifiers[t.text]:
			i++
		case t.kind == cst.KindKeyword && (t.text == "fun" || t.text == "val" || t.text == "var" ||
			t.text == "class" || t.text == "object" || t.text == "interface"):
			return i
		default:
			return -1
		}
	}
	return -1
}

// annotationEnd returns the index just past the annotation starting at i.
func (p *parser) annotationEnd(i int) int {
	i++
	for i < len(p.toks) {
		t := p.toks[i]
		if t.kind == cst.KindIdentifier || t.kind == cst.KindColon || t.is(cst.KindOperator, ".") {
			i++
			continue
		}
		break
	}
	if i < len(p.toks) && p.toks[i].kind == cst.KindLParen {
		i = p.matching(i, cst.KindLParen, cst.KindRParen) + 1
	}
	return min(i, len(p.toks))
}

// matching returns the index of the token closing the one at i, or the last index.
func (p *parser) matching(i int, open, closing cst.Kind) int {
	depth := 0
	for j := i; j < len(p.toks); j++ {
		switch p.toks[j].kind {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return len(p.toks) - 1
}

func (p *parser) declaration(kw int) {
	var kind cst.Kind
	switch p.toks[kw].text {
	case "fun":
		kind = cst.KindFunction
	case "val", "var":
		kind = cst.KindProperty
	default:
		kind = cst.KindClass
	}

	p.b.Open(kind)
	if p.pos < kw {
		last := kw - 1
		for last > p.pos && isTrivia(p.toks[last]) {
			last--
		}
		p.b.Open(cst.KindModifierList)
		for p.pos <= last {
			if p.cur().kind == cst.KindAt {
				p.annotation()
				continue
			}
			p.emit()
		}
		p.b.Close()
		for p.pos < kw {
			p.emit()
		}
	}
	p.emit()

	for !p.eof() {
		t := p.cur()
		if hasNewline(t) {
			// A body may open on the next line.
			next := p.nextCode(p.pos)
			if kind == cst.KindProperty || next >= len(p.toks) || p.toks[next].kind != cst.KindLBrace {
				break
			}
			for p.pos < next {
				p.emit()
			}
			continue
		}
		switch {
		case t.kind == cst.KindRBrace:
			p.b.Close()
			return
		case t.kind == cst.KindLParen:
			p.balanced(cst.KindParameterList)
		case t.kind == cst.KindLBrace:
			p.block()
			p.b.Close()
			return
		case t.is(cst.KindOperator, "=") && kind != cst.KindClass:
			p.emit()
			for !p.eof() && p.cur().kind == cst.KindWhitespace && !hasNewline(p.cur()) {
				p.emit()
			}
			p.expression()
			p.b.Close()
			return
		default:
			p.emit()
		}
	}
	p.b.Close()
}

func (p *parser) annotation() {
	end := p.annotationEnd(p.pos)
	p.b.Open(cst.KindAnnotation)
	for p.pos < end {
		p.emit()
	}
	p.b.Close()
}

// balanced wraps the parenthesized group at the current position in kind.
func (p *parser) balanced(kind cst.Kind) {
	end := p.matching(p.pos, cst.KindLParen, cst.KindRParen)
	p.b.Open(kind)
	p.emit()
	p.emitUntil(end)
	if !p.eof() && p.pos == end && p.cur().kind == cst.KindRParen {
		p.emit()
	}
	p.b.Close()
}

func (p *parser) block() {
	p.b.Open(cst.KindBlock)
	p.emit()
	p.items(true)
	if !p.eof() && p.cur().kind == cst.KindRBrace {
		p.emit()
	}
	p.b.Close()
}

func (p *parser) try() {
	p.b.Open(cst.KindTry)
	p.emit()
	for !p.eof() && isTrivia(p.cur()) {
		p.emit()
	}
	if !p.eof() && p.cur().kind == cst.KindLBrace {
		p.block()
	}
	for {
		next := p.nextCode(p.pos)
		if next >= len(p.toks) {
			break
		}
		var kind cst.Kind
		switch {
		case p.toks[next].is(cst.KindKeyword, "catch"):
			kind = cst.KindCatch
		case p.toks[next].is(cst.KindKeyword, "finally"):
			kind = cst.KindFinally
		default:
			p.b.Close()
			return
		}
		for p.pos < next {
			p.emit()
		}
		p.b.Open(kind)
		p.emit()
		for !p.eof() && isTrivia(p.cur()) {
			p.emit()
		}
		if kind == cst.KindCatch && !p.eof() && p.cur().kind == cst.KindLParen {
			p.balanced(cst.KindParameterList)
			for !p.eof() && isTrivia(p.cur()) {
				p.emit()
			}
		}
		if !p.eof() && p.cur().kind == cst.KindLBrace {
			p.block()
		}
		p.b.Close()
	}
	p.b.Close()
}

func (p *parser) statement() {
	start := p.pos
	p.b.Open(cst.KindStatement)
	p.expression()
	if p.pos == start {
		p.emit()
	}
	p.b.Close()
}

// expressionEnd returns the index ending the expression at the current
// position: a line break, a closing brace or parenthesis outside any group.
func (p *parser) expressionEnd() int {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		t := p.toks[i]
		switch t.kind {
		case cst.KindLParen, cst.KindLBrace:
			depth++
		case cst.KindRParen, cst.KindRBrace:
			if depth == 0 {
				return i
			}
			depth--
		case cst.KindWhitespace:
			if depth == 0 && hasNewline(t) {
				return i
			}
		}
	}
	return len(p.toks)
}

func (p *parser) expression() {
	end := p.expressionEnd()
	codeEnd := end
	for codeEnd > p.pos && isTrivia(p.toks[codeEnd-1]) {
		codeEnd--
	}

	if p.hasTopLevelRange(codeEnd) {
		p.b.Open(cst.KindRangeExpression)
		p.emitUntil(codeEnd)
		p.b.Close()
	}
	p.emitUntil(end)
}

func (p *parser) hasTopLevelRange(end int) bool {
	depth := 0
	for i := p.pos; i < end; i++ {
		switch p.toks[i].kind {
		case cst.KindLParen, cst.KindLBrace:
			depth++
		case cst.KindRParen, cst.KindRBrace:
			depth--
		case cst.KindRangeOperator, cst.KindRangeUntilOperator:
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// emitUntil emits tokens up to end, structuring blocks and call arguments.
func (p *parser) emitUntil(end int) {
	for p.pos < end && !p.eof() {
		t := p.cur()
		switch t.kind {
		case cst.KindLBrace:
			p.block()
		case cst.KindLParen:
			if p.pos > 0 && p.toks[p.pos-1].kind == cst.KindIdentifier {
				p.balanced(cst.KindArguments)
				continue
			}
			p.emit()
		default:
			p.emit()
		}
	}
}
