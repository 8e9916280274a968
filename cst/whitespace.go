package cst

import "strings"

// UpsertWhitespaceBefore makes the whitespace immediately preceding n read
// exactly text. An empty text removes it. Calling it twice with the same
// arguments mutates at most once.
func (t *Tree) UpsertWhitespaceBefore(n Node, text string) error {
	prev := n.PrevLeaf()
	if prev.IsWhitespace() {
		if text == "" {
			return t.Remove(prev)
		}
		return t.SetText(prev, text)
	}
	if text == "" {
		return nil
	}
	return t.InsertBefore(n, t.NewLeaf(KindWhitespace, text))
}

// UpsertWhitespaceAfter makes the whitespace immediately following n read
// exactly text. An empty text removes it.
func (t *Tree) UpsertWhitespaceAfter(n Node, text string) error {
	next := n.NextLeaf()
	if next.IsWhitespace() {
		if text == "" {
			return t.Remove(next)
		}
		return t.SetText(next, text)
	}
	if text == "" {
		return nil
	}
	return t.InsertAfter(n, t.NewLeaf(KindWhitespace, text))
}

// EnsureLineBreakBefore makes n start a new line after exactly newlines line
// breaks followed by indent.
func (t *Tree) EnsureLineBreakBefore(n Node, newlines int, indent string) error {
	newlines = max(newlines, 1)
	return t.UpsertWhitespaceBefore(n, strings.Repeat("\n", newlines)+indent)
}

// IndentOf returns the indentation of the line n starts on, read from the
// whitespace preceding the line's first token.
func IndentOf(n Node) string {
	for l := n.PrevLeaf(); !l.IsNil(); l = l.PrevLeaf() {
		text := l.Text()
		if i := strings.LastIndexByte(text, '\n'); i >= 0 {
			if !l.IsWhitespace() {
				return ""
			}
			return text[i+1:]
		}
	}
	return ""
}
