package treesitter

import (
	"regexp"
	"strings"

	"github.com/cstlint/cstlint/cst"
)

// The grammar only attaches annotations that start the file. Elsewhere
// "@Name(args)" before a declaration comes out as a statement holding the
// bare annotation, a sibling statement holding the arguments, and then the
// declaration. attachAnnotations moves such runs into the modifier list of
// the declaration that follows.

var annotationHead = regexp.MustCompile(`(?s)^@[A-Za-z_][A-Za-z0-9_.:]*(\(.*\))?$`)

type detached struct {
	head  cst.Node
	args  cst.Node
	after []cst.Node
}

func attachAnnotations(tree *cst.Tree) (*cst.Tree, error) {
	found := false
	for n := range tree.Root().Preorder() {
		if n.IsLeaf() {
			continue
		}
		kids := n.Children()
		for i := range kids {
			if _, _, ok := detachedRun(kids, i); ok {
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return tree, nil
	}

	b := cst.NewBuilder(tree.Root().Kind())
	copyChildren(b, tree.Root().Children())
	return b.Finish()
}

func copyNode(b *cst.Builder, n cst.Node) {
	if n.IsLeaf() {
		b.Leaf(n.Kind(), n.Text())
		return
	}
	b.Open(n.Kind())
	copyChildren(b, n.Children())
	b.Close()
}

func copyChildren(b *cst.Builder, kids []cst.Node) {
	for i := 0; i < len(kids); i++ {
		items, decl, ok := detachedRun(kids, i)
		if !ok {
			copyNode(b, kids[i])
			continue
		}
		attach(b, items, kids[decl])
		i = decl
	}
}

// attach emits decl with items prepended to its modifier list.
func attach(b *cst.Builder, items []detached, decl cst.Node) {
	b.Open(decl.Kind())
	b.Open(cst.KindModifierList)
	last := len(items) - 1
	for i, item := range items {
		b.Open(cst.KindAnnotation)
		annotationContent(b, item.head)
		if !item.args.IsNil() {
			b.Open(cst.KindArguments)
			copyChildren(b, item.args.Children())
			b.Close()
		}
		b.Close()
		if i < last {
			copyChildren(b, item.after)
		}
	}

	kids := decl.Children()
	if len(kids) > 0 && kids[0].Kind() == cst.KindModifierList {
		copyChildren(b, items[last].after)
		copyChildren(b, kids[0].Children())
		b.Close()
		copyChildren(b, kids[1:])
	} else {
		b.Close()
		copyChildren(b, items[last].after)
		copyChildren(b, kids)
	}
	b.Close()
}

// annotationContent emits the tokens of head without its statement wrappers.
func annotationContent(b *cst.Builder, head cst.Node) {
	if head.Kind() == cst.KindAnnotation {
		copyChildren(b, head.Children())
		return
	}
	for _, child := range head.Children() {
		switch {
		case child.IsLeaf():
			b.Leaf(child.Kind(), child.Text())
		default:
			annotationContent(b, child)
		}
	}
}

// detachedRun reports whether kids[i] starts a run of detached annotations
// and returns them with the index of the declaration they belong to.
func detachedRun(kids []cst.Node, i int) ([]detached, int, bool) {
	if !isDetachedAnnotation(kids[i]) {
		return nil, 0, false
	}
	var items []detached
	for j := i; j < len(kids); j++ {
		n := kids[j]
		switch {
		case n.Kind().IsDeclaration():
			return items, j, true
		case n.IsTrivia():
			if len(items) == 0 {
				return nil, 0, false
			}
			items[len(items)-1].after = append(items[len(items)-1].after, n)
		case isDetachedAnnotation(n):
			item := detached{head: n}
			if !strings.HasSuffix(n.Text(), ")") && j+1 < len(kids) && isArguments(kids[j+1]) {
				item.args = kids[j+1]
				j++
			}
			items = append(items, item)
		default:
			return nil, 0, false
		}
	}
	return nil, 0, false
}

func isDetachedAnnotation(n cst.Node) bool {
	if n.IsLeaf() || n.Kind().IsDeclaration() || n.Kind() == cst.KindModifierList {
		return false
	}
	if first := n.FirstLeaf(); first.IsNil() || !strings.HasPrefix(first.Text(), "@") {
		return false
	}
	text := n.Text()
	if strings.HasPrefix(text, "@file:") || !annotationHead.MatchString(text) {
		return false
	}
	if i := strings.IndexByte(text, '('); i >= 0 && !balanced(text[i:]) {
		return false
	}
	for d := range n.Preorder() {
		if d.Kind() == cst.KindAnnotation {
			return true
		}
	}
	return false
}

func isArguments(n cst.Node) bool {
	return !n.IsLeaf() && !n.Kind().IsDeclaration() && balanced(n.Text())
}

// balanced reports whether s is one parenthesized group, skipping string
// and character literals.
func balanced(s string) bool {
	if !strings.HasPrefix(s, "(") {
		return false
	}
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}
