package cst

import (
	"fmt"
	"iter"
	"strings"
)

// Node is a handle to a node of a Tree. The zero Node is "no node" and every
// navigation method on it returns the zero Node.
type Node struct {
	t  *Tree
	id NodeID
}

func (n Node) data() *nodeData {
	return &n.t.nodes[n.id]
}

// IsNil reports whether n refers to no node.
func (n Node) IsNil() bool {
	return n.t == nil || n.id == NoNode
}

// ID returns the arena index of n.
func (n Node) ID() NodeID {
	if n.t == nil {
		return NoNode
	}
	return n.id
}

// Tree returns the tree n belongs to.
func (n Node) Tree() *Tree {
	return n.t
}

// Kind returns the kind of n, or the empty kind for the zero Node.
func (n Node) Kind() Kind {
	if n.IsNil() {
		return ""
	}
	return n.data().kind
}

// Is reports whether n is of one of the given kinds.
func (n Node) Is(kinds ...Kind) bool {
	if n.IsNil() {
		return false
	}
	k := n.data().kind
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// IsLeaf reports whether n is a token rather than a composite.
func (n Node) IsLeaf() bool {
	return !n.IsNil() && n.data().leaf
}

// IsAlive reports whether n is still attached to its tree. Removed nodes stay dead.
func (n Node) IsAlive() bool {
	return !n.IsNil() && !n.data().dead
}

// Text returns the source text spanned by n.
func (n Node) Text() string {
	if n.IsNil() {
		return ""
	}
	d := n.data()
	if d.leaf {
		return d.text
	}
	var sb strings.Builder
	n.t.writeText(&sb, n.id)
	return sb.String()
}

// Offset returns the start offset of n as of the last reindex.
func (n Node) Offset() int {
	if n.IsNil() {
		return -1
	}
	n.t.ensureIndexed()
	return n.data().offset
}

// Len returns the length of n as of the last reindex.
func (n Node) Len() int {
	if n.IsNil() {
		return 0
	}
	n.t.ensureIndexed()
	return n.data().length
}

// End returns the offset just past n as of the last reindex.
func (n Node) End() int {
	return n.Offset() + n.Len()
}

func (n Node) Parent() Node      { return n.link(func(d *nodeData) NodeID { return d.parent }) }
func (n Node) FirstChild() Node  { return n.link(func(d *nodeData) NodeID { return d.firstChild }) }
func (n Node) LastChild() Node   { return n.link(func(d *nodeData) NodeID { return d.lastChild }) }
func (n Node) NextSibling() Node { return n.link(func(d *nodeData) NodeID { return d.next }) }
func (n Node) PrevSibling() Node { return n.link(func(d *nodeData) NodeID { return d.prev }) }

func (n Node) link(f func(*nodeData) NodeID) Node {
	if n.IsNil() {
		return Node{}
	}
	return n.t.node(f(n.data()))
}

// Children returns the direct children of n in order.
func (n Node) Children() []Node {
	var out []Node
	for c := n.FirstChild(); !c.IsNil(); c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}

// FindChild returns the first direct child of the given kind.
func (n Node) FindChild(kind Kind) Node {
	for c := n.FirstChild(); !c.IsNil(); c = c.NextSibling() {
		if c.Kind() == kind {
			return c
		}
	}
	return Node{}
}

// Ancestors yields the parent chain of n up to the root.
func (n Node) Ancestors() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for p := n.Parent(); !p.IsNil(); p = p.Parent() {
			if !yield(p) {
				return
			}
		}
	}
}

// NextSiblingFunc returns the first following sibling matching pred.
func (n Node) NextSiblingFunc(pred func(Node) bool) Node {
	for s := n.NextSibling(); !s.IsNil(); s = s.NextSibling() {
		if pred(s) {
			return s
		}
	}
	return Node{}
}

// PrevSiblingFunc returns the first preceding sibling matching pred.
func (n Node) PrevSiblingFunc(pred func(Node) bool) Node {
	for s := n.PrevSibling(); !s.IsNil(); s = s.PrevSibling() {
		if pred(s) {
			return s
		}
	}
	return Node{}
}

// FirstLeaf returns the leftmost leaf of the subtree rooted at n. A branch
// without children is its own first leaf.
func (n Node) FirstLeaf() Node {
	for !n.IsNil() && !n.IsLeaf() {
		c := n.FirstChild()
		if c.IsNil() {
			return n
		}
		n = c
	}
	return n
}

// LastLeaf returns the rightmost leaf of the subtree rooted at n.
func (n Node) LastLeaf() Node {
	for !n.IsNil() && !n.IsLeaf() {
		c := n.LastChild()
		if c.IsNil() {
			return n
		}
		n = c
	}
	return n
}

// NextLeaf returns the leaf following n in document order.
func (n Node) NextLeaf() Node {
	for cur := n; !cur.IsNil(); cur = cur.Parent() {
		if s := cur.NextSibling(); !s.IsNil() {
			return s.FirstLeaf()
		}
	}
	return Node{}
}

// PrevLeaf returns the leaf preceding n in document order.
func (n Node) PrevLeaf() Node {
	for cur := n; !cur.IsNil(); cur = cur.Parent() {
		if s := cur.PrevSibling(); !s.IsNil() {
			return s.LastLeaf()
		}
	}
	return Node{}
}

// NextCodeLeaf returns the next leaf that is neither whitespace nor a comment.
func (n Node) NextCodeLeaf() Node {
	l := n.NextLeaf()
	for !l.IsNil() && (l.IsTrivia() || l.IsPartOfComment()) {
		l = l.NextLeaf()
	}
	return l
}

// PrevCodeLeaf returns the previous leaf that is neither whitespace nor a comment.
func (n Node) PrevCodeLeaf() Node {
	l := n.PrevLeaf()
	for !l.IsNil() && (l.IsTrivia() || l.IsPartOfComment()) {
		l = l.PrevLeaf()
	}
	return l
}

func (n Node) IsWhitespace() bool { return n.Kind() == KindWhitespace }
func (n Node) IsComment() bool    { return n.Kind().IsComment() }
func (n Node) IsTrivia() bool     { return n.Kind().IsTrivia() }

// IsWhitespaceWithNewline reports whether n is whitespace containing a line break.
func (n Node) IsWhitespaceWithNewline() bool {
	return n.IsWhitespace() && strings.Contains(n.data().text, "\n")
}

// IsPartOfComment reports whether n is a comment or lies inside one.
func (n Node) IsPartOfComment() bool {
	if n.IsComment() {
		return true
	}
	for a := range n.Ancestors() {
		if a.IsComment() {
			return true
		}
	}
	return false
}

// LeafAt returns the live leaf covering offset in the indexed text.
func (n Node) LeafAt(offset int) Node {
	cur := n
	for !cur.IsNil() && !cur.IsLeaf() {
		next := Node{}
		for c := cur.FirstChild(); !c.IsNil(); c = c.NextSibling() {
			if offset >= c.Offset() && offset < c.End() {
				next = c
				break
			}
		}
		if next.IsNil() {
			return Node{}
		}
		cur = next
	}
	return cur
}

// Preorder yields n and its live descendants depth first.
func (n Node) Preorder() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if n.IsNil() {
			return
		}
		n.preorder(yield)
	}
}

func (n Node) preorder(yield func(Node) bool) bool {
	if !yield(n) {
		return false
	}
	for c := n.FirstChild(); !c.IsNil(); c = c.NextSibling() {
		if !c.preorder(yield) {
			return false
		}
	}
	return true
}

// Leaves yields the leaves of the subtree rooted at n in document order.
func (n Node) Leaves() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for d := range n.Preorder() {
			if d.IsLeaf() && !yield(d) {
				return
			}
		}
	}
}

func (n Node) String() string {
	if n.IsNil() {
		return "<nil>"
	}
	if n.IsLeaf() {
		return fmt.Sprintf("%s %q", n.Kind(), n.data().text)
	}
	return string(n.Kind())
}
