package cst

import (
	"fmt"

	"github.com/cstlint/cstlint/errors"
)

// InvariantError reports a mutation that would break the tree structure.
type InvariantError struct {
	Op     string
	Kind   Kind
	Offset int
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s%s%s %s at %d: %s", errors.ErrTreeInvariant, errors.ErrSeparator, e.Op, e.Kind, e.Offset, e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return errors.ErrTreeInvariant
}

func invariant(op string, n Node, format string, args ...any) *InvariantError {
	e := &InvariantError{Op: op, Reason: fmt.Sprintf(format, args...), Offset: -1}
	if !n.IsNil() {
		e.Kind = n.data().kind
		e.Offset = n.data().offset
	}
	return e
}

// NewLeaf creates a detached token. Attach it with one of the insertion methods.
func (t *Tree) NewLeaf(kind Kind, text string) Node {
	return t.node(t.alloc(nodeData{kind: kind, text: text, leaf: true}))
}

// NewBranch creates a detached composite owning the given detached children.
func (t *Tree) NewBranch(kind Kind, children ...Node) (Node, error) {
	b := t.node(t.alloc(nodeData{kind: kind}))
	for _, c := range children {
		if err := t.checkDetached("new-branch", c); err != nil {
			return Node{}, err
		}
		t.appendRaw(b.id, c.id)
	}
	return b, nil
}

func (t *Tree) checkDetached(op string, n Node) error {
	switch {
	case n.IsNil():
		return invariant(op, n, "node is nil")
	case n.t != t:
		return invariant(op, n, "node belongs to another tree")
	case n.data().dead:
		return invariant(op, n, "node was removed")
	case n.id == t.root:
		return invariant(op, n, "node is the root")
	case n.data().parent != NoNode:
		return invariant(op, n, "node is already attached")
	}
	return nil
}

func (t *Tree) checkAttached(op string, n Node) error {
	switch {
	case n.IsNil():
		return invariant(op, n, "node is nil")
	case n.t != t:
		return invariant(op, n, "node belongs to another tree")
	case n.data().dead:
		return invariant(op, n, "node was removed")
	case n.id == t.root:
		return invariant(op, n, "root has no siblings")
	case n.data().parent == NoNode:
		return invariant(op, n, "node is detached")
	}
	return nil
}

func (t *Tree) appendRaw(parent, child NodeID) {
	p := &t.nodes[parent]
	c := &t.nodes[child]
	c.parent = parent
	c.prev = p.lastChild
	c.next = NoNode
	if p.lastChild == NoNode {
		p.firstChild = child
	} else {
		t.nodes[p.lastChild].next = child
	}
	p.lastChild = child
}

// placeAt sets the offset of a freshly inserted subtree so that it reads as
// its insertion point until the next reindex.
func (t *Tree) placeAt(id NodeID, offset int) {
	d := &t.nodes[id]
	d.offset = offset
	d.length = 0
	for c := d.firstChild; c != NoNode; c = t.nodes[c].next {
		t.placeAt(c, offset)
	}
}

// InsertBefore attaches n as the previous sibling of anchor.
func (t *Tree) InsertBefore(anchor, n Node) error {
	const op = "insert-before"
	if err := t.checkAttached(op, anchor); err != nil {
		return err
	}
	if err := t.checkDetached(op, n); err != nil {
		return err
	}
	a := anchor.data()
	parent := a.parent
	d := n.data()
	d.parent = parent
	d.prev = a.prev
	d.next = anchor.id
	if a.prev == NoNode {
		t.nodes[parent].firstChild = n.id
	} else {
		t.nodes[a.prev].next = n.id
	}
	a.prev = n.id
	t.placeAt(n.id, a.offset)
	t.mutated()
	return t.validateAncestors(op, parent)
}

// InsertAfter attaches n as the next sibling of anchor.
func (t *Tree) InsertAfter(anchor, n Node) error {
	const op = "insert-after"
	if err := t.checkAttached(op, anchor); err != nil {
		return err
	}
	if err := t.checkDetached(op, n); err != nil {
		return err
	}
	a := anchor.data()
	parent := a.parent
	d := n.data()
	d.parent = parent
	d.prev = anchor.id
	d.next = a.next
	if a.next == NoNode {
		t.nodes[parent].lastChild = n.id
	} else {
		t.nodes[a.next].prev = n.id
	}
	a.next = n.id
	t.placeAt(n.id, a.offset+a.length)
	t.mutated()
	return t.validateAncestors(op, parent)
}

// AppendChild attaches n as the last child of parent.
func (t *Tree) AppendChild(parent, n Node) error {
	const op = "append-child"
	if parent.IsNil() || parent.t != t || !parent.IsAlive() {
		return invariant(op, parent, "parent is not a live node of this tree")
	}
	if parent.IsLeaf() {
		return invariant(op, parent, "leaves have no children")
	}
	if err := t.checkDetached(op, n); err != nil {
		return err
	}
	t.appendRaw(parent.id, n.id)
	p := parent.data()
	t.placeAt(n.id, p.offset+p.length)
	t.mutated()
	return t.validateAncestors(op, parent.id)
}

// Remove detaches n and marks its subtree dead. The removed nodes keep their
// former parent and sibling links.
func (t *Tree) Remove(n Node) error {
	const op = "remove"
	if err := t.checkAttached(op, n); err != nil {
		return err
	}
	d := n.data()
	parent := d.parent
	if d.prev == NoNode {
		t.nodes[parent].firstChild = d.next
	} else {
		t.nodes[d.prev].next = d.next
	}
	if d.next == NoNode {
		t.nodes[parent].lastChild = d.prev
	} else {
		t.nodes[d.next].prev = d.prev
	}
	t.kill(n.id)
	t.mutated()
	return t.validateAncestors(op, parent)
}

func (t *Tree) kill(id NodeID) {
	d := &t.nodes[id]
	d.dead = true
	t.dead++
	for c := d.firstChild; c != NoNode; c = t.nodes[c].next {
		t.kill(c)
	}
}

// Replace puts n in the position of old, which becomes dead.
func (t *Tree) Replace(old, n Node) error {
	const op = "replace"
	if err := t.checkAttached(op, old); err != nil {
		return err
	}
	if err := t.checkDetached(op, n); err != nil {
		return err
	}
	o := old.data()
	parent := o.parent
	d := n.data()
	d.parent, d.prev, d.next = parent, o.prev, o.next
	if o.prev == NoNode {
		t.nodes[parent].firstChild = n.id
	} else {
		t.nodes[o.prev].next = n.id
	}
	if o.next == NoNode {
		t.nodes[parent].lastChild = n.id
	} else {
		t.nodes[o.next].prev = n.id
	}
	t.placeAt(n.id, o.offset)
	t.kill(old.id)
	t.mutated()
	return t.validateAncestors(op, parent)
}

// SetText replaces the text of a leaf. Setting the current text is not a mutation.
func (t *Tree) SetText(leaf Node, text string) error {
	const op = "set-text"
	switch {
	case leaf.IsNil() || leaf.t != t:
		return invariant(op, leaf, "node is not part of this tree")
	case !leaf.IsAlive():
		return invariant(op, leaf, "node was removed")
	case !leaf.IsLeaf():
		return invariant(op, leaf, "only leaves carry text")
	}
	d := leaf.data()
	if d.text == text {
		return nil
	}
	d.text = text
	t.mutated()
	if d.parent == NoNode && leaf.id != t.root {
		return nil
	}
	return t.validateAncestors(op, d.parent)
}

// validateAncestors checks the child links of id and of every ancestor up to the root.
func (t *Tree) validateAncestors(op string, id NodeID) error {
	for p := id; p != NoNode; p = t.nodes[p].parent {
		if err := t.validateChildren(op, p); err != nil {
			return err
		}
		if t.nodes[p].parent == NoNode && p != t.root {
			// Mutating a detached subtree is allowed; it is checked again once attached.
			return nil
		}
	}
	return nil
}

func (t *Tree) validateChildren(op string, id NodeID) error {
	d := &t.nodes[id]
	n := t.node(id)
	if d.dead {
		return invariant(op, n, "ancestor was removed")
	}
	if d.leaf {
		if d.firstChild != NoNode || d.lastChild != NoNode {
			return invariant(op, n, "leaf has children")
		}
		return nil
	}
	prev := NoNode
	steps := 0
	for c := d.firstChild; c != NoNode; c = t.nodes[c].next {
		cd := &t.nodes[c]
		switch {
		case cd.dead:
			return invariant(op, n, "dead child %d still linked", c)
		case cd.parent != id:
			return invariant(op, n, "child %d points to parent %d", c, cd.parent)
		case cd.prev != prev:
			return invariant(op, n, "child %d has broken sibling link", c)
		}
		prev = c
		steps++
		if steps > len(t.nodes) {
			return invariant(op, n, "sibling cycle")
		}
	}
	if d.lastChild != prev {
		return invariant(op, n, "last child link is stale")
	}
	return nil
}

// Validate checks the whole live tree: child links everywhere and, when the
// tree is not dirty, offset contiguity.
func (t *Tree) Validate() error {
	const op = "validate"
	for n := range t.Root().Preorder() {
		if err := t.validateChildren(op, n.id); err != nil {
			return err
		}
		if t.dirty || n.IsLeaf() {
			continue
		}
		d := n.data()
		end := d.offset
		for c := d.firstChild; c != NoNode; c = t.nodes[c].next {
			if t.nodes[c].offset != end {
				return invariant(op, t.node(c), "offset %d leaves a gap after %d", t.nodes[c].offset, end)
			}
			end += t.nodes[c].length
		}
		if d.firstChild != NoNode && end != d.offset+d.length {
			return invariant(op, n, "children span %d bytes, node spans %d", end-d.offset, d.length)
		}
	}
	return nil
}
