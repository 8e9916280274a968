// Package cst holds the concrete syntax tree shared by the parser, the rules and the engine.
//
// Nodes live in an arena owned by a Tree and are addressed through lightweight
// Node handles. Removing a node marks its subtree dead; dead nodes keep their
// last parent and sibling links so that a traversal positioned on them can
// resume with the next live node.
package cst

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// NodeID indexes a node in its tree's arena.
type NodeID int32

// NoNode is the absent link.
const NoNode NodeID = -1

type nodeData struct {
	kind Kind
	text string
	leaf bool
	dead bool

	parent     NodeID
	firstChild NodeID
	lastChild  NodeID
	prev       NodeID
	next       NodeID

	offset int
	length int
}

// Tree owns every node of one document.
type Tree struct {
	nodes []nodeData
	root  NodeID

	dirty     bool
	mutations int
	dead      int

	// indexed is the text node offsets refer to, captured by the last Reindex.
	indexed  string
	indexGen int
	lines    *LineIndex
	linesGen int

	text   string
	textAt int
}

// NewTree creates a tree whose root is a branch of the given kind with no children.
func NewTree(rootKind Kind) *Tree {
	t := &Tree{textAt: -1, dirty: true}
	t.root = t.alloc(nodeData{kind: rootKind})
	return t
}

func (t *Tree) alloc(d nodeData) NodeID {
	n, err := safecast.Conv[int32](len(t.nodes))
	if err != nil {
		panic(fmt.Errorf("syntax tree arena overflow: %w", err))
	}
	d.parent, d.firstChild, d.lastChild, d.prev, d.next = NoNode, NoNode, NoNode, NoNode, NoNode
	t.nodes = append(t.nodes, d)
	return NodeID(n)
}

func (t *Tree) node(id NodeID) Node {
	if id == NoNode {
		return Node{}
	}
	return Node{t: t, id: id}
}

// Root returns the root node.
func (t *Tree) Root() Node {
	return t.node(t.root)
}

// Text returns the concatenation of all live leaf texts.
func (t *Tree) Text() string {
	if t.textAt == t.mutations {
		return t.text
	}
	var sb strings.Builder
	t.writeText(&sb, t.root)
	t.text = sb.String()
	t.textAt = t.mutations
	return t.text
}

func (t *Tree) writeText(sb *strings.Builder, id NodeID) {
	d := &t.nodes[id]
	if d.leaf {
		sb.WriteString(d.text)
		return
	}
	for c := d.firstChild; c != NoNode; c = t.nodes[c].next {
		t.writeText(sb, c)
	}
}

// IndexedText returns the text as of the last Reindex. Node offsets refer to it.
func (t *Tree) IndexedText() string {
	t.ensureIndexed()
	return t.indexed
}

// Lines returns a line index over IndexedText.
func (t *Tree) Lines() *LineIndex {
	t.ensureIndexed()
	if t.lines == nil || t.linesGen != t.indexGen {
		t.lines = NewLineIndex(t.indexed)
		t.linesGen = t.indexGen
	}
	return t.lines
}

func (t *Tree) ensureIndexed() {
	if t.indexGen == 0 {
		t.Reindex()
	}
}

// Dirty reports whether offsets are stale because the tree mutated since the last Reindex.
func (t *Tree) Dirty() bool {
	return t.dirty
}

// Mutations returns the number of effective mutations applied to the tree.
func (t *Tree) Mutations() int {
	return t.mutations
}

// Len returns the number of arena slots not marked dead, detached nodes included.
func (t *Tree) Len() int {
	return len(t.nodes) - t.dead
}

// Reindex recomputes offsets and lengths of every live node.
func (t *Tree) Reindex() {
	if !t.dirty {
		return
	}
	t.reindex(t.root, 0)
	t.indexed = t.Text()
	t.indexGen++
	t.dirty = false
}

func (t *Tree) reindex(id NodeID, offset int) int {
	d := &t.nodes[id]
	d.offset = offset
	if d.leaf {
		d.length = len(d.text)
		return offset + d.length
	}
	end := offset
	for c := d.firstChild; c != NoNode; c = t.nodes[c].next {
		end = t.reindex(c, end)
	}
	t.nodes[id].length = end - offset
	return end
}

func (t *Tree) mutated() {
	t.mutations++
	t.dirty = true
}

// Compact drops dead nodes from the arena. Every Node handle obtained before
// the call is invalidated.
func (t *Tree) Compact() {
	if t.dead == 0 {
		return
	}
	fresh := &Tree{textAt: -1, dirty: true}
	fresh.root = fresh.copyFrom(t, t.root, NoNode)
	fresh.mutations = t.mutations
	fresh.Reindex()
	fresh.indexGen += t.indexGen
	*t = *fresh
}

func (t *Tree) copyFrom(src *Tree, id, parent NodeID) NodeID {
	s := src.nodes[id]
	nid := t.alloc(nodeData{kind: s.kind, text: s.text, leaf: s.leaf})
	t.nodes[nid].parent = parent
	prev := NoNode
	for c := s.firstChild; c != NoNode; c = src.nodes[c].next {
		cid := t.copyFrom(src, c, nid)
		t.nodes[cid].prev = prev
		if prev == NoNode {
			t.nodes[nid].firstChild = cid
		} else {
			t.nodes[prev].next = cid
		}
		prev = cid
	}
	t.nodes[nid].lastChild = prev
	return nid
}

// Clone returns a deep copy of the live tree.
func (t *Tree) Clone() *Tree {
	c := &Tree{textAt: -1, dirty: true}
	c.root = c.copyFrom(t, t.root, NoNode)
	c.Reindex()
	return c
}

// Node returns the handle for id, or the zero Node when id is out of range.
func (t *Tree) Node(id NodeID) Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return Node{}
	}
	return Node{t: t, id: id}
}
