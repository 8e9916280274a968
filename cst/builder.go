package cst

import "fmt"

// Builder constructs a tree bottom-up in document order.
//
//	b := cst.NewBuilder(cst.KindFile)
//	b.Open(cst.KindRangeExpression)
//	b.Leaf(cst.KindIdentifier, "a")
//	b.Leaf(cst.KindRangeOperator, "..")
//	b.Leaf(cst.KindIdentifier, "b")
//	b.Close()
//	tree, err := b.Finish()
type Builder struct {
	t     *Tree
	stack []NodeID
}

func NewBuilder(rootKind Kind) *Builder {
	t := NewTree(rootKind)
	return &Builder{t: t, stack: []NodeID{t.root}}
}

func (b *Builder) top() NodeID {
	return b.stack[len(b.stack)-1]
}

// Open starts a composite as the last child of the current composite.
func (b *Builder) Open(kind Kind) *Builder {
	id := b.t.alloc(nodeData{kind: kind})
	b.t.appendRaw(b.top(), id)
	b.stack = append(b.stack, id)
	return b
}

// Leaf appends a token to the current composite. Empty tokens are dropped.
func (b *Builder) Leaf(kind Kind, text string) *Builder {
	if text == "" {
		return b
	}
	id := b.t.alloc(nodeData{kind: kind, text: text, leaf: true})
	b.t.appendRaw(b.top(), id)
	return b
}

// Close ends the current composite.
func (b *Builder) Close() *Builder {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
	return b
}

// Depth returns the number of open composites, the root excluded.
func (b *Builder) Depth() int {
	return len(b.stack) - 1
}

// Finish indexes and returns the tree. Every opened composite must be closed.
func (b *Builder) Finish() (*Tree, error) {
	if d := b.Depth(); d != 0 {
		return nil, fmt.Errorf("builder: %d composite(s) left open", d)
	}
	b.t.Reindex()
	if err := b.t.Validate(); err != nil {
		return nil, err
	}
	return b.t, nil
}
