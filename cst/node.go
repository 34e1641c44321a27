// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cst

import (
	"slices"

	"github.com/creachadair/jsonc"
)

// A Node is a handle to a node of a Tree. The zero Node is not valid, and is
// returned by navigation methods when the requested node does not exist.
// Nodes are comparable, and two handles are equal if they refer to the same
// node of the same tree.
type Node struct {
	t  *Tree
	id int32
}

// IsValid reports whether n refers to a node.
func (n Node) IsValid() bool { return n.t != nil }

// Tree returns the tree that owns n, or nil for the zero Node.
func (n Node) Tree() *Tree { return n.t }

// Kind reports the kind of n.
func (n Node) Kind() Kind {
	if n.t == nil {
		return Invalid
	}
	return n.t.kind(n.id)
}

// IsAttached reports whether n is part of its tree, that is, whether the
// document node is n or one of its ancestors. A node within a removed or
// replaced subtree is not attached.
func (n Node) IsAttached() bool {
	return n.t != nil && n.t.top(n.id) == n.t.root
}

// Text returns the complete text of n, including any text of its children.
func (n Node) Text() string {
	if n.t == nil {
		return ""
	}
	return n.t.text(n.id)
}

// String returns the text of n.
func (n Node) String() string { return n.Text() }

// Span returns the span of n within the text of its tree. For an unattached
// node the span is relative to the outermost unattached node containing n.
func (n Node) Span() jsonc.Span {
	if n.t == nil {
		return jsonc.Span{}
	}
	pos := n.t.offset(n.id)
	return jsonc.Span{Pos: pos, End: pos + n.t.length(n.id)}
}

func (n Node) wrap(id int32) Node {
	if id < 0 {
		return Node{}
	}
	return Node{t: n.t, id: id}
}

// Parent returns the parent of n, or the zero Node if n has no parent.
func (n Node) Parent() Node {
	if n.t == nil {
		return Node{}
	}
	return n.wrap(n.t.nodes[n.id].parent)
}

// Children returns the children of n, including trivia and punctuation, in
// the order they occur in the text.
func (n Node) Children() []Node {
	if n.t == nil {
		return nil
	}
	kids := n.t.nodes[n.id].kids
	out := make([]Node, len(kids))
	for i, k := range kids {
		out[i] = n.wrap(k)
	}
	return out
}

// Index reports the position of n among the children of its parent, or -1 if
// n is not attached.
func (n Node) Index() int {
	if n.t == nil {
		return -1
	}
	return n.t.kidIndex(n.id)
}

// Prev returns the sibling immediately before n, or the zero Node.
func (n Node) Prev() Node { return n.sibling(-1) }

// Next returns the sibling immediately after n, or the zero Node.
func (n Node) Next() Node { return n.sibling(1) }

func (n Node) sibling(d int) Node {
	i := n.Index()
	if i < 0 {
		return Node{}
	}
	kids := n.t.nodes[n.t.nodes[n.id].parent].kids
	if j := i + d; j >= 0 && j < len(kids) {
		return n.wrap(kids[j])
	}
	return Node{}
}

// items returns the members of an object, the elements of an array, or the
// value of a document or member.
func (t *Tree) items(id int32) []int32 {
	var out []int32
	for _, k := range t.nodes[id].kids {
		if kk := t.kind(k); kk == Member || kk.IsValue() {
			out = append(out, k)
		}
	}
	return out
}

// Value returns the value of a Document or Member node, or the zero Node if n
// has no value. For a value node, Value returns n itself.
func (n Node) Value() Node {
	switch k := n.Kind(); {
	case k == Document || k == Member:
		items := n.t.items(n.id)
		if len(items) == 0 {
			return Node{}
		}
		// A member's first item is its key.
		return n.wrap(items[len(items)-1])
	case k.IsValue():
		return n
	}
	return Node{}
}

// Key returns the key of a Member node, or the zero Node.
func (n Node) Key() Node {
	if n.Kind() != Member {
		return Node{}
	}
	return n.wrap(n.t.nodes[n.id].kids[0])
}

// Name returns the decoded key of a Member node.
func (n Node) Name() (string, error) {
	key := n.Key()
	switch key.Kind() {
	case String:
		s, err := jsonc.Unquote(key.Text(), n.t.opts.Surrogates)
		if err != nil {
			return "", shiftError(err, key.Span().Pos)
		}
		return s, nil
	case Word, Number:
		return key.Text(), nil
	}
	return "", errorf("name", ErrKind, n)
}

// Members returns the members of an Object node.
func (n Node) Members() []Node {
	if n.Kind() != Object {
		return nil
	}
	return n.wrapAll(n.t.items(n.id))
}

// Elements returns the elements of an Array node.
func (n Node) Elements() []Node {
	if n.Kind() != Array {
		return nil
	}
	return n.wrapAll(n.t.items(n.id))
}

// Len reports the number of members of an Object or elements of an Array, and
// 0 for other nodes.
func (n Node) Len() int {
	if !n.Kind().IsContainer() {
		return 0
	}
	return len(n.t.items(n.id))
}

// Element returns the element at index i of an Array node, or the zero Node
// if i is out of range.
func (n Node) Element(i int) Node {
	elts := n.Elements()
	if i < 0 || i >= len(elts) {
		return Node{}
	}
	return elts[i]
}

// Member returns the last member of an Object node whose decoded key is key,
// or the zero Node if there is none. Members whose keys cannot be decoded are
// skipped.
func (n Node) Member(key string) Node {
	var out Node
	for _, m := range n.Members() {
		if name, err := m.Name(); err == nil && name == key {
			out = m
		}
	}
	return out
}

// Get returns the value of the member of an Object node with the given key,
// or the zero Node if there is none.
func (n Node) Get(key string) Node { return n.Member(key).Value() }

func (n Node) wrapAll(ids []int32) []Node {
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = n.wrap(id)
	}
	return out
}

// LeadingComments returns the comments that precede n in its parent, after
// the previous member, element, or opening bracket.
func (n Node) LeadingComments() []Node {
	i := n.Index()
	if i < 0 {
		return nil
	}
	kids := n.t.nodes[n.t.nodes[n.id].parent].kids
	var out []Node
	for j := i - 1; j >= 0; j-- {
		switch n.t.kind(kids[j]) {
		case Whitespace, Newline:
			continue
		case Comment:
			out = append(out, n.wrap(kids[j]))
			continue
		}
		if n.t.isPunct(kids[j], ",") {
			// A comment on the line of the previous item belongs to it,
			// unless n begins on that line too.
			out = dropSameLine(n.t, kids, j, i, out)
		}
		break
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// dropSameLine removes from cs (in reverse order) any comment that begins on
// the same line as the comma at kids[j], provided a line break separates the
// comma from the item at kids[i].
func dropSameLine(t *Tree, kids []int32, j, i int, cs []Node) []Node {
	if !slices.ContainsFunc(kids[j+1:i], func(k int32) bool { return t.kind(k) == Newline }) {
		return cs
	}
	for k := j + 1; k < len(kids) && len(cs) > 0; k++ {
		switch t.kind(kids[k]) {
		case Newline:
			return cs
		case Comment:
			if cs[len(cs)-1].id == kids[k] {
				cs = cs[:len(cs)-1]
			}
		}
	}
	return cs
}

// TrailingComments returns the comments that follow n on the line where it
// ends, before or after its separating comma. Comments after the comma that
// precede another item on the same line lead that item instead.
func (n Node) TrailingComments() []Node {
	i := n.Index()
	if i < 0 {
		return nil
	}
	kids := n.t.nodes[n.t.nodes[n.id].parent].kids
	var out, held []Node
	comma := false
	for j := i + 1; j < len(kids); j++ {
		switch n.t.kind(kids[j]) {
		case Whitespace:
			continue
		case Comment:
			if comma {
				held = append(held, n.wrap(kids[j]))
			} else {
				out = append(out, n.wrap(kids[j]))
			}
			continue
		case Punct:
			if !comma && n.t.isPunct(kids[j], ",") {
				comma = true
				continue
			}
		case Newline:
		default:
			return out
		}
		break
	}
	return append(out, held...)
}
