// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cst implements a lossless concrete syntax tree for JSONC, and
// operations to edit the tree while preserving the formatting of the text
// that is not changed.
//
// Every byte of the input is recorded in a leaf of the tree, including
// whitespace, line breaks, comments, and punctuation, so that the text of a
// tree is exactly the text it was parsed from:
//
//	t, err := cst.Parse(src, nil)
//	...
//	t.String() == src // always
//
// The nodes of a tree are stored in an arena owned by the *Tree, and a Node
// is a lightweight handle to one of them. A node is attached if it has a
// parent, and unattached if it was newly built (see Tree.Build) or removed
// from the tree. Operations that require a node in one state report an error
// wrapping ErrAttached or ErrUnattached when given a node in the other.
package cst

import (
	"errors"
	"slices"
	"strings"

	"github.com/creachadair/jsonc"
)

// Kind is the kind of a node in a concrete syntax tree.
type Kind byte

// Constants defining the node kinds.
const (
	Invalid  Kind = iota // the zero Node
	Document             // the root of a tree
	Object               // { ... }
	Array                // [ ... ]
	Member               // key: value, inside an Object
	String               // a quoted string (value or key)
	Number               // a number (value or key)
	Bool                 // true or false
	Null                 // null
	Word                 // an unquoted word (value or key)

	Punct      // one of { } [ ] , :
	Whitespace // a run of whitespace other than line breaks
	Newline    // a line break
	Comment    // a line or block comment
)

var kindStr = [...]string{
	Invalid:    "invalid",
	Document:   "document",
	Object:     "object",
	Array:      "array",
	Member:     "member",
	String:     "string",
	Number:     "number",
	Bool:       "bool",
	Null:       "null",
	Word:       "word",
	Punct:      "punct",
	Whitespace: "whitespace",
	Newline:    "newline",
	Comment:    "comment",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[k]
}

// IsValue reports whether k is the kind of a value node.
func (k Kind) IsValue() bool { return k >= Object && k <= Word && k != Member }

// IsTrivia reports whether k is whitespace, a line break, or a comment.
func (k Kind) IsTrivia() bool { return k >= Whitespace }

// IsContainer reports whether k is Object or Array.
func (k Kind) IsContainer() bool { return k == Object || k == Array }

// Errors reported by tree operations. Errors returned by the methods of Tree
// and Node wrap these values, and can be tested with errors.Is.
var (
	ErrAttached   = errors.New("node is attached")
	ErrUnattached = errors.New("node is not attached")
	ErrKind       = errors.New("wrong kind of node")
	ErrForeign    = errors.New("node belongs to a different tree")
	ErrDialect    = errors.New("not permitted by the dialect of the tree")
	ErrRange      = errors.New("index out of range")
)

// noParent is the parent of unattached nodes.
const noParent = -1

type entry struct {
	kind   Kind
	parent int32
	kids   []int32 // for containers
	text   string  // for leaves
}

// A Tree is a concrete syntax tree for a JSONC document.
type Tree struct {
	nodes []entry
	root  int32
	opts  jsonc.Options
}

// Options returns the dialect options of t.
func (t *Tree) Options() jsonc.Options { return t.opts }

// SetOptions changes the dialect options of t. This does not modify the text
// of the tree, but it affects which syntax later edits may introduce.
func (t *Tree) SetOptions(opts *jsonc.Options) { t.opts = *opts.Resolve() }

// Root returns the Document node of t.
func (t *Tree) Root() Node { return Node{t: t, id: t.root} }

// Value returns the root value of t, or the zero Node if the document does
// not contain a value.
func (t *Tree) Value() Node { return t.Root().Value() }

// String returns the complete text of t.
func (t *Tree) String() string { return t.text(t.root) }

func (t *Tree) newNode(kind Kind, text string) int32 {
	id := int32(len(t.nodes))
	t.nodes = append(t.nodes, entry{kind: kind, parent: noParent, text: text})
	return id
}

// appendKid adds c as the last child of p.
func (t *Tree) appendKid(p, c int32) {
	t.nodes[p].kids = append(t.nodes[p].kids, c)
	t.nodes[c].parent = p
}

// insertKids inserts cs as children of p beginning at index i.
func (t *Tree) insertKids(p int32, i int, cs ...int32) {
	t.nodes[p].kids = slices.Insert(t.nodes[p].kids, i, cs...)
	for _, c := range cs {
		t.nodes[c].parent = p
	}
}

// removeKids detaches the children of p in the index range [lo, hi).
func (t *Tree) removeKids(p int32, lo, hi int) {
	kids := t.nodes[p].kids
	for _, c := range kids[lo:hi] {
		t.nodes[c].parent = noParent
	}
	t.nodes[p].kids = slices.Delete(kids, lo, hi)
}

// kidIndex returns the index of c among the children of its parent, or -1.
func (t *Tree) kidIndex(c int32) int {
	p := t.nodes[c].parent
	if p == noParent {
		return -1
	}
	for i, k := range t.nodes[p].kids {
		if k == c {
			return i
		}
	}
	return -1
}

func (t *Tree) kind(id int32) Kind { return t.nodes[id].kind }

func (t *Tree) isPunct(id int32, s string) bool {
	return t.nodes[id].kind == Punct && t.nodes[id].text == s
}

// text returns the complete text of the subtree rooted at id.
func (t *Tree) text(id int32) string {
	e := &t.nodes[id]
	if e.kids == nil {
		return e.text
	}
	var sb strings.Builder
	t.writeText(&sb, id)
	return sb.String()
}

func (t *Tree) writeText(sb *strings.Builder, id int32) {
	e := &t.nodes[id]
	if e.kids == nil {
		sb.WriteString(e.text)
		return
	}
	for _, k := range e.kids {
		t.writeText(sb, k)
	}
}

// length returns the length in bytes of the text of the subtree at id.
func (t *Tree) length(id int32) int {
	e := &t.nodes[id]
	if e.kids == nil {
		return len(e.text)
	}
	var n int
	for _, k := range e.kids {
		n += t.length(k)
	}
	return n
}

// top returns the outermost ancestor of id, which is the document for an
// attached node.
func (t *Tree) top(id int32) int32 {
	for t.nodes[id].parent != noParent {
		id = t.nodes[id].parent
	}
	return id
}

// offset returns the offset of the text of id within the text of its
// outermost ancestor.
func (t *Tree) offset(id int32) int {
	var off int
	for {
		p := t.nodes[id].parent
		if p == noParent {
			return off
		}
		for _, k := range t.nodes[p].kids {
			if k == id {
				break
			}
			off += t.length(k)
		}
		id = p
	}
}

// isAncestor reports whether a is id or one of its ancestors.
func (t *Tree) isAncestor(a, id int32) bool {
	for id != noParent {
		if id == a {
			return true
		}
		id = t.nodes[id].parent
	}
	return false
}
