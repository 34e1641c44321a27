// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over the concrete syntax tree of a
// JSONC document.
package cursor

import (
	"fmt"

	"github.com/creachadair/jsonc/cst"
)

// Path traverses a sequential path into the structure of n where path elements
// are as documented for the Cursor.Down method.  This is a convenience wrapper
// for creating a cursor, applying path, and retrieving its value.
func Path(n cst.Node, path ...any) (cst.Node, error) {
	c := New(n).Down(path...)
	if err := c.Err(); err != nil {
		return cst.Node{}, err
	}
	return c.Value(), nil
}

// A Cursor is a pointer that navigates into the structure of a cst.Node.
type Cursor struct {
	org cst.Node
	stk []cst.Node
	err error
}

// New constructs a new Cursor to traverse the structure of origin. If origin
// is a Document, traversal begins at its value.
func New(origin cst.Node) *Cursor {
	if origin.Kind() == cst.Document {
		origin = origin.Value()
	}
	return &Cursor{org: origin}
}

// Origin returns the origin node of c.
func (c *Cursor) Origin() cst.Node { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// Value reports the current node under the cursor.
func (c *Cursor) Value() cst.Node {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Path reports the complete sequence of nodes from the origin to the current
// location in c.
func (c *Cursor) Path() []cst.Node {
	return append([]cst.Node{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the structure of c starting from the
// current node, where path elements are either strings (denoting object
// keys), integers (denoting offsets into arrays), functions (see below), or
// nil.  If the path is valid, the element reached is returned. If the path
// cannot be completely consumed, traversal stops and an error is recorded. Use
// Err to recover the error.
//
// If a path element is a string, the corresponding node must be an object,
// and the string resolves an object member with that name. If this is the last
// element of the path, the member is returned; otherwise, subsequent path
// elements continue from the value of that member. Use a nil path element to
// resolve an object member at the end of a path.
//
// If a path element is an integer, the corresponding node must be an array or
// object, and the integer resolves to an index in the array or object.
// Negative indices count backward from the end (-1 is last, -2 second last).
// An error is reported if the index is out of bounds.
//
// If a path element is a function, the function is executed and its result
// becomes the next node in the sequence. The function must have a signature
//
//	func(cst.Node) (cst.Node, error)
//
// If the function reports an error, traversal stops and the error is recorded.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.Value()
	for _, elt := range path {
		if cur.Kind() == cst.Member {
			cur = c.push(cur.Value())
		}

		switch t := elt.(type) {
		case string:
			if cur.Kind() != cst.Object {
				return c.setErrorf("cannot traverse %v with %q", cur.Kind(), elt)
			}
			m := cur.Member(t)
			if !m.IsValid() {
				return c.setErrorf("key %q not found", t)
			}
			cur = c.push(m)

		case int:
			var items []cst.Node
			switch cur.Kind() {
			case cst.Array:
				items = cur.Elements()
			case cst.Object:
				items = cur.Members()
			default:
				return c.setErrorf("cannot traverse %v with %v", cur.Kind(), elt)
			}
			i, ok := fixArrayBound(len(items), t)
			if !ok {
				return c.setErrorf("%v index %d out of bounds (n=%d)", cur.Kind(), i, len(items))
			}
			cur = c.push(items[i])

		case func(cst.Node) (cst.Node, error):
			next, err := t(cur)
			if err != nil {
				c.err = err
				return c
			}
			cur = c.push(next)

		case nil:
			// Do nothing. This case supports indirecting through a member at the
			// end of the path.

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(n cst.Node) cst.Node { c.stk = append(c.stk, n); return n }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
