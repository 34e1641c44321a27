// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cst

import (
	"fmt"

	"github.com/creachadair/jsonc"
	"github.com/creachadair/jsonc/value"
)

func errorf(op string, err error, n Node) error {
	return fmt.Errorf("%s: %v node: %w", op, n.Kind(), err)
}

func shiftError(err error, off int) error {
	if e, ok := jsonc.AsError(err); ok {
		return e.Shift(off)
	}
	return err
}

// checkNew reports an error if v cannot be added to t as a new descendant of
// the node dst.
func (t *Tree) checkNew(op string, dst int32, v Node) error {
	switch {
	case v.t == nil:
		return fmt.Errorf("%s: %w", op, ErrKind)
	case v.t != t:
		return fmt.Errorf("%s: %w", op, ErrForeign)
	case !v.Kind().IsValue():
		return errorf(op, ErrKind, v)
	case v.id == t.root || t.nodes[v.id].parent != noParent:
		return errorf(op, ErrAttached, v)
	case t.isAncestor(v.id, dst):
		return fmt.Errorf("%s: node contains its destination: %w", op, ErrAttached)
	}
	return nil
}

// InsertMember inserts a new member with the given key and value v into an
// Object node, so that it becomes member i. The value must be an unattached
// node of the same tree. It returns the new member.
//
// If the object spans multiple lines, the new member is placed on its own
// line with the indentation of the other members. Otherwise the object
// remains on a single line.
func (n Node) InsertMember(i int, key string, v Node) (Node, error) {
	const op = "insert member"
	if n.Kind() != Object {
		return Node{}, errorf(op, ErrKind, n)
	} else if err := n.t.checkNew(op, n.id, v); err != nil {
		return Node{}, err
	} else if i < 0 || i > n.Len() {
		return Node{}, fmt.Errorf("%s: index %d: %w", op, i, ErrRange)
	}
	m := n.t.newMember(key, v.id)
	n.t.insertItem(n.id, i, m)
	return n.wrap(m), nil
}

// AppendMember adds a new member with the given key and value v at the end
// of an Object node. It returns the new member.
func (n Node) AppendMember(key string, v Node) (Node, error) {
	return n.InsertMember(n.Len(), key, v)
}

// InsertElement inserts v into an Array node, so that it becomes element i.
// The value must be an unattached node of the same tree. It returns v.
// Layout follows the same rules as InsertMember.
func (n Node) InsertElement(i int, v Node) (Node, error) {
	const op = "insert element"
	if n.Kind() != Array {
		return Node{}, errorf(op, ErrKind, n)
	} else if err := n.t.checkNew(op, n.id, v); err != nil {
		return Node{}, err
	} else if i < 0 || i > n.Len() {
		return Node{}, fmt.Errorf("%s: index %d: %w", op, i, ErrRange)
	}
	n.t.insertItem(n.id, i, v.id)
	return v, nil
}

// AppendElement adds v at the end of an Array node. It returns v.
func (n Node) AppendElement(v Node) (Node, error) {
	return n.InsertElement(n.Len(), v)
}

// insertItem inserts the unattached item v (a member or value) into the
// container c so that it becomes item i.
func (t *Tree) insertItem(c int32, i int, v int32) {
	st := t.style()
	multi := t.isMultiline(c)
	items := t.items(c)

	switch {
	case len(items) == 0:
		t.insertFirst(c, v, st, multi)

	case i < len(items):
		at := t.kidIndex(items[i])
		if multi && t.startsLine(c, at) {
			// The new item takes the place of items[i], which moves down a
			// line along with the comment lines above it.
			at = t.leadStart(c, at)
			in := t.childIndent(c, st)
			add := append([]int32{v, t.newNode(Punct, ",")}, t.leaves(Newline, st.newline, Whitespace, in)...)
			t.insertKids(c, at, add...)
		} else {
			t.insertKids(c, at, v, t.newNode(Punct, ","), t.newNode(Whitespace, " "))
		}

	default:
		t.insertLast(c, items[len(items)-1], v, st, multi)
	}

	if multi {
		t.trimBlankLines(c)
		if t.kind(v) == Member {
			v = t.memberValue(v)
		}
		t.layout(v, st)
	}
}

// insertFirst adds v to the empty container c.
func (t *Tree) insertFirst(c, v int32, st style, multi bool) {
	kids := t.nodes[c].kids
	if !multi {
		// Discard any space between the brackets: [ ] becomes [v].
		for i := len(kids) - 2; i > 0; i-- {
			if t.kind(kids[i]) == Whitespace {
				t.removeKids(c, i, i+1)
			}
		}
		t.insertKids(c, len(t.nodes[c].kids)-1, v)
		return
	}

	cur := t.lineIndent(c)
	end := len(kids) - 1
	if t.kind(kids[end-1]) == Whitespace {
		t.removeKids(c, end-1, end)
		end--
	}
	var add []int32
	if t.kind(t.nodes[c].kids[end-1]) != Newline {
		add = append(add, t.newNode(Newline, st.newline))
	}
	add = append(add, t.leaves(Whitespace, cur+st.unit)...)
	add = append(add, v)
	if st.commas && t.opts.AllowTrailingCommas {
		add = append(add, t.newNode(Punct, ","))
	}
	add = append(add, t.leaves(Newline, st.newline, Whitespace, cur)...)
	t.insertKids(c, end, add...)
}

// insertLast adds v to the non-empty container c after its last item.
func (t *Tree) insertLast(c, last, v int32, st style, multi bool) {
	li := t.kidIndex(last)
	ci := t.commaAfter(c, li)
	if !multi {
		if ci >= 0 {
			t.insertKids(c, ci+1, t.newNode(Whitespace, " "), v, t.newNode(Punct, ","))
		} else {
			t.insertKids(c, li+1, t.newNode(Punct, ","), t.newNode(Whitespace, " "), v)
		}
		return
	}

	// Find the end of the line on which the last item and its comma end.
	kids := t.nodes[c].kids
	j := li + 1
	if ci >= 0 {
		j = ci + 1
	}
	for j < len(kids)-1 && (t.kind(kids[j]) == Whitespace || t.kind(kids[j]) == Comment) {
		j++
	}
	add := t.leaves(Newline, st.newline, Whitespace, t.childIndent(c, st))
	add = append(add, v)
	if ci >= 0 && t.opts.AllowTrailingCommas {
		add = append(add, t.newNode(Punct, ","))
	}
	t.insertKids(c, j, add...)
	if ci < 0 {
		t.insertKids(c, li+1, t.newNode(Punct, ","))
	}
}

// SetValue replaces the value of n with v, which must be an unattached value
// node of the same tree. If n is a Member, its value is replaced; if n is the
// Document, its root value is replaced or added; otherwise n itself must be an
// attached value and is replaced. The comments and whitespace around the
// replaced value are not changed. The replaced value becomes unattached.
// SetValue returns v.
func (n Node) SetValue(v Node) (Node, error) {
	const op = "set value"
	switch k := n.Kind(); {
	case k == Member:
		return n.Value().SetValue(v)
	case k == Document:
		if old := n.Value(); old.IsValid() {
			return old.SetValue(v)
		}
		if err := n.t.checkNew(op, n.id, v); err != nil {
			return Node{}, err
		}
		n.t.addRoot(v.id)
		return v, nil
	case !k.IsValue():
		return Node{}, errorf(op, ErrKind, n)
	case !n.IsAttached():
		return Node{}, errorf(op, ErrUnattached, n)
	case n.isKey():
		return Node{}, fmt.Errorf("%s: member key: %w", op, ErrKind)
	}
	p := n.t.nodes[n.id].parent
	if err := n.t.checkNew(op, p, v); err != nil {
		return Node{}, err
	}
	st := n.t.style()
	i := n.Index()
	n.t.nodes[p].kids[i] = v.id
	n.t.nodes[v.id].parent = p
	n.t.nodes[n.id].parent = noParent

	ctx := p
	if n.t.kind(p) == Member {
		ctx = n.t.nodes[p].parent
	}
	if ctx != noParent && (n.t.kind(ctx) == Document || n.t.isMultiline(ctx)) {
		n.t.layout(v.id, st)
	}
	return v, nil
}

// isKey reports whether n is the key of a member.
func (n Node) isKey() bool {
	p := n.Parent()
	return p.Kind() == Member && n.t.nodes[p.id].kids[0] == n.id
}

// SetRoot replaces or adds the root value of t. It is shorthand for calling
// SetValue on the Document node.
func (t *Tree) SetRoot(v Node) (Node, error) { return t.Root().SetValue(v) }

// addRoot adds v to a document that has no value.
func (t *Tree) addRoot(v int32) {
	st := t.style()
	d := t.root
	kids := t.nodes[d].kids
	switch {
	case len(kids) == 0:
		t.appendKid(d, v)
	case t.kind(kids[len(kids)-1]) == Newline:
		t.insertKids(d, len(kids), v, t.newNode(Newline, st.newline))
	case t.kind(kids[len(kids)-1]) == Comment:
		t.insertKids(d, len(kids), t.newNode(Newline, st.newline), v)
	default:
		t.appendKid(d, v)
	}
	t.layout(v, st)
}

// Remove detaches n from its tree. The node must be a Member, an element of
// an Array, or the root value of the Document.
//
// The separating comma and whitespace of n are removed with it, along with
// any comments on the same line. If n is not the last item of its container,
// the comma that follows it is removed; otherwise the comma that precedes it
// is removed, so that no dangling comma is left behind. If n occupied lines
// of its own, those lines are removed. A container left with only whitespace
// between its brackets becomes {} or [].
func (n Node) Remove() error {
	const op = "remove"
	if !n.IsValid() {
		return fmt.Errorf("%s: %w", op, ErrKind)
	} else if !n.IsAttached() {
		return errorf(op, ErrUnattached, n)
	}
	if k := n.Kind(); k != Member && !k.IsValue() {
		return errorf(op, ErrKind, n)
	}
	p := n.t.nodes[n.id].parent
	switch n.t.kind(p) {
	case Member:
		return errorf(op, ErrKind, n)
	case Document:
		i := n.Index()
		n.t.removeKids(p, i, i+1)
		return nil
	}
	n.t.removeItem(p, n.Index())
	return nil
}

// removeItem removes the item at index idx among the children of the
// container c, with its associated trivia.
func (t *Tree) removeItem(c int32, idx int) {
	kids := t.nodes[c].kids
	isTrivia := func(i int) bool { k := t.kind(kids[i]); return k == Whitespace || k == Comment }

	// Same-line trivia before the item goes with it, except for a space that
	// separates it from an opening bracket.
	lo := idx
	for lo > 1 && isTrivia(lo-1) {
		lo--
	}
	ownLine := t.kind(kids[lo-1]) == Newline
	afterOpen := lo == 1
	if afterOpen && lo < idx && t.kind(kids[lo]) == Whitespace {
		lo++
	}

	hi := idx + 1
	prevComma := -1
	if ci := t.commaAfter(c, idx); ci >= 0 {
		hi = ci + 1
		k := hi
		for k < len(kids) && isTrivia(k) {
			k++
		}
		if t.kind(kids[k]) == Newline {
			if ownLine {
				hi = k + 1 // the entire line
			} else {
				hi = k
			}
		} else if ownLine || afterOpen {
			// The next item follows on this line; drop the space before it.
			for hi < len(kids) && t.kind(kids[hi]) == Whitespace {
				hi++
			}
		}
	} else {
		k := hi
		for k < len(kids) && isTrivia(k) {
			k++
		}
		if t.kind(kids[k]) == Newline && ownLine {
			hi = k + 1
		} else {
			hi = k // same-line comments before the line break or bracket
		}
		for p := lo - 1; p > 0; p-- {
			if t.isPunct(kids[p], ",") {
				prevComma = p
			} else if t.kind(kids[p]).IsTrivia() {
				continue
			}
			break
		}
	}

	t.removeKids(c, lo, hi)
	if prevComma >= 0 {
		t.removeKids(c, prevComma, prevComma+1)
	}
	t.collapse(c)
}

// collapse removes the contents of c if it has no items and contains only
// whitespace and line breaks.
func (t *Tree) collapse(c int32) {
	kids := t.nodes[c].kids
	for _, k := range kids[1 : len(kids)-1] {
		if kk := t.kind(k); kk != Whitespace && kk != Newline {
			return
		}
	}
	t.removeKids(c, 1, len(kids)-1)
}

// ObjectOrSet returns the value of the member of an Object node with the
// given key, if it is an object. If the member does not exist, a member with
// an empty object is appended; if its value is not an object, the value is
// replaced by an empty object.
func (n Node) ObjectOrSet(key string) (Node, error) {
	return n.containerOrSet(key, Object, value.Object{})
}

// ArrayOrSet is as ObjectOrSet, but for an array value.
func (n Node) ArrayOrSet(key string) (Node, error) {
	return n.containerOrSet(key, Array, value.Array{})
}

func (n Node) containerOrSet(key string, kind Kind, empty value.Value) (Node, error) {
	if n.Kind() != Object {
		return Node{}, errorf("get or set "+kind.String(), ErrKind, n)
	}
	cur := n.Get(key)
	if cur.Kind() == kind {
		return cur, nil
	}
	v, err := n.t.Build(empty)
	if err != nil {
		return Node{}, err
	}
	if cur.IsValid() {
		return cur.SetValue(v)
	}
	m, err := n.AppendMember(key, v)
	if err != nil {
		return Node{}, err
	}
	return m.Value(), nil
}

// ValueOrSet returns the value of the member of an Object node with the
// given key. If there is no such member, one is appended with value v.
func (n Node) ValueOrSet(key string, v value.Value) (Node, error) {
	if n.Kind() != Object {
		return Node{}, errorf("get or set value", ErrKind, n)
	}
	if cur := n.Get(key); cur.IsValid() {
		return cur, nil
	}
	nv, err := n.t.Build(v)
	if err != nil {
		return Node{}, err
	}
	m, err := n.AppendMember(key, nv)
	if err != nil {
		return Node{}, err
	}
	return m.Value(), nil
}

// ElementOrSet returns element i of an Array node. If i equals the length of
// the array, v is appended and returned. Any other index reports an error
// wrapping ErrRange.
func (n Node) ElementOrSet(i int, v value.Value) (Node, error) {
	const op = "get or set element"
	if n.Kind() != Array {
		return Node{}, errorf(op, ErrKind, n)
	}
	switch m := n.Len(); {
	case i >= 0 && i < m:
		return n.Element(i), nil
	case i != m:
		return Node{}, fmt.Errorf("%s: index %d: %w", op, i, ErrRange)
	}
	nv, err := n.t.Build(v)
	if err != nil {
		return Node{}, err
	}
	return n.AppendElement(nv)
}

// ObjectOrSet returns the root value of t if it is an object. Otherwise, it
// sets the root value to an empty object and returns that.
func (t *Tree) ObjectOrSet() (Node, error) { return t.rootOrSet(Object, value.Object{}) }

// ArrayOrSet returns the root value of t if it is an array. Otherwise, it
// sets the root value to an empty array and returns that.
func (t *Tree) ArrayOrSet() (Node, error) { return t.rootOrSet(Array, value.Array{}) }

func (t *Tree) rootOrSet(kind Kind, empty value.Value) (Node, error) {
	if cur := t.Value(); cur.Kind() == kind {
		return cur, nil
	}
	v, err := t.Build(empty)
	if err != nil {
		return Node{}, err
	}
	return t.SetRoot(v)
}
