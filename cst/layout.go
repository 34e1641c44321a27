// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cst

import (
	"fmt"
	"strings"
)

// defaultIndent is the indentation unit used when a tree has no indented
// lines from which to infer one.
const defaultIndent = "  "

// A style records the formatting conventions inferred from a tree, which are
// applied to text introduced by edits.
type style struct {
	newline string // "\n" or "\r\n"
	unit    string // one level of indentation
	commas  bool   // multi-line containers end with a trailing comma
}

// style infers the formatting conventions of t from its current text.
func (t *Tree) style() style {
	st := style{newline: "\n", unit: defaultIndent}
	var haveNL, haveUnit, haveCommas bool
	t.walk(t.root, func(id int32) {
		e := &t.nodes[id]
		if !haveNL && e.kind == Newline {
			st.newline, haveNL = e.text, true
		}
		if !e.kind.IsContainer() || !t.isMultiline(id) || len(t.items(id)) == 0 {
			return
		}
		if !haveCommas {
			st.commas, haveCommas = t.trailingComma(id) >= 0, true
		}
		if !haveUnit {
			if in, ok := t.itemIndent(id); ok {
				cur := t.lineIndent(id)
				if u, ok := strings.CutPrefix(in, cur); ok && u != "" {
					st.unit, haveUnit = u, true
				}
			}
		}
	})
	return st
}

// walk calls f for id and each of its descendants in document order.
func (t *Tree) walk(id int32, f func(int32)) {
	f(id)
	for _, k := range t.nodes[id].kids {
		t.walk(k, f)
	}
}

// isMultiline reports whether the container c has a line break among its
// direct children.
func (t *Tree) isMultiline(c int32) bool {
	for _, k := range t.nodes[c].kids {
		if t.kind(k) == Newline {
			return true
		}
	}
	return false
}

// lineIndent returns the leading whitespace of the line on which id begins.
func (t *Tree) lineIndent(id int32) string {
	text := t.text(t.top(id))
	off := t.offset(id)
	ls := strings.LastIndexByte(text[:off], '\n') + 1
	end := ls
	for end < off && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return text[ls:end]
}

// startsLine reports whether the child of c at index i is the first thing on
// its line, apart from indentation.
func (t *Tree) startsLine(c int32, i int) bool {
	kids := t.nodes[c].kids
	for j := i - 1; j >= 0; j-- {
		switch t.kind(kids[j]) {
		case Whitespace:
			continue
		case Newline:
			return true
		}
		return false
	}
	return false
}

// leadStart returns the index among the children of c of the first comment
// on the lines directly above the child at index i, where those lines hold
// nothing but comments. If there are none, it returns i.
func (t *Tree) leadStart(c int32, i int) int {
	kids := t.nodes[c].kids
	start := i
	for {
		j := start - 1
		for j >= 0 && t.kind(kids[j]) == Whitespace {
			j--
		}
		if j < 0 || t.kind(kids[j]) != Newline {
			return start
		}
		first, k := -1, j-1
		for ; k >= 0; k-- {
			if kk := t.kind(kids[k]); kk == Comment {
				first = k
			} else if kk != Whitespace {
				break
			}
		}
		if first < 0 || k < 0 || t.kind(kids[k]) != Newline {
			return start
		}
		start = first
	}
}

// itemIndent returns the indentation of the first item of c that begins its
// own line, and reports whether there was one.
func (t *Tree) itemIndent(c int32) (string, bool) {
	kids := t.nodes[c].kids
	for i, k := range kids {
		if kk := t.kind(k); (kk == Member || kk.IsValue()) && t.startsLine(c, i) {
			if t.kind(kids[i-1]) == Whitespace {
				return t.nodes[kids[i-1]].text, true
			}
			return "", true
		}
	}
	return "", false
}

// childIndent returns the indentation for a new item of c that begins its
// own line: that of the existing items, or one unit more than c.
func (t *Tree) childIndent(c int32, st style) string {
	if in, ok := t.itemIndent(c); ok {
		return in
	}
	return t.lineIndent(c) + st.unit
}

// trailingComma returns the index among the children of c of the comma that
// follows the last item of c, or -1 if there is none.
func (t *Tree) trailingComma(c int32) int {
	items := t.items(c)
	if len(items) == 0 {
		return -1
	}
	return t.commaAfter(c, t.kidIndex(items[len(items)-1]))
}

// commaAfter returns the index of the comma following the child of c at
// index i, skipping trivia, or -1 if the next non-trivia child is not a comma.
func (t *Tree) commaAfter(c int32, i int) int {
	kids := t.nodes[c].kids
	for j := i + 1; j < len(kids); j++ {
		if t.kind(kids[j]).IsTrivia() {
			continue
		} else if t.isPunct(kids[j], ",") {
			return j
		}
		break
	}
	return -1
}

// leaves constructs unattached leaves given as alternating kinds and texts,
// omitting any whose text is empty.
func (t *Tree) leaves(args ...any) []int32 {
	var out []int32
	for i := 0; i+1 < len(args); i += 2 {
		if s := args[i+1].(string); s != "" {
			out = append(out, t.newNode(args[i].(Kind), s))
		}
	}
	return out
}

// forceMultiline reports whether a container being added to a multi-line
// context should itself be laid out on multiple lines: a non-empty object, or
// an array containing a non-empty object or array.
func (t *Tree) forceMultiline(c int32) bool {
	switch t.kind(c) {
	case Object:
		return len(t.items(c)) > 0
	case Array:
		for _, e := range t.items(c) {
			if t.kind(e).IsContainer() && len(t.items(e)) > 0 {
				return true
			}
		}
	}
	return false
}

// layout arranges the newly-added value v for a multi-line context.
func (t *Tree) layout(v int32, st style) {
	if !t.kind(v).IsContainer() || !t.forceMultiline(v) {
		return
	}
	t.ensureMultiline(v, st)
	for _, it := range t.items(v) {
		if t.kind(it) == Member {
			it = t.memberValue(it)
		}
		t.layout(it, st)
	}
}

func (t *Tree) memberValue(m int32) int32 {
	kids := t.nodes[m].kids
	return kids[len(kids)-1]
}

// EnsureMultiline rewrites an Object or Array node that is on a single line
// so that each of its members or elements begins its own line, and its
// closing bracket is on a line by itself. Only the whitespace and line breaks
// of n itself are changed; the text of its members or elements is not.
// If n already spans multiple lines, EnsureMultiline does nothing.
func (n Node) EnsureMultiline() error {
	if !n.Kind().IsContainer() {
		return errorf("ensure multiline", ErrKind, n)
	}
	if !n.t.isMultiline(n.id) {
		n.t.ensureMultiline(n.id, n.t.style())
	}
	return nil
}

func (t *Tree) ensureMultiline(c int32, st style) {
	cur := t.lineIndent(c)
	child := cur + st.unit
	kids := t.nodes[c].kids
	last := len(kids) - 1

	out := []int32{kids[0]}
	lineStart := true
	for _, k := range kids[1:last] {
		switch {
		case t.kind(k) == Whitespace:
			if lineStart {
				t.nodes[k].parent = noParent
				continue
			}
		case t.isPunct(k, ","):
			out = append(out, k)
			lineStart = true
			continue
		default:
			if lineStart {
				out = append(out, t.leaves(Newline, st.newline, Whitespace, child)...)
				lineStart = false
			}
		}
		out = append(out, k)
	}
	// Whitespace before the closing bracket is not retained.
	for len(out) > 1 && t.kind(out[len(out)-1]) == Whitespace {
		t.nodes[out[len(out)-1]].parent = noParent
		out = out[:len(out)-1]
	}
	out = append(out, t.leaves(Newline, st.newline, Whitespace, cur)...)
	out = append(out, kids[last])
	for _, k := range out {
		t.nodes[k].parent = c
	}
	t.nodes[c].kids = out

	if st.commas && t.opts.AllowTrailingCommas {
		if items := t.items(c); len(items) > 0 && t.trailingComma(c) < 0 {
			t.insertKids(c, t.kidIndex(items[len(items)-1])+1, t.newNode(Punct, ","))
		}
	}
}

// trimBlankLines removes blank lines at the beginning and end of the
// multi-line container c.
func (t *Tree) trimBlankLines(c int32) {
	kids := t.nodes[c].kids
	var nl []int
	for i := 1; i < len(kids)-1 && t.kind(kids[i]) <= Newline && t.kind(kids[i]) >= Whitespace; i++ {
		if t.kind(kids[i]) == Newline {
			nl = append(nl, i)
		}
	}
	if len(nl) > 1 {
		t.removeKids(c, 1, nl[len(nl)-1])
	}

	kids = t.nodes[c].kids
	nl = nl[:0]
	for i := len(kids) - 2; i > 0 && t.kind(kids[i]) <= Newline && t.kind(kids[i]) >= Whitespace; i-- {
		if t.kind(kids[i]) == Newline {
			nl = append(nl, i)
		}
	}
	if len(nl) > 1 {
		// nl is in decreasing order; keep the first line break of the run.
		t.removeKids(c, nl[len(nl)-1]+1, nl[0]+1)
	}
}

// TrailingCommas selects where SetTrailingCommas places trailing commas.
type TrailingCommas byte

const (
	// TrailingCommasNever removes all trailing commas.
	TrailingCommasNever TrailingCommas = iota

	// TrailingCommasMultiline adds a trailing comma after the last member or
	// element of each multi-line object or array, and removes trailing commas
	// from single-line objects and arrays.
	TrailingCommasMultiline
)

// SetTrailingCommas adds or removes trailing commas throughout t according
// to mode. It reports an error wrapping ErrDialect if mode would introduce
// trailing commas and the options of t do not allow them.
func (t *Tree) SetTrailingCommas(mode TrailingCommas) error {
	if mode == TrailingCommasMultiline && !t.opts.AllowTrailingCommas {
		return fmt.Errorf("set trailing commas: %w", ErrDialect)
	}
	t.walk(t.root, func(id int32) {
		if !t.kind(id).IsContainer() {
			return
		}
		items := t.items(id)
		if len(items) == 0 {
			return
		}
		want := mode == TrailingCommasMultiline && t.isMultiline(id)
		if ci := t.trailingComma(id); ci >= 0 && !want {
			t.removeKids(id, ci, ci+1)
		} else if ci < 0 && want {
			t.insertKids(id, t.kidIndex(items[len(items)-1])+1, t.newNode(Punct, ","))
		}
	})
	return nil
}
