// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"strings"

	"github.com/creachadair/jsonc"
	"github.com/creachadair/jsonc/value"
)

// Parse parses src as a JSONC document under the given options, and returns
// its syntax tree. If opts == nil, [jsonc.Default] options are used. In case
// of error, no tree is returned.
func Parse(src string, opts *jsonc.Options) (*Document, error) {
	opts = opts.Resolve()
	h := &parseHandler{opts: opts, src: src}
	h.doc.span = jsonc.Span{Pos: 0, End: len(src)}
	if err := jsonc.NewStream(src, opts).Parse(h); err != nil {
		return nil, err
	}
	return &h.doc, nil
}

// ParseValue parses src as a JSONC document and returns its decoded value.
// If the document contains no value (it is empty, or contains only whitespace
// and comments), ParseValue returns nil, nil.
func ParseValue(src string, opts *jsonc.Options) (value.Value, error) {
	opts = opts.Resolve()
	doc, err := Parse(src, opts)
	if err != nil {
		return nil, err
	} else if doc.Value == nil {
		return nil, nil
	}
	return Decode(doc.Value, opts)
}

// Decode converts the syntax tree rooted at v into a decoded value. If
// opts.PreserveKeyOrder is false, objects are decoded as *value.Map;
// otherwise they are decoded as value.Object. If opts == nil, [jsonc.Default]
// options are used.
func Decode(v Value, opts *jsonc.Options) (value.Value, error) {
	opts = opts.Resolve()
	switch t := v.(type) {
	case *Object:
		if opts.PreserveKeyOrder {
			out := make(value.Object, len(t.Members))
			for i, m := range t.Members {
				key, mv, err := decodeMember(m, opts)
				if err != nil {
					return nil, err
				}
				out[i] = value.Member{Key: key, Value: mv}
			}
			return out, nil
		}
		out := value.NewMap()
		for _, m := range t.Members {
			key, mv, err := decodeMember(m, opts)
			if err != nil {
				return nil, err
			}
			out.Set(key, mv)
		}
		return out, nil

	case *Array:
		out := make(value.Array, len(t.Values))
		for i, elt := range t.Values {
			ev, err := Decode(elt, opts)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil

	case *String:
		s, err := jsonc.Unquote(t.text, opts.Surrogates)
		if err != nil {
			return nil, shiftError(err, t.span.Pos)
		}
		return value.String(s), nil
	case *Number:
		return value.Number(t.text), nil
	case *Bool:
		return value.Bool(t.value), nil
	case *Null:
		return value.Null{}, nil
	case *Word:
		return value.Word(t.text), nil
	}
	return nil, fmt.Errorf("unknown node type %T", v)
}

func decodeMember(m *Member, opts *jsonc.Options) (string, value.Value, error) {
	var key string
	if s, ok := m.Key.(*String); ok {
		k, err := jsonc.Unquote(s.text, opts.Surrogates)
		if err != nil {
			return "", nil, shiftError(err, s.span.Pos)
		}
		key = k
	} else {
		k, err := m.Name()
		if err != nil {
			return "", nil, err
		}
		key = k
	}
	mv, err := Decode(m.Value, opts)
	return key, mv, err
}

// A parseHandler implements the jsonc.Handler interface to construct
// abstract syntax trees for JSONC values.
//
// Comments are attached as follows:
//
//   - A comment that begins on the line where the most recently completed
//     member or element ended, before its comma, is a trailing comment of
//     that member or element.
//
//   - A comment on that line after the comma is held. If the next member or
//     value begins on the same line as the comment, the comment leads it;
//     otherwise the comment trails the previous member or element.
//
//   - Other comments are held until the next member or value begins, and
//     become its leading comments.
//
//   - Comments still held when an object or array closes are dangling
//     comments of that object or array. Comments held at the end of the input
//     are attached to the document.
type parseHandler struct {
	opts *jsonc.Options
	doc  Document
	stk  []Node // open objects, arrays, and members

	src      string
	pending  []Comment
	held     []heldComment // same-line comments following a comma after prev
	prev     *node         // the most recently completed member or element
	prevLine int           // the line on which prev ended
	prevEnd  int           // the offset at which prev ended
}

type heldComment struct {
	Comment
	line int
}

func (h *parseHandler) top() Node {
	if len(h.stk) == 0 {
		return nil
	}
	return h.stk[len(h.stk)-1]
}

func (h *parseHandler) pop() Node {
	last := h.top()
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

func (h *parseHandler) push(n Node) { h.stk = append(h.stk, n) }

// begin attaches any pending comments to n as leading comments. Held
// comments on the line where n begins also lead n; the rest trail prev.
func (h *parseHandler) begin(n *node, loc jsonc.Anchor) {
	line := loc.Location().First.Line
	var lead []Comment
	for _, hc := range h.held {
		if hc.line == line {
			lead = append(lead, hc.Comment)
		} else {
			h.prev.addComments([]Comment{hc.Comment}, Trailing)
		}
	}
	h.held = nil
	n.addComments(append(lead, h.pending...), Leading)
	h.pending = nil
	h.prev = nil
}

// release attaches held comments to prev as trailing comments.
func (h *parseHandler) release() {
	for _, hc := range h.held {
		h.prev.addComments([]Comment{hc.Comment}, Trailing)
	}
	h.held = nil
}

// complete records vn as the most recently completed member or element.
func (h *parseHandler) complete(vn *node, loc jsonc.Anchor) {
	h.prev, h.prevLine, h.prevEnd = vn, loc.Location().Last.Line, loc.Span().End
}

// reduceValue attaches the completed value v to its parent.
func (h *parseHandler) reduceValue(v Value, vn *node, loc jsonc.Anchor) {
	switch p := h.top().(type) {
	case *Member:
		p.Value = v // the member itself completes at EndMember
		return
	case *Array:
		p.Values = append(p.Values, v)
	case nil:
		h.doc.Value = v
	}
	h.complete(vn, loc)
}

func (h *parseHandler) BeginObject(loc jsonc.Anchor) error {
	o := new(Object)
	o.span.Pos = loc.Span().Pos
	h.begin(&o.node, loc)
	h.push(o)
	return nil
}

func (h *parseHandler) EndObject(loc jsonc.Anchor) error {
	h.release()
	o := h.pop().(*Object)
	o.span.End = loc.Span().End
	o.addComments(h.pending, Dangling)
	h.pending = nil
	h.reduceValue(o, &o.node, loc)
	return nil
}

func (h *parseHandler) BeginArray(loc jsonc.Anchor) error {
	a := new(Array)
	a.span.Pos = loc.Span().Pos
	h.begin(&a.node, loc)
	h.push(a)
	return nil
}

func (h *parseHandler) EndArray(loc jsonc.Anchor) error {
	h.release()
	a := h.pop().(*Array)
	a.span.End = loc.Span().End
	a.addComments(h.pending, Dangling)
	h.pending = nil
	h.reduceValue(a, &a.node, loc)
	return nil
}

func (h *parseHandler) BeginMember(loc jsonc.Anchor) error {
	m := new(Member)
	m.span.Pos = loc.Span().Pos
	h.begin(&m.node, loc)

	d := datum{node: node{span: loc.Span()}, text: loc.Text()}
	switch loc.Token() {
	case jsonc.String:
		m.Key = &String{datum: d, policy: h.opts.Surrogates}
	case jsonc.Number:
		m.Key = &Number{datum: d}
	default:
		m.Key = &Word{datum: d}
	}

	obj := h.top().(*Object)
	obj.Members = append(obj.Members, m)
	h.push(m)
	return nil
}

func (h *parseHandler) EndMember(loc jsonc.Anchor) error {
	m := h.pop().(*Member)
	m.span.End = loc.Span().End
	h.complete(&m.node, loc)
	return nil
}

func (h *parseHandler) Value(loc jsonc.Anchor) error {
	d := datum{node: node{span: loc.Span()}, text: loc.Text()}
	var v Value
	switch loc.Token() {
	case jsonc.String:
		v = &String{datum: d, policy: h.opts.Surrogates}
	case jsonc.Number:
		v = &Number{datum: d}
	case jsonc.True, jsonc.False:
		v = &Bool{datum: d, value: loc.Token() == jsonc.True}
	case jsonc.Null:
		v = &Null{datum: d}
	case jsonc.Word:
		v = &Word{datum: d}
	default:
		return fmt.Errorf("unknown value %v", loc.Token())
	}
	n := nodeOf(v)
	h.begin(n, loc)
	h.reduceValue(v, n, loc)
	return nil
}

func (h *parseHandler) Comment(loc jsonc.Anchor) {
	c := newComment(loc)
	line := loc.Location().First.Line
	if h.prev != nil && line == h.prevLine {
		if len(h.held) != 0 || strings.Contains(h.src[h.prevEnd:c.Span.Pos], ",") {
			h.held = append(h.held, heldComment{Comment: c, line: line})
		} else {
			h.prev.addComments([]Comment{c}, Trailing)
		}
		return
	}
	h.pending = append(h.pending, c)
}

func (h *parseHandler) EndOfInput(loc jsonc.Anchor) {
	h.release()
	h.doc.addComments(h.pending, Dangling)
	h.pending = nil
}

// nodeOf returns the node record of a scalar value.
func nodeOf(v Value) *node {
	switch t := v.(type) {
	case *String:
		return &t.node
	case *Number:
		return &t.node
	case *Bool:
		return &t.node
	case *Null:
		return &t.node
	case *Word:
		return &t.node
	}
	panic(fmt.Sprintf("nodeOf: unexpected %T", v))
}
