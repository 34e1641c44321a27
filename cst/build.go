// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cst

import (
	"fmt"
	"io"
	"strconv"

	"github.com/creachadair/jsonc"
	"github.com/creachadair/jsonc/value"
)

// Parse parses src as a JSONC document under the given options, and returns
// a concrete syntax tree for it. If opts == nil, [jsonc.Default] options are
// used. The text of the resulting tree is exactly src.
func Parse(src string, opts *jsonc.Options) (*Tree, error) {
	opts = opts.Resolve()
	t := &Tree{opts: *opts}
	t.root = t.newNode(Document, "")
	t.nodes[t.root].kids = []int32{}
	b := &builder{t: t, stk: []int32{t.root}}
	if err := jsonc.NewStream(src, opts).Parse(b); err != nil {
		return nil, err
	}
	return t, nil
}

// A builder implements the jsonc.Handler, jsonc.CommentHandler, and
// jsonc.TriviaHandler interfaces to construct a tree. Every token of the
// input becomes a leaf of the innermost open node.
type builder struct {
	t   *Tree
	stk []int32 // open document, objects, arrays, and members
}

func (b *builder) top() int32 { return b.stk[len(b.stk)-1] }

func (b *builder) push(kind Kind) int32 {
	id := b.t.newNode(kind, "")
	b.t.nodes[id].kids = []int32{}
	b.t.appendKid(b.top(), id)
	b.stk = append(b.stk, id)
	return id
}

func (b *builder) pop() { b.stk = b.stk[:len(b.stk)-1] }

func (b *builder) leaf(kind Kind, loc jsonc.Anchor) {
	b.t.appendKid(b.top(), b.t.newNode(kind, loc.Text()))
}

func (b *builder) BeginObject(loc jsonc.Anchor) error {
	b.push(Object)
	b.leaf(Punct, loc)
	return nil
}

func (b *builder) EndObject(loc jsonc.Anchor) error {
	b.leaf(Punct, loc)
	b.pop()
	return nil
}

func (b *builder) BeginArray(loc jsonc.Anchor) error {
	b.push(Array)
	b.leaf(Punct, loc)
	return nil
}

func (b *builder) EndArray(loc jsonc.Anchor) error {
	b.leaf(Punct, loc)
	b.pop()
	return nil
}

func (b *builder) BeginMember(loc jsonc.Anchor) error {
	b.push(Member)
	switch loc.Token() {
	case jsonc.String:
		b.leaf(String, loc)
	case jsonc.Number:
		b.leaf(Number, loc)
	default:
		b.leaf(Word, loc)
	}
	return nil
}

func (b *builder) EndMember(loc jsonc.Anchor) error { b.pop(); return nil }

func (b *builder) Value(loc jsonc.Anchor) error {
	kind, ok := leafKind(loc.Token())
	if !ok {
		return fmt.Errorf("unknown value %v", loc.Token())
	}
	b.leaf(kind, loc)
	return nil
}

func (b *builder) Comment(loc jsonc.Anchor) { b.leaf(Comment, loc) }

func (b *builder) Trivia(loc jsonc.Anchor) {
	switch loc.Token() {
	case jsonc.Whitespace:
		b.leaf(Whitespace, loc)
	case jsonc.Newline:
		b.leaf(Newline, loc)
	default:
		b.leaf(Punct, loc)
	}
}

func (b *builder) EndOfInput(jsonc.Anchor) {}

func leafKind(tok jsonc.Token) (Kind, bool) {
	switch tok {
	case jsonc.String:
		return String, true
	case jsonc.Number:
		return Number, true
	case jsonc.True, jsonc.False:
		return Bool, true
	case jsonc.Null:
		return Null, true
	case jsonc.Word:
		return Word, true
	}
	return Invalid, false
}

// Build constructs a new unattached node for v, which can then be added to t
// by an insertion or replacement. Objects and arrays are built on a single
// line; when they are added to a multi-line context they are laid out to
// match it. Build reports an error wrapping ErrDialect if v contains a word
// or number that the options of t do not permit.
func (t *Tree) Build(v value.Value) (Node, error) {
	id, err := t.build(v)
	if err != nil {
		return Node{}, err
	}
	return Node{t: t, id: id}, nil
}

func (t *Tree) build(v value.Value) (int32, error) {
	switch v := v.(type) {
	case *value.Map:
		return t.build(v.Object())
	case value.Object:
		o := t.newContainer(Object, "{")
		for i, m := range v {
			mv, err := t.build(m.Value)
			if err != nil {
				return 0, err
			}
			if i > 0 {
				t.appendLeaves(o, Punct, ",", Whitespace, " ")
			}
			t.appendKid(o, t.newMember(m.Key, mv))
		}
		t.appendLeaves(o, Punct, "}")
		return o, nil

	case value.Array:
		a := t.newContainer(Array, "[")
		for i, elt := range v {
			ev, err := t.build(elt)
			if err != nil {
				return 0, err
			}
			if i > 0 {
				t.appendLeaves(a, Punct, ",", Whitespace, " ")
			}
			t.appendKid(a, ev)
		}
		t.appendLeaves(a, Punct, "]")
		return a, nil

	case value.String:
		return t.newNode(String, jsonc.Quote(string(v))), nil
	case value.Number:
		if err := t.checkNumber(string(v)); err != nil {
			return 0, err
		}
		return t.newNode(Number, string(v)), nil
	case value.Bool:
		return t.newNode(Bool, strconv.FormatBool(bool(v))), nil
	case value.Null, nil:
		return t.newNode(Null, "null"), nil
	case value.Word:
		if !t.opts.AllowUnquotedKeys {
			return 0, fmt.Errorf("build word %q: %w", v, ErrDialect)
		} else if err := t.checkWord(string(v)); err != nil {
			return 0, err
		}
		return t.newNode(Word, string(v)), nil
	}
	return 0, fmt.Errorf("build: unknown value type %T", v)
}

func (t *Tree) newContainer(kind Kind, open string) int32 {
	id := t.newNode(kind, "")
	t.nodes[id].kids = []int32{}
	t.appendKid(id, t.newNode(Punct, open))
	return id
}

// newMember constructs an unattached member with the given key and value.
func (t *Tree) newMember(key string, v int32) int32 {
	m := t.newNode(Member, "")
	t.nodes[m].kids = []int32{}
	t.appendKid(m, t.newNode(String, jsonc.Quote(key)))
	t.appendLeaves(m, Punct, ":", Whitespace, " ")
	t.appendKid(m, v)
	return m
}

// appendLeaves adds leaves to p given as alternating kinds and texts.
func (t *Tree) appendLeaves(p int32, args ...any) {
	for i := 0; i+1 < len(args); i += 2 {
		t.appendKid(p, t.newNode(args[i].(Kind), args[i+1].(string)))
	}
}

// checkToken reports whether text scans as a single token of the given type
// under the options of t.
func (t *Tree) checkToken(what, text string, want jsonc.Token) error {
	s := jsonc.NewScanner(text, &t.opts)
	if err := s.Next(); err != nil {
		if jerr, ok := jsonc.AsError(err); ok && jerr.Kind == jsonc.LooseNumberNotAllowed {
			return fmt.Errorf("build %s %q: %w", what, text, ErrDialect)
		}
		return fmt.Errorf("build %s %q: %w", what, text, err)
	}
	if s.Token() != want || s.Next() != io.EOF {
		return fmt.Errorf("build %s: invalid text %q", what, text)
	}
	return nil
}

func (t *Tree) checkNumber(text string) error { return t.checkToken("number", text, jsonc.Number) }
func (t *Tree) checkWord(text string) error   { return t.checkToken("word", text, jsonc.Word) }
