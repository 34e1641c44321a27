// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines an abstract syntax tree for JSONC values,
// and a parser that constructs syntax trees from JSONC source.
//
// Each node of the tree records its span in the source and the comments
// attached to it. Scalar nodes retain their undecoded source text and decode
// it on demand; decoding errors are reported as *jsonc.Error values with
// class jsonc.Conversion, and never panic.
package ast

import (
	"github.com/creachadair/jsonc"
	"github.com/creachadair/jsonc/value"
)

// A Node is an element of a syntax tree. The concrete type of a Node is one
// of *Document, *Member, or a Value.
type Node interface {
	// Span reports the span of the node in the source.
	Span() jsonc.Span

	// Comments reports the comments attached to the node.
	Comments() []Comment
}

// A Value is a Node that denotes a JSONC value. The concrete type is one of
// *Object, *Array, *String, *Number, *Bool, *Null, or *Word.
type Value interface {
	Node
	Kind() value.Kind
}

type node struct {
	span jsonc.Span
	com  []Comment
}

// Span satisfies the Node interface.
func (n *node) Span() jsonc.Span { return n.span }

// Comments satisfies the Node interface.
func (n *node) Comments() []Comment { return n.com }

func (n *node) addComments(cs []Comment, pos Position) {
	for _, c := range cs {
		c.Position = pos
		n.com = append(n.com, c)
	}
}

// A Document is the root of a syntax tree. Its Value is nil if the input did
// not contain a value. Comments that follow the value, or all comments if
// there is no value, are attached to the Document.
type Document struct {
	node
	Value Value
}

// An Object is a collection of key-value members.
type Object struct {
	node
	Members []*Member
}

// Kind satisfies the Value interface.
func (*Object) Kind() value.Kind { return value.ObjectKind }

// Find returns the last member of o whose decoded key is key, or nil.
func (o *Object) Find(key string) *Member {
	for i := len(o.Members) - 1; i >= 0; i-- {
		if name, err := o.Members[i].Name(); err == nil && name == key {
			return o.Members[i]
		}
	}
	return nil
}

// A Member is a single key-value pair belonging to an Object. The Key is a
// *String, or a *Word or *Number if the key was not quoted.
type Member struct {
	node
	Key   Value
	Value Value
}

// Name returns the decoded name of the member's key.
func (m *Member) Name() (string, error) {
	switch k := m.Key.(type) {
	case *String:
		return k.Value()
	case *Word:
		return k.Text(), nil
	case *Number:
		return k.Text(), nil
	}
	return "", jsonc.Errorf(jsonc.InvalidString, m.span, "invalid key type %T", m.Key)
}

// An Array is a sequence of values.
type Array struct {
	node
	Values []Value
}

// Kind satisfies the Value interface.
func (*Array) Kind() value.Kind { return value.ArrayKind }

type datum struct {
	node
	text string
}

// Text returns the undecoded source text of the value.
func (d *datum) Text() string { return d.text }

// A String is a string value.
type String struct {
	datum
	policy jsonc.SurrogatePolicy
}

// Kind satisfies the Value interface.
func (*String) Kind() value.Kind { return value.StringKind }

// Value decodes the string. An invalid escape or an unpaired surrogate is
// reported as an error whose span is within the span of s.
func (s *String) Value() (string, error) {
	dec, err := jsonc.Unquote(s.text, s.policy)
	if err != nil {
		return "", shiftError(err, s.span.Pos)
	}
	return dec, nil
}

// A Number is a numeric value.
type Number struct{ datum }

// Kind satisfies the Value interface.
func (*Number) Kind() value.Kind { return value.NumberKind }

// Float64 decodes n as a float64.
func (n *Number) Float64() (float64, error) {
	v, err := jsonc.ParseFloat(n.text)
	return v, shiftError(err, n.span.Pos)
}

// Int64 decodes n as an int64.
func (n *Number) Int64() (int64, error) {
	v, err := jsonc.ParseInt(n.text)
	return v, shiftError(err, n.span.Pos)
}

// Uint64 decodes n as a uint64.
func (n *Number) Uint64() (uint64, error) {
	v, err := jsonc.ParseUint(n.text)
	return v, shiftError(err, n.span.Pos)
}

// A Bool is a Boolean constant, true or false.
type Bool struct {
	datum
	value bool
}

// Kind satisfies the Value interface.
func (*Bool) Kind() value.Kind { return value.BoolKind }

// Value reports the value of b.
func (b *Bool) Value() bool { return b.value }

// Null represents the null constant.
type Null struct{ datum }

// Kind satisfies the Value interface.
func (*Null) Kind() value.Kind { return value.NullKind }

// A Word is an unquoted word value.
type Word struct{ datum }

// Kind satisfies the Value interface.
func (*Word) Kind() value.Kind { return value.WordKind }

func shiftError(err error, off int) error {
	if e, ok := jsonc.AsError(err); ok {
		return e.Shift(off)
	}
	return err
}
