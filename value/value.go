// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package value defines decoded JSONC values, independent of the syntax
// trees from which they are produced.
//
// The concrete types of [Value] form a closed set: [Object], [*Map], [Array],
// [String], [Number], [Bool], [Null], and [Word]. Code that handles values
// should switch over all of them.
package value

import (
	"iter"

	"github.com/creachadair/jsonc"
	"github.com/creachadair/mds/omap"
)

// Kind identifies the kind of a value. The same kinds are used by the ast and
// cst packages for their value nodes.
type Kind byte

// Constants defining the value kinds.
const (
	Invalid Kind = iota
	ObjectKind
	ArrayKind
	StringKind
	NumberKind
	BoolKind
	NullKind
	WordKind
)

var kindStr = [...]string{
	Invalid:    "invalid",
	ObjectKind: "object",
	ArrayKind:  "array",
	StringKind: "string",
	NumberKind: "number",
	BoolKind:   "bool",
	NullKind:   "null",
	WordKind:   "word",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[k]
}

// IsContainer reports whether k is ObjectKind or ArrayKind.
func (k Kind) IsContainer() bool { return k == ObjectKind || k == ArrayKind }

// KindOf reports the kind of value denoted by a scanner token, or Invalid if
// tok does not denote a value.
func KindOf(tok jsonc.Token) Kind {
	switch tok {
	case jsonc.LBrace:
		return ObjectKind
	case jsonc.LSquare:
		return ArrayKind
	case jsonc.String:
		return StringKind
	case jsonc.Number:
		return NumberKind
	case jsonc.True, jsonc.False:
		return BoolKind
	case jsonc.Null:
		return NullKind
	case jsonc.Word:
		return WordKind
	}
	return Invalid
}

// A Value is a decoded JSONC value.
type Value interface {
	Kind() Kind

	isValue()
}

// An Object is a collection of members in source order. Keys are not
// required to be unique.
type Object []Member

// A Member is a single key-value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Kind satisfies the Value interface.
func (Object) Kind() Kind { return ObjectKind }

// Find returns the value of the last member of o with the given key, and
// reports whether it was found. As in a Map, the last of duplicate keys wins.
func (o Object) Find(key string) (Value, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return nil, false
}

// Get returns the value of the last member of o with the given key, or nil.
func (o Object) Get(key string) Value { v, _ := o.Find(key); return v }

// Keys returns the keys of o in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// A Map is an object whose members are ordered by key rather than by their
// position in the source. If a key occurs more than once, the last value
// wins. The zero value is not ready for use; construct a Map with NewMap.
type Map struct {
	m omap.Map[string, Value]
}

// NewMap constructs a new empty Map.
func NewMap() *Map { return &Map{m: omap.New[string, Value]()} }

// Kind satisfies the Value interface.
func (*Map) Kind() Kind { return ObjectKind }

// Len reports the number of members in m.
func (m *Map) Len() int { return m.m.Len() }

// Set sets the value of key in m to v.
func (m *Map) Set(key string, v Value) { m.m.Set(key, v) }

// Find returns the value of key in m, and reports whether it was present.
func (m *Map) Find(key string) (Value, bool) { return m.m.GetOK(key) }

// Get returns the value of key in m, or nil.
func (m *Map) Get(key string) Value { return m.m.Get(key) }

// Keys returns the keys of m in increasing order.
func (m *Map) Keys() []string { return m.m.Keys() }

// All iterates over the members of m in increasing order of key.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for it := m.m.First(); it.IsValid(); it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Object returns the members of m as an Object ordered by key.
func (m *Map) Object() Object {
	o := make(Object, 0, m.Len())
	for k, v := range m.All() {
		o = append(o, Member{Key: k, Value: v})
	}
	return o
}

// An Array is a sequence of values.
type Array []Value

// Kind satisfies the Value interface.
func (Array) Kind() Kind { return ArrayKind }

// A String is a decoded string value.
type String string

// Kind satisfies the Value interface.
func (String) Kind() Kind { return StringKind }

// A Number is the undecoded text of a numeric value. It is decoded on demand
// by its accessor methods.
type Number string

// Kind satisfies the Value interface.
func (Number) Kind() Kind { return NumberKind }

// Float64 decodes n as a float64.
func (n Number) Float64() (float64, error) { return jsonc.ParseFloat(string(n)) }

// Int64 decodes n as an int64.
func (n Number) Int64() (int64, error) { return jsonc.ParseInt(string(n)) }

// Uint64 decodes n as a uint64.
func (n Number) Uint64() (uint64, error) { return jsonc.ParseUint(string(n)) }

// A Bool is a Boolean constant, true or false.
type Bool bool

// Kind satisfies the Value interface.
func (Bool) Kind() Kind { return BoolKind }

// Null represents the null constant.
type Null struct{}

// Kind satisfies the Value interface.
func (Null) Kind() Kind { return NullKind }

// A Word is an unquoted word used as a value, such as Infinity or undefined.
type Word string

// Kind satisfies the Value interface.
func (Word) Kind() Kind { return WordKind }

func (Object) isValue() {}
func (*Map) isValue()   {}
func (Array) isValue()  {}
func (String) isValue() {}
func (Number) isValue() {}
func (Bool) isValue()   {}
func (Null) isValue()   {}
func (Word) isValue()   {}
