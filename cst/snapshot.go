// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cst

import (
	"fmt"

	"github.com/creachadair/jsonc"
	"github.com/creachadair/jsonc/value"
)

// Snapshot decodes the current root value of t. It returns nil, nil if the
// document has no value.
func (t *Tree) Snapshot() (value.Value, error) { return t.Root().Snapshot() }

// Snapshot decodes the value denoted by n, which may be a value, a Member
// (whose value is decoded), or the Document. Trivia is ignored. Objects are
// decoded as value.Object if the tree preserves key order, otherwise as
// *value.Map. Errors decoding strings have spans relative to the tree text.
func (n Node) Snapshot() (value.Value, error) {
	switch n.Kind() {
	case Document, Member:
		v := n.Value()
		if !v.IsValid() {
			return nil, nil
		}
		return v.Snapshot()
	case Invalid:
		return nil, fmt.Errorf("snapshot: %w", ErrKind)
	}
	return n.t.snapshot(n.id)
}

func (t *Tree) snapshot(id int32) (value.Value, error) {
	e := &t.nodes[id]
	switch e.kind {
	case Object:
		var obj value.Object
		var m *value.Map
		if !t.opts.PreserveKeyOrder {
			m = value.NewMap()
		}
		for _, it := range t.items(id) {
			mn := Node{t: t, id: it}
			key, err := mn.Name()
			if err != nil {
				return nil, err
			}
			mv, err := t.snapshot(t.memberValue(it))
			if err != nil {
				return nil, err
			}
			if m != nil {
				m.Set(key, mv)
			} else {
				obj = append(obj, value.Member{Key: key, Value: mv})
			}
		}
		if m != nil {
			return m, nil
		} else if obj == nil {
			obj = value.Object{}
		}
		return obj, nil

	case Array:
		out := value.Array{}
		for _, it := range t.items(id) {
			ev, err := t.snapshot(it)
			if err != nil {
				return nil, err
			}
			out = append(out, ev)
		}
		return out, nil

	case String:
		s, err := jsonc.Unquote(e.text, t.opts.Surrogates)
		if err != nil {
			return nil, shiftError(err, t.offset(id))
		}
		return value.String(s), nil
	case Number:
		return value.Number(e.text), nil
	case Bool:
		return value.Bool(e.text == "true"), nil
	case Null:
		return value.Null{}, nil
	case Word:
		return value.Word(e.text), nil
	}
	return nil, fmt.Errorf("snapshot: %v node: %w", e.kind, ErrKind)
}
