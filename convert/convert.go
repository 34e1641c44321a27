// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package convert translates decoded JSONC values to and from other JSON
// representations.
//
// JSONC extensions that have no standard JSON equivalent are normalized on
// the way out: words are rendered as strings, and numbers written with a
// leading "+", hexadecimal digits, or "_" separators are rewritten in
// standard decimal form.
package convert

import (
	"fmt"
	"math"
	"strconv"

	"github.com/creachadair/jsonc"
	"github.com/creachadair/jsonc/value"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/tailscale/hujson"
)

// ToHuJSON converts v into a hujson value with no comments or whitespace.
// Use the Format method of the result to obtain a pretty-printed form.
func ToHuJSON(v value.Value) (hujson.Value, error) {
	tv, err := toTrimmed(v)
	if err != nil {
		return hujson.Value{}, err
	}
	return hujson.Value{Value: tv}, nil
}

func toTrimmed(v value.Value) (hujson.ValueTrimmed, error) {
	switch t := v.(type) {
	case value.Object:
		obj := &hujson.Object{Members: make([]hujson.ObjectMember, 0, len(t))}
		for _, m := range t {
			mv, err := ToHuJSON(m.Value)
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", m.Key, err)
			}
			obj.Members = append(obj.Members, hujson.ObjectMember{
				Name:  hujson.Value{Value: hujson.String(m.Key)},
				Value: mv,
			})
		}
		return obj, nil
	case *value.Map:
		return toTrimmed(t.Object())
	case value.Array:
		arr := &hujson.Array{Elements: make([]hujson.ArrayElement, 0, len(t))}
		for i, e := range t {
			ev, err := ToHuJSON(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			arr.Elements = append(arr.Elements, ev)
		}
		return arr, nil
	case value.String:
		return hujson.String(string(t)), nil
	case value.Word:
		return hujson.String(string(t)), nil
	case value.Number:
		text, err := standardNumber(t)
		if err != nil {
			return nil, err
		}
		return hujson.Literal(text), nil
	case value.Bool:
		return hujson.Bool(bool(t)), nil
	case value.Null:
		return hujson.Literal("null"), nil
	default:
		return nil, fmt.Errorf("unknown value type %T", v)
	}
}

// FromHuJSON converts a hujson value into a decoded value. Object members
// are reported in their original order as a [value.Object], and numbers are
// preserved as their literal text. Comments are discarded.
func FromHuJSON(hv hujson.Value) (value.Value, error) {
	switch t := hv.Value.(type) {
	case hujson.Literal:
		switch t.Kind() {
		case 'n':
			return value.Null{}, nil
		case 't', 'f':
			return value.Bool(t.Bool()), nil
		case '"':
			return value.String(t.String()), nil
		case '0':
			return value.Number(t), nil
		}
		return nil, fmt.Errorf("invalid literal %q", t)
	case *hujson.Object:
		obj := make(value.Object, 0, len(t.Members))
		for _, m := range t.Members {
			name, ok := m.Name.Value.(hujson.Literal)
			if !ok || name.Kind() != '"' {
				return nil, fmt.Errorf("invalid member name %v", m.Name)
			}
			mv, err := FromHuJSON(m.Value)
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", name.String(), err)
			}
			obj = append(obj, value.Member{Key: name.String(), Value: mv})
		}
		return obj, nil
	case *hujson.Array:
		arr := make(value.Array, 0, len(t.Elements))
		for i, e := range t.Elements {
			ev, err := FromHuJSON(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			arr = append(arr, ev)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unknown hujson value type %T", hv.Value)
	}
}

// WriteJSON writes v to enc as standard JSON.
func WriteJSON(enc *jsontext.Encoder, v value.Value) error {
	switch t := v.(type) {
	case value.Object:
		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}
		for _, m := range t {
			if err := enc.WriteToken(jsontext.String(m.Key)); err != nil {
				return err
			}
			if err := WriteJSON(enc, m.Value); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndObject)
	case *value.Map:
		return WriteJSON(enc, t.Object())
	case value.Array:
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}
		for _, e := range t {
			if err := WriteJSON(enc, e); err != nil {
				return err
			}
		}
		return enc.WriteToken(jsontext.EndArray)
	case value.String:
		return enc.WriteToken(jsontext.String(string(t)))
	case value.Word:
		return enc.WriteToken(jsontext.String(string(t)))
	case value.Number:
		text, err := standardNumber(t)
		if err != nil {
			return err
		}
		return enc.WriteValue(jsontext.Value(text))
	case value.Bool:
		return enc.WriteToken(jsontext.Bool(bool(t)))
	case value.Null:
		return enc.WriteToken(jsontext.Null)
	default:
		return fmt.Errorf("unknown value type %T", v)
	}
}

// standardNumber returns the text of n in standard JSON number syntax.
func standardNumber(n value.Number) (string, error) {
	text := string(n)
	if isStandardNumber(text) {
		return text, nil
	}
	if v, err := n.Int64(); err == nil {
		return strconv.FormatInt(v, 10), nil
	}
	if v, err := n.Uint64(); err == nil {
		return strconv.FormatUint(v, 10), nil
	}
	f, err := n.Float64()
	if err != nil {
		return "", err
	} else if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", jsonc.Errorf(jsonc.NumberOutOfRange, jsonc.Span{Pos: 0, End: len(text)},
			"%s has no JSON representation", text)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func isStandardNumber(text string) bool {
	s := jsonc.NewScanner(text, jsonc.Strict())
	return s.Next() == nil && s.Token() == jsonc.Number && s.Offset() == len(text)
}
