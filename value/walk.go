// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/jsonc"
)

// A Path is a sequence of object keys (string) and array indices (int)
// locating a value within an enclosing value.
type Path []any

func (p Path) String() string {
	var sb strings.Builder
	sb.WriteString("$")
	for _, elt := range p {
		switch t := elt.(type) {
		case string:
			fmt.Fprintf(&sb, "[%s]", jsonc.Quote(t))
		default:
			fmt.Fprintf(&sb, "[%v]", t)
		}
	}
	return sb.String()
}

// ErrSkip may be returned by the function passed to Walk to skip the
// contents of the current value.
var ErrSkip = errors.New("skip this value")

// Walk visits v and each value it contains in depth-first order, calling f
// with the path of each value from v. If f reports ErrSkip for an object or
// array, its contents are skipped. Any other error from f ends the walk, and
// Walk returns that error.
func Walk(v Value, f func(Path, Value) error) error {
	err := walk(nil, v, f)
	if errors.Is(err, ErrSkip) {
		return nil
	}
	return err
}

func walk(path Path, v Value, f func(Path, Value) error) error {
	if err := f(path, v); err != nil {
		return err
	}
	var err error
	visit := func(elt any, v Value) bool {
		err = walk(append(slices.Clip(path), elt), v, f)
		if errors.Is(err, ErrSkip) {
			err = nil
		}
		return err == nil
	}
	switch t := v.(type) {
	case Object:
		for _, m := range t {
			if !visit(m.Key, m.Value) {
				break
			}
		}
	case *Map:
		for k, mv := range t.All() {
			if !visit(k, mv) {
				break
			}
		}
	case Array:
		for i, elt := range t {
			if !visit(i, elt) {
				break
			}
		}
	}
	return err
}

// Equal reports whether a and b are equivalent values. Objects are equal if
// they have the same members in the same order; a *Map is compared as an
// Object ordered by key. Numbers are equal if they have the same text, or if
// both decode to the same float64.
func Equal(a, b Value) bool {
	if am, ok := a.(*Map); ok {
		a = am.Object()
	}
	if bm, ok := b.(*Map); ok {
		b = bm.Object()
	}
	switch at := a.(type) {
	case Object:
		bt, ok := b.(Object)
		return ok && slices.EqualFunc(at, bt, func(x, y Member) bool {
			return x.Key == y.Key && Equal(x.Value, y.Value)
		})
	case Array:
		bt, ok := b.(Array)
		return ok && slices.EqualFunc(at, bt, Equal)
	case Number:
		bt, ok := b.(Number)
		if !ok {
			return false
		} else if at == bt {
			return true
		}
		x, xerr := at.Float64()
		y, yerr := bt.Float64()
		return xerr == nil && yerr == nil && x == y
	case nil:
		return b == nil
	default:
		return a == b
	}
}

// ToAny converts v into plain Go values: objects become map[string]any,
// arrays []any, strings and words string, numbers float64, Booleans bool, and
// null nil. It reports an error if a number cannot be decoded.
func ToAny(v Value) (any, error) {
	switch t := v.(type) {
	case Object:
		out := make(map[string]any, len(t))
		for _, m := range t {
			mv, err := ToAny(m.Value)
			if err != nil {
				return nil, err
			}
			out[m.Key] = mv
		}
		return out, nil
	case *Map:
		return ToAny(t.Object())
	case Array:
		out := make([]any, len(t))
		for i, elt := range t {
			ev, err := ToAny(elt)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case String:
		return string(t), nil
	case Word:
		return string(t), nil
	case Number:
		return t.Float64()
	case Bool:
		return bool(t), nil
	case Null, nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown value type %T", v)
	}
}

// From converts a plain Go value into a Value. It accepts nil, bool, string,
// integer and floating-point types, json-style Number strings, []any,
// map[string]any (whose keys are sorted), and values that are already a
// Value. It panics for any other type.
func From(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case nil:
		return Null{}
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case int:
		return Number(strconv.Itoa(t))
	case int64:
		return Number(strconv.FormatInt(t, 10))
	case uint64:
		return Number(strconv.FormatUint(t, 10))
	case float64:
		return floatNumber(t)
	case []any:
		out := make(Array, len(t))
		for i, elt := range t {
			out[i] = From(elt)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		out := make(Object, len(keys))
		for i, k := range keys {
			out[i] = Member{Key: k, Value: From(t[k])}
		}
		return out
	}

	// Handle other numeric kinds by reflection.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		return floatNumber(rv.Float())
	}
	panic(fmt.Sprintf("value.From: unsupported type %T", v))
}

func floatNumber(f float64) Value {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		panic(fmt.Sprintf("value.From: %v is not a valid number", f))
	}
	return Number(strconv.FormatFloat(f, 'g', -1, 64))
}

// Format renders v as compact JSONC text. Strings are quoted, numbers and
// words are written as their text, and a *Map is written in key order.
func Format(v Value) string {
	var sb strings.Builder
	format(&sb, v)
	return sb.String()
}

func format(sb *strings.Builder, v Value) {
	switch t := v.(type) {
	case Object:
		sb.WriteByte('{')
		for i, m := range t {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(jsonc.Quote(m.Key))
			sb.WriteByte(':')
			format(sb, m.Value)
		}
		sb.WriteByte('}')
	case *Map:
		format(sb, t.Object())
	case Array:
		sb.WriteByte('[')
		for i, elt := range t {
			if i > 0 {
				sb.WriteByte(',')
			}
			format(sb, elt)
		}
		sb.WriteByte(']')
	case String:
		sb.WriteString(jsonc.Quote(string(t)))
	case Number:
		sb.WriteString(string(t))
	case Word:
		sb.WriteString(string(t))
	case Bool:
		sb.WriteString(strconv.FormatBool(bool(t)))
	case Null, nil:
		sb.WriteString("null")
	}
}
