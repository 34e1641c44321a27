// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package query implements structural queries over decoded JSONC values.
//
// A query describes a substructure of a value, such as an object member, an
// array element, or a path through nested values. Evaluating a query against
// a concrete value traverses the structure described by the query and
// returns the resulting value.
//
// The simplest query is for a "path", a sequence of object keys and/or array
// indices that describes a path from the root of a value. For example, given
// the value:
//
//	[{"a": 1, "b": 2}, {"c": {"d": true}, "e": false}]
//
// the query
//
//	query.Path(1, "c", "d")
//
// yields the value true.
//
// Queries treat a [value.Object] and a [*value.Map] alike. Objects
// constructed by queries are reported as [value.Object].
package query

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/creachadair/jsonc/value"
)

// Eval evaluates the given query beginning from root, returning the resulting
// value or an error.
func Eval(root value.Value, q Query) (value.Value, error) {
	return q.eval(root)
}

// A Query describes a traversal of a value.
type Query interface {
	eval(value.Value) (value.Value, error)
}

// Path traverses a sequence of nested object keys or array indices from the
// root. If no keys are specified, the root is returned. Each key must be a
// string, an int, or a Query.
func Path(keys ...any) Query {
	if len(keys) == 1 {
		return pathElem(keys[0])
	}
	pq := make(Seq, 0, len(keys))
	for _, key := range keys {
		q := pathElem(key)
		if sq, ok := q.(Seq); ok {
			pq = append(pq, sq...)
		} else {
			pq = append(pq, q)
		}
	}
	return pq
}

func pathElem(key any) Query {
	switch t := key.(type) {
	case string:
		return objKey(t)
	case int:
		return nthQuery(t)
	case Query:
		return t
	default:
		panic("invalid path element")
	}
}

// asObject returns the members of v if it is an object.
func asObject(v value.Value) (value.Object, bool) {
	switch t := v.(type) {
	case value.Object:
		return t, true
	case *value.Map:
		return t.Object(), true
	}
	return nil, false
}

type objKey string

func (o objKey) eval(v value.Value) (value.Value, error) {
	var mem value.Value
	var ok bool
	switch t := v.(type) {
	case value.Object:
		mem, ok = t.Find(string(o))
	case *value.Map:
		mem, ok = t.Find(string(o))
	default:
		return nil, fmt.Errorf("got %v, want object", kindOf(v))
	}
	if !ok {
		return nil, fmt.Errorf("key %q not found", o)
	}
	return mem, nil
}

type nthQuery int

func (nq nthQuery) eval(v value.Value) (value.Value, error) {
	arr, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %v, want array", kindOf(v))
	}
	idx := int(nq)
	if idx < 0 {
		idx += len(arr)
	}
	if idx < 0 || idx >= len(arr) {
		return nil, fmt.Errorf("index %d out of range (0..%d)", nq, len(arr))
	}
	return arr[idx], nil
}

// Selection constructs an array of the elements of its input array, for which
// the specified function returns true.
type Selection func(value.Value) bool

func (q Selection) eval(v value.Value) (value.Value, error) {
	a, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %v, want array", kindOf(v))
	}
	out := value.Array{}
	for _, elt := range a {
		if q(elt) {
			out = append(out, elt)
		}
	}
	return out, nil
}

// Mapping constructs an array in which each value is replaced by the result of
// calling the specified function on the corresponding input value.
type Mapping func(value.Value) value.Value

func (q Mapping) eval(v value.Value) (value.Value, error) {
	a, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %v, want array", kindOf(v))
	}
	out := make(value.Array, len(a))
	for i, elt := range a {
		out[i] = q(elt)
	}
	return out, nil
}

// Slice selects a slice of an array from offsets lo to hi. The range includes
// lo but excludes hi. Negative offsets select from the end of the array.
// If hi == 0, the length of the array is used.
func Slice(lo, hi int) Query { return sliceQuery{lo, hi} }

type sliceQuery struct{ lo, hi int }

func (q sliceQuery) eval(v value.Value) (value.Value, error) {
	arr, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %v, want array", kindOf(v))
	}
	lox := q.lo
	if lox < 0 {
		lox += len(arr)
	}
	hix := q.hi
	if hix <= 0 {
		hix += len(arr)
	}
	if lox < 0 || lox > len(arr) {
		return nil, fmt.Errorf("index %d out of range (0..%d)", q.lo, len(arr))
	} else if hix < 0 || hix > len(arr) {
		return nil, fmt.Errorf("index %d out of range (0..%d)", q.hi, len(arr))
	} else if lox > hix {
		return nil, fmt.Errorf("index start %d > end %d", q.lo, q.hi)
	}
	return arr[lox:hix], nil
}

// Pick constructs an array by picking the designated offsets from an array.
// Negative offsets select from the end of the input array.
func Pick(offsets ...int) Query { return pickQuery(offsets) }

type pickQuery []int

func (q pickQuery) eval(v value.Value) (value.Value, error) {
	arr, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %v, want array", kindOf(v))
	}
	out := make(value.Array, 0, len(q))
	for _, off := range q {
		if off < 0 {
			off += len(arr)
		}
		if off < 0 || off >= len(arr) {
			return nil, fmt.Errorf("index %d out of range (0..%d)", off, len(arr))
		}
		out = append(out, arr[off])
	}
	return out, nil
}

// Len returns a number giving the length of the root.
//
// For an object, the length is the number of members.
// For an array, the length is the number of elements.
// For a string or a word, the length is the number of characters.
// For null, the length is zero.
func Len() Query { return lenQuery{} }

type lenQuery struct{}

func (lenQuery) eval(v value.Value) (value.Value, error) {
	var n int
	switch t := v.(type) {
	case value.Object:
		n = len(t)
	case *value.Map:
		n = t.Len()
	case value.Array:
		n = len(t)
	case value.String:
		n = utf8.RuneCountInString(string(t))
	case value.Word:
		n = utf8.RuneCountInString(string(t))
	case value.Null:
		n = 0
	default:
		return nil, fmt.Errorf("cannot take length of %v", kindOf(v))
	}
	return value.Number(strconv.Itoa(n)), nil
}

// Seq is a sequential composition of queries. An empty sequence selects the
// root; otherwise, each query is applied to the result selected by the
// previous query in the sequence.
type Seq []Query

func (q Seq) eval(v value.Value) (value.Value, error) {
	cur := v
	for _, sq := range q {
		next, err := sq.eval(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Alt is a query that selects among a sequence of alternatives. The result of
// the first alternative that does not report an error is returned. If there
// are no alternatives, the query fails on all inputs.
type Alt []Query

func (q Alt) eval(v value.Value) (value.Value, error) {
	for _, alt := range q {
		if w, err := alt.eval(v); err == nil {
			return w, nil
		}
	}
	return nil, errors.New("no matching alternatives")
}

// Recur applies a query to each recursive descendant of its input and returns
// an array of the resulting values. The arguments have the same constraints as
// Path.
func Recur(keys ...any) Query { return recQuery{Path(keys...)} }

type recQuery struct{ Query }

func (q recQuery) eval(v value.Value) (value.Value, error) {
	var out value.Array

	stk := []value.Value{v}
	for len(stk) != 0 {
		next := stk[len(stk)-1]
		stk = stk[:len(stk)-1]

		if r, err := q.Query.eval(next); err == nil {
			out = append(out, r)
		}

		// N.B. Push in reverse order, so we visit in lexical order.
		if obj, ok := asObject(next); ok {
			for i := len(obj) - 1; i >= 0; i-- {
				stk = append(stk, obj[i].Value)
			}
		} else if arr, ok := next.(value.Array); ok {
			for i := len(arr) - 1; i >= 0; i-- {
				stk = append(stk, arr[i])
			}
		}
	}

	if len(out) == 0 {
		return nil, errors.New("no matches")
	}
	return out, nil
}

// Each applies a query to each element of an array and returns an array of the
// resulting values. It fails if the input is not an array. The arguments have
// the same constraints as Path.
func Each(keys ...any) Query { return eachQuery{Path(keys...)} }

type eachQuery struct{ Query }

func (q eachQuery) eval(v value.Value) (value.Value, error) {
	arr, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %v, want array", kindOf(v))
	}
	out := make(value.Array, 0, len(arr))
	for i, elt := range arr {
		v, err := q.Query.eval(elt)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Object constructs an object with the given keys mapped to the results of
// matching the query values against its input. The members of the result
// are in key order.
type Object map[string]Query

func (o Object) eval(v value.Value) (value.Value, error) {
	out := make(value.Object, 0, len(o))
	for _, key := range slices.Sorted(maps.Keys(o)) {
		val, err := o[key].eval(v)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", key, err)
		}
		out = append(out, value.Member{Key: key, Value: val})
	}
	return out, nil
}

// Array constructs an array with the values produced by matching the given
// queries against its input.
type Array []Query

func (a Array) eval(v value.Value) (value.Value, error) {
	out := make(value.Array, len(a))
	for i, q := range a {
		val, err := q.eval(v)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = val
	}
	return out, nil
}

// A String query ignores its input and returns the given string.
func String(s string) Query { return Value(value.String(s)) }

// A Float query ignores its input and returns the given number.
// It panics if n is not finite.
func Float(n float64) Query { return Value(value.From(n)) }

// An Int query ignores its input and returns the given integer.
func Int(z int64) Query { return Value(value.From(z)) }

// A Bool query ignores its input and returns the given bool.
func Bool(b bool) Query { return Value(value.Bool(b)) }

// A Null query ignores its input and returns a null value.
func Null() Query { return Value(value.Null{}) }

// A Value query ignores its input and returns the given value.
func Value(v value.Value) Query { return constQuery{v} }

type constQuery struct{ value.Value }

func (c constQuery) eval(value.Value) (value.Value, error) { return c.Value, nil }

// A Glob query returns an array of the member values of an object, or the
// elements of an array.
func Glob() Query { return globQuery{} }

type globQuery struct{}

func (globQuery) eval(v value.Value) (value.Value, error) {
	if obj, ok := asObject(v); ok {
		out := make(value.Array, len(obj))
		for i, m := range obj {
			out[i] = m.Value
		}
		return out, nil
	} else if arr, ok := v.(value.Array); ok {
		return arr, nil
	}
	return nil, errors.New("no matching values")
}

func kindOf(v value.Value) value.Kind {
	if v == nil {
		return value.Invalid
	}
	return v.Kind()
}
