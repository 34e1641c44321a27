// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cursor

import (
	"errors"
	"fmt"

	"github.com/creachadair/jsonc/cst"
	"github.com/creachadair/jsonc/internal/jpath"
)

// ErrUnsupported is reported by Select for path steps it does not evaluate.
var ErrUnsupported = errors.New("unsupported path step")

// Select evaluates the JSONPath expression expr relative to n, and returns
// the value nodes it selects in document order. If n is a Document, the
// expression is evaluated relative to its value.
//
// Member names, wildcards, index lists, slices, and recursive descent are
// supported. Filter expressions report ErrUnsupported.
func Select(n cst.Node, expr string) ([]cst.Node, error) {
	e, err := jpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", expr, err)
	}
	if n.Kind() == cst.Document {
		n = n.Value()
	}
	if !n.IsValid() {
		return nil, nil
	}
	cur := []cst.Node{n}
	for _, step := range e {
		next, err := applyStep(step, cur)
		if err != nil {
			return nil, fmt.Errorf("step %v: %w", step, err)
		}
		cur = next
	}
	return cur, nil
}

func applyStep(step jpath.Step, in []cst.Node) ([]cst.Node, error) {
	var out []cst.Node
	for _, n := range in {
		switch step.Op {
		case jpath.Member:
			if v := n.Get(step.Name); v.IsValid() {
				out = append(out, v)
			}

		case jpath.Wildcard:
			out = append(out, children(n)...)

		case jpath.Index:
			elts := n.Elements()
			for _, i := range step.Indices {
				if j, ok := fixArrayBound(len(elts), i); ok {
					out = append(out, elts[j])
				}
			}

		case jpath.Slice:
			elts := n.Elements()
			lo, hi := step.Range(len(elts))
			out = append(out, elts[lo:hi]...)

		case jpath.Recur:
			descend(n, func(v cst.Node) {
				if step.Wild {
					out = append(out, children(v)...)
				} else if m := v.Get(step.Name); m.IsValid() {
					out = append(out, m)
				}
			})

		default:
			return nil, ErrUnsupported
		}
	}
	return out, nil
}

// children returns the member values of an object or the elements of an
// array, and nil for other nodes.
func children(n cst.Node) []cst.Node {
	switch n.Kind() {
	case cst.Array:
		return n.Elements()
	case cst.Object:
		var out []cst.Node
		for _, m := range n.Members() {
			out = append(out, m.Value())
		}
		return out
	}
	return nil
}

// descend calls f for n and each value nested within it, in preorder.
func descend(n cst.Node, f func(cst.Node)) {
	f(n)
	for _, c := range children(n) {
		descend(c, f)
	}
}
