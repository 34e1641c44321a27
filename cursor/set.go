// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cursor

import (
	"fmt"

	"github.com/creachadair/jsonc/cst"
	"github.com/creachadair/jsonc/internal/jpath"
	"github.com/creachadair/jsonc/value"
)

// Set assigns v at the location in tree named by the JSONPath expression
// expr, and returns the new value node. Each step of expr must be a single
// member name or a single array index. An index equal to the length of its
// array appends to the array.
//
// Missing members along the path are created. A value on the path whose
// kind does not match the next step (an object for a member name, an array
// for an index) is replaced by an empty container of the required kind. The
// path "$" replaces the root value.
func Set(tree *cst.Tree, expr string, v value.Value) (cst.Node, error) {
	e, err := jpath.Parse(expr)
	if err != nil {
		return cst.Node{}, fmt.Errorf("parse path %q: %w", expr, err)
	}
	for _, step := range e {
		if !isSimple(step) {
			return cst.Node{}, fmt.Errorf("step %v: %w", step, ErrUnsupported)
		}
	}
	nv, err := tree.Build(v)
	if err != nil {
		return cst.Node{}, err
	}
	if len(e) == 0 {
		return tree.SetRoot(nv)
	}

	var cur cst.Node
	if e[0].Op == jpath.Member {
		cur, err = tree.ObjectOrSet()
	} else {
		cur, err = tree.ArrayOrSet()
	}
	if err != nil {
		return cst.Node{}, err
	}
	for i, step := range e[:len(e)-1] {
		cur, err = stepOrSet(cur, step, e[i+1].Op == jpath.Index)
		if err != nil {
			return cst.Node{}, fmt.Errorf("step %v: %w", step, err)
		}
	}

	last := e[len(e)-1]
	if last.Op == jpath.Member {
		if old := cur.Get(last.Name); old.IsValid() {
			return old.SetValue(nv)
		}
		m, err := cur.AppendMember(last.Name, nv)
		if err != nil {
			return cst.Node{}, err
		}
		return m.Value(), nil
	}
	i, n := last.Indices[0], cur.Len()
	if j, ok := fixArrayBound(n, i); ok {
		return cur.Element(j).SetValue(nv)
	} else if i != n {
		return cst.Node{}, fmt.Errorf("step %v: %w", last, cst.ErrRange)
	}
	return cur.AppendElement(nv)
}

func isSimple(step jpath.Step) bool {
	return step.Op == jpath.Member || (step.Op == jpath.Index && len(step.Indices) == 1)
}

// stepOrSet returns the value selected by step from n, creating or replacing
// it with an empty array or object as needed.
func stepOrSet(n cst.Node, step jpath.Step, wantArray bool) (cst.Node, error) {
	kind, empty := cst.Object, value.Value(value.Object{})
	if wantArray {
		kind, empty = cst.Array, value.Array{}
	}
	if step.Op == jpath.Member {
		if wantArray {
			return n.ArrayOrSet(step.Name)
		}
		return n.ObjectOrSet(step.Name)
	}

	if n.Kind() != cst.Array {
		return cst.Node{}, cst.ErrKind
	}
	i := step.Indices[0]
	j, ok := fixArrayBound(n.Len(), i)
	if !ok {
		return n.ElementOrSet(i, empty)
	}
	elt := n.Element(j)
	if elt.Kind() == kind {
		return elt, nil
	}
	nv, err := n.Tree().Build(empty)
	if err != nil {
		return cst.Node{}, err
	}
	return elt.SetValue(nv)
}
