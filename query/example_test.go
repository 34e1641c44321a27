// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package query_test

import (
	"fmt"
	"log"

	"github.com/creachadair/jsonc/ast"
	"github.com/creachadair/jsonc/query"
	"github.com/creachadair/jsonc/value"
)

func mustParseValue(s string) value.Value {
	v, err := ast.ParseValue(s, nil)
	if err != nil {
		log.Fatalf("Parse: %v", err)
	}
	return v
}

func Example_small() {
	root := mustParseValue(`[{"a": 1, "b": 2}, {"c": {"d": true}, "e": false}]`)
	v, err := query.Eval(root, query.Path(1, "c", "d"))
	if err != nil {
		log.Fatalf("Eval: %v", err)
	}
	fmt.Println(value.Format(v))
	// Output:
	// true
}

func Example_medium() {
	root := mustParseValue(`
{
  "plaintiff": "Inigo Montoya",
  "complaint": {
     "defendant": "you",
     "action": "killed",
     "target": "Individual 1",
  },
  // Multiple forms of relief are permitted.
  "requestedRelief": ["die", "pay punitive damages", "pay attorney fees"],
  relatedPersons: {
    "Individual 1": {id: father, "rel": "plaintiff"},
  },
}`)

	v, err := query.Eval(root, query.Object{
		"name": query.Path("plaintiff"),
		"act": query.Array{
			query.Path("complaint", "defendant"),
			query.Path("complaint", "action"),
			query.String("my"),
			query.Path("relatedPersons", "Individual 1", "id"),
		},
		"req": query.Path("requestedRelief", 0),
	})
	if err != nil {
		log.Fatalf("Eval: %v", err)
	}
	obj := v.(value.Object)
	fmt.Printf("Hello, my name is: %s\n", obj.Get("name"))
	fmt.Println(value.Format(obj.Get("act")))
	fmt.Printf("Prepare to %s", obj.Get("req"))
	// Output:
	// Hello, my name is: Inigo Montoya
	// ["you","killed","my",father]
	// Prepare to die
}
