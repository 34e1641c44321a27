// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package testutil defines support code for unit tests and benchmarks.
package testutil

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Samples are small JSONC documents in the styles commonly found in
// configuration files. Each uses some of the syntax extensions.
var Samples = map[string]string{
	"catalog": `// Product catalog.
{
  "name": "widgets",
  "items": [
    {"id": 0x01, "label": "sprocket", "price": 1.25},
    {"id": 0x02, "label": "gear", "price": +3.5e0},  // on sale
    {"id": 0x03, "label": "cog", "price": 1_000.00},
  ],
  /* Discontinued items are retained for
     historical queries. */
  "retired": [],
}
`,

	"manifest": `{
  "name": "example-package",
  "version": "1.4.2",
  "private": true,
  "scripts": {
    "build": "make all", // default target
    "test": "make check",
  },
  "dependencies": {},
  "license": null
}
`,

	"tsconfig": `{
  "compilerOptions": {
    /* Language and environment */
    "target": "es2022",
    "lib": ["dom", "es2022"],

    // Modules
    "module": "nodenext",
    "paths": {
      "@lib/*": ["src/lib/*"]
    },
    "strict": true, // everything on
  },
  "include": ["src/**/*.ts"],
  "exclude": ["node_modules"]
}
`,

	"settings": "\uFEFF{\r\n  editorFontSize: 14,\r\n  editorRulers: [80, 100],\r\n  \"files.eol\": \"\\n\",\r\n}\r\n",
}

// SampleNames returns the names of the sample documents in sorted order.
func SampleNames() []string {
	return slices.Sorted(maps.Keys(Samples))
}

// Document returns a synthetic JSONC document containing n records. The
// output depends only on n.
func Document(n int) string {
	var sb strings.Builder
	sb.WriteString("// Generated test document.\n{\n  \"records\": [\n")
	for i := range n {
		fmt.Fprintf(&sb, "    {\n      id: %d,\n", i)
		fmt.Fprintf(&sb, "      \"name\": \"record \\u%04x %d\",\n", 0x41+i%26, i)
		fmt.Fprintf(&sb, "      \"flags\": 0x%x, // bitmask\n", i*7%256)
		fmt.Fprintf(&sb, "      \"score\": %d.%02de-1,\n", i%1000, i%100)
		fmt.Fprintf(&sb, "      \"tags\": [\"t%d\", \"t%d\", null, %v],\n", i%5, i%3, i%2 == 0)
		sb.WriteString("    },\n")
	}
	sb.WriteString("  ],\n  /* end of records */\n}\n")
	return sb.String()
}
