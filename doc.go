// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jsonc implements a scanner and parser for JSONC, a superset of JSON
// that permits comments, trailing commas, unquoted keys, and relaxed numeric
// literals.
//
// # Dialects
//
// The syntax extensions accepted are controlled by an [Options] value. The
// [Default] options enable all extensions; [Strict] accepts only standard
// JSON. Each extension can be enabled separately. A nil *Options is
// equivalent to Default().
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSONC. Construct a
// scanner from a source string and call its Next method to iterate over the
// tokens. Next advances to the next input token and returns nil, or reports
// an error:
//
//	s := jsonc.NewScanner(input, nil)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v %q", s.Token(), s.Text())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// is an [*Error] describing a lexical error in the input.
//
//	if err := s.Err(); err != io.EOF {
//	   log.Fatalf("Scanning failed: %v", err)
//	}
//
// Token text is not copied; each token's text is a substring of the input.
// By default whitespace and line breaks are skipped; call KeepTrivia to
// receive them as tokens.
//
// # Streaming
//
// The Stream type implements an event-driven parser for a single JSONC
// document. The parser works by calling methods on a Handler value to report
// the structure of the input. In case of error, parsing is terminated and an
// error of concrete type [*Error] is returned.
//
//	s := jsonc.NewStream(input, nil)
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// # Handlers
//
// The Handler interface accepts parser events from a Stream. The methods of
// a handler correspond to the syntax of JSONC values:
//
//	JSON type  | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | "key": value
//	value      | Value                     | true, false, null, number, string, word
//	--         | EndOfInput                | end of input
//
// A handler may also implement CommentHandler to receive comments, and
// TriviaHandler to receive whitespace, line breaks, and separators.
//
// # Errors
//
// Errors from scanning, parsing, and decoding have concrete type [*Error],
// which carries an [ErrorKind], a message, and the [Span] of the offending
// text. Both kinds and classes can be matched with errors.Is:
//
//	if errors.Is(err, jsonc.TrailingCommaNotAllowed) { ... }
//	if errors.Is(err, jsonc.Lexical) { ... }
//
// The ast and cst subpackages build syntax trees from a Stream.
package jsonc
