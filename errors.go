// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"errors"
	"fmt"
)

// ErrorClass is the broad category of an [ErrorKind].
type ErrorClass byte

// Constants defining the error classes. An ErrorClass satisfies the error
// interface, so that errors.Is(err, jsonc.Lexical) reports whether err is an
// *Error of that class.
const (
	Lexical    ErrorClass = iota + 1 // malformed token
	Structural                       // grammar violation
	Conversion                       // value decoding failure
)

var classStr = [...]string{
	Lexical:    "lexical error",
	Structural: "syntax error",
	Conversion: "conversion error",
}

func (c ErrorClass) String() string {
	if int(c) >= len(classStr) || c == 0 {
		return "unknown error"
	}
	return classStr[c]
}

// Error satisfies the error interface.
func (c ErrorClass) Error() string { return c.String() }

// ErrorKind is the specific kind of an [*Error]. An ErrorKind satisfies the
// error interface, so that errors.Is(err, jsonc.InvalidEscape) reports
// whether err is an *Error of that kind.
type ErrorKind byte

// Constants defining the error kinds.
const (
	UnknownError ErrorKind = iota

	// Lexical errors.
	UnterminatedString  // string without a closing quote
	UnterminatedComment // block comment without a closing "*/"
	InvalidEscape       // invalid \-escape in a string
	InvalidNumber       // malformed numeric literal
	UnexpectedCharacter // a character that cannot begin any token

	// Dialect errors reported by the scanner and the parser.
	CommentNotAllowed       // comment when comments are disabled
	TrailingCommaNotAllowed // trailing comma when they are disabled
	UnquotedKeyNotAllowed   // bare object key when unquoted keys are disabled
	WordNotAllowed          // bare word value when unquoted keys are disabled
	LooseNumberNotAllowed   // number extension when loose numbers are disabled

	// Structural errors.
	ExpectedToken   // a required token is missing
	UnexpectedToken // a token that is not valid here
	UnexpectedEnd   // input ended inside a value
	ExtraInput      // more than one root value

	// Conversion errors.
	InvalidNumberValue // numeric text cannot be converted
	NumberOutOfRange   // numeric value does not fit the requested type
	UnpairedSurrogate  // escaped UTF-16 surrogate without its partner
	InvalidString      // string text cannot be decoded
)

var kindInfo = [...]struct {
	label string
	class ErrorClass
}{
	UnknownError:            {"unknown error", Structural},
	UnterminatedString:      {"unterminated string", Lexical},
	UnterminatedComment:     {"unterminated comment", Lexical},
	InvalidEscape:           {"invalid escape", Lexical},
	InvalidNumber:           {"invalid number", Lexical},
	UnexpectedCharacter:     {"unexpected character", Lexical},
	CommentNotAllowed:       {"comments not allowed", Lexical},
	TrailingCommaNotAllowed: {"trailing commas not allowed", Structural},
	UnquotedKeyNotAllowed:   {"unquoted keys not allowed", Structural},
	WordNotAllowed:          {"unquoted words not allowed", Structural},
	LooseNumberNotAllowed:   {"number extensions not allowed", Lexical},
	ExpectedToken:           {"expected token", Structural},
	UnexpectedToken:         {"unexpected token", Structural},
	UnexpectedEnd:           {"unexpected end of input", Structural},
	ExtraInput:              {"extra input after value", Structural},
	InvalidNumberValue:      {"invalid numeric value", Conversion},
	NumberOutOfRange:        {"number out of range", Conversion},
	UnpairedSurrogate:       {"unpaired surrogate", Conversion},
	InvalidString:           {"invalid string", Conversion},
}

func (k ErrorKind) String() string {
	if int(k) >= len(kindInfo) {
		return kindInfo[UnknownError].label
	}
	return kindInfo[k].label
}

// Error satisfies the error interface.
func (k ErrorKind) Error() string { return k.String() }

// Class reports the error class of k.
func (k ErrorKind) Class() ErrorClass {
	if int(k) >= len(kindInfo) {
		return Structural
	}
	return kindInfo[k].class
}

// Error is the concrete type of errors reported by the scanner, the parsers,
// and value accessors. The Span of an error always begins and ends on UTF-8
// character boundaries of the source.
type Error struct {
	Kind    ErrorKind
	Message string
	Span    Span

	err error
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("at offset %d: %v", e.Span.Pos, e.Kind)
	}
	return fmt.Sprintf("at offset %d: %v: %s", e.Span.Pos, e.Kind, e.Message)
}

// Class reports the error class of e.
func (e *Error) Class() ErrorClass { return e.Kind.Class() }

// Is reports whether target is the kind or the class of e, supporting
// errors.Is.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrorKind:
		return e.Kind == t
	case ErrorClass:
		return e.Kind.Class() == t
	}
	return false
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() error { return e.err }

// Location reports the location of e in src, which must be the text from
// which e was reported.
func (e *Error) Location(src string) Location { return LocationOf(src, e.Span) }

// Errorf constructs an *Error of the given kind and span, with a message
// formatted from msg and args. A %w verb in msg wraps its argument.
func Errorf(kind ErrorKind, span Span, msg string, args ...any) *Error {
	werr := fmt.Errorf(msg, args...)
	return &Error{
		Kind:    kind,
		Message: werr.Error(),
		Span:    span,
		err:     errors.Unwrap(werr),
	}
}

// AsError reports whether err is or wraps an *Error, and if so returns it.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
