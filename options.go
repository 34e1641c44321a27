// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsonc

// Options control the dialect accepted by the scanner and the parsers, and
// how values are decoded. The zero value accepts only strict JSON, does not
// preserve object key order, and reports unpaired surrogates as errors.
// Use [Default] to obtain the standard JSONC configuration.
type Options struct {
	// AllowComments enables line (// ...) and block (/* ... */) comments.
	AllowComments bool

	// AllowTrailingCommas permits a comma after the last member of an object
	// or the last element of an array.
	AllowTrailingCommas bool

	// AllowUnquotedKeys permits bare words and numbers as object keys, and
	// bare words (other than true, false, and null) as values.
	AllowUnquotedKeys bool

	// AllowLooseNumbers permits a leading "+" sign, hexadecimal literals
	// with a "0x" prefix, "_" digit separators, and redundant leading zeroes.
	AllowLooseNumbers bool

	// PreserveKeyOrder causes decoded objects to retain their source member
	// order as [value.Object]. When false, decoded objects are reported as
	// [value.Map], whose keys are ordered lexicographically.
	PreserveKeyOrder bool

	// Surrogates selects how an escaped UTF-16 surrogate that is not part of
	// a valid pair is decoded.
	Surrogates SurrogatePolicy
}

// SurrogatePolicy selects the handling of unpaired UTF-16 surrogate escapes
// such as "\uD83D" when decoding strings.
type SurrogatePolicy byte

const (
	// SurrogateError reports an unpaired surrogate as a conversion error
	// with kind UnpairedSurrogate.
	SurrogateError SurrogatePolicy = iota

	// SurrogateReplace replaces an unpaired surrogate with U+FFFD.
	SurrogateReplace
)

func (p SurrogatePolicy) String() string {
	switch p {
	case SurrogateError:
		return "error"
	case SurrogateReplace:
		return "replace"
	default:
		return "invalid"
	}
}

// Default returns the standard JSONC options: all syntax extensions are
// enabled and object key order is preserved.
func Default() *Options {
	return &Options{
		AllowComments:       true,
		AllowTrailingCommas: true,
		AllowUnquotedKeys:   true,
		AllowLooseNumbers:   true,
		PreserveKeyOrder:    true,
	}
}

// Strict returns options that accept only standard JSON. Object key order is
// preserved.
func Strict() *Options { return &Options{PreserveKeyOrder: true} }

// IsStrict reports whether o disables every syntax extension. A nil *Options
// denotes the defaults, which are not strict.
func (o *Options) IsStrict() bool {
	o = o.Resolve()
	return !o.AllowComments && !o.AllowTrailingCommas && !o.AllowUnquotedKeys && !o.AllowLooseNumbers
}

// Resolve returns a copy of o, or of [Default] if o == nil.
func (o *Options) Resolve() *Options {
	if o == nil {
		return Default()
	}
	cp := *o
	return &cp
}
