// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/jsonc/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string {
	return `"` + string(escape.Quote(mem.S(src), false)) + `"`
}

// QuoteASCII is as Quote, but all non-ASCII characters are escaped.
func QuoteASCII(src string) string {
	return `"` + string(escape.Quote(mem.S(src), true)) + `"`
}

// Unquote decodes a JSON string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
// Escaped surrogate pairs are combined into a single code point.
//
// An unpaired surrogate escape is handled according to policy. Invalid input
// is reported as an *Error of class Conversion whose span is relative to the
// start of src.
func Unquote(src string, policy SurrogatePolicy) (string, error) {
	if len(src) < 2 || src[0] != '"' || src[len(src)-1] != '"' {
		return "", Errorf(InvalidString, Span{0, len(src)}, "missing quotations")
	}
	body := src[1 : len(src)-1]
	if strings.IndexByte(body, '\\') < 0 {
		return body, nil // no escapes; share the input
	}
	dec, err := escape.Unquote(mem.S(body), policy == SurrogateReplace)
	if err != nil {
		var eerr *escape.Error
		if errors.As(err, &eerr) {
			kind := InvalidString
			if eerr.Surrogate {
				kind = UnpairedSurrogate
			}
			span := Span{Pos: eerr.Pos + 1, End: runeBoundary(src, eerr.End+1)}
			return "", Errorf(kind, span, "%s", eerr.Message)
		}
		return "", Errorf(InvalidString, Span{0, len(src)}, "%w", err)
	}
	return string(dec), nil
}

// ParseFloat decodes the numeric text of a JSONC number as a float64.
// Leading "+" signs, hexadecimal literals, and "_" separators are accepted.
// Errors have class Conversion, with spans relative to the start of text.
func ParseFloat(text string) (float64, error) {
	neg, digits, hex, err := splitNumber(text)
	if err != nil {
		return 0, err
	}
	if hex {
		u, err := strconv.ParseUint(digits, 16, 64)
		if err != nil {
			return 0, numError(text, err)
		}
		f := float64(u)
		if neg {
			f = -f
		}
		return f, nil
	}
	if neg {
		digits = "-" + digits
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, numError(text, err)
	}
	return f, nil
}

// ParseInt decodes the numeric text of a JSONC number as an int64. A number
// written with a fraction or exponent is accepted if its value is integral
// and in range. Errors are as for [ParseFloat].
func ParseInt(text string) (int64, error) {
	neg, digits, hex, err := splitNumber(text)
	if err != nil {
		return 0, err
	}
	base := 10
	if hex {
		base = 16
	} else if strings.ContainsAny(digits, ".eE") {
		f, err := ParseFloat(text)
		if err != nil {
			return 0, err
		} else if f != math.Trunc(f) {
			return 0, Errorf(InvalidNumberValue, Span{0, len(text)}, "%s is not an integer", text)
		} else if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, Errorf(NumberOutOfRange, Span{0, len(text)}, "%s out of range for int64", text)
		}
		return int64(f), nil
	}
	u, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, numError(text, err)
	}
	if neg {
		if u > 1<<63 {
			return 0, Errorf(NumberOutOfRange, Span{0, len(text)}, "%s out of range for int64", text)
		}
		return -int64(u), nil
	} else if u > math.MaxInt64 {
		return 0, Errorf(NumberOutOfRange, Span{0, len(text)}, "%s out of range for int64", text)
	}
	return int64(u), nil
}

// ParseUint decodes the numeric text of a JSONC number as a uint64.
// Errors are as for [ParseFloat].
func ParseUint(text string) (uint64, error) {
	neg, digits, hex, err := splitNumber(text)
	if err != nil {
		return 0, err
	}
	if neg && strings.Trim(digits, "0") != "" {
		return 0, Errorf(NumberOutOfRange, Span{0, len(text)}, "%s is negative", text)
	}
	if !hex && strings.ContainsAny(digits, ".eE") {
		v, err := ParseInt(text)
		if err != nil {
			return 0, err
		}
		return uint64(v), nil
	}
	base := 10
	if hex {
		base = 16
	}
	u, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, numError(text, err)
	}
	return u, nil
}

// splitNumber checks that text is a complete JSONC number, and splits it into
// a sign, the digits without separators or hex prefix, and whether it is
// hexadecimal.
func splitNumber(text string) (neg bool, digits string, hex bool, _ error) {
	s := NewScanner(text, &Options{AllowLooseNumbers: true})
	if err := s.Next(); err != nil || s.Token() != Number || s.Offset() != len(text) {
		return false, "", false, Errorf(InvalidNumberValue, Span{0, len(text)}, "invalid number %q", text)
	}
	switch text[0] {
	case '-':
		neg = true
		text = text[1:]
	case '+':
		text = text[1:]
	}
	if len(text) > 1 && text[0] == '0' && (text[1]|0x20) == 'x' {
		hex = true
		text = text[2:]
	}
	return neg, strings.ReplaceAll(text, "_", ""), hex, nil
}

func numError(text string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return Errorf(NumberOutOfRange, Span{0, len(text)}, "%s: %w", text, strconv.ErrRange)
	}
	return Errorf(InvalidNumberValue, Span{0, len(text)}, "%s: %w", text, err)
}

// Shift returns a copy of e whose span is moved forward by off bytes. This is
// used to report errors from decoding a token relative to the input that
// contains it.
func (e *Error) Shift(off int) *Error {
	cp := *e
	cp.Span.Pos += off
	cp.Span.End += off
	return &cp
}
