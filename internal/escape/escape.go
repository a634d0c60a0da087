// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package escape handles decoding and encoding of KSON string bodies.
//
// Decoding reports, for every decoded rune, the span of undecoded
// input that produced it, so that callers can translate positions in
// decoded content back to the original source.
package escape

import (
	"fmt"
	"unicode/utf8"

	"go4.org/mem"
)

// A Span is the byte range of undecoded input that produced one
// decoded rune. Offsets are relative to the start of the undecoded
// string body.
type Span struct {
	Pos int
	End int
}

// A DecodeError describes an invalid construct found while decoding a
// string body.
type DecodeError struct {
	Span    Span   // range of the offending input
	Unicode bool   // the fault is in a \u escape
	Control bool   // the fault is an unescaped control character
	Text    string // the offending input text
}

func (e *DecodeError) Error() string {
	switch {
	case e.Unicode:
		return fmt.Sprintf("invalid Unicode escape %q", e.Text)
	case e.Control:
		return fmt.Sprintf("unescaped control %q", e.Text)
	default:
		return fmt.Sprintf("invalid escape %q", e.Text)
	}
}

// Decode interprets the escape sequences in src, the undecoded body of
// a quoted string with the enclosing quotation marks removed. It
// returns the decoded text along with one Span per decoded rune, in
// order, giving the range of src each rune came from.
//
// On an invalid escape, an incomplete Unicode escape, or an unescaped
// control character, Decode returns the text decoded so far together
// with a *DecodeError locating the fault.
func Decode(src mem.RO) ([]byte, []Span, error) {
	dec := make([]byte, 0, src.Len())
	spans := make([]Span, 0, src.Len())

	putRune := func(r rune, pos, end int) {
		var buf [6]byte
		n := utf8.EncodeRune(buf[:], r)
		dec = append(dec, buf[:n]...)
		spans = append(spans, Span{Pos: pos, End: end})
	}

	i := 0
	for i < src.Len() {
		r, n := mem.DecodeRune(src.SliceFrom(i))
		if n == 0 {
			n++
		}
		if r != '\\' {
			if r < ' ' {
				return dec, spans, &DecodeError{
					Span:    Span{Pos: i, End: i + n},
					Control: true,
					Text:    src.SliceFrom(i).SliceTo(n).StringCopy(),
				}
			}
			putRune(r, i, i+n)
			i += n
			continue
		}

		// Decode the rune after the backslash to figure out what to
		// substitute.
		if i+1 >= src.Len() {
			return dec, spans, &DecodeError{
				Span: Span{Pos: i, End: src.Len()},
				Text: src.SliceFrom(i).StringCopy(),
			}
		}
		e, en := mem.DecodeRune(src.SliceFrom(i + 1))
		if en == 0 {
			en++
		}
		esc := i + 1 + en // offset just past the escape selector

		switch e {
		case '"', '\'', '\\', '/':
			putRune(e, i, esc)
		case 'b':
			putRune('\b', i, esc)
		case 'f':
			putRune('\f', i, esc)
		case 'n':
			putRune('\n', i, esc)
		case 'r':
			putRune('\r', i, esc)
		case 't':
			putRune('\t', i, esc)
		case 'u':
			end := esc + 4
			if end > src.Len() {
				end = src.Len()
			}
			v, err := parseHex(src.SliceFrom(esc).SliceTo(end - esc))
			if err != nil || end-esc != 4 {
				return dec, spans, &DecodeError{
					Span:    Span{Pos: i, End: end},
					Unicode: true,
					Text:    src.SliceFrom(i).SliceTo(end - i).StringCopy(),
				}
			}
			putRune(rune(v), i, end)
			esc = end
		default:
			return dec, spans, &DecodeError{
				Span: Span{Pos: i, End: esc},
				Text: src.SliceFrom(i).SliceTo(esc - i).StringCopy(),
			}
		}
		i = esc
	}
	return dec, spans, nil
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += int64(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += int64(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += int64(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
