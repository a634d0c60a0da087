// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package kson

import (
	"fmt"
	"unicode/utf8"

	"github.com/creachadair/kson/internal/escape"
	"go4.org/mem"
)

// DecodeString decodes the content of a string token, returning the
// decoded text together with the sub-location map tying each decoded
// rune back to the source. The token must be a StringContent,
// UnquotedString, or EmbedTag token; DecodeString panics otherwise,
// since lexing guarantees the token classes its callers see.
//
// An error is reported for invalid escape sequences; the lexer reports
// the same faults as diagnostics, so callers working from a clean
// parse will not observe one.
func DecodeString(content Token) (string, *SourceMap, error) {
	b := newSourceMapBuilder(content)
	switch content.Type {
	case UnquotedString, EmbedTag:
		// Bare strings have no escapes: the mapping is the identity.
		for i := 0; i < len(content.Text); {
			r, n := utf8.DecodeRuneInString(content.Text[i:])
			if n == 0 {
				break
			}
			b.put([]byte(string(r)), Span{Pos: content.Location.Pos + i, End: content.Location.Pos + i + n})
			i += n
		}
		m := b.build()
		return m.Content(), m, nil

	case StringContent:
		dec, spans, err := escape.Decode(mem.S(content.Text))
		di := 0
		for _, sp := range spans {
			_, n := utf8.DecodeRune(dec[di:])
			b.put(dec[di:di+n], Span{
				Pos: content.Location.Pos + sp.Pos,
				End: content.Location.Pos + sp.End,
			})
			di += n
		}
		m := b.build()
		if err != nil {
			return m.Content(), m, fmt.Errorf("decode string at %s: %w", content.Location, err)
		}
		return m.Content(), m, nil

	default:
		panic(fmt.Sprintf("kson: token %v is not string content", content.Type))
	}
}
