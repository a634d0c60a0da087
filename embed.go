// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package kson

import (
	"strings"
	"unicode/utf8"
)

// isEmbedDelim reports whether b can open an embed block.
func isEmbedDelim(b byte) bool { return b == '%' || b == '$' }

// findEmbedClose returns the offset in content of the first unescaped
// close-delimiter run: closeLen or more consecutive delim bytes not
// immediately preceded by a backslash. It returns -1 if no close run
// occurs. This is the single source of truth for the delimiter
// escaping convention; DecodeEmbed inverts exactly this rule.
func findEmbedClose(content string, delim byte, closeLen int) int {
	i := 0
	for i < len(content) {
		switch content[i] {
		case '\\':
			j := i + 1
			for j < len(content) && content[j] == delim {
				j++
			}
			if j-i-1 >= closeLen {
				i = j // escaped close run, not a terminator
			} else {
				i++
			}
		case delim:
			j := i
			for j < len(content) && content[j] == delim {
				j++
			}
			if j-i >= closeLen {
				return i
			}
			i = j
		default:
			i++
		}
	}
	return -1
}

// DecodeEmbed decodes the content of an embed block, returning the
// decoded text and the sub-location map tying it back to source. open
// must be the EmbedOpenDelim token of the block and content its
// EmbedContent token.
//
// Decoding strips the shared leading whitespace of the non-blank
// content lines, removes the backslash from escaped close-delimiter
// runs, and drops the final newline preceding the close delimiter.
// The returned map inverts all three transformations.
func DecodeEmbed(open, content Token) (string, *SourceMap) {
	delim := byte('%')
	closeLen := 2
	if len(open.Text) > 0 {
		delim = open.Text[0]
		closeLen = len(open.Text) + 1
	}

	// The newline before the close delimiter is not part of the
	// decoded content.
	raw := content.Text
	if strings.HasSuffix(raw, "\n") {
		raw = strings.TrimSuffix(raw[:len(raw)-1], "\r")
	}

	lines := splitEmbedLines(raw)
	indent := sharedIndent(lines)

	b := newSourceMapBuilder(content)
	abs := func(rel int) int { return content.Location.Pos + rel }
	for li, ln := range lines {
		if li > 0 {
			// The newline separating the previous line from this one.
			nl := ln.start - 1
			b.put([]byte{'\n'}, Span{Pos: abs(nl), End: abs(nl + 1)})
		}
		skip := indent
		if skip > ln.ws {
			skip = ln.ws
		}
		i := skip
		for i < len(ln.text) {
			if ln.text[i] == '\\' {
				j := i + 1
				for j < len(ln.text) && ln.text[j] == delim {
					j++
				}
				if j-i-1 >= closeLen {
					// Escaped close run: the backslash decodes to
					// nothing, the run itself to ordinary characters.
					i++
					continue
				}
			}
			r, n := utf8.DecodeRuneInString(ln.text[i:])
			if n == 0 {
				break
			}
			b.put([]byte(string(r)), Span{Pos: abs(ln.start + i), End: abs(ln.start + i + n)})
			i += n
		}
	}
	m := b.build()
	return m.Content(), m
}

// An embedLine is one line of raw embed content.
type embedLine struct {
	start int    // offset of the line in the raw content
	text  string // line text without the trailing newline or \r
	ws    int    // count of leading space/tab bytes
}

func splitEmbedLines(raw string) []embedLine {
	var out []embedLine
	start := 0
	for {
		text := raw[start:]
		nl := strings.IndexByte(text, '\n')
		if nl >= 0 {
			text = text[:nl]
		}
		out = append(out, embedLine{
			start: start,
			text:  strings.TrimSuffix(text, "\r"),
			ws:    leadingWS(text),
		})
		if nl < 0 {
			return out
		}
		start += nl + 1
	}
}

func leadingWS(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// sharedIndent computes the shared leading whitespace width of the
// non-blank lines. Blank lines neither contribute nor object.
func sharedIndent(lines []embedLine) int {
	indent := -1
	for _, ln := range lines {
		if ln.ws == len(ln.text) {
			continue // blank
		}
		if indent < 0 || ln.ws < indent {
			indent = ln.ws
		}
	}
	if indent < 0 {
		return 0
	}
	return indent
}
