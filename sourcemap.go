// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package kson

import (
	"fmt"
	"sort"
	"strings"
)

// A mapEntry relates the start of one decoded rune to the span of
// source text that produced it.
type mapEntry struct {
	dec int  // byte offset of the rune in decoded content
	src Span // absolute source byte range that produced it
}

// A SourceMap relates the decoded content of a string or embed block to
// the original source text that produced it. Positions inside the
// decoded content, given either as byte offsets or as line/column
// pairs, translate back to exact Locations in the undecoded source,
// inverting escape expansion, embed indent stripping, and embed
// delimiter escaping.
//
// A SourceMap is immutable and owned by the value node that carries it.
type SourceMap struct {
	content string // the decoded content
	raw     string // the raw source lexeme the content came from
	base    Location
	entries []mapEntry // ordered by dec
	lines   []int      // byte offsets of line starts in content
}

// Content returns the decoded content the map describes.
func (m *SourceMap) Content() string { return m.content }

// Range translates the decoded byte range [pos, end) to the Location of
// the source text that produced it. An empty range (pos == end)
// translates to an empty Location at the corresponding source point.
func (m *SourceMap) Range(pos, end int) (Location, error) {
	if pos < 0 || end < pos || end > len(m.content) {
		return Location{}, fmt.Errorf("range %d:%d is outside decoded content (%d bytes)", pos, end, len(m.content))
	}
	sp := Span{Pos: m.sourcePos(pos), End: m.sourcePos(pos)}
	if end > pos {
		sp = Span{Pos: m.sourcePos(pos), End: m.sourceEnd(end)}
	}
	return Location{
		Span:  sp,
		First: m.sourceLineCol(sp.Pos),
		Last:  m.sourceLineCol(sp.End),
	}, nil
}

// LineColRange translates a line/column range within the decoded
// content to the Location of the source text that produced it. Lines
// are 1-based and columns are 0-based byte offsets, as in LineCol; the
// range is inclusive of first and exclusive of last.
func (m *SourceMap) LineColRange(first, last LineCol) (Location, error) {
	pos, err := m.offsetOf(first)
	if err != nil {
		return Location{}, err
	}
	end, err := m.offsetOf(last)
	if err != nil {
		return Location{}, err
	}
	return m.Range(pos, end)
}

// offsetOf converts a point in the decoded content to a byte offset.
func (m *SourceMap) offsetOf(p LineCol) (int, error) {
	if p.Line < 1 || p.Line > len(m.lines) {
		return 0, fmt.Errorf("line %d is outside decoded content (%d lines)", p.Line, len(m.lines))
	}
	start := m.lines[p.Line-1]
	lineEnd := len(m.content)
	if p.Line < len(m.lines) {
		lineEnd = m.lines[p.Line] // includes the terminating newline
	}
	off := start + p.Column
	if p.Column < 0 || off > lineEnd {
		return 0, fmt.Errorf("column %d is outside line %d of decoded content", p.Column, p.Line)
	}
	return off, nil
}

// sourcePos returns the source offset corresponding to the start of the
// decoded offset pos.
func (m *SourceMap) sourcePos(pos int) int {
	if len(m.entries) == 0 || pos >= len(m.content) {
		return m.base.End
	}
	i := m.search(pos)
	return m.entries[i].src.Pos
}

// sourceEnd returns the source offset just past the decoded offset
// end-1.
func (m *SourceMap) sourceEnd(end int) int {
	if len(m.entries) == 0 {
		return m.base.End
	}
	i := m.search(end - 1)
	return m.entries[i].src.End
}

// search returns the index of the last entry whose decoded offset is at
// most pos. Precondition: entries is nonempty and pos >= 0.
func (m *SourceMap) search(pos int) int {
	i := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].dec > pos })
	if i == 0 {
		return 0
	}
	return i - 1
}

// sourceLineCol computes the line/column of the absolute source offset
// off, which must fall within the raw lexeme the map was built from.
func (m *SourceMap) sourceLineCol(off int) LineCol {
	rel := off - m.base.Pos
	if rel < 0 {
		rel = 0
	} else if rel > len(m.raw) {
		rel = len(m.raw)
	}
	prefix := m.raw[:rel]
	nl := strings.Count(prefix, "\n")
	if nl == 0 {
		return LineCol{Line: m.base.First.Line, Column: m.base.First.Column + rel}
	}
	last := strings.LastIndexByte(prefix, '\n')
	return LineCol{Line: m.base.First.Line + nl, Column: rel - last - 1}
}

// A sourceMapBuilder accumulates the (sourceOffset, decodedOffset)
// correspondence incrementally during decoding.
type sourceMapBuilder struct {
	base    Location
	raw     string
	buf     []byte
	entries []mapEntry
}

func newSourceMapBuilder(content Token) *sourceMapBuilder {
	return &sourceMapBuilder{base: content.Location, raw: content.Text}
}

// put appends the decoded bytes of one rune produced by the absolute
// source range src.
func (b *sourceMapBuilder) put(dec []byte, src Span) {
	b.entries = append(b.entries, mapEntry{dec: len(b.buf), src: src})
	b.buf = append(b.buf, dec...)
}

func (b *sourceMapBuilder) build() *SourceMap {
	content := string(b.buf)
	lines := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &SourceMap{
		content: content,
		raw:     b.raw,
		base:    b.base,
		entries: b.entries,
		lines:   lines,
	}
}
