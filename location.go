// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package kson

import "fmt"

// A Span describes a contiguous span of a source input by byte offset.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// Contains reports whether byte offset pos falls within s.
func (s Span) Contains(pos int) bool { return pos >= s.Pos && pos < s.End }

// Len reports the length of s in bytes.
func (s Span) Len() int { return s.End - s.Pos }

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// Less reports whether lc is strictly before o in source order.
func (lc LineCol) Less(o LineCol) bool {
	return lc.Line < o.Line || (lc.Line == o.Line && lc.Column < o.Column)
}

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}

// Contains reports whether point p falls within loc.
func (loc Location) Contains(p LineCol) bool {
	return !p.Less(loc.First) && p.Less(loc.Last)
}

// ContainsOffset reports whether byte offset pos falls within loc.
func (loc Location) ContainsOffset(pos int) bool { return loc.Span.Contains(pos) }

// ContainsLoc reports whether o lies entirely within loc.
func (loc Location) ContainsLoc(o Location) bool {
	return loc.Pos <= o.Pos && o.End <= loc.End
}

// Union returns the smallest location that spans both loc and o.
func (loc Location) Union(o Location) Location {
	out := loc
	if o.Pos < out.Pos {
		out.Pos, out.First = o.Pos, o.First
	}
	if o.End > out.End {
		out.End, out.Last = o.End, o.Last
	}
	return out
}

func (loc Location) String() string {
	if loc.First.Line == loc.Last.Line {
		return fmt.Sprintf("%d:%d-%d", loc.First.Line, loc.First.Column, loc.Last.Column)
	}
	return fmt.Sprintf("%s-%s", loc.First, loc.Last)
}
