// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package value defines the resolved value model for KSON documents,
// and the Parse entry point tying the front end together: lexing,
// parsing with recovery, and value construction.
package value

import (
	"hash/maphash"
	"math"
	"strconv"

	"github.com/creachadair/kson"
)

// A Kind classifies the concrete type of a Value.
type Kind byte

// Constants defining the valid Kind values.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDecimal
	KindString
	KindList
	KindObject
	KindEmbed
)

var kindStr = [...]string{
	KindNull:    "null",
	KindBool:    "bool",
	KindInt:     "int",
	KindDecimal: "decimal",
	KindString:  "string",
	KindList:    "list",
	KindObject:  "object",
	KindEmbed:   "embed",
}

func (k Kind) String() string {
	if int(k) < len(kindStr) {
		return kindStr[k]
	}
	return "invalid kind"
}

// A Value is a resolved KSON value. The concrete type is one of
// *Object, *List, *String, *Int, *Decimal, *Bool, *Null, or *Embed.
type Value interface {
	// Kind reports which concrete type the value has.
	Kind() Kind

	// Loc reports the source location the value was parsed from.
	Loc() kson.Location

	// Equal reports structural equality with o, ignoring locations.
	// Int and Decimal values are never equal to each other, even when
	// they denote the same number: classification follows the written
	// form.
	Equal(o Value) bool

	// JSON renders the value as compact JSON text.
	JSON() string

	// KSON renders the value as canonical KSON text. Parsing the
	// result yields an equal value.
	KSON() string
}

type loc struct{ at kson.Location }

func (l loc) Loc() kson.Location { return l.at }

// An Object is an ordered collection of key-value members, in order of
// appearance in the source. Duplicate keys are preserved.
type Object struct {
	loc
	Members []*Member
}

// A Member is a single key-value pair of an Object.
type Member struct {
	Key   *String
	Value Value
}

func (o *Object) Kind() Kind { return KindObject }

// Len reports the number of members of o.
func (o *Object) Len() int { return len(o.Members) }

// IndexKey returns the index of the first member of o whose decoded
// key equals key, or -1.
func (o *Object) IndexKey(key string) int {
	for i, m := range o.Members {
		if m.Key.Value() == key {
			return i
		}
	}
	return -1
}

// Find returns the first member of o whose decoded key equals key, or
// nil.
func (o *Object) Find(key string) *Member {
	if i := o.IndexKey(key); i >= 0 {
		return o.Members[i]
	}
	return nil
}

func (o *Object) Equal(v Value) bool {
	p, ok := v.(*Object)
	if !ok || len(o.Members) != len(p.Members) {
		return false
	}
	for i, m := range o.Members {
		n := p.Members[i]
		if m.Key.Value() != n.Key.Value() || !m.Value.Equal(n.Value) {
			return false
		}
	}
	return true
}

// A List is an ordered sequence of values.
type List struct {
	loc
	Values []Value
}

func (c *List) Kind() Kind { return KindList }

// Len reports the number of values in c.
func (c *List) Len() int { return len(c.Values) }

func (c *List) Equal(v Value) bool {
	d, ok := v.(*List)
	if !ok || len(c.Values) != len(d.Values) {
		return false
	}
	for i, e := range c.Values {
		if !e.Equal(d.Values[i]) {
			return false
		}
	}
	return true
}

// A String is a decoded string value. It carries a sub-location map
// relating positions in the decoded text back to the source that
// produced them, inverting escape expansion and, for embed content,
// indent stripping and delimiter escaping.
type String struct {
	loc
	quoted bool
	sm     *kson.SourceMap
}

func (s *String) Kind() Kind { return KindString }

// Value returns the decoded text of s.
func (s *String) Value() string { return s.sm.Content() }

// Quoted reports whether s was written with quotes in the source.
func (s *String) Quoted() bool { return s.quoted }

// Map returns the sub-location map for the decoded text.
func (s *String) Map() *kson.SourceMap { return s.sm }

// SourceRange translates the byte range [pos, end) of the decoded text
// to the source location that produced it.
func (s *String) SourceRange(pos, end int) (kson.Location, error) {
	return s.sm.Range(pos, end)
}

// SourceLineColRange translates a line/column range of the decoded
// text to the source location that produced it.
func (s *String) SourceLineColRange(first, last kson.LineCol) (kson.Location, error) {
	return s.sm.LineColRange(first, last)
}

func (s *String) Equal(v Value) bool {
	t, ok := v.(*String)
	return ok && s.Value() == t.Value()
}

// An Int is an integer-form numeric literal.
type Int struct {
	loc
	text string
	z    int64
}

func (v *Int) Kind() Kind { return KindInt }

// Int64 returns the value of v.
func (v *Int) Int64() int64 { return v.z }

// Text returns the literal text of v as written.
func (v *Int) Text() string { return v.text }

func (v *Int) Equal(o Value) bool {
	w, ok := o.(*Int)
	return ok && v.z == w.z
}

// A Decimal is a numeric literal with a fraction or exponent.
type Decimal struct {
	loc
	text string
	f    float64
}

func (v *Decimal) Kind() Kind { return KindDecimal }

// Float64 returns the value of v.
func (v *Decimal) Float64() float64 { return v.f }

// Text returns the literal text of v as written.
func (v *Decimal) Text() string { return v.text }

func (v *Decimal) Equal(o Value) bool {
	w, ok := o.(*Decimal)
	return ok && v.f == w.f
}

// A Bool is the constant true or false.
type Bool struct {
	loc
	v bool
}

func (b *Bool) Kind() Kind { return KindBool }

// Value returns the value of b.
func (b *Bool) Value() bool { return b.v }

func (b *Bool) Equal(o Value) bool {
	c, ok := o.(*Bool)
	return ok && b.v == c.v
}

// A Null is the constant null.
type Null struct{ loc }

func (*Null) Kind() Kind { return KindNull }

func (*Null) Equal(o Value) bool {
	_, ok := o.(*Null)
	return ok
}

// An Embed is a raw embed block: an optional tag and the decoded
// content. Tag and content are independent String values, each with
// its own sub-location map.
type Embed struct {
	loc
	Tag     *String // nil if the block has no tag
	Content *String
}

func (e *Embed) Kind() Kind { return KindEmbed }

// TagName returns the decoded tag of e and whether one is present.
func (e *Embed) TagName() (string, bool) {
	if e.Tag == nil {
		return "", false
	}
	return e.Tag.Value(), true
}

func (e *Embed) Equal(o Value) bool {
	f, ok := o.(*Embed)
	if !ok || (e.Tag == nil) != (f.Tag == nil) {
		return false
	}
	if e.Tag != nil && e.Tag.Value() != f.Tag.Value() {
		return false
	}
	return e.Content.Value() == f.Content.Value()
}

var hashSeed = maphash.MakeSeed()

// Hash returns a hash of v consistent with Equal: equal values hash
// equal. Hashes are stable within a process but not across processes.
func Hash(v Value) uint64 {
	var h maphash.Hash
	h.SetSeed(hashSeed)
	writeHash(&h, v)
	return h.Sum64()
}

func writeHash(h *maphash.Hash, v Value) {
	h.WriteByte(byte(v.Kind()))
	switch t := v.(type) {
	case *Null:
	case *Bool:
		if t.v {
			h.WriteByte(1)
		} else {
			h.WriteByte(0)
		}
	case *Int:
		hashString(h, strconv.FormatInt(t.z, 10))
	case *Decimal:
		f := t.f
		if f == 0 {
			f = 0 // fold negative zero
		}
		hashString(h, strconv.FormatUint(math.Float64bits(f), 16))
	case *String:
		hashString(h, t.Value())
	case *List:
		for _, e := range t.Values {
			writeHash(h, e)
		}
		h.WriteByte(0xff)
	case *Object:
		for _, m := range t.Members {
			hashString(h, m.Key.Value())
			writeHash(h, m.Value)
		}
		h.WriteByte(0xff)
	case *Embed:
		if tag, ok := t.TagName(); ok {
			h.WriteByte(1)
			hashString(h, tag)
		} else {
			h.WriteByte(0)
		}
		hashString(h, t.Content.Value())
	}
}

// hashString writes s length-prefixed, so that adjacent strings cannot
// collide by shifting bytes between them.
func hashString(h *maphash.Hash, s string) {
	h.WriteString(strconv.Itoa(len(s)))
	h.WriteByte(':')
	h.WriteString(s)
}
