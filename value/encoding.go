// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"strconv"
	"strings"

	"github.com/creachadair/kson"
	"github.com/creachadair/kson/internal/escape"
	"go4.org/mem"
)

// quote renders s as a double-quoted string literal.
func quote(s string) string {
	return `"` + string(escape.Quote(mem.S(s))) + `"`
}

func jsonText(v Value) string {
	var sb strings.Builder
	writeJSON(&sb, v)
	return sb.String()
}

func writeJSON(sb *strings.Builder, v Value) {
	switch t := v.(type) {
	case *Null:
		sb.WriteString("null")
	case *Bool:
		sb.WriteString(strconv.FormatBool(t.v))
	case *Int:
		sb.WriteString(t.text)
	case *Decimal:
		sb.WriteString(t.text)
	case *String:
		sb.WriteString(quote(t.Value()))
	case *List:
		sb.WriteByte('[')
		for i, e := range t.Values {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeJSON(sb, e)
		}
		sb.WriteByte(']')
	case *Object:
		sb.WriteByte('{')
		for i, m := range t.Members {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quote(m.Key.Value()))
			sb.WriteByte(':')
			writeJSON(sb, m.Value)
		}
		sb.WriteByte('}')
	case *Embed:
		// Embeds have no JSON counterpart; render the tag and content
		// as an object.
		sb.WriteString(`{"tag":`)
		if t.Tag == nil {
			sb.WriteString("null")
		} else {
			sb.WriteString(quote(t.Tag.Value()))
		}
		sb.WriteString(`,"content":`)
		sb.WriteString(quote(t.Content.Value()))
		sb.WriteByte('}')
	}
}

func ksonText(v Value) string {
	var sb strings.Builder
	writeKSON(&sb, v)
	return sb.String()
}

func writeKSON(sb *strings.Builder, v Value) {
	switch t := v.(type) {
	case *Null:
		sb.WriteString("null")
	case *Bool:
		sb.WriteString(strconv.FormatBool(t.v))
	case *Int:
		sb.WriteString(t.text)
	case *Decimal:
		sb.WriteString(t.text)
	case *String:
		if kson.IsUnquotedText(t.Value()) {
			sb.WriteString(t.Value())
		} else {
			sb.WriteString(quote(t.Value()))
		}
	case *List:
		sb.WriteByte('[')
		for i, e := range t.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeKSON(sb, e)
		}
		sb.WriteByte(']')
	case *Object:
		sb.WriteByte('{')
		for i, m := range t.Members {
			if i > 0 {
				sb.WriteString(", ")
			}
			if key := m.Key.Value(); kson.IsUnquotedText(key) {
				sb.WriteString(key)
			} else {
				sb.WriteString(quote(key))
			}
			sb.WriteString(": ")
			writeKSON(sb, m.Value)
		}
		sb.WriteByte('}')
	case *Embed:
		sb.WriteByte('%')
		if tag, ok := t.TagName(); ok {
			sb.WriteString(tag)
		}
		sb.WriteByte('\n')
		sb.WriteString(embedEscape(t.Content.Value()))
		sb.WriteString("\n%%")
	}
}

// embedEscape prepares content for emission inside a %-delimited embed
// block by backslash-escaping every run of two or more percent signs,
// so that no run reads as the closing delimiter.
func embedEscape(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))
	i := 0
	for i < len(content) {
		if content[i] == '%' {
			j := i
			for j < len(content) && content[j] == '%' {
				j++
			}
			if j-i >= 2 {
				sb.WriteByte('\\')
			}
			sb.WriteString(content[i:j])
			i = j
			continue
		}
		sb.WriteByte(content[i])
		i++
	}
	return sb.String()
}

func (o *Object) JSON() string  { return jsonText(o) }
func (o *Object) KSON() string  { return ksonText(o) }
func (c *List) JSON() string    { return jsonText(c) }
func (c *List) KSON() string    { return ksonText(c) }
func (s *String) JSON() string  { return jsonText(s) }
func (s *String) KSON() string  { return ksonText(s) }
func (v *Int) JSON() string     { return jsonText(v) }
func (v *Int) KSON() string     { return ksonText(v) }
func (v *Decimal) JSON() string { return jsonText(v) }
func (v *Decimal) KSON() string { return ksonText(v) }
func (b *Bool) JSON() string    { return jsonText(b) }
func (b *Bool) KSON() string    { return ksonText(b) }
func (n *Null) JSON() string    { return jsonText(n) }
func (n *Null) KSON() string    { return ksonText(n) }
func (e *Embed) JSON() string   { return jsonText(e) }
func (e *Embed) KSON() string   { return ksonText(e) }
