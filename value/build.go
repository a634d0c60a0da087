// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/creachadair/kson"
	"github.com/creachadair/kson/ast"
)

// FromDocument constructs the value tree for doc. The syntax tree must
// be free of error nodes: FromDocument panics if it is not, since
// building values from an invalid parse is a bug in the caller rather
// than a property of the input. Use Parse, which withholds the value
// when any fatal diagnostic was reported.
func FromDocument(doc *ast.Document) Value {
	if !ast.Valid(doc) {
		panic("kson/value: syntax tree contains error nodes")
	}
	return build(doc.Root)
}

func build(n ast.Node) Value {
	switch t := n.(type) {
	case *ast.Object:
		o := &Object{loc: loc{t.Loc()}, Members: make([]*Member, 0, len(t.Props))}
		for _, p := range t.Props {
			o.Members = append(o.Members, &Member{
				Key:   buildString(p.Key.(*ast.String)),
				Value: build(p.Value),
			})
		}
		return o
	case *ast.List:
		c := &List{loc: loc{t.Loc()}, Values: make([]Value, 0, len(t.Elems))}
		for _, e := range t.Elems {
			c.Values = append(c.Values, build(e.Value))
		}
		return c
	case *ast.String:
		return buildString(t)
	case *ast.Number:
		return buildNumber(t)
	case *ast.Bool:
		return &Bool{loc: loc{t.Loc()}, v: t.Value}
	case *ast.Null:
		return &Null{loc{t.Loc()}}
	case *ast.Embed:
		return buildEmbed(t)
	default:
		panic(fmt.Sprintf("kson/value: unexpected syntax node %T", n))
	}
}

func buildString(s *ast.String) *String {
	_, sm, err := kson.DecodeString(s.Content)
	if err != nil {
		// The lexer diagnoses bad escapes, so a clean parse cannot
		// reach here.
		panic(fmt.Sprintf("kson/value: %v", err))
	}
	return &String{loc: loc{s.Loc()}, quoted: s.Quoted, sm: sm}
}

func buildNumber(t *ast.Number) Value {
	if t.IsInt {
		z, err := strconv.ParseInt(t.Tok.Text, 10, 64)
		if err != nil {
			// Overflow is diagnosed by the lexer.
			panic(fmt.Sprintf("kson/value: parse integer %q: %v", t.Tok.Text, err))
		}
		return &Int{loc: loc{t.Loc()}, text: t.Tok.Text, z: z}
	}
	// A literal beyond the float64 range is still valid input;
	// ParseFloat saturates it to ±Inf or 0 and the written text is
	// preserved.
	f, err := strconv.ParseFloat(t.Tok.Text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		panic(fmt.Sprintf("kson/value: parse decimal %q: %v", t.Tok.Text, err))
	}
	return &Decimal{loc: loc{t.Loc()}, text: t.Tok.Text, f: f}
}

func buildEmbed(e *ast.Embed) *Embed {
	out := &Embed{loc: loc{e.Loc()}}
	if e.Tag != nil {
		_, sm, err := kson.DecodeString(*e.Tag)
		if err != nil {
			panic(fmt.Sprintf("kson/value: %v", err))
		}
		out.Tag = &String{loc: loc{e.Tag.Location}, sm: sm}
	}
	content := e.Content
	if content.Type != kson.EmbedContent {
		// Only a block with a malformed preamble lacks a content
		// token; anchor at the open delimiter.
		end := e.Open.Location
		content = kson.Token{Type: kson.EmbedContent, Location: kson.Location{
			Span:  kson.Span{Pos: end.End, End: end.End},
			First: end.Last,
			Last:  end.Last,
		}}
	}
	_, sm := kson.DecodeEmbed(e.Open, content)
	out.Content = &String{loc: loc{content.Location}, sm: sm}
	return out
}
