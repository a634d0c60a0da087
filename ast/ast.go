// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a syntax tree for KSON documents, and a
// recovering parser that constructs syntax trees from KSON source.
//
// The parser always produces a tree, even for malformed input: regions
// that cannot be parsed become Error nodes, which keep the tree
// walkable for editor diagnostics but exclude it from value-tree
// construction (see the kson/value package).
package ast

import "github.com/creachadair/kson"

// A Node is a node of the KSON syntax tree. The concrete type is one
// of *Object, *Property, *List, *Element, *String, *Number, *Bool,
// *Null, *Embed, or *Error.
type Node interface {
	Loc() kson.Location
}

type base struct{ loc kson.Location }

// Loc reports the source location the node spans.
func (b base) Loc() kson.Location { return b.loc }

// An Object is a collection of key-value properties.
type Object struct {
	base
	Props []*Property

	// Delimited records whether the object was enclosed in braces
	// rather than laid out by indentation.
	Delimited bool
}

// A Property is a single key-value pair belonging to an Object.
type Property struct {
	base
	Key   Node // *String, or *Error if the key could not be parsed
	Value Node
}

// A List is an ordered sequence of elements.
type List struct {
	base
	Elems []*Element

	// Delimited records whether the list was enclosed in brackets
	// rather than laid out as dash items.
	Delimited bool
}

// An Element is a single list element.
type Element struct {
	base
	Value Node
}

// A String is a quoted or unquoted string value.
type String struct {
	base

	// Quoted reports whether the string was written with quotes.
	Quoted bool

	// Content is the StringContent or UnquotedString token holding the
	// raw (undecoded) text.
	Content kson.Token
}

// A Number is a numeric literal.
type Number struct {
	base
	Tok kson.Token

	// IsInt reports whether the literal has integer form, with no
	// fraction or exponent. Classification follows the written form,
	// not the numeric value.
	IsInt bool
}

// A Bool is the constant true or false.
type Bool struct {
	base
	Value bool
}

// A Null is the constant null.
type Null struct{ base }

// An Embed is a raw embed block.
type Embed struct {
	base
	Open    kson.Token  // the opening delimiter run
	Tag     *kson.Token // the optional tag, or nil
	Content kson.Token  // the raw content; zero width if the block is empty
}

// An Error is a placeholder for a region of input that could not be
// parsed.
type Error struct{ base }

// A Document is a single parsed source text.
type Document struct {
	base
	Root Node
}

// Valid reports whether the subtree rooted at n contains no error
// nodes.
func Valid(n Node) bool {
	switch t := n.(type) {
	case *Error:
		return false
	case *Object:
		for _, p := range t.Props {
			if !Valid(p) {
				return false
			}
		}
	case *Property:
		return Valid(t.Key) && Valid(t.Value)
	case *List:
		for _, e := range t.Elems {
			if !Valid(e.Value) {
				return false
			}
		}
	case *Document:
		return Valid(t.Root)
	}
	return true
}
