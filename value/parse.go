// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"github.com/creachadair/kson"
	"github.com/creachadair/kson/ast"
)

// A Result is the complete outcome of parsing one KSON document.
type Result struct {
	// Tokens is the gap-free token sequence of the source, ending with
	// an EOF token. Concatenating the token texts reproduces the input
	// exactly.
	Tokens []kson.Token

	// Messages are the diagnostics reported during lexing and parsing.
	Messages []kson.Message

	// Value is the resolved document value. It is nil exactly when
	// Messages contains a message of Error severity; warnings do not
	// withhold the value.
	Value Value
}

// Parse runs the complete front end over src: lexing, parsing with
// recovery, and value construction. Parse never fails; all faults in
// the input are reported through Result.Messages.
func Parse(src string) *Result { return ParseOptions(src, nil) }

// ParseOptions is Parse with explicit parser options. A nil opts is
// equivalent to the defaults.
func ParseOptions(src string, opts *ast.Options) *Result {
	doc, toks, msgs := ast.Parse(src, opts)
	out := &Result{Tokens: toks, Messages: msgs}
	if !kson.HasFatal(msgs) {
		out.Value = FromDocument(doc)
	}
	return out
}
