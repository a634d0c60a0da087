// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package kson implements the lexical front end for KSON, a
// human-friendly superset of JSON with comments, optional delimiters,
// indentation-based structure, and raw embed blocks.
//
// # Lexing
//
// The Lex function splits source text into a gap-free sequence of
// tokens: every byte of the input is covered by exactly one token,
// including whitespace and comments, so editor tooling can reconstruct
// a buffer from its tokens alone.
//
//	toks, msgs := kson.Lex(input)
//	for _, tok := range toks {
//	   log.Printf("%v %q at %v", tok.Type, tok.Text, tok.Location)
//	}
//
// Lexical problems are reported as Message values alongside the
// tokens, never as errors: lexing always runs to the end of the input.
//
// # Locations
//
// Every token, syntax node, value, and message carries a Location
// recording both byte offsets and line/column coordinates in the
// original source. The SourceMap type extends this to decoded string
// and embed content, translating positions inside the decoded text
// back to the exact source range that produced them.
//
// # Parsing
//
// The kson/ast package parses token sequences into syntax trees with
// error recovery, and the kson/value package builds the immutable
// client-facing value tree from a fully valid syntax tree. The
// top-level entry point for most consumers is value.Parse.
package kson
