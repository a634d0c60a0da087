// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package kson

// A TokenType identifies the lexical class of a token in the KSON grammar.
type TokenType byte

// Constants defining the valid TokenType values.
const (
	Invalid        TokenType = iota // invalid token
	CurlyBraceL                     // left curly brace "{"
	CurlyBraceR                     // right curly brace "}"
	SquareBracketL                  // left square bracket "["
	SquareBracketR                  // right square bracket "]"
	AngleBracketL                   // left angle bracket "<"
	AngleBracketR                   // right angle bracket ">"
	Colon                           // colon ":"
	Dot                             // end-dot "."
	EndDash                         // end-dash "="
	Comma                           // comma ","
	Comment                         // comment: "#" to end of line

	EmbedOpenDelim       // embed block open delimiter run
	EmbedCloseDelim      // embed block close delimiter run
	EmbedTag             // optional tag after the open delimiter
	EmbedPreambleNewline // mandatory newline ending the embed preamble
	EmbedContent         // raw embed block content

	False          // constant: false
	UnquotedString // bare string
	IllegalChar    // catch-all for characters with no legal reading
	ListDash       // list item marker "-"
	Null           // constant: null
	Number         // numeric literal
	StringOpenQuote
	StringCloseQuote
	StringContent // raw (undecoded) quoted string body
	True          // constant: true
	Whitespace    // run of insignificant whitespace
	EOF           // end of input
)

var tokenStr = [...]string{
	Invalid:        "invalid token",
	CurlyBraceL:    `"{"`,
	CurlyBraceR:    `"}"`,
	SquareBracketL: `"["`,
	SquareBracketR: `"]"`,
	AngleBracketL:  `"<"`,
	AngleBracketR:  `">"`,
	Colon:          `":"`,
	Dot:            "end-dot",
	EndDash:        "end-dash",
	Comma:          `","`,
	Comment:        "comment",

	EmbedOpenDelim:       "embed open delimiter",
	EmbedCloseDelim:      "embed close delimiter",
	EmbedTag:             "embed tag",
	EmbedPreambleNewline: "embed preamble newline",
	EmbedContent:         "embed content",

	False:            "false",
	UnquotedString:   "unquoted string",
	IllegalChar:      "illegal character",
	ListDash:         "list dash",
	Null:             "null",
	Number:           "number",
	StringOpenQuote:  "open quote",
	StringCloseQuote: "close quote",
	StringContent:    "string content",
	True:             "true",
	Whitespace:       "whitespace",
	EOF:              "end of input",
}

func (t TokenType) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// IsTrivia reports whether t is insignificant to the grammar. Trivia
// tokens appear in the gap-free stream but are skipped by the parser.
func (t TokenType) IsTrivia() bool { return t == Whitespace || t == Comment }

// A Token is a single lexical token together with its raw text and its
// location in the source input.
type Token struct {
	Type     TokenType
	Text     string // the raw lexeme, exactly as written
	Location Location
}

func (t Token) String() string { return t.Type.String() }
