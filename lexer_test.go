// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package kson_test

import (
	"strings"
	"testing"

	"github.com/creachadair/kson"
	"github.com/google/go-cmp/cmp"
)

func tokenTypes(toks []kson.Token) []kson.TokenType {
	out := make([]kson.TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func messageTypes(msgs []kson.Message) []kson.MessageType {
	var out []kson.MessageType
	for _, m := range msgs {
		out = append(out, m.Type)
	}
	return out
}

func TestLex(t *testing.T) {
	tests := []struct {
		input string
		want  []kson.TokenType
	}{
		// Empty and blank inputs
		{"", []kson.TokenType{kson.EOF}},
		{"  \t\r\n", []kson.TokenType{kson.Whitespace, kson.EOF}},

		// Constants
		{"true false null", []kson.TokenType{
			kson.True, kson.Whitespace, kson.False, kson.Whitespace, kson.Null, kson.EOF,
		}},

		// Punctuation
		{"{ } [ ] < > : , . =", []kson.TokenType{
			kson.CurlyBraceL, kson.Whitespace, kson.CurlyBraceR, kson.Whitespace,
			kson.SquareBracketL, kson.Whitespace, kson.SquareBracketR, kson.Whitespace,
			kson.AngleBracketL, kson.Whitespace, kson.AngleBracketR, kson.Whitespace,
			kson.Colon, kson.Whitespace, kson.Comma, kson.Whitespace,
			kson.Dot, kson.Whitespace, kson.EndDash, kson.EOF,
		}},

		// Comments run to end of line, excluding the newline.
		{"# note\nx", []kson.TokenType{
			kson.Comment, kson.Whitespace, kson.UnquotedString, kson.EOF,
		}},

		// Strings
		{`"ab" 'cd' ""`, []kson.TokenType{
			kson.StringOpenQuote, kson.StringContent, kson.StringCloseQuote, kson.Whitespace,
			kson.StringOpenQuote, kson.StringContent, kson.StringCloseQuote, kson.Whitespace,
			kson.StringOpenQuote, kson.StringCloseQuote, kson.EOF,
		}},

		// Numbers
		{"12 -3 4.5 6e-2", []kson.TokenType{
			kson.Number, kson.Whitespace, kson.Number, kson.Whitespace,
			kson.Number, kson.Whitespace, kson.Number, kson.EOF,
		}},

		// A dot continues a number only when a digit follows.
		{"1.", []kson.TokenType{kson.Number, kson.Dot, kson.EOF}},
		{"1.5", []kson.TokenType{kson.Number, kson.EOF}},

		// Dashes: list marker, number sign, or nothing legal.
		{"- 1", []kson.TokenType{kson.ListDash, kson.Whitespace, kson.Number, kson.EOF}},
		{"-1", []kson.TokenType{kson.Number, kson.EOF}},
		{"-x", []kson.TokenType{kson.IllegalChar, kson.UnquotedString, kson.EOF}},

		// Unquoted strings may contain interior dashes.
		{"hello-world", []kson.TokenType{kson.UnquotedString, kson.EOF}},
		{"a:b", []kson.TokenType{kson.UnquotedString, kson.Colon, kson.UnquotedString, kson.EOF}},

		// Embed blocks
		{"%\nhi\n%%", []kson.TokenType{
			kson.EmbedOpenDelim, kson.EmbedPreambleNewline,
			kson.EmbedContent, kson.EmbedCloseDelim, kson.EOF,
		}},
		{"%sql\nselect\n%%", []kson.TokenType{
			kson.EmbedOpenDelim, kson.EmbedTag, kson.EmbedPreambleNewline,
			kson.EmbedContent, kson.EmbedCloseDelim, kson.EOF,
		}},
		{"$$ json\n{}\n$$$", []kson.TokenType{
			kson.EmbedOpenDelim, kson.Whitespace, kson.EmbedTag, kson.EmbedPreambleNewline,
			kson.EmbedContent, kson.EmbedCloseDelim, kson.EOF,
		}},

		// A close run must be one longer than the open run; shorter runs
		// are ordinary content.
		{"%%\na %% b\n%%%", []kson.TokenType{
			kson.EmbedOpenDelim, kson.EmbedPreambleNewline,
			kson.EmbedContent, kson.EmbedCloseDelim, kson.EOF,
		}},
	}

	for _, test := range tests {
		toks, _ := kson.Lex(test.input)
		if diff := cmp.Diff(test.want, tokenTypes(toks)); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

// Every byte of the input must be covered by exactly one token, in
// order, even for badly mangled inputs.
func TestLexGapFree(t *testing.T) {
	inputs := []string{
		"",
		"a: [1, 2.5, true]\nb: {c: null}",
		`"unclosed`,
		"'mixed\nquote'",
		"\x00\x01\x02",
		"\x80\x81 after invalid utf-8",
		"a\\b",
		"-x -y",
		"1e+ 2e",
		"%",
		"%tag",
		"% tag trailing",
		"%\nnever closed",
		"$$\nstill open",
		"# only a comment",
		"key:\n  - 1\n  - \n=",
		"99999999999999999999",
	}
	for _, input := range inputs {
		toks, _ := kson.Lex(input)
		if len(toks) == 0 || toks[len(toks)-1].Type != kson.EOF {
			t.Errorf("Input %#q: token stream does not end in EOF", input)
			continue
		}
		var sb strings.Builder
		pos := 0
		for _, tok := range toks {
			if tok.Location.Pos != pos {
				t.Errorf("Input %#q: token %v starts at %d, want %d", input, tok.Type, tok.Location.Pos, pos)
			}
			if got := tok.Location.End - tok.Location.Pos; got != len(tok.Text) {
				t.Errorf("Input %#q: token %v spans %d bytes for %d bytes of text", input, tok.Type, got, len(tok.Text))
			}
			pos = tok.Location.End
			sb.WriteString(tok.Text)
		}
		if got := sb.String(); got != input {
			t.Errorf("Concatenated tokens: got %#q, want %#q", got, input)
		}
	}
}

func TestLexMessages(t *testing.T) {
	tests := []struct {
		input string
		want  []kson.MessageType
	}{
		{"a: 1", nil},
		{"-x", []kson.MessageType{kson.IllegalMinusSign}},
		{`"ab`, []kson.MessageType{kson.StringNoClose}},
		{`"a\qb"`, []kson.MessageType{kson.StringInvalidEscape}},
		{`"a\u12g4"`, []kson.MessageType{kson.StringInvalidUnicodeEscape}},
		{"\"a\x01b\"", []kson.MessageType{kson.StringIllegalControlChar}},
		{"1e", []kson.MessageType{kson.NumberDanglingExponent}},
		{"2E+", []kson.MessageType{kson.NumberDanglingExponent}},
		{"99999999999999999999", []kson.MessageType{kson.NumberOverflow}},
		{"1234567890.12345678901234567890", nil}, // decimals round, not overflow
		{"%tag", []kson.MessageType{kson.EmbedBlockDanglingDelim}},
		{"%\nabc", []kson.MessageType{kson.EmbedBlockNoClose}},
		{"\x00", []kson.MessageType{kson.IllegalCharacters}},
		{"a\\b", []kson.MessageType{kson.IllegalCharacters}},
	}
	for _, test := range tests {
		_, msgs := kson.Lex(test.input)
		if diff := cmp.Diff(test.want, messageTypes(msgs)); diff != "" {
			t.Errorf("Input: %#q\nMessages: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestLexLocations(t *testing.T) {
	toks, msgs := kson.LexSignificant("ab: 1\ncd: 2")
	if len(msgs) != 0 {
		t.Fatalf("LexSignificant reported %d messages", len(msgs))
	}
	want := []string{"1:0-2", "1:2-3", "1:4-5", "2:0-2", "2:2-3", "2:4-5", "2:5-5"}
	var got []string
	for _, tok := range toks {
		got = append(got, tok.Location.String())
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Locations: (-want, +got)\n%s", diff)
	}
}

func TestIsUnquotedText(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"hello", true},
		{"hello-world", true},
		{"true", false},
		{"null", false},
		{"12x", false},
		{"-dash", false},
		{"two words", false},
		{"brace{", false},
		{"naïve", true},
	}
	for _, test := range tests {
		if got := kson.IsUnquotedText(test.input); got != test.want {
			t.Errorf("IsUnquotedText(%q): got %v, want %v", test.input, got, test.want)
		}
	}
}
