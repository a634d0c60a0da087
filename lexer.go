// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package kson

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/creachadair/kson/internal/escape"
	"go4.org/mem"
)

// Lex splits src into the complete, gap-free token sequence, together
// with any lexical diagnostics. Every byte of src is covered by exactly
// one token, in order, with no gaps or overlaps; the final token is
// always EOF. Lexical problems are reported as messages, never as
// errors: lexing always runs to the end of the input.
func Lex(src string) ([]Token, []Message) {
	lx := &lexer{src: src, line: 1}
	lx.run()
	return lx.toks, lx.msgs
}

// LexSignificant is Lex with trivia (whitespace and comment) tokens
// filtered out. The EOF token is retained.
func LexSignificant(src string) ([]Token, []Message) {
	toks, msgs := Lex(src)
	out := make([]Token, 0, len(toks))
	for _, tok := range toks {
		if !tok.Type.IsTrivia() {
			out = append(out, tok)
		}
	}
	return out, msgs
}

// A lexer holds the state of a single tokenization pass over an input.
type lexer struct {
	src  string
	off  int // current offset
	line int // current line, 1-based
	col  int // current column, 0-based byte offset in line

	start   int // start offset of the current token
	startLC LineCol

	toks []Token
	msgs []Message
}

func (lx *lexer) run() {
	for lx.off < len(lx.src) {
		lx.begin()
		switch c := lx.src[lx.off]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			lx.lexWhitespace()
		case c == '#':
			lx.lexComment()
		case c == '{':
			lx.lexPunct(CurlyBraceL)
		case c == '}':
			lx.lexPunct(CurlyBraceR)
		case c == '[':
			lx.lexPunct(SquareBracketL)
		case c == ']':
			lx.lexPunct(SquareBracketR)
		case c == '<':
			lx.lexPunct(AngleBracketL)
		case c == '>':
			lx.lexPunct(AngleBracketR)
		case c == ':':
			lx.lexPunct(Colon)
		case c == ',':
			lx.lexPunct(Comma)
		case c == '.':
			lx.lexPunct(Dot)
		case c == '=':
			lx.lexPunct(EndDash)
		case c == '"' || c == '\'':
			lx.lexString(c)
		case c == '-':
			lx.lexMinus()
		case isDigit(c):
			lx.lexNumber()
		case isEmbedDelim(c):
			lx.lexEmbed()
		default:
			r, n := utf8.DecodeRuneInString(lx.src[lx.off:])
			if isUnquotedRune(r) && !(r == utf8.RuneError && n == 1) {
				lx.lexUnquoted()
			} else {
				lx.lexIllegal()
			}
		}
	}
	lx.begin()
	lx.emit(EOF)
}

// begin marks the start of the next token at the current position.
func (lx *lexer) begin() {
	lx.start = lx.off
	lx.startLC = LineCol{Line: lx.line, Column: lx.col}
}

// emit appends a token of type t covering the input from the last
// begin to the current position.
func (lx *lexer) emit(t TokenType) Token {
	tok := Token{
		Type: t,
		Text: lx.src[lx.start:lx.off],
		Location: Location{
			Span:  Span{Pos: lx.start, End: lx.off},
			First: lx.startLC,
			Last:  LineCol{Line: lx.line, Column: lx.col},
		},
	}
	lx.toks = append(lx.toks, tok)
	return tok
}

func (lx *lexer) report(t MessageType, loc Location, args ...Arg) {
	lx.msgs = append(lx.msgs, NewMessage(t, loc, args...))
}

// advance consumes n bytes, maintaining the line and column counters.
func (lx *lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if lx.src[lx.off] == '\n' {
			lx.line++
			lx.col = 0
		} else {
			lx.col++
		}
		lx.off++
	}
}

// peek returns the byte at offset off+k, or 0 past the end of input.
func (lx *lexer) peek(k int) byte {
	if lx.off+k >= len(lx.src) {
		return 0
	}
	return lx.src[lx.off+k]
}

// readWhile consumes bytes matching f and reports how many it took.
func (lx *lexer) readWhile(f func(byte) bool) int {
	var n int
	for lx.off < len(lx.src) && f(lx.src[lx.off]) {
		lx.advance(1)
		n++
	}
	return n
}

func (lx *lexer) lexPunct(t TokenType) {
	lx.advance(1)
	lx.emit(t)
}

func (lx *lexer) lexWhitespace() {
	lx.readWhile(isSpace)
	lx.emit(Whitespace)
}

func (lx *lexer) lexComment() {
	lx.readWhile(func(b byte) bool { return b != '\n' })
	lx.emit(Comment)
}

// lexMinus disambiguates the three readings of "-": a list item marker
// (followed by whitespace or end of input), the sign of a number
// (followed by a digit), or nothing legal at all.
func (lx *lexer) lexMinus() {
	switch c := lx.peek(1); {
	case isDigit(c):
		lx.lexNumber()
	case isSpace(c) || c == 0:
		lx.advance(1)
		lx.emit(ListDash)
	default:
		lx.advance(1)
		tok := lx.emit(IllegalChar)
		lx.report(IllegalMinusSign, tok.Location)
	}
}

func (lx *lexer) lexNumber() {
	if lx.peek(0) == '-' {
		lx.advance(1)
	}
	lx.readWhile(isDigit)

	// A dot continues the number only when a digit follows; otherwise
	// it reads as an end-dot terminating an indentation object.
	if lx.peek(0) == '.' && isDigit(lx.peek(1)) {
		lx.advance(1)
		lx.readWhile(isDigit)
	}

	var dangling bool
	if c := lx.peek(0); c == 'e' || c == 'E' {
		lx.advance(1)
		if c := lx.peek(0); c == '+' || c == '-' {
			lx.advance(1)
		}
		if lx.readWhile(isDigit) == 0 {
			dangling = true
		}
	}

	tok := lx.emit(Number)
	if dangling {
		lx.report(NumberDanglingExponent, tok.Location)
		return
	}
	if !strings.ContainsAny(tok.Text, ".eE") {
		if _, err := strconv.ParseInt(tok.Text, 10, 64); errors.Is(err, strconv.ErrRange) {
			lx.report(NumberOverflow, tok.Location, Arg{"value", tok.Text})
		}
	}
}

// lexString scans a quoted string opened by the quote character q,
// emitting open-quote, content, and close-quote tokens. The content is
// left undecoded; escape sequences are validated here so that faults
// are diagnosed even when the value tree is never built.
func (lx *lexer) lexString(q byte) {
	lx.advance(1)
	open := lx.emit(StringOpenQuote)

	lx.begin()
	var esc, closed bool
scan:
	for lx.off < len(lx.src) {
		switch c := lx.src[lx.off]; {
		case esc:
			esc = false
			lx.advance(1)
		case c == '\\':
			esc = true
			lx.advance(1)
		case c == q:
			closed = true
			break scan
		case c == '\n':
			break scan
		default:
			lx.advance(1)
		}
	}

	var content Token
	if lx.off > lx.start {
		content = lx.emit(StringContent)
		lx.checkEscapes(content)
	}
	if closed {
		lx.begin()
		lx.advance(1)
		lx.emit(StringCloseQuote)
	} else {
		loc := open.Location
		if content.Type == StringContent {
			loc = loc.Union(content.Location)
		}
		lx.report(StringNoClose, loc)
	}
}

// checkEscapes validates the escape sequences of a StringContent token
// and reports any fault at its exact position.
func (lx *lexer) checkEscapes(content Token) {
	_, _, err := escape.Decode(mem.S(content.Text))
	var derr *escape.DecodeError
	if !errors.As(err, &derr) {
		return
	}
	loc := locWithin(content, derr.Span.Pos, derr.Span.End)
	switch {
	case derr.Unicode:
		lx.report(StringInvalidUnicodeEscape, loc, Arg{"escape", derr.Text})
	case derr.Control:
		lx.report(StringIllegalControlChar, loc, Arg{"char", fmt.Sprintf("%q", derr.Text)})
	default:
		lx.report(StringInvalidEscape, loc, Arg{"escape", derr.Text})
	}
}

// locWithin returns the location of the byte range [pos, end) relative
// to the start of tok. String content never spans lines, so columns
// offset directly from the token start.
func locWithin(tok Token, pos, end int) Location {
	first := tok.Location.First
	return Location{
		Span:  Span{Pos: tok.Location.Pos + pos, End: tok.Location.Pos + end},
		First: LineCol{Line: first.Line, Column: first.Column + pos},
		Last:  LineCol{Line: first.Line, Column: first.Column + end},
	}
}

func (lx *lexer) lexUnquoted() {
	lx.readWhileRune(isUnquotedRune)
	switch lx.src[lx.start:lx.off] {
	case "true":
		lx.emit(True)
	case "false":
		lx.emit(False)
	case "null":
		lx.emit(Null)
	default:
		lx.emit(UnquotedString)
	}
}

// readWhileRune consumes whole runes matching f.
func (lx *lexer) readWhileRune(f func(rune) bool) {
	for lx.off < len(lx.src) {
		r, n := utf8.DecodeRuneInString(lx.src[lx.off:])
		if !f(r) || (r == utf8.RuneError && n == 1) {
			return
		}
		lx.advance(n)
	}
}

// lexIllegal coalesces a run of characters that have no legal reading:
// unescaped control characters, stray backslashes, and invalid UTF-8.
func (lx *lexer) lexIllegal() {
	for lx.off < len(lx.src) {
		r, n := utf8.DecodeRuneInString(lx.src[lx.off:])
		bad := (r < ' ' && !isSpace(byte(r))) || r == 0x7f || r == '\\' ||
			(r == utf8.RuneError && n == 1)
		if !bad {
			break
		}
		lx.advance(n)
	}
	if lx.off == lx.start {
		lx.advance(1) // cannot happen, but never emit an empty token
	}
	tok := lx.emit(IllegalChar)
	lx.report(IllegalCharacters, tok.Location, Arg{"chars", fmt.Sprintf("%q", tok.Text)})
}

// lexEmbed scans an embed block: an open delimiter run, an optional
// tag, the mandatory preamble newline, the raw content, and the close
// delimiter run. The close run is one character longer than the open
// run, and may be escaped inside the content by a preceding backslash.
func (lx *lexer) lexEmbed() {
	delim := lx.src[lx.off]
	lx.readWhile(func(b byte) bool { return b == delim })
	open := lx.emit(EmbedOpenDelim)
	closeLen := len(open.Text) + 1

	lx.lexPreambleSpace()
	if r, _ := utf8.DecodeRuneInString(lx.src[lx.off:]); isUnquotedRune(r) && lx.off < len(lx.src) {
		lx.begin()
		lx.readWhileRune(isUnquotedRune)
		lx.emit(EmbedTag)
		lx.lexPreambleSpace()
	}

	if c := lx.peek(0); c != '\n' && !(c == '\r' && lx.peek(1) == '\n') {
		// No preamble newline: this is not an embed block after all.
		lx.report(EmbedBlockDanglingDelim, open.Location, Arg{"delim", open.Text})
		return
	}
	lx.begin()
	if lx.peek(0) == '\r' {
		lx.advance(1)
	}
	lx.advance(1)
	lx.emit(EmbedPreambleNewline)

	rest := lx.src[lx.off:]
	closeStr := strings.Repeat(string(delim), closeLen)
	p := findEmbedClose(rest, delim, closeLen)
	if p < 0 {
		lx.begin()
		lx.advance(len(rest))
		if lx.off > lx.start {
			lx.emit(EmbedContent)
		}
		lx.report(EmbedBlockNoClose, open.Location, Arg{"delim", closeStr})
		return
	}
	if p > 0 {
		lx.begin()
		lx.advance(p)
		lx.emit(EmbedContent)
	}
	lx.begin()
	lx.readWhile(func(b byte) bool { return b == delim })
	lx.emit(EmbedCloseDelim)
}

// lexPreambleSpace consumes space between the embed open delimiter,
// tag, and preamble newline.
func (lx *lexer) lexPreambleSpace() {
	lx.begin()
	if lx.readWhile(func(b byte) bool { return b == ' ' || b == '\t' }) > 0 {
		lx.emit(Whitespace)
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' || b == '\n' }
func isDigit(b byte) bool { return '0' <= b && b <= '9' }

// isReserved reports whether r has a structural reading and so cannot
// appear in an unquoted string.
func isReserved(r rune) bool {
	return strings.ContainsRune("{}[]<>:,.\"'#%$=\\", r)
}

// IsUnquotedText reports whether s would lex back as a single
// unquoted string token with text s. Formatters use this to decide
// whether a string or key may be written without quotes.
func IsUnquotedText(s string) bool {
	if s == "" || s == "true" || s == "false" || s == "null" {
		return false
	}
	if isDigit(s[0]) || s[0] == '-' {
		return false // would lex as a number or list dash
	}
	for _, r := range s {
		if !isUnquotedRune(r) {
			return false
		}
	}
	return true
}

// isUnquotedRune reports whether r may appear in an unquoted string.
func isUnquotedRune(r rune) bool {
	if r < utf8.RuneSelf {
		b := byte(r)
		if isSpace(b) || b < ' ' || b == 0x7f {
			return false
		}
		return !isReserved(r)
	}
	return r != utf8.RuneError
}
