// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"strconv"
	"strings"

	"github.com/creachadair/kson"
)

// DefaultMaxDepth is the nesting depth bound used when Options does not
// specify one.
const DefaultMaxDepth = 64

// Options control optional behavior of the parser. A nil *Options is
// ready to use and provides the defaults.
type Options struct {
	// MaxDepth bounds the nesting depth of objects and lists. Input
	// nested deeper than this aborts the parse with a diagnostic. If
	// zero or negative, DefaultMaxDepth is used.
	MaxDepth int
}

func (o *Options) maxDepth() int {
	if o == nil || o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Parse parses a KSON document from src. It returns the syntax tree,
// the complete gap-free token sequence underlying it, and the combined
// diagnostics of lexing and parsing.
//
// Parse always returns a usable document: input that cannot be parsed
// is represented by Error nodes in the tree, and the messages record
// what went wrong. The tree is free of Error nodes exactly when no
// message has Error severity.
func Parse(src string, opts *Options) (*Document, []kson.Token, []kson.Message) {
	toks, msgs := kson.Lex(src)
	sig := make([]kson.Token, 0, len(toks))
	for _, tok := range toks {
		if !tok.Type.IsTrivia() {
			sig = append(sig, tok)
		}
	}
	p := &parser{toks: sig, msgs: msgs, maxDepth: opts.maxDepth()}
	doc := p.parseDocument()
	return doc, toks, p.msgs
}

// A parser consumes a sequence of significant tokens ending in EOF.
// The cursor never moves past the EOF token, so the grammar functions
// can always read the current token without a bounds check.
type parser struct {
	toks []kson.Token
	pos  int
	msgs []kson.Message

	depth    int
	maxDepth int
	aborted  bool // the depth bound was exceeded; consume nothing more

	// Columns of the enclosing indentation scopes, outermost first.
	// A key or dash at one of these columns ends the current scope
	// rather than being a misaligned sibling.
	indents []int
}

func (p *parser) cur() kson.Token          { return p.toks[p.pos] }
func (p *parser) at(t kson.TokenType) bool { return p.cur().Type == t }

func (p *parser) advance() kson.Token {
	tok := p.toks[p.pos]
	if tok.Type != kson.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) report(t kson.MessageType, loc kson.Location, args ...kson.Arg) {
	p.msgs = append(p.msgs, kson.NewMessage(t, loc, args...))
}

// spanFrom returns the location spanned by the tokens consumed since
// the cursor was at index start.
func (p *parser) spanFrom(start int) kson.Location {
	if start >= p.pos {
		loc := p.cur().Location
		loc.End, loc.Last = loc.Pos, loc.First
		return loc
	}
	return p.toks[start].Location.Union(p.toks[p.pos-1].Location)
}

// errorHere returns an empty Error node at the cursor.
func (p *parser) errorHere() *Error {
	loc := p.cur().Location
	loc.End, loc.Last = loc.Pos, loc.First
	return &Error{base{loc}}
}

// zeroWidthAfter returns the empty location just past loc.
func zeroWidthAfter(loc kson.Location) kson.Location {
	return kson.Location{
		Span:  kson.Span{Pos: loc.End, End: loc.End},
		First: loc.Last,
		Last:  loc.Last,
	}
}

// enter records one level of nesting, or reports that the depth bound
// is exhausted. Once the bound trips the parse is aborted: every
// grammar loop unwinds without consuming further input.
func (p *parser) enter() bool {
	if p.depth >= p.maxDepth {
		if !p.aborted {
			p.aborted = true
			p.report(kson.MaxNestingLevelExceeded, p.cur().Location,
				kson.Arg{Name: "limit", Value: strconv.Itoa(p.maxDepth)})
		}
		return false
	}
	p.depth++
	return true
}

func (p *parser) exit() { p.depth-- }

// outerIndent reports whether col is the column of an enclosing
// indentation scope.
func (p *parser) outerIndent(col int) bool {
	for _, n := range p.indents[:len(p.indents)-1] {
		if n == col {
			return true
		}
	}
	return false
}

// startsProperty reports whether the tokens at the cursor begin a
// key-colon pair. The cursor is restored before returning.
func (p *parser) startsProperty() bool {
	m := p.pos
	defer func() { p.pos = m }()
	switch p.cur().Type {
	case kson.UnquotedString, kson.True, kson.False, kson.Null:
		p.advance()
	case kson.StringOpenQuote:
		p.advance()
		if p.at(kson.StringContent) {
			p.advance()
		}
		if !p.at(kson.StringCloseQuote) {
			return false
		}
		p.advance()
	default:
		return false
	}
	return p.at(kson.Colon)
}

func (p *parser) parseDocument() *Document {
	if p.at(kson.EOF) {
		loc := p.cur().Location
		p.report(kson.BlankSource, loc)
		return &Document{base{loc}, &Error{base{loc}}}
	}
	root := p.parseValue()
	if !p.at(kson.EOF) && !p.aborted {
		loc := p.cur().Location
		for !p.at(kson.EOF) {
			loc = loc.Union(p.advance().Location)
		}
		p.report(kson.ExtraContent, loc)
	}
	for !p.at(kson.EOF) {
		p.advance()
	}
	return &Document{base{root.Loc()}, root}
}

func (p *parser) parseValue() Node {
	if p.aborted {
		return p.errorHere()
	}
	switch t := p.cur(); t.Type {
	case kson.CurlyBraceL:
		return p.parseDelimObject()
	case kson.SquareBracketL:
		return p.parseDelimList(kson.SquareBracketR)
	case kson.AngleBracketL:
		return p.parseDelimList(kson.AngleBracketR)
	case kson.ListDash:
		return p.parseDashList()
	case kson.StringOpenQuote, kson.UnquotedString, kson.True, kson.False, kson.Null:
		if p.startsProperty() {
			return p.parseIndentObject()
		}
		return p.parseScalar()
	case kson.Number, kson.EmbedOpenDelim:
		return p.parseScalar()
	case kson.IllegalChar:
		// Already diagnosed by the lexer: skip past and retry.
		for p.at(kson.IllegalChar) {
			p.advance()
		}
		return p.parseValue()
	case kson.EOF:
		return p.errorHere()
	default:
		tok := p.advance()
		p.report(kson.IllegalCharacters, tok.Location,
			kson.Arg{Name: "chars", Value: strconv.Quote(tok.Text)})
		return &Error{base{tok.Location}}
	}
}

// parseScalar parses a single non-collection value at the cursor.
func (p *parser) parseScalar() Node {
	switch t := p.cur(); t.Type {
	case kson.StringOpenQuote:
		return p.parseQuotedString()
	case kson.UnquotedString:
		tok := p.advance()
		return &String{base: base{tok.Location}, Content: tok}
	case kson.True, kson.False:
		tok := p.advance()
		return &Bool{base{tok.Location}, tok.Type == kson.True}
	case kson.Null:
		tok := p.advance()
		return &Null{base{tok.Location}}
	case kson.Number:
		tok := p.advance()
		return &Number{base{tok.Location}, tok, !strings.ContainsAny(tok.Text, ".eE")}
	case kson.EmbedOpenDelim:
		return p.parseEmbed()
	default:
		panic("kson/ast: parseScalar called off a scalar token: " + t.Type.String())
	}
}

// parseQuotedString assembles a String from an open quote and the
// content and close tokens that follow it, when present. An
// unterminated string was already diagnosed by the lexer.
func (p *parser) parseQuotedString() *String {
	start := p.pos
	open := p.advance()
	content := kson.Token{Type: kson.StringContent, Location: zeroWidthAfter(open.Location)}
	if p.at(kson.StringContent) {
		content = p.advance()
	}
	if p.at(kson.StringCloseQuote) {
		p.advance()
	}
	return &String{base: base{p.spanFrom(start)}, Quoted: true, Content: content}
}

func (p *parser) parseEmbed() *Embed {
	start := p.pos
	e := &Embed{Open: p.advance()}
	if p.at(kson.EmbedTag) {
		tag := p.advance()
		e.Tag = &tag
	}
	if p.at(kson.EmbedPreambleNewline) {
		// An empty block has no content token from the lexer; give it
		// a zero-width one just inside the block.
		nl := p.advance()
		e.Content = kson.Token{Type: kson.EmbedContent, Location: zeroWidthAfter(nl.Location)}
	}
	if p.at(kson.EmbedContent) {
		e.Content = p.advance()
	}
	if p.at(kson.EmbedCloseDelim) {
		p.advance()
	}
	e.base = base{p.spanFrom(start)}
	return e
}

// parseKey parses an object key at the cursor. Reserved words are
// diagnosed but still yield a usable key node.
func (p *parser) parseKey() Node {
	switch t := p.cur(); t.Type {
	case kson.StringOpenQuote:
		return p.parseQuotedString()
	case kson.True, kson.False, kson.Null:
		p.report(kson.ObjectKeywordReservedWord, t.Location,
			kson.Arg{Name: "word", Value: t.Text})
		tok := p.advance()
		tok.Type = kson.UnquotedString
		return &String{base: base{tok.Location}, Content: tok}
	default:
		tok := p.advance()
		return &String{base: base{tok.Location}, Content: tok}
	}
}

// keyText renders a key node for use in a diagnostic.
func keyText(key Node) string {
	if s, ok := key.(*String); ok {
		return strconv.Quote(s.Content.Text)
	}
	return "key"
}

// noValueAfter reports whether no value can follow the property colon
// just consumed. In an indentation object a value must begin on the
// colon's line, or on a later line indented past the owning column.
func (p *parser) noValueAfter(colon kson.Token, ownerCol int, delimited bool) bool {
	t := p.cur()
	switch t.Type {
	case kson.EOF, kson.Comma, kson.Colon, kson.Dot, kson.EndDash,
		kson.CurlyBraceR, kson.SquareBracketR, kson.AngleBracketR:
		return true
	}
	if !delimited && t.Location.First.Line > colon.Location.Last.Line && t.Location.First.Column <= ownerCol {
		return true
	}
	return false
}

// parseProperty parses one key-colon-value production. The caller must
// have verified startsProperty, so the colon is present.
func (p *parser) parseProperty(ownerCol int, delimited bool) *Property {
	start := p.pos
	key := p.parseKey()
	colon := p.advance()

	var value Node
	if p.noValueAfter(colon, ownerCol, delimited) {
		p.report(kson.ObjectKeyNoValue, key.Loc(),
			kson.Arg{Name: "key", Value: keyText(key)})
		value = &Error{base{zeroWidthAfter(colon.Location)}}
	} else {
		value = p.parseValue()
	}
	return &Property{base{p.spanFrom(start)}, key, value}
}

// parseIndentObject parses an object laid out by indentation: sibling
// properties aligned to the column of the first key, closed by an
// end-dot, a dedent to an enclosing scope, or the end of input.
func (p *parser) parseIndentObject() Node {
	if !p.enter() {
		return p.errorHere()
	}
	defer p.exit()

	firstCol := p.cur().Location.First.Column
	p.indents = append(p.indents, firstCol)
	defer func() { p.indents = p.indents[:len(p.indents)-1] }()

	obj := &Object{}
	start := p.pos
	for {
		obj.Props = append(obj.Props, p.parseProperty(firstCol, false))
		if p.aborted {
			break
		}
		if p.at(kson.Dot) {
			p.advance() // end-dot closes the object
			break
		}
		if !p.startsProperty() {
			break
		}
		if col := p.cur().Location.First.Column; col != firstCol {
			if p.outerIndent(col) {
				break
			}
			p.report(kson.ObjectPropertiesMisaligned, p.cur().Location,
				kson.Arg{Name: "expected", Value: strconv.Itoa(firstCol)},
				kson.Arg{Name: "actual", Value: strconv.Itoa(col)})
			// Parse it as a sibling rather than guessing a new scope.
		}
	}
	obj.base = base{p.spanFrom(start)}
	return obj
}

// dashValueFollows reports whether the current token begins the value
// of a dash item. A value begins on the dash's own line, or on a later
// line indented past the list's column.
func (p *parser) dashValueFollows(dash kson.Token, ownerCol int) bool {
	t := p.cur()
	switch t.Type {
	case kson.EOF, kson.EndDash, kson.Comma,
		kson.CurlyBraceR, kson.SquareBracketR, kson.AngleBracketR:
		return false
	}
	if t.Location.First.Line == dash.Location.Last.Line {
		return true
	}
	return t.Location.First.Column > ownerCol
}

// parseDashList parses a list laid out as dash items aligned to the
// column of the first dash, closed by an end-dash, a dedent to an
// enclosing scope, or the end of input.
func (p *parser) parseDashList() Node {
	if !p.enter() {
		return p.errorHere()
	}
	defer p.exit()

	firstCol := p.cur().Location.First.Column
	p.indents = append(p.indents, firstCol)
	defer func() { p.indents = p.indents[:len(p.indents)-1] }()

	list := &List{}
	start := p.pos
	for {
		dash := p.advance() // ListDash
		elem := &Element{}
		if p.dashValueFollows(dash, firstCol) {
			elem.Value = p.parseValue()
		} else {
			p.report(kson.DanglingListDash, dash.Location)
			elem.Value = &Error{base{zeroWidthAfter(dash.Location)}}
		}
		elem.base = base{dash.Location.Union(elem.Value.Loc())}
		list.Elems = append(list.Elems, elem)
		if p.aborted {
			break
		}
		if p.at(kson.EndDash) {
			p.advance() // end-dash closes the list
			break
		}
		if !p.at(kson.ListDash) {
			break
		}
		if col := p.cur().Location.First.Column; col != firstCol {
			if p.outerIndent(col) {
				break
			}
			p.report(kson.DashListItemsMisaligned, p.cur().Location,
				kson.Arg{Name: "expected", Value: strconv.Itoa(firstCol)},
				kson.Arg{Name: "actual", Value: strconv.Itoa(col)})
		}
	}
	list.base = base{p.spanFrom(start)}
	return list
}

// startsValueToken reports whether t can begin a value.
func startsValueToken(t kson.TokenType) bool {
	switch t {
	case kson.CurlyBraceL, kson.SquareBracketL, kson.AngleBracketL, kson.ListDash,
		kson.StringOpenQuote, kson.UnquotedString, kson.True, kson.False, kson.Null,
		kson.Number, kson.EmbedOpenDelim, kson.IllegalChar:
		return true
	}
	return false
}

// parseDelimList parses a bracketed list. Commas between elements are
// optional; commas that separate nothing are diagnosed but do not
// affect the elements.
func (p *parser) parseDelimList(closer kson.TokenType) Node {
	if !p.enter() {
		return p.errorHere()
	}
	defer p.exit()

	start := p.pos
	open := p.advance()
	list := &List{Delimited: true}
	var lastComma kson.Token
	sawValue := false    // a value occurred since the open or the last comma
	pendingComma := false

	for done := false; !done && !p.aborted; {
		switch t := p.cur(); t.Type {
		case closer:
			if pendingComma {
				p.report(kson.EmptyCommas, lastComma.Location)
			}
			p.advance()
			done = true
		case kson.Comma:
			if !sawValue {
				p.report(kson.EmptyCommas, t.Location)
			}
			lastComma = p.advance()
			sawValue, pendingComma = false, true
		case kson.EndDash:
			p.report(kson.ListRedundantEndDash, t.Location)
			p.advance()
		case kson.EOF:
			p.report(kson.ListNoClose, open.Location,
				kson.Arg{Name: "delim", Value: closer.String()})
			done = true
		case kson.CurlyBraceR, kson.SquareBracketR, kson.AngleBracketR:
			// The wrong closer; consume it in place of ours.
			p.advance()
			p.report(kson.ListNoClose, open.Location,
				kson.Arg{Name: "delim", Value: closer.String()})
			done = true
		default:
			if startsValueToken(t.Type) {
				v := p.parseValue()
				list.Elems = append(list.Elems, &Element{base{v.Loc()}, v})
			} else {
				p.advance()
				p.report(kson.ListInvalidElem, t.Location,
					kson.Arg{Name: "token", Value: t.Type.String()})
				list.Elems = append(list.Elems, &Element{base{t.Location}, &Error{base{t.Location}}})
			}
			sawValue, pendingComma = true, false
		}
	}
	list.base = base{p.spanFrom(start)}
	return list
}

// parseDelimObject parses a braced object. Commas between properties
// are optional, as in delimited lists.
func (p *parser) parseDelimObject() Node {
	if !p.enter() {
		return p.errorHere()
	}
	defer p.exit()

	start := p.pos
	open := p.advance()
	obj := &Object{Delimited: true}
	var lastComma kson.Token
	sawValue := false
	pendingComma := false

	for done := false; !done && !p.aborted; {
		switch t := p.cur(); t.Type {
		case kson.CurlyBraceR:
			if pendingComma {
				p.report(kson.EmptyCommas, lastComma.Location)
			}
			p.advance()
			done = true
		case kson.Comma:
			if !sawValue {
				p.report(kson.EmptyCommas, t.Location)
			}
			lastComma = p.advance()
			sawValue, pendingComma = false, true
		case kson.Dot:
			p.report(kson.ObjectRedundantEndDot, t.Location)
			p.advance()
		case kson.EOF:
			p.report(kson.ObjectNoClose, open.Location)
			done = true
		case kson.SquareBracketR, kson.AngleBracketR:
			// The wrong closer; consume it in place of ours.
			p.advance()
			p.report(kson.ObjectNoClose, open.Location)
			done = true
		default:
			if p.startsProperty() {
				obj.Props = append(obj.Props, p.parseProperty(-1, true))
			} else if t.Type == kson.UnquotedString || t.Type == kson.StringOpenQuote {
				// A key with no colon after it.
				key := p.parseKey()
				p.report(kson.ObjectKeyNoValue, key.Loc(),
					kson.Arg{Name: "key", Value: keyText(key)})
				obj.Props = append(obj.Props, &Property{
					base{key.Loc()}, key, &Error{base{zeroWidthAfter(key.Loc())}},
				})
			} else {
				p.advance()
				p.report(kson.ObjectInvalidKey, t.Location,
					kson.Arg{Name: "token", Value: t.Type.String()})
			}
			sawValue, pendingComma = true, false
		}
	}
	obj.base = base{p.spanFrom(start)}
	return obj
}
