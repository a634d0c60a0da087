// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package kson

import (
	"fmt"
	"strings"
)

// Severity classifies the weight of a diagnostic message. An Error
// severity message prevents construction of the value tree; a Warning
// does not.
type Severity byte

const (
	Error   Severity = iota // fatal: no value tree is produced
	Warning                 // advisory: the value tree is unaffected
)

func (s Severity) String() string {
	if s == Warning {
		return "WARNING"
	}
	return "ERROR"
}

// A MessageType identifies one kind of diagnostic in the message
// catalog. Each type is bound to a severity, a fixed ordered list of
// named arguments, and a format template.
type MessageType int

// Constants defining the valid MessageType values.
const (
	BlankSource MessageType = iota
	DanglingListDash
	DashListItemsMisaligned
	EmbedBlockDanglingDelim
	EmbedBlockNoClose
	EmptyCommas
	ExtraContent
	IllegalCharacters
	IllegalMinusSign
	ListInvalidElem
	ListNoClose
	ListRedundantEndDash
	MaxNestingLevelExceeded
	NumberDanglingExponent
	NumberOverflow
	ObjectInvalidKey
	ObjectKeyNoValue
	ObjectKeywordReservedWord
	ObjectNoClose
	ObjectPropertiesMisaligned
	ObjectRedundantEndDot
	StringIllegalControlChar
	StringInvalidEscape
	StringInvalidUnicodeEscape
	StringNoClose

	numMessageTypes
)

// msgInfo is the static catalog entry for a message type. Argument
// names are positional: NewMessage requires exactly these names in
// exactly this order. Templates refer to arguments as {name}.
type msgInfo struct {
	name     string
	severity Severity
	args     []string
	format   string
}

var msgCatalog = [...]msgInfo{
	BlankSource: {"BLANK_SOURCE", Error, nil,
		"no content found in source"},
	DanglingListDash: {"DANGLING_LIST_DASH", Error, nil,
		"list dash is not followed by a value"},
	DashListItemsMisaligned: {"DASH_LIST_ITEMS_MISALIGNED", Error, []string{"expected", "actual"},
		"list item is indented to column {actual}, but its siblings start at column {expected}"},
	EmbedBlockDanglingDelim: {"EMBED_BLOCK_DANGLING_DELIM", Error, []string{"delim"},
		"embed delimiter {delim} must be followed by an optional tag and a newline"},
	EmbedBlockNoClose: {"EMBED_BLOCK_NO_CLOSE", Error, []string{"delim"},
		"embed block is never closed by {delim}"},
	EmptyCommas: {"EMPTY_COMMAS", Warning, nil,
		"comma does not separate any values"},
	ExtraContent: {"EXTRA_CONTENT", Error, nil,
		"unexpected content after the document value"},
	IllegalCharacters: {"ILLEGAL_CHARACTERS", Error, []string{"chars"},
		"illegal characters {chars}"},
	IllegalMinusSign: {"ILLEGAL_MINUS_SIGN", Error, nil,
		`"-" must be followed by a space to mark a list item, or a digit to begin a number`},
	ListInvalidElem: {"LIST_INVALID_ELEM", Error, []string{"token"},
		"{token} cannot begin a list element"},
	ListNoClose: {"LIST_NO_CLOSE", Error, []string{"delim"},
		"list is missing its closing {delim}"},
	ListRedundantEndDash: {"LIST_REDUNDANT_END_DASH", Warning, nil,
		"end-dash is redundant inside a delimited list"},
	MaxNestingLevelExceeded: {"MAX_NESTING_LEVEL_EXCEEDED", Error, []string{"limit"},
		"nesting exceeds the configured maximum depth of {limit}"},
	NumberDanglingExponent: {"NUMBER_DANGLING_EXPONENT", Error, nil,
		"number exponent has no digits"},
	NumberOverflow: {"NUMBER_OVERFLOW", Error, []string{"value"},
		"integer {value} does not fit in 64 bits"},
	ObjectInvalidKey: {"OBJECT_INVALID_KEY", Error, []string{"token"},
		"{token} cannot be used as an object key"},
	ObjectKeyNoValue: {"OBJECT_KEY_NO_VALUE", Error, []string{"key"},
		"object key {key} has no value"},
	ObjectKeywordReservedWord: {"OBJECT_KEYWORD_RESERVED_WORD", Error, []string{"word"},
		"reserved word {word} may not be used as an unquoted object key"},
	ObjectNoClose: {"OBJECT_NO_CLOSE", Error, nil,
		`object is missing its closing "}"`},
	ObjectPropertiesMisaligned: {"OBJECT_PROPERTIES_MISALIGNED", Error, []string{"expected", "actual"},
		"object property is indented to column {actual}, but its siblings start at column {expected}"},
	ObjectRedundantEndDot: {"OBJECT_REDUNDANT_END_DOT", Warning, nil,
		"end-dot is redundant inside a delimited object"},
	StringIllegalControlChar: {"STRING_ILLEGAL_CONTROL_CHAR", Error, []string{"char"},
		"control character {char} must be escaped inside a string"},
	StringInvalidEscape: {"STRING_INVALID_ESCAPE", Error, []string{"escape"},
		"invalid escape sequence {escape}"},
	StringInvalidUnicodeEscape: {"STRING_INVALID_UNICODE_ESCAPE", Error, []string{"escape"},
		"unicode escape {escape} requires exactly four hex digits"},
	StringNoClose: {"STRING_NO_CLOSE", Error, nil,
		"string is missing its closing quote"},
}

func (t MessageType) info() msgInfo {
	if t < 0 || t >= numMessageTypes {
		panic(fmt.Sprintf("kson: invalid message type %d", int(t)))
	}
	return msgCatalog[t]
}

// String returns the catalog name of t, e.g. "OBJECT_NO_CLOSE".
func (t MessageType) String() string { return t.info().name }

// Severity reports the severity bound to t in the catalog.
func (t MessageType) Severity() Severity { return t.info().severity }

// ArgNames returns the ordered named arguments required to construct a
// message of type t.
func (t MessageType) ArgNames() []string { return t.info().args }

// CoreParse reports whether t is produced by the core parse. All
// catalog entries in this package are; later stages layering their own
// diagnostics over the same model report false.
func (t MessageType) CoreParse() bool { return t >= 0 && t < numMessageTypes }

// An Arg binds a named argument of a message to its text value.
type Arg struct{ Name, Value string }

// A Message is a single located diagnostic.
type Message struct {
	Type     MessageType
	Location Location

	args []Arg
}

// NewMessage constructs a message of type t at loc, binding the named
// arguments the catalog declares for t. The arguments must match the
// declared names exactly, in order: a mismatch is a bug in the caller,
// not a property of user input, and NewMessage panics on it.
func NewMessage(t MessageType, loc Location, args ...Arg) Message {
	want := t.info().args
	if len(args) != len(want) {
		panic(fmt.Sprintf("kson: message %v requires %d arguments, got %d", t, len(want), len(args)))
	}
	for i, arg := range args {
		if arg.Name != want[i] {
			panic(fmt.Sprintf("kson: message %v argument %d must be named %q, not %q",
				t, i, want[i], arg.Name))
		}
	}
	return Message{Type: t, Location: loc, args: args}
}

// Severity reports the severity of m.
func (m Message) Severity() Severity { return m.Type.Severity() }

// Arg returns the value bound to the named argument, or "".
func (m Message) Arg(name string) string {
	for _, a := range m.args {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// Render expands the catalog template for m with its bound arguments
// and returns the resulting human-readable text.
func (m Message) Render() string {
	out := m.Type.info().format
	for _, a := range m.args {
		out = strings.ReplaceAll(out, "{"+a.Name+"}", a.Value)
	}
	return out
}

func (m Message) String() string {
	return fmt.Sprintf("%s: [%s] %s", m.Location, m.Severity(), m.Render())
}

// HasFatal reports whether msgs contains at least one Error severity
// message, the condition under which the value tree is withheld.
func HasFatal(msgs []Message) bool {
	for _, m := range msgs {
		if m.Severity() == Error {
			return true
		}
	}
	return false
}
