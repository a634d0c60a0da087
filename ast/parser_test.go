// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/creachadair/kson"
	"github.com/creachadair/kson/ast"
	"github.com/google/go-cmp/cmp"
)

// treeString renders the shape of a syntax tree compactly for
// comparison: objects as obj(key=value ...), lists as list(...),
// strings as their quoted raw text, and error nodes as "error".
func treeString(n ast.Node) string {
	switch t := n.(type) {
	case *ast.Document:
		return treeString(t.Root)
	case *ast.Object:
		parts := make([]string, len(t.Props))
		for i, p := range t.Props {
			parts[i] = treeString(p.Key) + "=" + treeString(p.Value)
		}
		return "obj(" + strings.Join(parts, " ") + ")"
	case *ast.List:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = treeString(e.Value)
		}
		return "list(" + strings.Join(parts, " ") + ")"
	case *ast.String:
		return strconv.Quote(t.Content.Text)
	case *ast.Number:
		return t.Tok.Text
	case *ast.Bool:
		return strconv.FormatBool(t.Value)
	case *ast.Null:
		return "null"
	case *ast.Embed:
		tag := ""
		if t.Tag != nil {
			tag = t.Tag.Text
		}
		return "embed(" + tag + " " + strconv.Quote(t.Content.Text) + ")"
	case *ast.Error:
		return "error"
	}
	return "unknown"
}

func messageTypes(msgs []kson.Message) []kson.MessageType {
	var out []kson.MessageType
	for _, m := range msgs {
		out = append(out, m.Type)
	}
	return out
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
		msgs  []kson.MessageType
	}{
		// Scalars
		{"hello", `"hello"`, nil},
		{`"a b"`, `"a b"`, nil},
		{"42", "42", nil},
		{"4.5", "4.5", nil},
		{"true", "true", nil},
		{"null", "null", nil},

		// Indentation objects
		{"key: value", `obj("key"="value")`, nil},
		{"a: 1\nb: 2", `obj("a"=1 "b"=2)`, nil},
		{"a:\n  b: 1\nc: 2", `obj("a"=obj("b"=1) "c"=2)`, nil},
		{"a: b: 1", `obj("a"=obj("b"=1))`, nil},

		// End-dot closes the innermost indentation object.
		{"a:\n  b: 1\n  .\nc: 2", `obj("a"=obj("b"=1) "c"=2)`, nil},

		// Misaligned siblings parse as siblings, with one diagnostic.
		{"a: 1\n  b: 2", `obj("a"=1 "b"=2)`,
			[]kson.MessageType{kson.ObjectPropertiesMisaligned}},

		// Dash lists
		{"- 1\n- 2", "list(1 2)", nil},
		{"- 1\n- 2\n=", "list(1 2)", nil},
		{"- - 1", "list(list(1))", nil},
		{"-\n- 2", "list(error 2)", []kson.MessageType{kson.DanglingListDash}},
		{"- 1\n  - 2", "list(1 2)",
			[]kson.MessageType{kson.DashListItemsMisaligned}},
		{"a:\n  - 1\n  - 2\nb: 3", `obj("a"=list(1 2) "b"=3)`, nil},

		// Delimited collections
		{"{}", "obj()", nil},
		{"[]", "list()", nil},
		{"{a: 1, b: 2}", `obj("a"=1 "b"=2)`, nil},
		{"{a: 1 b: 2}", `obj("a"=1 "b"=2)`, nil},
		{"[1 2]", "list(1 2)", nil},
		{"<true, null>", "list(true null)", nil},
		{"[[1], {a: 2}]", `list(list(1) obj("a"=2))`, nil},

		// Empty commas are advisory; the elements are unaffected.
		{"[1,,3]", "list(1 3)", []kson.MessageType{kson.EmptyCommas}},
		{"[1,]", "list(1)", []kson.MessageType{kson.EmptyCommas}},
		{"[,1]", "list(1)", []kson.MessageType{kson.EmptyCommas}},
		{"{a: 1,}", `obj("a"=1)`, []kson.MessageType{kson.EmptyCommas}},

		// Redundant terminators inside delimited collections.
		{"[1=, 2]", "list(1 2)", []kson.MessageType{kson.ListRedundantEndDash}},
		{"{a: 1 .}", `obj("a"=1)`, []kson.MessageType{kson.ObjectRedundantEndDot}},

		// Unclosed collections
		{"[1, 2", "list(1 2)", []kson.MessageType{kson.ListNoClose}},
		{"{a: 1", `obj("a"=1)`, []kson.MessageType{kson.ObjectNoClose}},
		{"[1, 2}", "list(1 2)", []kson.MessageType{kson.ListNoClose}},

		// Key faults
		{"a:", `obj("a"=error)`, []kson.MessageType{kson.ObjectKeyNoValue}},
		{"{true: 1}", `obj("true"=1)`,
			[]kson.MessageType{kson.ObjectKeywordReservedWord}},
		{"{a}", `obj("a"=error)`, []kson.MessageType{kson.ObjectKeyNoValue}},
		{"{:}", "obj()", []kson.MessageType{kson.ObjectInvalidKey}},

		// Embeds
		{"%sql\nselect *\n%%", `embed(sql "select *\n")`, nil},
		{"%\nx\n%%", `embed( "x\n")`, nil},
		{"%\n%%", `embed( "")`, nil},

		// Recovery from illegal input
		{"", "error", []kson.MessageType{kson.BlankSource}},
		{"-nope", `"nope"`, []kson.MessageType{kson.IllegalMinusSign}},
		{"[1, 2] 3", "list(1 2)", []kson.MessageType{kson.ExtraContent}},
		{"[1, :, 2]", "list(1 error 2)", []kson.MessageType{kson.ListInvalidElem}},
	}

	for _, test := range tests {
		doc, _, msgs := ast.Parse(test.input, nil)
		if diff := cmp.Diff(test.want, treeString(doc)); diff != "" {
			t.Errorf("Input: %#q\nTree: (-want, +got)\n%s", test.input, diff)
		}
		if diff := cmp.Diff(test.msgs, messageTypes(msgs)); diff != "" {
			t.Errorf("Input: %#q\nMessages: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestParseTokens(t *testing.T) {
	const input = "a: [1, 2] # trailing\n"
	_, toks, msgs := ast.Parse(input, nil)
	if len(msgs) != 0 {
		t.Fatalf("Parse reported %d messages", len(msgs))
	}
	var sb strings.Builder
	for _, tok := range toks {
		sb.WriteString(tok.Text)
	}
	if got := sb.String(); got != input {
		t.Errorf("Token texts: got %#q, want %#q", got, input)
	}
	if last := toks[len(toks)-1]; last.Type != kson.EOF {
		t.Errorf("Last token: got %v, want EOF", last.Type)
	}
}

func TestParseMaxDepth(t *testing.T) {
	opts := &ast.Options{MaxDepth: 2}

	doc, _, msgs := ast.Parse("[[1]]", opts)
	if len(msgs) != 0 {
		t.Errorf("Depth 2: unexpected messages %v", messageTypes(msgs))
	}
	if got, want := treeString(doc), "list(list(1))"; got != want {
		t.Errorf("Depth 2: got %s, want %s", got, want)
	}

	doc, _, msgs = ast.Parse("[[[1]]]", opts)
	want := []kson.MessageType{kson.MaxNestingLevelExceeded}
	if diff := cmp.Diff(want, messageTypes(msgs)); diff != "" {
		t.Errorf("Depth 3: messages (-want, +got)\n%s", diff)
	}
	if got, want := treeString(doc), "list(list(error))"; got != want {
		t.Errorf("Depth 3: got %s, want %s", got, want)
	}
	if ast.Valid(doc) {
		t.Error("Valid: got true for an aborted parse, want false")
	}
}

func TestNodeLocations(t *testing.T) {
	const input = "a: [1, 22]"
	doc, _, msgs := ast.Parse(input, nil)
	if len(msgs) != 0 {
		t.Fatalf("Parse reported %d messages", len(msgs))
	}
	obj := doc.Root.(*ast.Object)
	if got, want := obj.Loc().String(), "1:0-10"; got != want {
		t.Errorf("Object location: got %q, want %q", got, want)
	}
	list := obj.Props[0].Value.(*ast.List)
	if got, want := list.Loc().String(), "1:3-10"; got != want {
		t.Errorf("List location: got %q, want %q", got, want)
	}
	if got, want := list.Elems[1].Value.Loc().String(), "1:7-9"; got != want {
		t.Errorf("Element location: got %q, want %q", got, want)
	}
}
