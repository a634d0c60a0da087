// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package kson_test

import (
	"testing"

	"github.com/creachadair/kson"
	"github.com/creachadair/mds/mtest"
)

func TestMessageRender(t *testing.T) {
	loc := kson.Location{
		Span:  kson.Span{Pos: 4, End: 5},
		First: kson.LineCol{Line: 2, Column: 0},
		Last:  kson.LineCol{Line: 2, Column: 1},
	}
	m := kson.NewMessage(kson.ListNoClose, loc, kson.Arg{Name: "delim", Value: `"]"`})
	if got, want := m.Render(), `list is missing its closing "]"`; got != want {
		t.Errorf("Render: got %q, want %q", got, want)
	}
	if got, want := m.String(), `2:0-1: [ERROR] list is missing its closing "]"`; got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
	if got := m.Arg("delim"); got != `"]"` {
		t.Errorf(`Arg("delim"): got %q, want %q`, got, `"]"`)
	}
	if got := m.Arg("nonesuch"); got != "" {
		t.Errorf(`Arg("nonesuch"): got %q, want ""`, got)
	}
}

func TestMessageSeverity(t *testing.T) {
	warnings := map[kson.MessageType]bool{
		kson.EmptyCommas:           true,
		kson.ListRedundantEndDash:  true,
		kson.ObjectRedundantEndDot: true,
	}
	for mt := kson.MessageType(0); mt.CoreParse(); mt++ {
		want := kson.Error
		if warnings[mt] {
			want = kson.Warning
		}
		if got := mt.Severity(); got != want {
			t.Errorf("Severity(%v): got %v, want %v", mt, got, want)
		}
	}
}

// Argument mismatches are caller bugs, not input faults, and must
// panic rather than degrade into half-formed diagnostics.
func TestMessageArgMismatch(t *testing.T) {
	var loc kson.Location

	t.Run("TooFew", func(t *testing.T) {
		mtest.MustPanic(t, func() { kson.NewMessage(kson.ListNoClose, loc) })
	})
	t.Run("TooMany", func(t *testing.T) {
		mtest.MustPanic(t, func() {
			kson.NewMessage(kson.BlankSource, loc, kson.Arg{Name: "x", Value: "y"})
		})
	})
	t.Run("WrongName", func(t *testing.T) {
		mtest.MustPanic(t, func() {
			kson.NewMessage(kson.ListNoClose, loc, kson.Arg{Name: "bracket", Value: "]"})
		})
	})
	t.Run("WrongOrder", func(t *testing.T) {
		mtest.MustPanic(t, func() {
			kson.NewMessage(kson.ObjectPropertiesMisaligned, loc,
				kson.Arg{Name: "actual", Value: "2"}, kson.Arg{Name: "expected", Value: "0"})
		})
	})
}

func TestHasFatal(t *testing.T) {
	var loc kson.Location
	warn := kson.NewMessage(kson.EmptyCommas, loc)
	fail := kson.NewMessage(kson.BlankSource, loc)

	if kson.HasFatal(nil) {
		t.Error("HasFatal(nil): got true, want false")
	}
	if kson.HasFatal([]kson.Message{warn, warn}) {
		t.Error("HasFatal(warnings): got true, want false")
	}
	if !kson.HasFatal([]kson.Message{warn, fail}) {
		t.Error("HasFatal(warning+error): got false, want true")
	}
}
