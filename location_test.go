// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package kson_test

import (
	"testing"

	"github.com/creachadair/kson"
)

func TestLocation(t *testing.T) {
	a := kson.Location{
		Span:  kson.Span{Pos: 2, End: 5},
		First: kson.LineCol{Line: 1, Column: 2},
		Last:  kson.LineCol{Line: 1, Column: 5},
	}
	b := kson.Location{
		Span:  kson.Span{Pos: 8, End: 10},
		First: kson.LineCol{Line: 2, Column: 1},
		Last:  kson.LineCol{Line: 2, Column: 3},
	}

	if got, want := a.String(), "1:2-5"; got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
	u := a.Union(b)
	if got, want := u.String(), "1:2-2:3"; got != want {
		t.Errorf("Union.String: got %q, want %q", got, want)
	}
	if u.Span != (kson.Span{Pos: 2, End: 10}) {
		t.Errorf("Union.Span: got %+v, want 2-10", u.Span)
	}
	if got := b.Union(a); got != u {
		t.Errorf("Union is not symmetric: got %+v, want %+v", got, u)
	}

	if !a.Contains(kson.LineCol{Line: 1, Column: 3}) {
		t.Error("Contains(1:3): got false, want true")
	}
	if a.Contains(kson.LineCol{Line: 1, Column: 5}) {
		t.Error("Contains(1:5): got true, want false (end is exclusive)")
	}
	if !a.ContainsOffset(4) || a.ContainsOffset(5) {
		t.Error("ContainsOffset: end must be exclusive")
	}
	if !u.ContainsLoc(b) || a.ContainsLoc(u) {
		t.Error("ContainsLoc: containment is wrong")
	}

	if got, want := a.Len(), 3; got != want {
		t.Errorf("Len: got %d, want %d", got, want)
	}
	lo, hi := a.First, b.First
	if !lo.Less(hi) || hi.Less(lo) || lo.Less(lo) {
		t.Error("LineCol.Less: ordering is wrong")
	}
}
