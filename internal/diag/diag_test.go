package diag

import (
	"testing"

	"sstlower/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(LowerHeaderNotAllowed, source.Span{File: 0, Start: 9, End: 10}, "late")) {
		t.Fatal("first add rejected")
	}
	if !b.Add(NewError(LowerExpectedPure, source.Span{File: 0, Start: 1, End: 2}, "early")) {
		t.Fatal("second add rejected")
	}
	if b.Add(NewError(LowerExpectedPure, source.Span{}, "dropped")) {
		t.Fatal("add beyond the limit must be rejected")
	}
	b.Sort()
	if got := b.Items()[0].Message; got != "early" {
		t.Errorf("first item after sort = %q, want early", got)
	}
	if !b.HasErrors() {
		t.Error("expected HasErrors")
	}
}

func TestBagDedupAndMerge(t *testing.T) {
	sp := source.Span{File: 1, Start: 3, End: 4}
	a := NewBag(4)
	a.Add(NewError(LowerNoEffectExpression, sp, "x"))
	a.Add(NewError(LowerNoEffectExpression, sp, "x"))
	other := NewBag(1)
	other.Add(NewError(LowerExpectedValue, sp, "y"))
	a.Merge(other)
	a.Dedup()
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
}

func TestCodeIDs(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{ReadBadJSON, "RD1001"},
		{LowerReturnOutsideFunction, "LOW4001"},
		{ObligationPostcondition, "OBL5003"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if LowerNoTriggers.Title() == UnknownCode.Title() {
		t.Error("every lowering code needs a description")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(&BagReporter{Bag: bag})
	d := NewError(LowerReturnValueNotAllowed, source.Span{Start: 1, End: 2}, "return value not allowed here")
	r.Report(d)
	r.Report(d)
	if bag.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", bag.Len())
	}
	r.Report(d.WithNote(source.Span{Start: 5, End: 8}, "different notes, same key"))
	if bag.Len() != 1 {
		t.Error("notes must not defeat deduplication")
	}
	r.Report(NewError(LowerReturnValueNotAllowed, source.Span{Start: 3, End: 4}, "return value not allowed here"))
	if bag.Len() != 2 {
		t.Error("distinct span was filtered")
	}
}
