package diags

import (
	"errors"
	"strings"
	"testing"

	"github.com/reusee/tailambda/asts"
)

func TestAccumulatorLimit(t *testing.T) {
	a := NewAccumulator()
	if a.Err() != nil {
		t.Fatal("should be empty")
	}
	span := asts.Span{File: "x", Line: 1, Column: 2}
	for i := 0; i < Limit-1; i++ {
		if err := a.Report(span, MissingMember, "m"); err != nil {
			t.Fatalf("aborted early at %d: %v", i, err)
		}
	}
	err := a.Report(span, TypeNotFound, "t")
	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("got %v", err)
	}
	if len(errs) != Limit {
		t.Fatalf("got %d", len(errs))
	}
	if !errs.Has(TypeNotFound) || errs.Has(UnsupportedOperator) {
		t.Fatalf("got %v", errs)
	}
	if !strings.Contains(errs.Error(), "x:1:2: MissingMember: m") {
		t.Fatalf("got %s", errs.Error())
	}
}

func TestAccumulatorErr(t *testing.T) {
	a := NewAccumulator()
	if err := a.Report(asts.Span{}, UnsupportedConstruct, "u"); err != nil {
		t.Fatal(err)
	}
	var errs Errors
	if !errors.As(a.Err(), &errs) || len(errs) != 1 {
		t.Fatalf("got %v", a.Err())
	}
	if errs[0].Error() != "UnsupportedConstruct: u" {
		t.Fatalf("got %s", errs[0].Error())
	}
}

func TestProbe(t *testing.T) {
	p := NewProbe()
	if p.Err() != nil {
		t.Fatal("should be clean")
	}
	if err := p.Report(asts.Span{}, MissingMember, "m"); !errors.Is(err, ErrProbeFailed) {
		t.Fatalf("got %v", err)
	}
	if !errors.Is(p.Err(), ErrProbeFailed) {
		t.Fatalf("got %v", p.Err())
	}
}
