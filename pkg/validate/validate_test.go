package validate

import (
	"errors"
	"math"
	"strings"
	"testing"
)

type sample struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"finite,gt=0"`
	Count int     `json:"count" validate:"gte=0"`
}

func TestStructValid(t *testing.T) {
	if err := Struct("sample", sample{Name: "a", Price: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructUsesJSONNames(t *testing.T) {
	err := Struct("sample", sample{Price: 0, Count: -1})
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if len(verr.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %+v", verr.Violations)
	}
	fields := map[string]bool{}
	for _, v := range verr.Violations {
		fields[v.Field] = true
	}
	for _, f := range []string{"name", "price", "count"} {
		if !fields[f] {
			t.Fatalf("missing violation for %s: %+v", f, verr.Violations)
		}
	}
}

func TestFiniteRejectsNaNAndInf(t *testing.T) {
	for _, p := range []float64{math.NaN(), math.Inf(1)} {
		err := Struct("sample", sample{Name: "a", Price: p})
		if err == nil {
			t.Fatalf("expected error for %v", p)
		}
		if !strings.Contains(err.Error(), "price") {
			t.Fatalf("expected price in message: %v", err)
		}
	}
}

func TestEachCollectsIndices(t *testing.T) {
	items := []sample{
		{Name: "ok", Price: 1},
		{Name: "bad", Price: -1},
		{Name: "ok", Price: 2},
		{Name: "", Price: 3},
	}
	err := Each("samples", len(items), func(i int) interface{} { return items[i] })
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	idx := verr.Indices()
	if len(idx) != 2 || idx[0] != 1 || idx[1] != 3 {
		t.Fatalf("unexpected indices %v", idx)
	}
	if !strings.Contains(err.Error(), "item 1") || !strings.Contains(err.Error(), "item 3") {
		t.Fatalf("expected offending items in message: %v", err)
	}
}

func TestVar(t *testing.T) {
	if err := Var("fraction", 0.8, "gt=0,lt=1"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := Var("fraction", 1.5, "gt=0,lt=1"); err == nil {
		t.Fatalf("expected error")
	}
}
