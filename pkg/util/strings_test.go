package util

import "testing"

func TestParseCount(t *testing.T) {
	for in, want := range map[string]int{"12": 12, " 7 ": 7, "3.0": 3, "0": 0} {
		got, err := ParseCount(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: got %d want %d", in, got, want)
		}
	}
	for _, in := range []string{"", "2.5", "many", "1e30", "-1e30", "Inf"} {
		if _, err := ParseCount(in); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestParseFloatAndFormat(t *testing.T) {
	f, err := ParseFloat(" 450.5 ")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if FormatFloat(f) != "450.5" {
		t.Fatalf("unexpected format %s", FormatFloat(f))
	}
	if FormatFloat(100) != "100" {
		t.Fatalf("expected integral values without exponent, got %s", FormatFloat(100))
	}
	if _, err := ParseFloat("abc"); err == nil {
		t.Fatalf("expected error")
	}
}
