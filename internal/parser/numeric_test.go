package parser

import (
	"strconv"
	"testing"
)

func TestParseNumeric_PriceVariants(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
	}{
		{"$12.99 (save $2)", 12.99},
		{"US$ 12.99/count", 12.99},
		{"12.99", 12.99},
		{"1,203", 1203},
		{"¥88.00", 88},
		{"10-20", 15},
		{"12.99-18.99", 15.99},
		{"10 to 20", 15},
	}
	for _, c := range cases {
		got, ok := ParseNumeric(c.in)
		if !ok {
			t.Fatalf("ParseNumeric(%q) not parseable", c.in)
		}
		if got != c.want {
			t.Fatalf("ParseNumeric(%q)=%v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseNumeric_Unparseable(t *testing.T) {
	t.Parallel()

	for _, in := range []interface{}{"", "abc", nil, "   ", "N/A"} {
		if _, ok := ParseNumeric(in); ok {
			t.Fatalf("ParseNumeric(%v) should be unparseable", in)
		}
	}
}

func TestParseNumeric_NumberPassthrough(t *testing.T) {
	t.Parallel()

	got, ok := ParseNumeric(float64(4.6))
	if !ok || got != 4.6 {
		t.Fatalf("ParseNumeric(4.6)=%v ok=%v", got, ok)
	}
	got, ok = ParseNumeric(1203)
	if !ok || got != 1203 {
		t.Fatalf("ParseNumeric(1203)=%v ok=%v", got, ok)
	}
}

func TestParseNumeric_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"$12.99 (save $2)", "10-20", "1,203", "4.6"}
	for _, in := range inputs {
		first, ok := ParseNumeric(in)
		if !ok {
			t.Fatalf("ParseNumeric(%q) not parseable", in)
		}
		second, ok := ParseNumeric(strconv.FormatFloat(first, 'f', -1, 64))
		if !ok || second != first {
			t.Fatalf("roundtrip %q: first=%v second=%v ok=%v", in, first, second, ok)
		}
	}
}

func TestParseNumeric_FullWidthChars(t *testing.T) {
	t.Parallel()

	got, ok := ParseNumeric("１２" /* 全角数字不识别 */)
	if ok {
		t.Fatalf("full-width digits should be unparseable, got %v", got)
	}
	got, ok = ParseNumeric("12.99—18.99")
	if !ok || got != 15.99 {
		t.Fatalf("em-dash range: got=%v ok=%v", got, ok)
	}
}

func TestParsePercent(t *testing.T) {
	t.Parallel()

	got, ok := ParsePercent("15%")
	if !ok || got != 0.15 {
		t.Fatalf("ParsePercent(15%%)=%v ok=%v", got, ok)
	}
	got, ok = ParsePercent("15")
	if !ok || got != 15 {
		t.Fatalf("ParsePercent(15)=%v ok=%v", got, ok)
	}
}
