package main

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseSampleValueNumber(t *testing.T) {
	v := parseSampleValue("3.5")
	n, ok := v.Number()
	if !ok || !n.Equal(decimal.NewFromFloat(3.5)) {
		t.Fatalf("got %v, ok=%v, want 3.5", n, ok)
	}
}

func TestParseSampleValueText(t *testing.T) {
	v := parseSampleValue("Jan")
	s, ok := v.Text()
	if !ok || s != "Jan" {
		t.Fatalf("got %q, ok=%v, want Jan", s, ok)
	}
}
