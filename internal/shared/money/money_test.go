package money

import (
	"math"
	"testing"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		name    string
		in      float64
		want    int64
		wantErr bool
	}{
		{"integer", 50, 5000, false},
		{"two decimals", 50.25, 5025, false},
		{"one decimal", 0.1, 10, false},
		{"zero", 0, 0, false},
		{"three decimals", 10.123, 0, true},
		{"negative", -1, 0, true},
		{"nan", math.NaN(), 0, true},
		{"inf", math.Inf(1), 0, true},
	}

	for _, tt := range tests {
		got, err := ToCents(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got %d", tt.name, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestFromCentsRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 5025, 999999} {
		back, err := ToCents(FromCents(cents))
		if err != nil {
			t.Fatalf("round trip %d: %v", cents, err)
		}
		if back != cents {
			t.Errorf("round trip %d: got %d", cents, back)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{5000, "R$ 50,00"},
		{123456, "R$ 1.234,56"},
		{5, "R$ 0,05"},
		{-150, "-R$ 1,50"},
	}
	for _, tt := range tests {
		if got := FormatBRL(tt.cents); got != tt.want {
			t.Errorf("FormatBRL(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
