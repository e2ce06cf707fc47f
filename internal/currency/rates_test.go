package currency

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	rates := RateTable{"EUR": 1, "USD": 1.1, "GBP": 0.85, "THB": 38.5}

	tests := []struct {
		name   string
		amount float64
		from   string
		to     string
		rates  RateTable
		want   float64
	}{
		{"same currency is identity", 42.5, "EUR", "EUR", rates, 42.5},
		{"same currency ignores empty table", 42.5, "USD", "USD", nil, 42.5},
		{"usd to reporting", 110, "USD", "EUR", rates, 100},
		{"thb to reporting", 385, "THB", "EUR", rates, 10},
		{"cross rate via reporting", 110, "USD", "GBP", rates, 85},
		{"reporting to usd", 100, "EUR", "USD", rates, 110},
		{"empty table falls back", 100, "USD", "EUR", RateTable{}, 100},
		{"nil table falls back", 100, "USD", "EUR", nil, 100},
		{"unknown source falls back", 100, "JPY", "EUR", rates, 100},
		{"unknown target falls back", 100, "USD", "JPY", rates, 100},
		{"zero rate falls back", 100, "USD", "EUR", RateTable{"USD": 0}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.amount, tt.from, tt.to, tt.rates)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Normalize(%v, %s, %s) = %v, want %v", tt.amount, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestNormalize_FallbackIsExact(t *testing.T) {
	if got := Normalize(100, "USD", "EUR", RateTable{}); got != 100 {
		t.Fatalf("Normalize with empty rates = %v, want exactly 100", got)
	}
	for _, x := range []float64{0, 0.01, 1, 99.99, 1e9} {
		if got := Normalize(x, "EUR", "EUR", RateTable{"EUR": 2}); got != x {
			t.Errorf("identity conversion of %v = %v", x, got)
		}
	}
}

func TestToReporting(t *testing.T) {
	got := ToReporting(55, "USD", RateTable{"EUR": 1, "USD": 1.1})
	if diff := got - 50; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("ToReporting = %v, want 50", got)
	}
}

func TestRateTableClone(t *testing.T) {
	orig := RateTable{"USD": 1.1}
	clone := orig.Clone()
	clone["USD"] = 2
	if orig["USD"] != 1.1 {
		t.Errorf("Clone shares storage with original")
	}
}

func TestConvertible(t *testing.T) {
	rates := RateTable{"EUR": 1, "USD": 1.1, "THB": 0}

	tests := []struct {
		from, to string
		rates    RateTable
		want     bool
	}{
		{"USD", "USD", nil, true},
		{"USD", "EUR", rates, true},
		{"EUR", "USD", rates, true},
		{"USD", "GBP", rates, false},
		{"THB", "EUR", rates, false},
		{"USD", "EUR", nil, false},
	}
	for _, tt := range tests {
		if got := Convertible(tt.from, tt.to, tt.rates); got != tt.want {
			t.Errorf("Convertible(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
