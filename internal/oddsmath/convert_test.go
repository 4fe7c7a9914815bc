package oddsmath

import (
	"math"
	"testing"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american float64
		want     float64
	}{
		{"even odds +100", 100, 2.0},
		{"underdog +150", 150, 2.5},
		{"underdog +200", 200, 3.0},
		{"favorite -110", -110, 1.909090909},
		{"favorite -150", -150, 1.666666667},
		{"favorite -200", -200, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmericanToDecimal(tt.american)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("AmericanToDecimal(%v) = %f, want %f", tt.american, got, tt.want)
			}
		})
	}
}

func TestAmericanToDecimalZero(t *testing.T) {
	if _, err := AmericanToDecimal(0); err == nil {
		t.Error("expected error for american odds 0")
	}
}

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		name    string
		decimal float64
		want    float64
	}{
		{"even odds 2.0", 2.0, 100},
		{"underdog 2.5", 2.5, 150},
		{"underdog 3.0", 3.0, 200},
		{"favorite 1.5", 1.5, -200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecimalToAmerican(tt.decimal)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("DecimalToAmerican(%v) = %f, want %f", tt.decimal, got, tt.want)
			}
		})
	}
}

func TestParseAmerican(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"+150", 2.5},
		{"-200", 1.5},
		{" +100 ", 2.0},
		{"−110", 1.909090909},
	}

	for _, tt := range tests {
		got, err := ParseAmerican(tt.in)
		if err != nil {
			t.Fatalf("ParseAmerican(%q): unexpected error: %v", tt.in, err)
		}
		if math.Abs(got-tt.want) > 0.0001 {
			t.Errorf("ParseAmerican(%q) = %f, want %f", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "+", "abc", "0"} {
		if _, err := ParseAmerican(bad); err == nil {
			t.Errorf("ParseAmerican(%q): expected error", bad)
		}
	}
}

func TestImpliedProbability(t *testing.T) {
	got, err := ImpliedProbability(2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.5) > 0.0001 {
		t.Errorf("ImpliedProbability(2.0) = %f, want 0.5", got)
	}

	if _, err := ImpliedProbability(1.0); err == nil {
		t.Error("expected error for decimal odds 1.0")
	}
}
