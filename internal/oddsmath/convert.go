// Package oddsmath converts between odds representations. The rest of the
// codebase works exclusively in decimal odds; adapters call into this
// package once, at ingest, so comparison-time code never has to care which
// convention a bookmaker quotes in.
package oddsmath

import (
	"fmt"
	"strconv"
	"strings"
)

// AmericanToDecimal converts American (moneyline) odds to decimal odds.
// +150 -> 2.50, -150 -> 1.6667.
func AmericanToDecimal(american float64) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("oddsmath: american odds cannot be 0")
	}
	if american > 0 {
		return american/100.0 + 1.0, nil
	}
	return 100.0/(-american) + 1.0, nil
}

// DecimalToAmerican converts decimal odds to American odds.
// 2.50 -> +150, 1.6667 -> -150.
func DecimalToAmerican(decimal float64) (float64, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("oddsmath: decimal odds must be > 1.0, got %v", decimal)
	}
	if decimal >= 2.0 {
		return (decimal - 1.0) * 100.0, nil
	}
	return -100.0 / (decimal - 1.0), nil
}

// ParseAmerican parses a bookmaker's American odds string such as "+150",
// "-110", or the unicode minus some feeds use, and returns decimal odds.
func ParseAmerican(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "−", "-")
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0, fmt.Errorf("oddsmath: empty american odds string")
	}
	american, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("oddsmath: parse american odds %q: %w", s, err)
	}
	return AmericanToDecimal(american)
}

// ImpliedProbability returns the implied probability of decimal odds,
// 1/price. 2.00 -> 0.50.
func ImpliedProbability(decimal float64) (float64, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("oddsmath: decimal odds must be > 1.0, got %v", decimal)
	}
	return 1.0 / decimal, nil
}
