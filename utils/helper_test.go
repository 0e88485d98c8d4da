package utils

import (
	"testing"
	"time"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in       string
		expected float64
	}{
		{"1000", 1000},
		{"1,000", 1000},
		{" 1,234.50 ", 1234.5},
		{"-250.75", -250.75},
		{"", 0},
		{"   ", 0},
		{"n/a", 0},
		{"12abc", 0},
	}
	for _, tc := range cases {
		if got := ParseNumber(tc.in); got != tc.expected {
			t.Fatalf("ParseNumber(%q) = %v, expected %v", tc.in, got, tc.expected)
		}
	}
}

func TestNextMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	afternoon := time.Date(2026, 8, 30, 15, 4, 5, 0, loc)
	next := NextMidnight(afternoon, loc)
	expected := time.Date(2026, 8, 31, 0, 0, 0, 0, loc)
	if !next.Equal(expected) {
		t.Fatalf("NextMidnight(afternoon) = %v, expected %v", next, expected)
	}

	// Midnight input still moves strictly forward.
	midnight := time.Date(2026, 8, 30, 0, 0, 0, 0, loc)
	next = NextMidnight(midnight, loc)
	if !next.After(midnight) {
		t.Fatalf("NextMidnight(midnight) = %v, not strictly after input", next)
	}
	if next.Sub(midnight) != 24*time.Hour {
		t.Fatalf("NextMidnight(midnight) jumped %v, expected 24h", next.Sub(midnight))
	}

	// Horizon is computed in the target zone regardless of the input zone.
	utcEvening := time.Date(2026, 8, 30, 20, 0, 0, 0, time.UTC) // already Aug 31 in Manila
	next = NextMidnight(utcEvening, loc)
	expected = time.Date(2026, 9, 1, 0, 0, 0, 0, loc)
	if !next.Equal(expected) {
		t.Fatalf("NextMidnight(utcEvening) = %v, expected %v", next, expected)
	}
}
