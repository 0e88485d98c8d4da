package main

import (
	"testing"
	"time"
)

func TestNextRunAfter(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	cases := []struct {
		name string
		now  time.Time
	}{
		{"mid-afternoon", time.Date(2026, 8, 30, 15, 30, 0, 0, loc)},
		{"just before midnight", time.Date(2026, 8, 30, 23, 59, 59, 0, loc)},
		{"exactly midnight", time.Date(2026, 8, 30, 0, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		next := nextRunAfter(tc.now, loc)
		if !next.After(tc.now) {
			t.Fatalf("%s: next run %v is not after %v", tc.name, next, tc.now)
		}
		if next.Sub(tc.now) > 24*time.Hour {
			t.Fatalf("%s: next run %v is more than a day out", tc.name, next)
		}
		local := next.In(loc)
		if local.Hour() != 0 || local.Minute() != 0 || local.Second() != 0 {
			t.Fatalf("%s: next run %v is not at local midnight", tc.name, next)
		}
	}
}

func TestShouldRunDirectCleanupScheduler(t *testing.T) {
	cases := []struct {
		value    string
		expected bool
	}{
		{"", true},
		{"true", true},
		{"false", false},
		{"garbage", true},
	}
	for _, tc := range cases {
		t.Setenv("CLEANUP_DIRECT_SCHEDULING", tc.value)
		if got := shouldRunDirectCleanupScheduler(); got != tc.expected {
			t.Fatalf("CLEANUP_DIRECT_SCHEDULING=%q: got %v, expected %v", tc.value, got, tc.expected)
		}
	}
}
