package service

import (
	"testing"
	"time"
)

func TestCutoffZeroWindowIsNow(t *testing.T) {
	now := time.Now()
	cutoff := cutoffBefore(now, 0, 0)
	if !cutoff.Equal(now) {
		t.Errorf("cutoffBefore(now, 0, 0) = %v, want %v", cutoff, now)
	}
}

func TestCutoffCalendarDaySubtraction(t *testing.T) {
	now := time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC)

	cutoff := cutoffBefore(now, 3, 0)
	want := time.Date(2026, time.March, 28, 12, 0, 0, 0, time.UTC)
	if !cutoff.Equal(want) {
		t.Errorf("3-day cutoff = %v, want %v", cutoff, want)
	}

	// Crossing a month boundary must follow the calendar, not 24h*31.
	cutoff = cutoffBefore(now, 31, 0)
	want = time.Date(2026, time.February, 28, 12, 0, 0, 0, time.UTC)
	if !cutoff.Equal(want) {
		t.Errorf("31-day cutoff = %v, want %v", cutoff, want)
	}
}

func TestCutoffHours(t *testing.T) {
	now := time.Date(2026, time.January, 10, 5, 30, 0, 0, time.UTC)
	cutoff := cutoffBefore(now, 0, 7)
	want := time.Date(2026, time.January, 9, 22, 30, 0, 0, time.UTC)
	if !cutoff.Equal(want) {
		t.Errorf("7-hour cutoff = %v, want %v", cutoff, want)
	}
}

func TestCutoffMonotonicNonIncreasing(t *testing.T) {
	now := time.Now()
	for i := 1; i <= 10; i++ {
		if cutoffBefore(now, i, 0).After(cutoffBefore(now, i-1, 0)) {
			t.Errorf("cutoff not monotone in days at %d", i)
		}
		if cutoffBefore(now, 0, i).After(cutoffBefore(now, 0, i-1)) {
			t.Errorf("cutoff not monotone in hours at %d", i)
		}
	}
}
