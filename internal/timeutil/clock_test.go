package timeutil

import (
	"testing"
	"time"
)

func TestRealClock(t *testing.T) {
	t.Parallel()

	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	if now.Before(before) {
		t.Errorf("Now went backwards: %v < %v", now, before)
	}
	clock.Sleep(0) // must not block
}

func TestFakeClock(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("Now = %v, want %v", got, start)
	}

	clock.Sleep(100 * time.Millisecond)
	clock.Sleep(200 * time.Millisecond)

	if got := clock.Slept(); got != 300*time.Millisecond {
		t.Errorf("Slept = %v, want 300ms", got)
	}
	if got := clock.Sleeps(); got != 2 {
		t.Errorf("Sleeps = %d, want 2", got)
	}
	if got := clock.Now(); !got.Equal(start.Add(300 * time.Millisecond)) {
		t.Errorf("Now after sleeps = %v", got)
	}
}
