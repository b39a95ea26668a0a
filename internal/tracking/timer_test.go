package tracking

import (
	"testing"
	"time"
)

func withFakeClock(t *testing.T) func(time.Duration) {
	t.Helper()
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = time.Now })
	return func(d time.Duration) { now = now.Add(d) }
}

func TestTimerExcludesPausedIntervals(t *testing.T) {
	advance := withFakeClock(t)

	var tm Timer
	tm.Start()
	advance(10 * time.Second)

	tm.Pause()
	advance(5 * time.Minute)
	if got := tm.Elapsed(); got != 10*time.Second {
		t.Fatalf("expected 10s while paused, got %v", got)
	}

	tm.Resume()
	advance(20 * time.Second)
	if got := tm.Elapsed(); got != 30*time.Second {
		t.Fatalf("expected 30s after resume, got %v", got)
	}
}

func TestTimerStopFreezesElapsed(t *testing.T) {
	advance := withFakeClock(t)

	var tm Timer
	tm.Start()
	advance(42 * time.Second)
	tm.Stop()
	advance(time.Hour)

	if got := tm.Elapsed(); got != 42*time.Second {
		t.Fatalf("expected 42s after stop, got %v", got)
	}
}

func TestTimerSetElapsedRehydrates(t *testing.T) {
	advance := withFakeClock(t)

	var tm Timer
	tm.SetElapsed(90 * time.Second)
	if tm.Running() {
		t.Fatal("expected timer to stay stopped after SetElapsed")
	}
	if got := tm.Elapsed(); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}

	tm.Resume()
	advance(10 * time.Second)
	if got := tm.Elapsed(); got != 100*time.Second {
		t.Fatalf("expected 100s after resume, got %v", got)
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{61 * time.Second, "00:01:01"},
		{3661 * time.Second, "01:01:01"},
		{100*time.Hour + 5*time.Second, "100:00:05"},
	}
	for _, tc := range cases {
		if got := FormatElapsed(tc.d); got != tc.want {
			t.Fatalf("FormatElapsed(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
