package tracking

import (
	"fmt"
	"time"
)

var timeNow = time.Now

// Timer tracks elapsed active time. Elapsed is always recomputed from an
// anchor instant, never accumulated tick by tick, so missed or irregular
// ticks cause no drift. Pausing freezes the value; resuming moves the
// anchor back by the frozen amount so the gap is excluded.
type Timer struct {
	anchor  time.Time
	elapsed time.Duration
	running bool
}

func (t *Timer) Start() {
	t.elapsed = 0
	t.anchor = timeNow()
	t.running = true
}

func (t *Timer) Pause() {
	if t.running {
		t.elapsed = timeNow().Sub(t.anchor)
		t.running = false
	}
}

func (t *Timer) Resume() {
	if !t.running {
		t.anchor = timeNow().Add(-t.elapsed)
		t.running = true
	}
}

func (t *Timer) Stop() {
	t.Pause()
}

func (t *Timer) Elapsed() time.Duration {
	if t.running {
		return timeNow().Sub(t.anchor)
	}
	return t.elapsed
}

func (t *Timer) Running() bool {
	return t.running
}

// SetElapsed rewinds the timer to a known elapsed value without running it,
// used when rehydrating a recovered session.
func (t *Timer) SetElapsed(d time.Duration) {
	t.elapsed = d
	t.running = false
}

// FormatElapsed renders a duration as zero-padded HH:MM:SS. The hours field
// is unbounded rather than wrapped at 24.
func FormatElapsed(d time.Duration) string {
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
