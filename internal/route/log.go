package route

import "sync"

// Log is the append-only ordered record of a tracking session. Appends from
// independent capture flows are serialized; nothing is ever removed or
// reordered while the session is live.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Entries returns a copy of the full log in insertion order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Locations returns the coordinates of location entries only, in order.
func (l *Log) Locations() []Coordinate {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Locations(l.entries)
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Replace swaps the whole log content, used when rehydrating from a backup
// snapshot or an imported share payload.
func (l *Log) Replace(entries []Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make([]Entry, len(entries))
	copy(l.entries, entries)
}

func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
