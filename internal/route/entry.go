package route

import (
	"time"

	"github.com/google/uuid"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type EntryType string

const (
	TypeLocation      EntryType = "location"
	TypeText          EntryType = "text"
	TypePhoto         EntryType = "photo"
	TypeAudio         EntryType = "audio"
	TypeVideo         EntryType = "video"
	TypeAccessibility EntryType = "accessibility"
)

// Entry is one record in a route log. Content holds a string for text and
// media entries (media as a data URI) and a map for accessibility entries.
// Timestamps are millisecond epoch. Every entry gets a unique ID at creation
// because timestamps alone are not a reliable key: two captures can share a
// millisecond.
type Entry struct {
	ID        string      `json:"id,omitempty"`
	Type      EntryType   `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Coords    *Coordinate `json:"coords,omitempty"`
	Content   any         `json:"content,omitempty"`
}

// IsAnnotation reports whether t is a user-supplied annotation type.
func IsAnnotation(t EntryType) bool {
	switch t {
	case TypeText, TypePhoto, TypeAudio, TypeVideo:
		return true
	}
	return false
}

func NewLocation(ts int64, c Coordinate) Entry {
	return Entry{ID: uuid.NewString(), Type: TypeLocation, Timestamp: ts, Coords: &c}
}

func NewAnnotation(t EntryType, ts int64, c Coordinate, content string) Entry {
	return Entry{ID: uuid.NewString(), Type: t, Timestamp: ts, Coords: &c, Content: content}
}

// NewAccessibility carries questionnaire answers; it has no coordinates.
func NewAccessibility(ts int64, answers map[string]any) Entry {
	return Entry{ID: uuid.NewString(), Type: TypeAccessibility, Timestamp: ts, Content: answers}
}

// NowMs is the timestamp format entries carry.
func NowMs() int64 {
	return time.Now().UnixMilli()
}

// Locations extracts the coordinates of all location entries in order.
// This is how a path cache is rebuilt from a persisted entry sequence.
func Locations(entries []Entry) []Coordinate {
	var path []Coordinate
	for _, e := range entries {
		if e.Type == TypeLocation && e.Coords != nil {
			path = append(path, *e.Coords)
		}
	}
	return path
}
