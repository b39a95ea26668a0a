package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"
	"github.com/LiorShur/NatureAccessNewUI/internal/storage"

	"github.com/google/uuid"
)

const sessionsKey = "sessions"

// backupKey mirrors the autosave slot so media sweeps can reach entries
// that only exist in an unfinished recording.
const backupKey = "route_backup"

var (
	ErrNameRequired = errors.New("session name is required")
	ErrNoEntries    = errors.New("session has no entries")
	ErrNotFound     = errors.New("session not found")
	ErrNoSessions   = errors.New("no saved sessions")
)

// Store keeps the saved-session collection under a single key. Every
// mutation reads the whole list, edits it and writes it back; the single
// database connection serializes concurrent writers.
type Store struct {
	kv *storage.Store
}

func NewStore(kv *storage.Store) *Store {
	return &Store{kv: kv}
}

var timeNow = time.Now

// Create appends a finished recording to the collection. The autosave
// slot is not touched here; the caller clears the live state once the
// save is known to have landed.
func (s *Store) Create(ctx context.Context, name string, entries []route.Entry, distanceKm float64, elapsed string) (RouteSession, error) {
	if name == "" {
		return RouteSession{}, ErrNameRequired
	}
	if len(entries) == 0 {
		return RouteSession{}, ErrNoEntries
	}

	sessions, err := s.load(ctx)
	if err != nil {
		return RouteSession{}, err
	}

	sess := RouteSession{
		ID:       uuid.NewString(),
		Name:     name,
		Date:     timeNow().Format(time.RFC3339),
		Time:     elapsed,
		Distance: fmt.Sprintf("%.2f", distanceKm),
		Data:     entries,
	}
	sessions = append(sessions, sess)

	if err := s.save(ctx, sessions); err != nil {
		return RouteSession{}, err
	}
	return sess, nil
}

func (s *Store) List(ctx context.Context) ([]RouteSession, error) {
	return s.load(ctx)
}

// Get returns the session at the given position in save order.
func (s *Store) Get(ctx context.Context, index int) (RouteSession, error) {
	sessions, err := s.load(ctx)
	if err != nil {
		return RouteSession{}, err
	}
	if index < 0 || index >= len(sessions) {
		return RouteSession{}, ErrNotFound
	}
	return sessions[index], nil
}

// MostRecent returns the last saved session.
func (s *Store) MostRecent(ctx context.Context) (RouteSession, error) {
	sessions, err := s.load(ctx)
	if err != nil {
		return RouteSession{}, err
	}
	if len(sessions) == 0 {
		return RouteSession{}, ErrNoSessions
	}
	return sessions[len(sessions)-1], nil
}

func (s *Store) Delete(ctx context.Context, index int) error {
	sessions, err := s.load(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(sessions) {
		return ErrNotFound
	}
	sessions = append(sessions[:index], sessions[index+1:]...)
	return s.save(ctx, sessions)
}

// DeleteAll wipes the collection and the autosave slot together.
func (s *Store) DeleteAll(ctx context.Context) error {
	if err := s.kv.Remove(ctx, sessionsKey); err != nil {
		return err
	}
	return s.kv.Remove(ctx, backupKey)
}

// DeleteMediaByTimestamp removes every entry of the given type carrying
// the given timestamp, across all saved sessions and the autosave slot.
// Timestamps are not unique, so this can remove more than one entry; the
// count tells the caller how many went.
func (s *Store) DeleteMediaByTimestamp(ctx context.Context, typ route.EntryType, timestamp int64) (int, error) {
	return s.sweep(ctx, func(e route.Entry) bool {
		return e.Type == typ && e.Timestamp == timestamp
	})
}

// DeleteAllPhotos strips photo entries everywhere, the bulk way to
// reclaim space when media pushes storage toward the quota.
func (s *Store) DeleteAllPhotos(ctx context.Context) (int, error) {
	return s.sweep(ctx, func(e route.Entry) bool {
		return e.Type == route.TypePhoto
	})
}

func (s *Store) Usage(ctx context.Context) (storage.Usage, error) {
	return s.kv.Usage(ctx)
}

// sweep removes entries matching the predicate from every saved session
// and from the backup snapshot, writing back only what changed.
func (s *Store) sweep(ctx context.Context, match func(route.Entry) bool) (int, error) {
	sessions, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	changed := false
	for i := range sessions {
		kept := sessions[i].Data[:0:0]
		for _, e := range sessions[i].Data {
			if match(e) {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) != len(sessions[i].Data) {
			sessions[i].Data = kept
			changed = true
		}
	}
	if changed {
		if err := s.save(ctx, sessions); err != nil {
			return 0, err
		}
	}

	n, err := s.sweepBackup(ctx, match)
	if err != nil {
		return removed, err
	}
	return removed + n, nil
}

func (s *Store) sweepBackup(ctx context.Context, match func(route.Entry) bool) (int, error) {
	raw, ok, err := s.kv.Get(ctx, backupKey)
	if err != nil || !ok {
		return 0, err
	}

	var snap struct {
		RouteData     []route.Entry `json:"routeData"`
		TotalDistance float64       `json:"totalDistance"`
		ElapsedTime   int64         `json:"elapsedTime"`
	}
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		// a corrupt backup is the recovery flow's problem, not the sweep's
		return 0, nil
	}

	removed := 0
	kept := snap.RouteData[:0:0]
	for _, e := range snap.RouteData {
		if match(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return 0, nil
	}

	snap.RouteData = kept
	out, err := json.Marshal(snap)
	if err != nil {
		return removed, err
	}
	return removed, s.kv.Set(ctx, backupKey, string(out))
}

func (s *Store) load(ctx context.Context) ([]RouteSession, error) {
	raw, ok, err := s.kv.Get(ctx, sessionsKey)
	if err != nil || !ok {
		return nil, err
	}

	var sessions []RouteSession
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		return nil, fmt.Errorf("stored sessions are corrupt: %w", err)
	}
	return sessions, nil
}

func (s *Store) save(ctx context.Context, sessions []RouteSession) error {
	raw, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, sessionsKey, string(raw))
}
