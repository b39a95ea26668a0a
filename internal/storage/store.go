package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// ErrCapacityExceeded is returned by Set when a write would push total
// stored bytes past the configured quota. Callers are expected to fall
// back rather than lose data.
var ErrCapacityExceeded = errors.New("storage capacity exceeded")

// Store is a durable key-value collection over the embedded database.
// Every mutation is a whole-value write under a single key, mirroring the
// read-modify-write discipline of the browser storage it replaces.
type Store struct {
	db    *sql.DB
	quota int64
	mu    sync.Mutex
}

// Usage reports the current storage footprint.
type Usage struct {
	UsedBytes      int64 `json:"used_bytes"`
	AvailableBytes int64 `json:"available_bytes"`
	QuotaBytes     int64 `json:"quota_bytes"`
}

// New creates the backing table if needed. quotaBytes <= 0 disables the quota.
func New(db *sql.DB, quotaBytes int64) (*Store, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, quota: quotaBytes}, nil
}

// Get returns the stored value and whether the key exists.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key, overwriting any previous value. The quota is
// checked against the total size after the write.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 {
		var others int64
		err := s.db.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(LENGTH(value)), 0) FROM kv WHERE key != ?
		`, key).Scan(&others)
		if err != nil {
			return err
		}
		if others+int64(len(value)) > s.quota {
			return ErrCapacityExceeded
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value=excluded.value
	`, key, value)
	return err
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key=?`, key)
	return err
}

// Usage reports used and remaining bytes against the quota.
func (s *Store) Usage(ctx context.Context) (Usage, error) {
	var used int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(LENGTH(value)), 0) FROM kv`).Scan(&used)
	if err != nil {
		return Usage{}, err
	}
	u := Usage{UsedBytes: used, QuotaBytes: s.quota}
	if s.quota > 0 {
		u.AvailableBytes = s.quota - used
	}
	return u, nil
}
