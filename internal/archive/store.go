package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/LiorShur/NatureAccessNewUI/internal/storage"
)

const archiveKey = "summary_archive"

var ErrNotFound = errors.New("archived summary not found")

// Item is one archived trip summary: a self-contained HTML page kept
// after the raw session may have been deleted to free space, plus the
// media files the trip captured, keyed by filename.
type Item struct {
	ID    int64             `json:"id"`
	Name  string            `json:"name"`
	Date  string            `json:"date"`
	HTML  string            `json:"html"`
	Media map[string]string `json:"media"`
}

// Summary is the listing view of an Item, without the page body.
type Summary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

type Store struct {
	kv *storage.Store
}

func NewStore(kv *storage.Store) *Store {
	return &Store{kv: kv}
}

var timeNow = time.Now

// Save appends a rendered summary to the archive.
func (s *Store) Save(ctx context.Context, name, html string, media map[string]string) (Item, error) {
	if html == "" {
		return Item{}, errors.New("summary has no content")
	}
	if media == nil {
		media = map[string]string{}
	}

	items, err := s.load(ctx)
	if err != nil {
		return Item{}, err
	}

	now := timeNow()
	id := now.UnixMilli()
	// two saves can land in the same millisecond
	for _, existing := range items {
		if existing.ID >= id {
			id = existing.ID + 1
		}
	}
	item := Item{
		ID:    id,
		Name:  name,
		Date:  now.Format(time.RFC3339),
		HTML:  html,
		Media: media,
	}
	items = append(items, item)

	if err := s.save(ctx, items); err != nil {
		return Item{}, err
	}
	return item, nil
}

// List returns archive metadata newest first, bodies omitted.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		summaries = append(summaries, Summary{ID: items[i].ID, Name: items[i].Name, Date: items[i].Date})
	}
	return summaries, nil
}

func (s *Store) Get(ctx context.Context, id int64) (Item, error) {
	items, err := s.load(ctx)
	if err != nil {
		return Item{}, err
	}
	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}
	return Item{}, ErrNotFound
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	items, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.ID == id {
			items = append(items[:i], items[i+1:]...)
			return s.save(ctx, items)
		}
	}
	return ErrNotFound
}

func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Remove(ctx, archiveKey)
}

func (s *Store) load(ctx context.Context) ([]Item, error) {
	raw, ok, err := s.kv.Get(ctx, archiveKey)
	if err != nil || !ok {
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("stored archive is corrupt: %w", err)
	}
	return items, nil
}

func (s *Store) save(ctx context.Context, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, archiveKey, string(raw))
}
