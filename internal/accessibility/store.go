package accessibility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"
	"github.com/LiorShur/NatureAccessNewUI/internal/storage"

	"github.com/google/uuid"
)

const accessibilityKey = "accessibilityData"

var ErrEmptyReport = errors.New("accessibility report has no answers")

// Report is one filled questionnaire about trail conditions: surface,
// width, slope, obstacles, whatever the form asked.
type Report struct {
	ID        string         `json:"id"`
	Timestamp int64          `json:"timestamp"`
	Answers   map[string]any `json:"answers"`
}

type Store struct {
	kv *storage.Store
}

func NewStore(kv *storage.Store) *Store {
	return &Store{kv: kv}
}

// Save appends a report to the collection and returns it with identity
// filled in.
func (s *Store) Save(ctx context.Context, answers map[string]any) (Report, error) {
	if len(answers) == 0 {
		return Report{}, ErrEmptyReport
	}

	reports, err := s.load(ctx)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		ID:        uuid.NewString(),
		Timestamp: route.NowMs(),
		Answers:   answers,
	}
	reports = append(reports, report)

	if err := s.save(ctx, reports); err != nil {
		return Report{}, err
	}
	return report, nil
}

func (s *Store) List(ctx context.Context) ([]Report, error) {
	return s.load(ctx)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Remove(ctx, accessibilityKey)
}

func (s *Store) load(ctx context.Context) ([]Report, error) {
	raw, ok, err := s.kv.Get(ctx, accessibilityKey)
	if err != nil || !ok {
		return nil, err
	}

	var reports []Report
	if err := json.Unmarshal([]byte(raw), &reports); err != nil {
		return nil, fmt.Errorf("stored accessibility data is corrupt: %w", err)
	}
	return reports, nil
}

func (s *Store) save(ctx context.Context, reports []Report) error {
	raw, err := json.Marshal(reports)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, accessibilityKey, string(raw))
}
