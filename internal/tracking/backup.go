package tracking

import (
	"context"
	"encoding/json"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"
	"github.com/LiorShur/NatureAccessNewUI/internal/storage"
)

// BackupKey is where the single autosave snapshot lives. The slot is
// overwritten on every save and holds at most one snapshot.
const BackupKey = "route_backup"

// Snapshot is the crash backup of in-progress state. It is a disposable
// shadow of the live session with no identity of its own.
type Snapshot struct {
	RouteData     []route.Entry `json:"routeData"`
	TotalDistance float64       `json:"totalDistance"`
	ElapsedTime   int64         `json:"elapsedTime"`
}

type backupSlot struct {
	kv *storage.Store
}

func (b backupSlot) save(ctx context.Context, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return b.kv.Set(ctx, BackupKey, string(raw))
}

// load returns the stored snapshot and whether one exists. A snapshot that
// cannot be parsed is reported as an error so the caller can treat it as
// corrupt.
func (b backupSlot) load(ctx context.Context) (Snapshot, bool, error) {
	raw, ok, err := b.kv.Get(ctx, BackupKey)
	if err != nil || !ok {
		return Snapshot{}, false, err
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return Snapshot{}, true, err
	}
	return snap, true, nil
}

func (b backupSlot) clear(ctx context.Context) error {
	return b.kv.Remove(ctx, BackupKey)
}
