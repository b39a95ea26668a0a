package tracking

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"
	"github.com/LiorShur/NatureAccessNewUI/internal/storage"

	_ "modernc.org/sqlite"
)

func newTestController(t *testing.T) (*Controller, *storage.Store) {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	kv, err := storage.New(db, 0)
	if err != nil {
		t.Fatalf("failed to create kv store: %v", err)
	}

	ctrl := NewController(kv, nil)
	t.Cleanup(func() { ctrl.Reset(context.Background()) })
	return ctrl, kv
}

func TestStartAndHandleFix(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	state, err := ctrl.Start(ctx)
	if err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	if !state.IsTracking || state.RouteID == "" {
		t.Fatalf("unexpected state after start: %+v", state)
	}

	if _, err := ctrl.Start(ctx); !errors.Is(err, ErrAlreadyTracking) {
		t.Fatalf("expected ErrAlreadyTracking, got %v", err)
	}

	accepted, state, err := ctrl.HandleFix(ctx, Fix{Lat: 0, Lng: 0, AccuracyM: 5, Timestamp: 1000})
	if err != nil || !accepted {
		t.Fatalf("expected first fix accepted, accepted=%v err=%v", accepted, err)
	}
	if state.TotalDistanceKm != 0 {
		t.Fatalf("expected zero distance after first fix, got %f", state.TotalDistanceKm)
	}

	accepted, state, err = ctrl.HandleFix(ctx, Fix{Lat: 0.001, Lng: 0, AccuracyM: 5, Timestamp: 2000})
	if err != nil || !accepted {
		t.Fatalf("expected second fix accepted, accepted=%v err=%v", accepted, err)
	}
	if state.TotalDistanceKm <= 0 {
		t.Fatalf("expected positive distance, got %f", state.TotalDistanceKm)
	}
	if len(state.Entries) != 2 || len(state.Path) != 2 {
		t.Fatalf("expected 2 entries and 2 path points, got %d and %d", len(state.Entries), len(state.Path))
	}

	accepted, state, err = ctrl.HandleFix(ctx, Fix{Lat: 0.001, Lng: 0, AccuracyM: 50, Timestamp: 3000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accepted || len(state.Entries) != 2 {
		t.Fatal("expected inaccurate fix to change nothing")
	}
}

func TestFixRequiresTracking(t *testing.T) {
	ctrl, _ := newTestController(t)

	if _, _, err := ctrl.HandleFix(context.Background(), Fix{AccuracyM: 5}); !errors.Is(err, ErrNotTracking) {
		t.Fatalf("expected ErrNotTracking, got %v", err)
	}
}

func TestPauseKeepsAcceptingFixes(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	if _, err := ctrl.Start(ctx); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	if _, _, err := ctrl.HandleFix(ctx, Fix{Lat: 0, Lng: 0, AccuracyM: 5}); err != nil {
		t.Fatalf("failed to handle fix: %v", err)
	}

	state, err := ctrl.Pause(ctx)
	if err != nil {
		t.Fatalf("failed to pause: %v", err)
	}
	if !state.IsPaused {
		t.Fatal("expected paused state")
	}

	// pausing freezes the clock, not the position stream
	accepted, state, err := ctrl.HandleFix(ctx, Fix{Lat: 0.001, Lng: 0, AccuracyM: 5})
	if err != nil || !accepted {
		t.Fatalf("expected fix during pause to be accepted, accepted=%v err=%v", accepted, err)
	}
	if state.TotalDistanceKm <= 0 {
		t.Fatalf("expected distance to grow during pause, got %f", state.TotalDistanceKm)
	}
}

func TestStopKeepsStateUntilDecision(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	if _, err := ctrl.Start(ctx); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	if _, _, err := ctrl.HandleFix(ctx, Fix{Lat: 0, Lng: 0, AccuracyM: 5}); err != nil {
		t.Fatalf("failed to handle fix: %v", err)
	}

	state, err := ctrl.Stop(ctx)
	if err != nil {
		t.Fatalf("failed to stop: %v", err)
	}
	if state.IsTracking {
		t.Fatal("expected tracking off after stop")
	}
	if len(state.Entries) != 1 {
		t.Fatalf("expected entries preserved after stop, got %d", len(state.Entries))
	}

	// a failed save path resumes accumulation on the same route
	resumed, err := ctrl.ResumeTracking(ctx)
	if err != nil {
		t.Fatalf("failed to resume tracking: %v", err)
	}
	if !resumed.IsTracking || resumed.RouteID != state.RouteID {
		t.Fatalf("expected same route resumed, got %+v", resumed)
	}
}

func TestResetClearsEverything(t *testing.T) {
	ctrl, kv := newTestController(t)
	ctx := context.Background()

	if _, err := ctrl.Start(ctx); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	if _, _, err := ctrl.HandleFix(ctx, Fix{Lat: 0, Lng: 0, AccuracyM: 5}); err != nil {
		t.Fatalf("failed to handle fix: %v", err)
	}
	if err := ctrl.SaveBackup(ctx); err != nil {
		t.Fatalf("failed to save backup: %v", err)
	}

	if err := ctrl.Reset(ctx); err != nil {
		t.Fatalf("failed to reset: %v", err)
	}

	state := ctrl.State()
	if state.IsTracking || len(state.Entries) != 0 || state.TotalDistanceKm != 0 || state.ElapsedMs != 0 {
		t.Fatalf("expected empty state after reset, got %+v", state)
	}
	if _, ok, err := kv.Get(ctx, BackupKey); err != nil || ok {
		t.Fatalf("expected backup cleared, ok=%v err=%v", ok, err)
	}
}

func TestBackupRoundTrip(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	if _, err := ctrl.Start(ctx); err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	if _, _, err := ctrl.HandleFix(ctx, Fix{Lat: 0, Lng: 0, AccuracyM: 5, Timestamp: 1000}); err != nil {
		t.Fatalf("failed to handle fix: %v", err)
	}
	if _, _, err := ctrl.HandleFix(ctx, Fix{Lat: 0.001, Lng: 0, AccuracyM: 5, Timestamp: 2000}); err != nil {
		t.Fatalf("failed to handle fix: %v", err)
	}
	if err := ctrl.SaveBackup(ctx); err != nil {
		t.Fatalf("failed to save backup: %v", err)
	}
	wantDistance := ctrl.State().TotalDistanceKm

	snap, err := ctrl.PendingRecovery(ctx)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if len(snap.RouteData) != 2 {
		t.Fatalf("expected 2 entries in snapshot, got %d", len(snap.RouteData))
	}
	if snap.TotalDistance != wantDistance {
		t.Fatalf("expected distance %f, got %f", wantDistance, snap.TotalDistance)
	}
}

func TestRecoverRestore(t *testing.T) {
	ctrl, kv := newTestController(t)
	ctx := context.Background()

	snap := Snapshot{
		RouteData: []route.Entry{
			route.NewLocation(1000, route.Coordinate{Lat: 0, Lng: 0}),
			route.NewLocation(2000, route.Coordinate{Lat: 0.001, Lng: 0}),
			route.NewAnnotation(route.TypeText, 3000, route.Coordinate{Lat: 0.001, Lng: 0}, "note"),
		},
		TotalDistance: 0.111,
		ElapsedTime:   (90 * time.Second).Milliseconds(),
	}
	slot := backupSlot{kv: kv}
	if err := slot.save(ctx, snap); err != nil {
		t.Fatalf("failed to seed backup: %v", err)
	}

	state, err := ctrl.Recover(ctx, true)
	if err != nil {
		t.Fatalf("failed to recover: %v", err)
	}
	if state.IsTracking {
		t.Fatal("restore must not resume tracking on its own")
	}
	if len(state.Entries) != 3 || len(state.Path) != 2 {
		t.Fatalf("expected 3 entries and 2 path points, got %d and %d", len(state.Entries), len(state.Path))
	}
	if state.TotalDistanceKm != 0.111 {
		t.Fatalf("expected restored distance 0.111, got %f", state.TotalDistanceKm)
	}
	if state.Elapsed != "00:01:30" {
		t.Fatalf("expected restored elapsed 00:01:30, got %q", state.Elapsed)
	}

	// starting after a restore keeps the restored clock and distance
	started, err := ctrl.Start(ctx)
	if err != nil {
		t.Fatalf("failed to start after restore: %v", err)
	}
	if started.ElapsedMs < (90 * time.Second).Milliseconds() {
		t.Fatalf("expected elapsed to continue from 90s, got %dms", started.ElapsedMs)
	}
}

func TestRecoverDecline(t *testing.T) {
	ctrl, kv := newTestController(t)
	ctx := context.Background()

	slot := backupSlot{kv: kv}
	if err := slot.save(ctx, Snapshot{RouteData: []route.Entry{route.NewLocation(1000, route.Coordinate{})}}); err != nil {
		t.Fatalf("failed to seed backup: %v", err)
	}

	state, err := ctrl.Recover(ctx, false)
	if err != nil {
		t.Fatalf("failed to decline recovery: %v", err)
	}
	if len(state.Entries) != 0 {
		t.Fatalf("expected empty state after decline, got %d entries", len(state.Entries))
	}
	if _, ok, err := kv.Get(ctx, BackupKey); err != nil || ok {
		t.Fatalf("expected backup cleared after decline, ok=%v err=%v", ok, err)
	}
}

func TestRecoverCorruptBackup(t *testing.T) {
	ctrl, kv := newTestController(t)
	ctx := context.Background()

	if err := kv.Set(ctx, BackupKey, `{not json`); err != nil {
		t.Fatalf("failed to seed backup: %v", err)
	}

	if _, err := ctrl.PendingRecovery(ctx); !errors.Is(err, ErrCorruptBackup) {
		t.Fatalf("expected ErrCorruptBackup, got %v", err)
	}

	if _, err := ctrl.Recover(ctx, true); !errors.Is(err, ErrCorruptBackup) {
		t.Fatalf("expected ErrCorruptBackup, got %v", err)
	}
	if _, ok, err := kv.Get(ctx, BackupKey); err != nil || ok {
		t.Fatalf("expected corrupt backup cleared, ok=%v err=%v", ok, err)
	}
	if state := ctrl.State(); len(state.Entries) != 0 || state.IsTracking {
		t.Fatalf("expected clean state after corrupt recovery, got %+v", state)
	}
}

func TestRecoverEmptySnapshotIsCorrupt(t *testing.T) {
	ctrl, kv := newTestController(t)
	ctx := context.Background()

	slot := backupSlot{kv: kv}
	if err := slot.save(ctx, Snapshot{TotalDistance: 1}); err != nil {
		t.Fatalf("failed to seed backup: %v", err)
	}

	if _, err := ctrl.Recover(ctx, true); !errors.Is(err, ErrCorruptBackup) {
		t.Fatalf("expected ErrCorruptBackup for empty snapshot, got %v", err)
	}
}

func TestRecoverWithoutBackup(t *testing.T) {
	ctrl, _ := newTestController(t)

	if _, err := ctrl.Recover(context.Background(), true); !errors.Is(err, ErrNoBackup) {
		t.Fatalf("expected ErrNoBackup, got %v", err)
	}
}

func TestImportShared(t *testing.T) {
	ctrl, _ := newTestController(t)

	entries := []route.Entry{
		route.NewLocation(1000, route.Coordinate{Lat: 1, Lng: 1}),
		route.NewLocation(2000, route.Coordinate{Lat: 1.001, Lng: 1}),
	}
	ctrl.ImportShared(entries)

	state := ctrl.State()
	if state.IsTracking {
		t.Fatal("imported route must be read-only, not a live session")
	}
	if len(state.Entries) != 2 || len(state.Path) != 2 {
		t.Fatalf("expected 2 entries and 2 path points, got %d and %d", len(state.Entries), len(state.Path))
	}
}

func TestAddAnnotationValidatesType(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	if _, err := ctrl.AddAnnotation(ctx, route.TypeLocation, "x", route.Coordinate{}, 0); err == nil {
		t.Fatal("expected location type to be rejected as annotation")
	}

	entry, err := ctrl.AddAnnotation(ctx, route.TypeText, "waterfall ahead", route.Coordinate{Lat: 1, Lng: 2}, 0)
	if err != nil {
		t.Fatalf("failed to add annotation: %v", err)
	}
	if entry.ID == "" || entry.Timestamp == 0 {
		t.Fatalf("expected populated entry, got %+v", entry)
	}
}
