package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"
	"github.com/LiorShur/NatureAccessNewUI/internal/storage"
	"github.com/LiorShur/NatureAccessNewUI/internal/stream"

	"github.com/google/uuid"
)

const autosaveInterval = 20 * time.Second

var (
	ErrAlreadyTracking = errors.New("tracking already in progress")
	ErrNotTracking     = errors.New("tracking is not active")
	ErrNoBackup        = errors.New("no backup snapshot")
	ErrCorruptBackup   = errors.New("backup snapshot is corrupt")
)

// State is a read-only view of the live tracking session.
type State struct {
	RouteID         string             `json:"route_id,omitempty"`
	IsTracking      bool               `json:"is_tracking"`
	IsPaused        bool               `json:"is_paused"`
	TotalDistanceKm float64            `json:"total_distance_km"`
	ElapsedMs       int64              `json:"elapsed_ms"`
	Elapsed         string             `json:"elapsed"`
	Entries         []route.Entry      `json:"entries"`
	Path            []route.Coordinate `json:"path"`
}

// Controller owns the single live tracking session: the route log, the
// sample filter, the distance accumulator, the timer and the autosave
// slot. All mutation goes through its lock; callback flows that interleave
// in the browser are serialized here the same way.
type Controller struct {
	hub    *stream.Hub
	backup backupSlot

	mu           sync.Mutex
	log          *route.Log
	path         []route.Coordinate
	filter       sampleFilter
	timer        Timer
	totalKm      float64
	isTracking   bool
	isPaused     bool
	routeID      string
	autosaveStop chan struct{}
}

func NewController(kv *storage.Store, hub *stream.Hub) *Controller {
	return &Controller{
		hub:    hub,
		backup: backupSlot{kv: kv},
		log:    route.NewLog(),
	}
}

// Start begins (or, after a recovery restore, continues) live tracking.
// Elapsed time already on the clock is preserved, which is what makes the
// restore-then-start flow seamless.
func (c *Controller) Start(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isTracking {
		return State{}, ErrAlreadyTracking
	}

	c.isTracking = true
	c.isPaused = false
	if c.routeID == "" {
		c.routeID = uuid.NewString()
	}
	c.timer.Resume()
	c.startAutosaveLocked()

	c.broadcastStatus("recording")
	return c.stateLocked(), nil
}

// HandleFix runs one raw position report through the sample filter. An
// accepted fix extends the path, appends a location entry and grows the
// trip distance; a rejected one changes nothing.
func (c *Controller) HandleFix(ctx context.Context, fix Fix) (bool, State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isTracking {
		return false, State{}, ErrNotTracking
	}

	delta, ok := c.filter.accept(fix)
	if !ok {
		return false, c.stateLocked(), nil
	}

	ts := fix.Timestamp
	if ts == 0 {
		ts = route.NowMs()
	}
	coord := route.Coordinate{Lat: fix.Lat, Lng: fix.Lng}
	c.log.Append(route.NewLocation(ts, coord))
	c.path = append(c.path, coord)
	c.totalKm += delta

	c.broadcast(map[string]any{
		"event":             "fix",
		"coords":            coord,
		"total_distance_km": c.totalKm,
	})
	return true, c.stateLocked(), nil
}

// AddAnnotation appends a user capture (text note, photo, audio, video) to
// the route log. Captures started before tracking stopped are still
// allowed to land, so there is no isTracking gate here.
func (c *Controller) AddAnnotation(ctx context.Context, t route.EntryType, content string, coords route.Coordinate, ts int64) (route.Entry, error) {
	if !route.IsAnnotation(t) {
		return route.Entry{}, errors.New("unsupported entry type")
	}
	if ts == 0 {
		ts = route.NowMs()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	entry := route.NewAnnotation(t, ts, coords, content)
	c.log.Append(entry)
	return entry, nil
}

// AddAccessibility appends questionnaire answers to the route log.
func (c *Controller) AddAccessibility(ctx context.Context, answers map[string]any) (route.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := route.NewAccessibility(route.NowMs(), answers)
	c.log.Append(entry)
	return entry, nil
}

func (c *Controller) Pause(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isTracking {
		return State{}, ErrNotTracking
	}
	c.isPaused = true
	c.timer.Pause()
	c.broadcastStatus("paused")
	return c.stateLocked(), nil
}

func (c *Controller) Resume(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isTracking {
		return State{}, ErrNotTracking
	}
	c.isPaused = false
	c.timer.Resume()
	c.broadcastStatus("recording")
	return c.stateLocked(), nil
}

// Stop halts live tracking and autosave but keeps the session state in
// place: the caller decides next whether to finalize, discard, or resume.
func (c *Controller) Stop(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isTracking {
		return State{}, ErrNotTracking
	}
	c.stopAutosaveLocked()
	c.timer.Stop()
	c.isTracking = false
	c.isPaused = false
	c.broadcastStatus("stopped")
	return c.stateLocked(), nil
}

// ResumeTracking restarts tracking after a stop whose save failed, so the
// user keeps accumulating instead of losing the route.
func (c *Controller) ResumeTracking(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isTracking {
		return c.stateLocked(), nil
	}
	c.isTracking = true
	c.timer.Resume()
	c.startAutosaveLocked()
	c.broadcastStatus("recording")
	return c.stateLocked(), nil
}

// Reset clears the live session and deletes the autosave snapshot.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resetLocked(ctx)
}

func (c *Controller) resetLocked(ctx context.Context) error {
	c.stopAutosaveLocked()
	c.broadcastStatus("idle")
	c.log.Reset()
	c.path = nil
	c.filter.reset()
	c.timer = Timer{}
	c.totalKm = 0
	c.isTracking = false
	c.isPaused = false
	c.routeID = ""
	return c.backup.clear(ctx)
}

// SaveBackup writes the current snapshot into the single backup slot,
// overwriting whatever was there.
func (c *Controller) SaveBackup(ctx context.Context) error {
	c.mu.Lock()
	snap := Snapshot{
		RouteData:     c.log.Entries(),
		TotalDistance: c.totalKm,
		ElapsedTime:   c.timer.Elapsed().Milliseconds(),
	}
	c.mu.Unlock()
	return c.backup.save(ctx, snap)
}

// PendingRecovery reports the snapshot left behind by a session that did
// not finish cleanly, or ErrNoBackup.
func (c *Controller) PendingRecovery(ctx context.Context) (Snapshot, error) {
	snap, ok, err := c.backup.load(ctx)
	if !ok && err == nil {
		return Snapshot{}, ErrNoBackup
	}
	if err != nil {
		return Snapshot{}, ErrCorruptBackup
	}
	return snap, nil
}

// Recover applies the user's decision about a pending snapshot. Restoring
// rehydrates the session state and path cache and re-anchors the timer,
// but does not resume live tracking or autosave; the user must start
// explicitly. A snapshot that fails to parse or has no entries is corrupt:
// the slot is cleared, the state reset, and ErrCorruptBackup returned.
func (c *Controller) Recover(ctx context.Context, restore bool) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !restore {
		if err := c.resetLocked(ctx); err != nil {
			return State{}, err
		}
		return c.stateLocked(), nil
	}

	snap, ok, err := c.backup.load(ctx)
	if !ok && err == nil {
		return State{}, ErrNoBackup
	}
	if err != nil || len(snap.RouteData) == 0 {
		if resetErr := c.resetLocked(ctx); resetErr != nil {
			log.Printf("reset after corrupt backup failed: %v", resetErr)
		}
		return State{}, ErrCorruptBackup
	}

	c.log.Replace(snap.RouteData)
	c.path = route.Locations(snap.RouteData)
	c.filter.reset()
	c.totalKm = snap.TotalDistance
	c.timer.SetElapsed(time.Duration(snap.ElapsedTime) * time.Millisecond)
	c.isTracking = false
	c.isPaused = false
	c.routeID = uuid.NewString()
	return c.stateLocked(), nil
}

// ImportShared bootstraps the live state from an externally supplied entry
// sequence, presented as a completed, read-only route.
func (c *Controller) ImportShared(entries []route.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopAutosaveLocked()
	c.log.Replace(entries)
	c.path = route.Locations(entries)
	c.filter.reset()
	c.totalKm = 0
	c.timer = Timer{}
	c.isTracking = false
	c.isPaused = false
	c.routeID = uuid.NewString()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Snapshot exposes the pieces the export pipeline consumes.
func (c *Controller) Snapshot() ([]route.Entry, float64, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Entries(), c.totalKm, FormatElapsed(c.timer.Elapsed())
}

func (c *Controller) stateLocked() State {
	elapsed := c.timer.Elapsed()
	path := make([]route.Coordinate, len(c.path))
	copy(path, c.path)
	return State{
		RouteID:         c.routeID,
		IsTracking:      c.isTracking,
		IsPaused:        c.isPaused,
		TotalDistanceKm: c.totalKm,
		ElapsedMs:       elapsed.Milliseconds(),
		Elapsed:         FormatElapsed(elapsed),
		Entries:         c.log.Entries(),
		Path:            path,
	}
}

func (c *Controller) startAutosaveLocked() {
	if c.autosaveStop != nil {
		return
	}
	stop := make(chan struct{})
	c.autosaveStop = stop

	go func() {
		save := time.NewTicker(autosaveInterval)
		live := time.NewTicker(time.Second)
		defer save.Stop()
		defer live.Stop()
		for {
			select {
			case <-stop:
				return
			case <-save.C:
				if err := c.SaveBackup(context.Background()); err != nil {
					log.Printf("autosave failed: %v", err)
				}
			case <-live.C:
				c.broadcastTelemetry()
			}
		}
	}()
}

func (c *Controller) stopAutosaveLocked() {
	if c.autosaveStop != nil {
		close(c.autosaveStop)
		c.autosaveStop = nil
	}
}

func (c *Controller) broadcastTelemetry() {
	c.mu.Lock()
	payload := map[string]any{
		"event":             "telemetry",
		"total_distance_km": c.totalKm,
		"elapsed":           FormatElapsed(c.timer.Elapsed()),
		"is_paused":         c.isPaused,
	}
	c.mu.Unlock()
	c.broadcastUnlocked(payload)
}

func (c *Controller) broadcastStatus(status string) {
	c.broadcast(map[string]any{"event": "status", "status": status})
}

// broadcast requires c.mu held; broadcastUnlocked does not.
func (c *Controller) broadcast(payload map[string]any) {
	if c.hub == nil || c.routeID == "" {
		return
	}
	raw, _ := json.Marshal(payload)
	c.hub.Broadcast(c.routeID, raw)
}

func (c *Controller) broadcastUnlocked(payload map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.broadcast(payload)
}
