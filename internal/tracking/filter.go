package tracking

import (
	"github.com/LiorShur/NatureAccessNewUI/internal/geo"
	"github.com/LiorShur/NatureAccessNewUI/internal/route"
)

// Fix is one raw position report from the device. Timestamp is optional;
// the server clock is used when it is absent.
type Fix struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	AccuracyM float64 `json:"accuracy_m"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

const (
	// Fixes coarser than this are noise and dropped outright.
	maxAccuracyM = 25.0
	// A jump longer than this since the last accepted fix is a GPS glitch,
	// not real motion.
	maxJumpKm = 0.2
)

// sampleFilter holds only the last accepted coordinate; everything else
// about an accepted fix is observable through the emitted entry, path
// point and distance delta.
type sampleFilter struct {
	lastAccepted *route.Coordinate
}

// accept decides whether fix extends the path, returning the incremental
// distance when it does. The first accepted fix of a session contributes
// zero distance.
func (f *sampleFilter) accept(fix Fix) (float64, bool) {
	if fix.AccuracyM > maxAccuracyM {
		return 0, false
	}

	next := route.Coordinate{Lat: fix.Lat, Lng: fix.Lng}
	var delta float64
	if f.lastAccepted != nil {
		delta = geo.HaversineKm(f.lastAccepted.Lat, f.lastAccepted.Lng, next.Lat, next.Lng)
		if delta > maxJumpKm {
			return 0, false
		}
	}

	f.lastAccepted = &next
	return delta, true
}

func (f *sampleFilter) reset() {
	f.lastAccepted = nil
}
