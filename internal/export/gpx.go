package export

import (
	"errors"
	"time"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"

	"github.com/tkrajina/gpxgo/gpx"
)

const gpxCreator = "NatureTracker"

var ErrNoTrackPoints = errors.New("route has no location entries")

// GPX renders the document as a GPX 1.1 file: locations become one track
// segment in log order, text annotations become named waypoints. Media
// entries have no GPX representation and are skipped.
func GPX(doc Document) ([]byte, error) {
	g := &gpx.GPX{
		Creator: gpxCreator,
		Name:    doc.Name,
	}

	segment := gpx.GPXTrackSegment{}
	for _, e := range doc.Entries {
		switch e.Type {
		case route.TypeLocation:
			if e.Coords == nil {
				continue
			}
			segment.Points = append(segment.Points, gpx.GPXPoint{
				Point: gpx.Point{
					Latitude:  e.Coords.Lat,
					Longitude: e.Coords.Lng,
				},
				Timestamp: time.UnixMilli(e.Timestamp).UTC(),
			})
		case route.TypeText:
			if e.Coords == nil {
				continue
			}
			g.Waypoints = append(g.Waypoints, gpx.GPXPoint{
				Point: gpx.Point{
					Latitude:  e.Coords.Lat,
					Longitude: e.Coords.Lng,
				},
				Timestamp: time.UnixMilli(e.Timestamp).UTC(),
				Name:      entryContentString(e),
			})
		}
	}
	if len(segment.Points) == 0 {
		return nil, ErrNoTrackPoints
	}

	g.Tracks = append(g.Tracks, gpx.GPXTrack{
		Name:     doc.Name,
		Segments: []gpx.GPXTrackSegment{segment},
	})

	return g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
}

// ParseGPX turns a GPX file back into an entry sequence: track points
// become location entries, waypoints become text annotations.
func ParseGPX(data []byte) ([]route.Entry, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, err
	}

	var entries []route.Entry
	for _, track := range g.Tracks {
		for _, segment := range track.Segments {
			for _, p := range segment.Points {
				entries = append(entries, route.NewLocation(
					p.Timestamp.UnixMilli(),
					route.Coordinate{Lat: p.Latitude, Lng: p.Longitude},
				))
			}
		}
	}
	for _, w := range g.Waypoints {
		entries = append(entries, route.NewAnnotation(
			route.TypeText,
			w.Timestamp.UnixMilli(),
			route.Coordinate{Lat: w.Latitude, Lng: w.Longitude},
			w.Name,
		))
	}
	if len(entries) == 0 {
		return nil, ErrNoTrackPoints
	}
	return entries, nil
}
