package export

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"
	"github.com/LiorShur/NatureAccessNewUI/internal/session"
)

// Snapshotter is the live tracking state as the exporters consume it:
// the entry sequence, the accumulated distance and the formatted clock.
type Snapshotter interface {
	Snapshot() ([]route.Entry, float64, string)
}

// Importer receives an externally produced entry sequence.
type Importer interface {
	ImportShared(entries []route.Entry)
}

// Document is the export-facing view of one route, live or saved.
type Document struct {
	Name       string
	Date       string
	Elapsed    string
	DistanceKm float64
	Entries    []route.Entry
}

func FromSession(sess session.RouteSession) Document {
	var km float64
	fmt.Sscanf(sess.Distance, "%f", &km)
	return Document{
		Name:       sess.Name,
		Date:       sess.Date,
		Elapsed:    sess.Time,
		DistanceKm: km,
		Entries:    sess.Data,
	}
}

func FromLive(name string, entries []route.Entry, distanceKm float64, elapsed string) Document {
	return Document{
		Name:       name,
		Date:       time.Now().Format(time.RFC3339),
		Elapsed:    elapsed,
		DistanceKm: distanceKm,
		Entries:    entries,
	}
}

// MediaFiles collects the media entries of a route as filename to data
// URI, named the way the bundle export names its extracted files.
func MediaFiles(entries []route.Entry) map[string]string {
	files := map[string]string{}
	for _, e := range entries {
		switch e.Type {
		case route.TypePhoto, route.TypeAudio, route.TypeVideo:
			content := entryContentString(e)
			mediaType, _, ok := parseDataURI(content)
			if !ok {
				continue
			}
			name := fmt.Sprintf("%s-%d.%s", e.Type, len(files)+1, mediaExtension(mediaType))
			files[name] = content
		}
	}
	return files
}

// parseDataURI splits a data URI into its media type and decoded payload.
func parseDataURI(s string) (string, []byte, bool) {
	if !strings.HasPrefix(s, "data:") {
		return "", nil, false
	}
	meta, payload, found := strings.Cut(s[len("data:"):], ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return "", nil, false
	}
	mediaType := strings.TrimSuffix(meta, ";base64")
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, false
	}
	return mediaType, raw, true
}

func mediaExtension(mediaType string) string {
	switch mediaType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "audio/webm", "video/webm":
		return "webm"
	case "audio/mpeg":
		return "mp3"
	case "video/mp4":
		return "mp4"
	}
	if _, sub, ok := strings.Cut(mediaType, "/"); ok {
		return sub
	}
	return "bin"
}

func entryContentString(e route.Entry) string {
	s, _ := e.Content.(string)
	return s
}
