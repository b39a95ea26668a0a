package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"
)

// Service writes export files to disk. Its main job is the fallback path:
// when a save cannot land in storage, every format is dumped to the
// export directory so the recording survives outside the database.
type Service struct {
	dir string
}

func NewService(exportDir string) *Service {
	return &Service{dir: exportDir}
}

// WriteFallback writes the route in every format to a fresh timestamped
// directory and returns its path. Formats fail independently; as long as
// one file lands the fallback counts as a success.
func (s *Service) WriteFallback(ctx context.Context, name string, entries []route.Entry, distanceKm float64, elapsed string) (string, error) {
	doc := FromLive(name, entries, distanceKm, elapsed)

	dir := filepath.Join(s.dir, fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), slug(name)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	written := 0
	write := func(filename string, build func(Document) ([]byte, error)) {
		data, err := build(doc)
		if err != nil {
			log.Printf("fallback %s export failed: %v", filename, err)
			return
		}
		if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
			log.Printf("fallback %s write failed: %v", filename, err)
			return
		}
		written++
	}

	write("route.json", JSON)
	write("route.gpx", GPX)
	write("route.pdf", PDF)
	write("route.zip", Bundle)

	if written == 0 {
		return "", errors.New("all fallback exports failed")
	}
	return dir, nil
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "route"
	}
	return b.String()
}
