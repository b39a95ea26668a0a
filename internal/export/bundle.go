package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html/template"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"
)

var summaryTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}}</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 2em auto; }
.stats { color: #555; }
.entry { margin: 1em 0; }
.entry time { color: #888; font-size: 0.85em; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<p class="stats">{{.Date}} &middot; {{.Elapsed}} &middot; {{printf "%.2f" .DistanceKm}} km</p>
{{range .Items}}
<div class="entry">
<time>{{.Time}}</time>
{{if eq .Kind "note"}}<p>{{.Text}}</p>{{end}}
{{if eq .Kind "photo"}}<img src="{{.File}}" alt="route photo">{{end}}
{{if eq .Kind "audio"}}<audio controls src="{{.File}}"></audio>{{end}}
{{if eq .Kind "video"}}<video controls src="{{.File}}"></video>{{end}}
{{if eq .Kind "accessibility"}}<p><em>Accessibility report recorded</em></p>{{end}}
</div>
{{end}}
</body>
</html>
`))

type summaryItem struct {
	Kind string
	Time string
	Text string
	// template.URL because media sources are either zip-relative paths or
	// data URIs, and the sanitizer rejects data: by default.
	File template.URL
}

type summaryData struct {
	Name       string
	Date       string
	Elapsed    string
	DistanceKm float64
	Items      []summaryItem
}

// Bundle packs a self-contained route summary into a zip: an HTML page
// plus the media files it references, each media entry extracted from
// its data URI into media/.
func Bundle(doc Document) ([]byte, error) {
	data := summaryData{
		Name:       doc.Name,
		Date:       doc.Date,
		Elapsed:    doc.Elapsed,
		DistanceKm: doc.DistanceKm,
	}

	type mediaFile struct {
		name string
		raw  []byte
	}
	var media []mediaFile

	for _, e := range doc.Entries {
		item := summaryItem{Time: formatEntryTime(e.Timestamp)}
		switch e.Type {
		case route.TypeText:
			item.Kind = "note"
			item.Text = entryContentString(e)
		case route.TypePhoto, route.TypeAudio, route.TypeVideo:
			mediaType, raw, ok := parseDataURI(entryContentString(e))
			if !ok {
				continue
			}
			name := fmt.Sprintf("media/%s-%d.%s", e.Type, len(media)+1, mediaExtension(mediaType))
			media = append(media, mediaFile{name: name, raw: raw})
			item.Kind = string(e.Type)
			item.File = template.URL(name)
		case route.TypeAccessibility:
			item.Kind = "accessibility"
		default:
			continue
		}
		data.Items = append(data.Items, item)
	}

	var html bytes.Buffer
	if err := summaryTemplate.Execute(&html, data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("summary.html")
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(html.Bytes()); err != nil {
		return nil, err
	}

	for _, m := range media {
		w, err := zw.Create(m.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(m.raw); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SummaryHTML renders just the HTML page, with media left inline as data
// URIs, for archiving.
func SummaryHTML(doc Document) (string, error) {
	data := summaryData{
		Name:       doc.Name,
		Date:       doc.Date,
		Elapsed:    doc.Elapsed,
		DistanceKm: doc.DistanceKm,
	}
	for _, e := range doc.Entries {
		item := summaryItem{Time: formatEntryTime(e.Timestamp)}
		switch e.Type {
		case route.TypeText:
			item.Kind = "note"
			item.Text = entryContentString(e)
		case route.TypePhoto, route.TypeAudio, route.TypeVideo:
			item.Kind = string(e.Type)
			item.File = template.URL(entryContentString(e))
		case route.TypeAccessibility:
			item.Kind = "accessibility"
		default:
			continue
		}
		data.Items = append(data.Items, item)
	}

	var html bytes.Buffer
	if err := summaryTemplate.Execute(&html, data); err != nil {
		return "", err
	}
	return html.String(), nil
}
