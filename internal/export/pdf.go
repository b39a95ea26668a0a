package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"

	"github.com/jung-kurt/gofpdf"
)

// PDF renders a printable trip report: header stats, then every entry in
// log order. Photos are embedded; audio and video cannot live in a PDF,
// so they appear as placeholders with their timestamps.
func PDF(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Name, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, doc.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", doc.Date), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Duration: %s", doc.Elapsed), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Distance: %.2f km", doc.DistanceKm), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	imageIndex := 0
	for _, e := range doc.Entries {
		switch e.Type {
		case route.TypeLocation:
			if e.Coords == nil {
				continue
			}
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(100, 100, 100)
			pdf.CellFormat(0, 5, fmt.Sprintf("%s  %.6f, %.6f",
				formatEntryTime(e.Timestamp), e.Coords.Lat, e.Coords.Lng), "", 1, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)

		case route.TypeText:
			pdf.SetFont("Helvetica", "I", 11)
			pdf.MultiCell(0, 6, fmt.Sprintf("%s  Note: %s", formatEntryTime(e.Timestamp), entryContentString(e)), "", "L", false)
			pdf.Ln(1)

		case route.TypePhoto:
			mediaType, raw, ok := parseDataURI(entryContentString(e))
			if !ok {
				continue
			}
			imageType := gofpdfImageType(mediaType)
			if imageType == "" {
				continue
			}
			imageIndex++
			name := fmt.Sprintf("photo-%d", imageIndex)
			opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))
			pdf.ImageOptions(name, -1, -1, 80, 0, true, opts, 0, "")
			pdf.Ln(2)

		case route.TypeAudio, route.TypeVideo:
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetTextColor(100, 100, 100)
			pdf.MultiCell(0, 5, fmt.Sprintf("%s  [%s recording, see bundle export]",
				formatEntryTime(e.Timestamp), e.Type), "", "L", false)
			pdf.SetTextColor(0, 0, 0)

		case route.TypeAccessibility:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, fmt.Sprintf("%s  Accessibility report recorded", formatEntryTime(e.Timestamp)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gofpdfImageType(mediaType string) string {
	switch mediaType {
	case "image/jpeg":
		return "JPG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

func formatEntryTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("15:04:05")
}
