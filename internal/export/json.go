package export

import (
	"encoding/json"
	"fmt"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"
)

type jsonDocument struct {
	Name      string        `json:"name"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	Distance  string        `json:"distance"`
	RouteData []route.Entry `json:"routeData"`
}

// JSON renders the full document, media included, as a standalone file
// that round-trips back through ImportJSON without loss.
func JSON(doc Document) ([]byte, error) {
	out := jsonDocument{
		Name:      doc.Name,
		Date:      doc.Date,
		Time:      doc.Elapsed,
		Distance:  fmt.Sprintf("%.2f", doc.DistanceKm),
		RouteData: doc.Entries,
	}
	return json.MarshalIndent(out, "", "  ")
}

// ImportJSON accepts either a full exported document or a bare entry
// array, which is what older exports look like.
func ImportJSON(data []byte) ([]route.Entry, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err == nil && len(doc.RouteData) > 0 {
		return doc.RouteData, nil
	}

	var entries []route.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unrecognized route document: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("route document has no entries")
	}
	return entries, nil
}
