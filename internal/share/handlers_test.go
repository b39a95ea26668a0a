package share

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"

	"github.com/gofiber/fiber/v2"
)

type fakeLive struct {
	entries []route.Entry
}

func (f *fakeLive) Snapshot() ([]route.Entry, float64, string) {
	return f.entries, 0, "00:00:00"
}

type fakeImporter struct {
	calls   int
	entries []route.Entry
}

func (f *fakeImporter) ImportShared(entries []route.Entry) {
	f.calls++
	f.entries = entries
}

func newShareTestApp(t *testing.T) (*fiber.App, *fakeLive, *fakeImporter, *Service) {
	t.Helper()
	svc := NewService("test-secret")
	live := &fakeLive{}
	importer := &fakeImporter{}
	app := fiber.New()
	RegisterRoutes(app.Group("/share"), svc, live, importer)
	return app, live, importer, svc
}

func TestShareHandlerRoundTrip(t *testing.T) {
	app, live, importer, _ := newShareTestApp(t)
	live.entries = sampleEntries()

	resp, err := app.Test(httptest.NewRequest("POST", "/share?name=Hill+climb", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var created map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	token := created["token"]
	if token == "" {
		t.Fatal("expected a token")
	}

	body, _ := json.Marshal(importRequest{Token: token})
	req := httptest.NewRequest("POST", "/share/import", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if importer.calls != 1 || len(importer.entries) != 3 {
		t.Fatalf("expected one import of 3 entries, got %+v", importer)
	}
}

func TestShareHandlerEmptyRoute(t *testing.T) {
	app, _, _, _ := newShareTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/share", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for empty route, got %d", resp.StatusCode)
	}
}

func TestImportHandlerRejectsMalformedToken(t *testing.T) {
	app, _, importer, _ := newShareTestApp(t)

	body, _ := json.Marshal(importRequest{Token: "garbage"})
	req := httptest.NewRequest("POST", "/share/import", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if importer.calls != 0 {
		t.Fatal("malformed token must not reach the importer")
	}
}

func TestViewHandler(t *testing.T) {
	app, _, _, svc := newShareTestApp(t)

	token, err := svc.Encode("Hill climb", sampleEntries())
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/share/"+token, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Name    string        `json:"name"`
		Entries []route.Entry `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if out.Name != "Hill climb" || len(out.Entries) != 3 {
		t.Fatalf("unexpected payload: %+v", out)
	}
}
