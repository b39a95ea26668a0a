package accessibility

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/LiorShur/NatureAccessNewUI/internal/route"

	"github.com/gofiber/fiber/v2"
)

type fakeSink struct {
	calls   int
	answers map[string]any
}

func (f *fakeSink) AddAccessibility(ctx context.Context, answers map[string]any) (route.Entry, error) {
	f.calls++
	f.answers = answers
	return route.NewAccessibility(route.NowMs(), answers), nil
}

func newAccessibilityTestApp(t *testing.T) (*fiber.App, *fakeSink) {
	t.Helper()
	sink := &fakeSink{}
	app := fiber.New()
	RegisterRoutes(app.Group("/accessibility"), newTestStore(t), sink)
	return app, sink
}

func TestReportHandlerFlow(t *testing.T) {
	app, sink := newAccessibilityTestApp(t)

	body, _ := json.Marshal(reportRequest{Answers: map[string]any{"surface": "gravel"}})
	req := httptest.NewRequest("POST", "/accessibility", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if sink.calls != 1 || sink.answers["surface"] != "gravel" {
		t.Fatalf("expected report forwarded to route log, got %+v", sink)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/accessibility", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var reports []Report
	if err := json.NewDecoder(resp.Body).Decode(&reports); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
}

func TestReportHandlerRejectsEmpty(t *testing.T) {
	app, sink := newAccessibilityTestApp(t)

	body, _ := json.Marshal(reportRequest{})
	req := httptest.NewRequest("POST", "/accessibility", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if sink.calls != 0 {
		t.Fatal("empty report must not reach the route log")
	}
}
