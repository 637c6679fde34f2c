package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/plantops/greenhouse-data-sim/internal/plant"
	"github.com/plantops/greenhouse-data-sim/internal/sim"
	"github.com/plantops/greenhouse-data-sim/internal/store"
)

func newTestApp(t *testing.T) (*fiber.App, *plant.Service) {
	t.Helper()

	p := sim.DefaultParams()
	p.TotalTimeMinutes = 60 // 6 samples, k=2 -> 3 rows

	memStore := store.NewMemoryStore(10, time.Hour)
	svc, err := plant.NewService(memStore, nil, p, 2, 1)
	if err != nil {
		t.Fatalf("service setup failed: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app, svc, 0)
	return app, svc
}

func TestLatestStatsNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plants/plant_1/stats/latest", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestLatestStatsAfterGenerate(t *testing.T) {
	app, svc := newTestApp(t)

	if _, err := svc.Generate(context.Background(), "plant_1"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plants/plant_1/stats/latest", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var run plant.Run
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		t.Fatalf("response did not decode: %v", err)
	}
	if run.PlantID != "plant_1" || len(run.Table.Rows) != 3 {
		t.Errorf("unexpected run payload: plant=%q rows=%d", run.PlantID, len(run.Table.Rows))
	}
}

func TestHistoryValidation(t *testing.T) {
	app, _ := newTestApp(t)

	// Missing from/to should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/plants/plant_1/stats/history", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	// to before from should also return 400.
	req = httptest.NewRequest(http.MethodGet,
		"/api/v1/plants/plant_1/stats/history?from=2026-01-02T00:00:00Z&to=2026-01-01T00:00:00Z", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestStreamSequence(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plants/plant_1/stream?delay=0", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var lines []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("reading stream: %v", err)
	}

	if len(lines) != 4 {
		t.Fatalf("stream produced %d messages, want 3 rows + sentinel", len(lines))
	}

	for i := 0; i < 3; i++ {
		var msg plant.Message
		if err := json.Unmarshal([]byte(lines[i]), &msg); err != nil {
			t.Fatalf("line %d is not a data message: %v", i, err)
		}
		if msg.Index != i {
			t.Errorf("line %d carries index %d", i, msg.Index)
		}
	}

	var sentinel plant.Sentinel
	if err := json.Unmarshal([]byte(lines[3]), &sentinel); err != nil {
		t.Fatalf("final line is not a sentinel: %v", err)
	}
	if sentinel.Status != plant.StreamComplete {
		t.Errorf("sentinel status = %q", sentinel.Status)
	}
}

func TestStreamRejectsInvalidDelay(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plants/plant_1/stream?delay=-1s", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestCSVEndpoint(t *testing.T) {
	app, svc := newTestApp(t)

	if _, err := svc.Generate(context.Background(), "plant_1"); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plants/plant_1/stats/csv", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}

	scanner := bufio.NewScanner(resp.Body)
	var count int
	for scanner.Scan() {
		count++
	}
	if count != 2+3 {
		t.Errorf("csv has %d lines, want 2 header + 3 data", count)
	}
}
