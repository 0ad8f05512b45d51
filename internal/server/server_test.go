package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/five82/dinemenu/internal/entry"
	"github.com/five82/dinemenu/internal/sensor"
	"github.com/five82/dinemenu/internal/state"
)

type fakeBackend struct {
	entries  []entry.Entry
	entities []state.Snapshot
	pressed  []string
}

func (f *fakeBackend) Entries() []entry.Entry     { return f.entries }
func (f *fakeBackend) Entities() []state.Snapshot { return f.entities }

func (f *fakeBackend) Entity(id string) (state.Snapshot, bool) {
	for _, s := range f.entities {
		if s.EntityID == id {
			return s, true
		}
	}
	return state.Snapshot{}, false
}

func (f *fakeBackend) Press(_ context.Context, id string) ([]state.Snapshot, error) {
	snap, ok := f.Entity(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, state.ErrUnknownEntity)
	}
	if snap.Kind != sensor.KindButton {
		return nil, fmt.Errorf("%s: %w", id, state.ErrNotPressable)
	}
	f.pressed = append(f.pressed, id)
	return []state.Snapshot{snap, f.entities[0]}, nil
}

func newTestServer(t *testing.T) (*Server, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{
		entries: []entry.Entry{
			{Title: "State U - Commons - Lunch", SchoolID: "s1", LocationID: "l1", LocationName: "Commons",
				Selection: entry.Static{PeriodID: "p1", PeriodName: "Lunch"}},
			{Title: "State U - Commons (Dynamic)", SchoolID: "s1", LocationID: "l1", LocationName: "Commons",
				Selection: entry.Dynamic{Windows: []entry.Window{{Slug: "lunch", Name: "Lunch", Start: "11:00", End: "15:00"}}}},
		},
		entities: []state.Snapshot{
			{EntityID: "sensor.commons_lunch", Kind: sensor.KindSensor, HasReading: true, Reading: sensor.Reading{State: 3}},
			{EntityID: "button.state_u_commons_lunch_refresh_menu", Kind: sensor.KindButton},
		},
	}
	s := New(":0", backend, slog.New(slog.NewTextHandler(io.Discard, nil)))
	gin.SetMode(gin.TestMode)
	return s, backend
}

func do(t *testing.T, s *Server, method, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("%s %s: body is not JSON: %q", method, path, rec.Body.String())
	}
	return rec, body
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec, body := do(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("healthz = %d %v", rec.Code, body)
	}
}

func TestListEntries(t *testing.T) {
	s, _ := newTestServer(t)
	rec, body := do(t, s, http.MethodGet, "/api/entries")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	entries, _ := body["entries"].([]any)
	if len(entries) != 2 {
		t.Fatalf("entries = %v, want 2", body["entries"])
	}
	static := entries[0].(map[string]any)
	if static["unique_id"] != "s1_l1_p1" || static["dynamic"] != false || static["period_name"] != "Lunch" {
		t.Fatalf("static entry = %v", static)
	}
	dynamic := entries[1].(map[string]any)
	if dynamic["unique_id"] != "s1_l1_dynamic" || dynamic["dynamic"] != true {
		t.Fatalf("dynamic entry = %v", dynamic)
	}
	if windows, _ := dynamic["windows"].([]any); len(windows) != 1 {
		t.Fatalf("windows = %v, want 1", dynamic["windows"])
	}
}

func TestListEntities_FilterByKind(t *testing.T) {
	s, _ := newTestServer(t)

	_, body := do(t, s, http.MethodGet, "/api/entities")
	if all, _ := body["entities"].([]any); len(all) != 2 {
		t.Fatalf("entities = %v, want 2", body["entities"])
	}

	_, body = do(t, s, http.MethodGet, "/api/entities?kind=button")
	buttons, _ := body["entities"].([]any)
	if len(buttons) != 1 || buttons[0].(map[string]any)["kind"] != "button" {
		t.Fatalf("buttons = %v", body["entities"])
	}
}

func TestGetEntity(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodGet, "/api/entities/sensor.commons_lunch")
	if rec.Code != http.StatusOK || body["entity_id"] != "sensor.commons_lunch" {
		t.Fatalf("get = %d %v", rec.Code, body)
	}
	reading, _ := body["reading"].(map[string]any)
	if reading["state"] != float64(3) {
		t.Fatalf("reading = %v, want state 3", reading)
	}

	rec, _ = do(t, s, http.MethodGet, "/api/entities/sensor.nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing entity status = %d, want 404", rec.Code)
	}
}

func TestPress(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"button", "button.state_u_commons_lunch_refresh_menu", http.StatusOK},
		{"sensor", "sensor.commons_lunch", http.StatusConflict},
		{"unknown", "button.nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, backend := newTestServer(t)
			rec, body := do(t, s, http.MethodPost, "/api/entities/"+tt.id+"/press")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%v)", rec.Code, tt.status, body)
			}
			if tt.status != http.StatusOK {
				return
			}
			if len(backend.pressed) != 1 {
				t.Fatalf("pressed = %v, want one press", backend.pressed)
			}
			if refreshed, _ := body["refreshed"].([]any); len(refreshed) != 2 {
				t.Fatalf("refreshed = %v, want 2", body["refreshed"])
			}
		})
	}
}
