package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
	"vex-tracker/internal/config"
	"vex-tracker/internal/database"
	"vex-tracker/internal/domain"
	"vex-tracker/internal/metrics"
	"vex-tracker/internal/repository"
	"vex-tracker/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func testServer(t *testing.T) (*Server, *repository.EventRepository, *repository.TeamRepository, *repository.ChangeLogRepository) {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	events := repository.NewEventRepository(db, zerolog.Nop())
	teams := repository.NewTeamRepository(db, zerolog.Nop())
	changes := repository.NewChangeLogRepository(db, zerolog.Nop())
	m := metrics.NewWith(prometheus.NewRegistry())
	tracker := service.NewTracker(nil, events, teams, changes, m, cfg, zerolog.Nop())

	return NewServer(tracker, zerolog.Nop()), events, teams, changes
}

func seed(t *testing.T, events *repository.EventRepository, teams *repository.TeamRepository, changes *repository.ChangeLogRepository) {
	t.Helper()
	ctx := context.Background()

	evt := domain.Event{
		ID:    100,
		SKU:   "RE-VRC-23-0100",
		Name:  "Regional Championship",
		Start: time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 2, 11, 18, 0, 0, 0, time.UTC),
	}
	if err := events.Upsert(ctx, evt); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	if err := teams.Upsert(ctx, 100, domain.Team{ID: 1, Number: "1234A", TeamName: "Alpha"}); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	err := changes.Append(ctx, domain.ChangeRecord{
		EventSKU:   "RE-VRC-23-0100",
		Resource:   "teams",
		ChangeType: "added",
		RecordID:   1,
		Detail:     "1234A Alpha",
		ObservedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("seed change: %v", err)
	}
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _, _, _ := testServer(t)
	rec := get(t, srv.Routes(), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListEvents(t *testing.T) {
	srv, events, teams, changes := testServer(t)
	seed(t, events, teams, changes)

	rec := get(t, srv.Routes(), "/api/events")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got []repository.TrackedEvent
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].SKU != "RE-VRC-23-0100" {
		t.Errorf("events = %+v", got)
	}
}

func TestGetEventBySKU(t *testing.T) {
	srv, events, teams, changes := testServer(t)
	seed(t, events, teams, changes)

	rec := get(t, srv.Routes(), "/api/events/RE-VRC-23-0100")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got repository.TrackedEvent
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != 100 || got.Name != "Regional Championship" {
		t.Errorf("event = %+v", got)
	}
}

func TestGetEventNotFound(t *testing.T) {
	srv, _, _, _ := testServer(t)

	rec := get(t, srv.Routes(), "/api/events/RE-VRC-99-9999")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestEventTeamsAndChanges(t *testing.T) {
	srv, events, teams, changes := testServer(t)
	seed(t, events, teams, changes)

	rec := get(t, srv.Routes(), "/api/events/RE-VRC-23-0100/teams")
	if rec.Code != http.StatusOK {
		t.Fatalf("teams status = %d", rec.Code)
	}
	var gotTeams []repository.EventTeam
	if err := json.Unmarshal(rec.Body.Bytes(), &gotTeams); err != nil {
		t.Fatalf("decode teams: %v", err)
	}
	if len(gotTeams) != 1 || gotTeams[0].Number != "1234A" {
		t.Errorf("teams = %+v", gotTeams)
	}

	rec = get(t, srv.Routes(), "/api/events/RE-VRC-23-0100/changes")
	if rec.Code != http.StatusOK {
		t.Fatalf("changes status = %d", rec.Code)
	}
	var gotChanges []domain.ChangeRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &gotChanges); err != nil {
		t.Fatalf("decode changes: %v", err)
	}
	if len(gotChanges) != 1 || gotChanges[0].ChangeType != "added" {
		t.Errorf("changes = %+v", gotChanges)
	}
}

func TestChangesRejectsBadLimit(t *testing.T) {
	srv, _, _, _ := testServer(t)

	for _, limit := range []string{"abc", "-1", "0"} {
		rec := get(t, srv.Routes(), "/api/events/RE-VRC-23-0100/changes?limit="+limit)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%q: status = %d, want 400", limit, rec.Code)
		}
	}
}
