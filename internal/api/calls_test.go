package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/crewline/crewline/internal/api"
	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/models"
)

func TestCallList_RangeShortcutOverridesBounds(t *testing.T) {
	t.Parallel()

	var got filter.Params
	svc := &mockCallService{
		listFn: func(_ context.Context, _ string, p filter.Params) ([]models.Call, bool, string, error) {
			got = p
			return nil, false, "", nil
		},
	}

	r := newTestRouter("viewer")
	h := api.NewCallHandler(svc, testLogger())
	r.GET("/calls", h.List)

	w := doRequest(r, http.MethodGet, "/calls?range=today&from=2020-01-01T00:00:00Z&to=2020-02-01T00:00:00Z", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got.From == nil || got.To == nil {
		t.Fatal("expected bounds from the range shortcut")
	}
	if got.From.Year() == 2020 {
		t.Error("explicit from should have been overridden by range=today")
	}
	if want := got.From.AddDate(0, 0, 1); !got.To.Equal(want) {
		t.Errorf("expected one-day window, got from=%v to=%v", got.From, got.To)
	}
}

func TestCallList_InvalidDirection(t *testing.T) {
	t.Parallel()

	r := newTestRouter("viewer")
	h := api.NewCallHandler(&mockCallService{}, testLogger())
	r.GET("/calls", h.List)

	w := doRequest(r, http.MethodGet, "/calls?direction=sideways", "")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Code != "invalid_request" {
		t.Errorf("unexpected error code %q", body.Code)
	}
}

func TestCallGet_NotFound(t *testing.T) {
	t.Parallel()

	svc := &mockCallService{
		getFn: func(_ context.Context, _, _ string) (*models.Call, error) {
			return nil, models.ErrCallNotFound
		},
	}

	r := newTestRouter("viewer")
	h := api.NewCallHandler(svc, testLogger())
	r.GET("/calls/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/calls/missing", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCallUpdate_Valid(t *testing.T) {
	t.Parallel()

	svc := &mockCallService{
		updateFn: func(_ context.Context, _, callID, actor string, req models.UpdateCallRequest) (*models.Call, error) {
			if actor != "u1" {
				t.Errorf("unexpected actor %q", actor)
			}
			return &models.Call{
				ID:          callID,
				Direction:   models.DirectionInbound,
				Disposition: *req.Disposition,
				OccurredAt:  time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
			}, nil
		},
	}

	r := newTestRouter("dispatcher")
	h := api.NewCallHandler(svc, testLogger())
	r.PATCH("/calls/:id", h.Update)

	w := doRequest(r, http.MethodPatch, "/calls/c1", `{"disposition":"booked"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var call models.Call
	if err := json.Unmarshal(w.Body.Bytes(), &call); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if call.Disposition != "booked" {
		t.Errorf("unexpected disposition %q", call.Disposition)
	}
}

func TestCallUpdate_InvalidDisposition(t *testing.T) {
	t.Parallel()

	r := newTestRouter("dispatcher")
	h := api.NewCallHandler(&mockCallService{}, testLogger())
	r.PATCH("/calls/:id", h.Update)

	w := doRequest(r, http.MethodPatch, "/calls/c1", `{"disposition":"ghosted"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStatsOverview(t *testing.T) {
	t.Parallel()

	svc := &mockStatsService{
		overviewFn: func(_ context.Context, _ string, dayStart, dayEnd time.Time) (models.StatsOverview, error) {
			if want := dayStart.AddDate(0, 0, 1); !dayEnd.Equal(want) {
				t.Errorf("expected one-day window, got %v..%v", dayStart, dayEnd)
			}
			return models.StatsOverview{
				CallsToday:       map[string]int{"booked": 3, "missed": 1},
				OpenJobs:         map[string]int{"scheduled": 5},
				PendingFollowUps: 2,
			}, nil
		},
	}

	r := newTestRouter("viewer")
	h := api.NewStatsHandler(svc, testLogger())
	r.GET("/stats", h.Overview)

	w := doRequest(r, http.MethodGet, "/stats", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body models.StatsOverview
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.CallsToday["booked"] != 3 || body.PendingFollowUps != 2 {
		t.Errorf("unexpected overview: %+v", body)
	}
}
