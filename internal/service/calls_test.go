package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/models"
	"github.com/crewline/crewline/internal/service"
)

type mockCallStore struct {
	listFn   func(ctx context.Context, workspaceID string, p filter.Params) ([]models.Call, bool, string, error)
	getFn    func(ctx context.Context, workspaceID, callID string) (*models.Call, error)
	updateFn func(ctx context.Context, workspaceID, callID string, req models.UpdateCallRequest) (*models.Call, error)
}

func (m *mockCallStore) ListCalls(ctx context.Context, workspaceID string, p filter.Params) ([]models.Call, bool, string, error) {
	return m.listFn(ctx, workspaceID, p)
}

func (m *mockCallStore) GetCall(ctx context.Context, workspaceID, callID string) (*models.Call, error) {
	return m.getFn(ctx, workspaceID, callID)
}

func (m *mockCallStore) UpdateCall(ctx context.Context, workspaceID, callID string, req models.UpdateCallRequest) (*models.Call, error) {
	return m.updateFn(ctx, workspaceID, callID, req)
}

// mockRecorder captures audit events without a store.
type mockRecorder struct {
	events []models.AuditEvent
}

func (m *mockRecorder) Record(_ context.Context, _ string, event models.AuditEvent) {
	m.events = append(m.events, event)
}

// mockPublisher captures realtime events.
type mockPublisher struct {
	types []string
}

func (m *mockPublisher) Publish(_ string, eventType string, _ any) {
	m.types = append(m.types, eventType)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

const wsID = "00000000-0000-0000-0000-000000000001"

func sampleCall(disposition, notes string) models.Call {
	return models.Call{
		ID:           "c1",
		Direction:    models.DirectionInbound,
		Disposition:  disposition,
		CallerName:   "Alice",
		CallerNumber: "+15550001111",
		Notes:        notes,
		OccurredAt:   time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestUpdateCall_RecordsDiffedAudit(t *testing.T) {
	t.Parallel()

	before := sampleCall("missed", "")
	after := sampleCall("booked", "rebooked for Tuesday")

	store := &mockCallStore{
		getFn: func(_ context.Context, _, _ string) (*models.Call, error) {
			c := before
			return &c, nil
		},
		updateFn: func(_ context.Context, _, _ string, _ models.UpdateCallRequest) (*models.Call, error) {
			c := after
			return &c, nil
		},
	}
	rec := &mockRecorder{}
	pub := &mockPublisher{}

	svc := service.NewCallService(store, rec, pub, testLogger())

	disp := "booked"
	notes := "rebooked for Tuesday"
	got, err := svc.UpdateCall(context.Background(), wsID, "c1", "u1", models.UpdateCallRequest{
		Disposition: &disp, Notes: &notes,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Disposition != "booked" {
		t.Errorf("unexpected result: %+v", got)
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(rec.events))
	}

	event := rec.events[0]
	if event.Action != "call.update" || event.TargetType != "call" || event.TargetID != "c1" || event.Actor != "u1" {
		t.Errorf("unexpected audit event: %+v", event)
	}

	if len(event.Diff) != 2 {
		t.Fatalf("expected two changed fields, got %v", event.Diff)
	}
	if ch := event.Diff["disposition"]; ch.Before != "missed" || ch.After != "booked" {
		t.Errorf("unexpected disposition change: %+v", ch)
	}
	if _, ok := event.Diff["notes"]; !ok {
		t.Error("expected notes change in diff")
	}

	if len(pub.types) != 1 || pub.types[0] != "call.updated" {
		t.Errorf("expected call.updated publish, got %v", pub.types)
	}
}

func TestUpdateCall_NoOpSkipsAuditAndPublish(t *testing.T) {
	t.Parallel()

	unchanged := sampleCall("booked", "done")

	store := &mockCallStore{
		getFn: func(_ context.Context, _, _ string) (*models.Call, error) {
			c := unchanged
			return &c, nil
		},
		updateFn: func(_ context.Context, _, _ string, _ models.UpdateCallRequest) (*models.Call, error) {
			c := unchanged
			return &c, nil
		},
	}
	rec := &mockRecorder{}
	pub := &mockPublisher{}

	svc := service.NewCallService(store, rec, pub, testLogger())

	disp := "booked"
	if _, err := svc.UpdateCall(context.Background(), wsID, "c1", "u1", models.UpdateCallRequest{Disposition: &disp}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(rec.events) != 0 {
		t.Errorf("no-op update must not write audit, got %v", rec.events)
	}
	if len(pub.types) != 0 {
		t.Errorf("no-op update must not publish, got %v", pub.types)
	}
}

func TestUpdateCall_NotFoundShortCircuits(t *testing.T) {
	t.Parallel()

	store := &mockCallStore{
		getFn: func(_ context.Context, _, _ string) (*models.Call, error) {
			return nil, models.ErrCallNotFound
		},
		updateFn: func(_ context.Context, _, _ string, _ models.UpdateCallRequest) (*models.Call, error) {
			t.Error("update must not run when the before-image load fails")
			return nil, nil
		},
	}
	rec := &mockRecorder{}

	svc := service.NewCallService(store, rec, &mockPublisher{}, testLogger())

	disp := "booked"
	_, err := svc.UpdateCall(context.Background(), wsID, "missing", "u1", models.UpdateCallRequest{Disposition: &disp})
	if err != models.ErrCallNotFound {
		t.Errorf("expected ErrCallNotFound, got %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("failed update must not write audit, got %v", rec.events)
	}
}
