package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/diff"
	"github.com/crewline/crewline/internal/events"
	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/models"
)

// CallStore is the data-access interface CallService depends on.
type CallStore interface {
	ListCalls(ctx context.Context, workspaceID string, p filter.Params) ([]models.Call, bool, string, error)
	GetCall(ctx context.Context, workspaceID, callID string) (*models.Call, error)
	UpdateCall(ctx context.Context, workspaceID, callID string, req models.UpdateCallRequest) (*models.Call, error)
}

// CallService serves the workspace call log.
type CallService struct {
	store CallStore
	audit Recorder
	pub   events.Publisher
	log   *logrus.Logger
}

// NewCallService creates a CallService.
func NewCallService(store CallStore, audit Recorder, pub events.Publisher, log *logrus.Logger) *CallService {
	return &CallService{store: store, audit: audit, pub: pub, log: log}
}

// ListCalls returns one page of calls (pass-through).
func (s *CallService) ListCalls(
	ctx context.Context, workspaceID string, p filter.Params,
) ([]models.Call, bool, string, error) {
	return s.store.ListCalls(ctx, workspaceID, p)
}

// GetCall returns one call (pass-through).
func (s *CallService) GetCall(ctx context.Context, workspaceID, callID string) (*models.Call, error) {
	return s.store.GetCall(ctx, workspaceID, callID)
}

// UpdateCall applies a partial update, diffs the before/after snapshots,
// and records the change. An update that changes nothing produces an empty
// diff and writes no audit entry.
func (s *CallService) UpdateCall(
	ctx context.Context, workspaceID, callID, actor string, req models.UpdateCallRequest,
) (*models.Call, error) {
	before, err := s.store.GetCall(ctx, workspaceID, callID)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateCall(ctx, workspaceID, callID, req)
	if err != nil {
		return nil, err
	}

	changes := diff.Fields(before.Snapshot(), updated.Snapshot())
	if len(changes) == 0 {
		return updated, nil
	}

	s.audit.Record(ctx, workspaceID, models.AuditEvent{
		Actor:      actor,
		Action:     "call.update",
		TargetType: "call",
		TargetID:   callID,
		Diff:       changes,
	})
	s.pub.Publish(workspaceID, "call.updated", updated)

	return updated, nil
}
