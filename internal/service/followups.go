package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/diff"
	"github.com/crewline/crewline/internal/events"
	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/models"
)

// FollowUpStore is the data-access interface FollowUpService depends on.
type FollowUpStore interface {
	ListFollowUps(ctx context.Context, workspaceID string, p filter.Params) ([]models.FollowUp, bool, string, error)
	GetFollowUp(ctx context.Context, workspaceID, followUpID string) (*models.FollowUp, error)
	CreateFollowUp(ctx context.Context, workspaceID string, req models.CreateFollowUpRequest) (*models.FollowUp, error)
	UpdateFollowUp(ctx context.Context, workspaceID, followUpID string, req models.UpdateFollowUpRequest) (*models.FollowUp, error)
}

// FollowUpService serves reminder items tied to calls and contacts.
type FollowUpService struct {
	store FollowUpStore
	audit Recorder
	pub   events.Publisher
	log   *logrus.Logger
}

// NewFollowUpService creates a FollowUpService.
func NewFollowUpService(store FollowUpStore, audit Recorder, pub events.Publisher, log *logrus.Logger) *FollowUpService {
	return &FollowUpService{store: store, audit: audit, pub: pub, log: log}
}

// ListFollowUps returns one page of follow-ups (pass-through).
func (s *FollowUpService) ListFollowUps(
	ctx context.Context, workspaceID string, p filter.Params,
) ([]models.FollowUp, bool, string, error) {
	return s.store.ListFollowUps(ctx, workspaceID, p)
}

// GetFollowUp returns one follow-up (pass-through).
func (s *FollowUpService) GetFollowUp(ctx context.Context, workspaceID, followUpID string) (*models.FollowUp, error) {
	return s.store.GetFollowUp(ctx, workspaceID, followUpID)
}

// CreateFollowUp inserts a follow-up and records its creation.
func (s *FollowUpService) CreateFollowUp(
	ctx context.Context, workspaceID, actor string, req models.CreateFollowUpRequest,
) (*models.FollowUp, error) {
	fu, err := s.store.CreateFollowUp(ctx, workspaceID, req)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, workspaceID, models.AuditEvent{
		Actor:      actor,
		Action:     "followup.create",
		TargetType: "followup",
		TargetID:   fu.ID,
		Metadata:   map[string]any{"status": fu.Status},
	})
	s.pub.Publish(workspaceID, "followup.created", fu)

	return fu, nil
}

// UpdateFollowUp applies a partial update, diffs the snapshots, and records
// the change. A no-op update writes no audit entry.
func (s *FollowUpService) UpdateFollowUp(
	ctx context.Context, workspaceID, followUpID, actor string, req models.UpdateFollowUpRequest,
) (*models.FollowUp, error) {
	before, err := s.store.GetFollowUp(ctx, workspaceID, followUpID)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateFollowUp(ctx, workspaceID, followUpID, req)
	if err != nil {
		return nil, err
	}

	changes := diff.Fields(before.Snapshot(), updated.Snapshot())
	if len(changes) == 0 {
		return updated, nil
	}

	s.audit.Record(ctx, workspaceID, models.AuditEvent{
		Actor:      actor,
		Action:     "followup.update",
		TargetType: "followup",
		TargetID:   followUpID,
		Diff:       changes,
	})
	s.pub.Publish(workspaceID, "followup.updated", updated)

	return updated, nil
}
