// Package service implements the business layer between HTTP handlers and
// the stores: mutations load the before-image, apply the change, diff the
// two snapshots, and record the result on the workspace audit trail.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/metrics"
	"github.com/crewline/crewline/internal/models"
)

// AuditStore is the data-access interface AuditService depends on.
type AuditStore interface {
	RecordAudit(ctx context.Context, workspaceID string, event models.AuditEvent) error
	QueryAudit(ctx context.Context, workspaceID string, q models.AuditQuery) ([]models.AuditEvent, bool, string, error)
	History(ctx context.Context, workspaceID string, q models.AuditQuery) ([]models.AuditEvent, bool, string, int, error)
	PurgeOldEntries(ctx context.Context, workspaceID string, retentionDays int) (int, error)
}

// Recorder is the minimal interface mutating services use to write audit
// entries. Record has no error return: audit is a best-effort side channel
// and must never fail the business operation that triggered it.
type Recorder interface {
	Record(ctx context.Context, workspaceID string, event models.AuditEvent)
}

// AuditService wraps AuditStore with the swallow-on-failure recording policy.
type AuditService struct {
	store AuditStore
	log   *logrus.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(store AuditStore, log *logrus.Logger) *AuditService {
	return &AuditService{store: store, log: log}
}

// Record appends an audit entry. A store failure is logged and counted but
// not propagated: the mutation already committed and is not rolled back
// because its audit entry was lost.
func (s *AuditService) Record(ctx context.Context, workspaceID string, event models.AuditEvent) {
	if err := s.store.RecordAudit(ctx, workspaceID, event); err != nil {
		metrics.AuditWriteFailures.Inc()
		s.log.WithError(err).WithFields(logrus.Fields{
			"workspace_id": workspaceID,
			"action":       event.Action,
			"target_type":  event.TargetType,
			"target_id":    event.TargetID,
		}).Warn("audit write failed")
	}
}

// Query returns one page of the workspace audit trail (pass-through).
func (s *AuditService) Query(
	ctx context.Context, workspaceID string, q models.AuditQuery,
) ([]models.AuditEvent, bool, string, error) {
	return s.store.QueryAudit(ctx, workspaceID, q)
}

// History returns audit events for one entity, most recent first, plus the
// entity's total event count (pass-through).
func (s *AuditService) History(
	ctx context.Context, workspaceID string, q models.AuditQuery,
) ([]models.AuditEvent, bool, string, int, error) {
	return s.store.History(ctx, workspaceID, q)
}

// Purge deletes audit entries older than retentionDays and logs the result.
func (s *AuditService) Purge(ctx context.Context, workspaceID string, retentionDays int) (int, error) {
	deleted, err := s.store.PurgeOldEntries(ctx, workspaceID, retentionDays)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"workspace_id":   workspaceID,
		"retention_days": retentionDays,
		"deleted":        deleted,
	}).Info("audit.purge")

	return deleted, nil
}
