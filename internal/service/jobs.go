package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/diff"
	"github.com/crewline/crewline/internal/events"
	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/models"
)

// JobStore is the data-access interface JobService depends on.
type JobStore interface {
	ListJobs(ctx context.Context, workspaceID string, p filter.Params) ([]models.Job, bool, string, error)
	GetJob(ctx context.Context, workspaceID, jobID string) (*models.Job, error)
	CreateJob(ctx context.Context, workspaceID string, req models.CreateJobRequest) (*models.Job, error)
	UpdateJob(ctx context.Context, workspaceID, jobID string, req models.UpdateJobRequest) (*models.Job, error)
}

// JobService serves scheduled jobs.
type JobService struct {
	store JobStore
	audit Recorder
	pub   events.Publisher
	log   *logrus.Logger
}

// NewJobService creates a JobService.
func NewJobService(store JobStore, audit Recorder, pub events.Publisher, log *logrus.Logger) *JobService {
	return &JobService{store: store, audit: audit, pub: pub, log: log}
}

// ListJobs returns one page of jobs (pass-through).
func (s *JobService) ListJobs(
	ctx context.Context, workspaceID string, p filter.Params,
) ([]models.Job, bool, string, error) {
	return s.store.ListJobs(ctx, workspaceID, p)
}

// GetJob returns one job (pass-through).
func (s *JobService) GetJob(ctx context.Context, workspaceID, jobID string) (*models.Job, error) {
	return s.store.GetJob(ctx, workspaceID, jobID)
}

// CreateJob inserts a job and records its creation.
func (s *JobService) CreateJob(
	ctx context.Context, workspaceID, actor string, req models.CreateJobRequest,
) (*models.Job, error) {
	job, err := s.store.CreateJob(ctx, workspaceID, req)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, workspaceID, models.AuditEvent{
		Actor:      actor,
		Action:     "job.create",
		TargetType: "job",
		TargetID:   job.ID,
		Metadata:   map[string]any{"title": job.Title, "status": job.Status},
	})
	s.pub.Publish(workspaceID, "job.created", job)

	return job, nil
}

// UpdateJob applies a partial update, diffs the snapshots, and records the
// change. A no-op update writes no audit entry.
func (s *JobService) UpdateJob(
	ctx context.Context, workspaceID, jobID, actor string, req models.UpdateJobRequest,
) (*models.Job, error) {
	before, err := s.store.GetJob(ctx, workspaceID, jobID)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateJob(ctx, workspaceID, jobID, req)
	if err != nil {
		return nil, err
	}

	changes := diff.Fields(before.Snapshot(), updated.Snapshot())
	if len(changes) == 0 {
		return updated, nil
	}

	s.audit.Record(ctx, workspaceID, models.AuditEvent{
		Actor:      actor,
		Action:     "job.update",
		TargetType: "job",
		TargetID:   jobID,
		Diff:       changes,
	})
	s.pub.Publish(workspaceID, "job.updated", updated)

	return updated, nil
}
