package api_test

import (
	"context"
	"time"

	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/models"
)

// mockJobService implements api.JobService for testing.
type mockJobService struct {
	listFn   func(ctx context.Context, workspaceID string, p filter.Params) ([]models.Job, bool, string, error)
	getFn    func(ctx context.Context, workspaceID, jobID string) (*models.Job, error)
	createFn func(ctx context.Context, workspaceID, actor string, req models.CreateJobRequest) (*models.Job, error)
	updateFn func(ctx context.Context, workspaceID, jobID, actor string, req models.UpdateJobRequest) (*models.Job, error)
}

func (m *mockJobService) ListJobs(ctx context.Context, workspaceID string, p filter.Params) ([]models.Job, bool, string, error) {
	return m.listFn(ctx, workspaceID, p)
}

func (m *mockJobService) GetJob(ctx context.Context, workspaceID, jobID string) (*models.Job, error) {
	return m.getFn(ctx, workspaceID, jobID)
}

func (m *mockJobService) CreateJob(ctx context.Context, workspaceID, actor string, req models.CreateJobRequest) (*models.Job, error) {
	return m.createFn(ctx, workspaceID, actor, req)
}

func (m *mockJobService) UpdateJob(ctx context.Context, workspaceID, jobID, actor string, req models.UpdateJobRequest) (*models.Job, error) {
	return m.updateFn(ctx, workspaceID, jobID, actor, req)
}

// mockCallService implements api.CallService for testing.
type mockCallService struct {
	listFn   func(ctx context.Context, workspaceID string, p filter.Params) ([]models.Call, bool, string, error)
	getFn    func(ctx context.Context, workspaceID, callID string) (*models.Call, error)
	updateFn func(ctx context.Context, workspaceID, callID, actor string, req models.UpdateCallRequest) (*models.Call, error)
}

func (m *mockCallService) ListCalls(ctx context.Context, workspaceID string, p filter.Params) ([]models.Call, bool, string, error) {
	return m.listFn(ctx, workspaceID, p)
}

func (m *mockCallService) GetCall(ctx context.Context, workspaceID, callID string) (*models.Call, error) {
	return m.getFn(ctx, workspaceID, callID)
}

func (m *mockCallService) UpdateCall(ctx context.Context, workspaceID, callID, actor string, req models.UpdateCallRequest) (*models.Call, error) {
	return m.updateFn(ctx, workspaceID, callID, actor, req)
}

// mockAuditService implements api.AuditService for testing.
type mockAuditService struct {
	queryFn   func(ctx context.Context, workspaceID string, q models.AuditQuery) ([]models.AuditEvent, bool, string, error)
	historyFn func(ctx context.Context, workspaceID string, q models.AuditQuery) ([]models.AuditEvent, bool, string, int, error)
	purgeFn   func(ctx context.Context, workspaceID string, retentionDays int) (int, error)
}

func (m *mockAuditService) Query(ctx context.Context, workspaceID string, q models.AuditQuery) ([]models.AuditEvent, bool, string, error) {
	return m.queryFn(ctx, workspaceID, q)
}

func (m *mockAuditService) History(ctx context.Context, workspaceID string, q models.AuditQuery) ([]models.AuditEvent, bool, string, int, error) {
	return m.historyFn(ctx, workspaceID, q)
}

func (m *mockAuditService) Purge(ctx context.Context, workspaceID string, retentionDays int) (int, error) {
	return m.purgeFn(ctx, workspaceID, retentionDays)
}

// mockStatsService implements api.StatsService for testing.
type mockStatsService struct {
	overviewFn func(ctx context.Context, workspaceID string, dayStart, dayEnd time.Time) (models.StatsOverview, error)
}

func (m *mockStatsService) Overview(ctx context.Context, workspaceID string, dayStart, dayEnd time.Time) (models.StatsOverview, error) {
	return m.overviewFn(ctx, workspaceID, dayStart, dayEnd)
}
