package api

import (
	"context"
	"time"

	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/models"
	"github.com/crewline/crewline/internal/session"
)

// CallService defines call operations used by CallHandler.
type CallService interface {
	ListCalls(ctx context.Context, workspaceID string, p filter.Params) ([]models.Call, bool, string, error)
	GetCall(ctx context.Context, workspaceID, callID string) (*models.Call, error)
	UpdateCall(ctx context.Context, workspaceID, callID, actor string, req models.UpdateCallRequest) (*models.Call, error)
}

// JobService defines job operations used by JobHandler.
type JobService interface {
	ListJobs(ctx context.Context, workspaceID string, p filter.Params) ([]models.Job, bool, string, error)
	GetJob(ctx context.Context, workspaceID, jobID string) (*models.Job, error)
	CreateJob(ctx context.Context, workspaceID, actor string, req models.CreateJobRequest) (*models.Job, error)
	UpdateJob(ctx context.Context, workspaceID, jobID, actor string, req models.UpdateJobRequest) (*models.Job, error)
}

// ContactService defines contact operations used by ContactHandler.
type ContactService interface {
	ListContacts(ctx context.Context, workspaceID string, p filter.Params) ([]models.Contact, bool, string, error)
	GetContact(ctx context.Context, workspaceID, contactID string) (*models.Contact, error)
	CreateContact(ctx context.Context, workspaceID, actor string, req models.CreateContactRequest) (*models.Contact, error)
	UpdateContact(ctx context.Context, workspaceID, contactID, actor string, req models.UpdateContactRequest) (*models.Contact, error)
}

// FollowUpService defines follow-up operations used by FollowUpHandler.
type FollowUpService interface {
	ListFollowUps(ctx context.Context, workspaceID string, p filter.Params) ([]models.FollowUp, bool, string, error)
	GetFollowUp(ctx context.Context, workspaceID, followUpID string) (*models.FollowUp, error)
	CreateFollowUp(ctx context.Context, workspaceID, actor string, req models.CreateFollowUpRequest) (*models.FollowUp, error)
	UpdateFollowUp(ctx context.Context, workspaceID, followUpID, actor string, req models.UpdateFollowUpRequest) (*models.FollowUp, error)
}

// AuditService defines audit trail operations used by AuditHandler.
type AuditService interface {
	Query(ctx context.Context, workspaceID string, q models.AuditQuery) ([]models.AuditEvent, bool, string, error)
	History(ctx context.Context, workspaceID string, q models.AuditQuery) ([]models.AuditEvent, bool, string, int, error)
	Purge(ctx context.Context, workspaceID string, retentionDays int) (int, error)
}

// AuthService defines the login/logout operations used by AuthHandler.
type AuthService interface {
	Login(ctx context.Context, email, password string) (session.Session, string, error)
	Logout(ctx context.Context, token string) error
}

// MemberService defines membership listing used by MemberHandler.
type MemberService interface {
	ListMembers(ctx context.Context, workspaceID string) ([]models.Member, error)
}

// StatsService defines the KPI aggregation used by StatsHandler.
type StatsService interface {
	Overview(ctx context.Context, workspaceID string, dayStart, dayEnd time.Time) (models.StatsOverview, error)
}
