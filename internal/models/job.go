package models

import (
	"time"

	"github.com/google/uuid"
)

// Job statuses.
const (
	JobScheduled  = "scheduled"
	JobEnRoute    = "en_route"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobCancelled  = "cancelled"
)

// JobStatuses lists the valid values for the status filter.
var JobStatuses = []string{JobScheduled, JobEnRoute, JobInProgress, JobCompleted, JobCancelled}

// Job represents a scheduled piece of work for a workspace.
type Job struct {
	ID          string    `json:"id"`
	WorkspaceID uuid.UUID `json:"-"`
	ContactID   *string   `json:"contact_id,omitempty"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	AssignedTo  *string   `json:"assigned_to,omitempty"`
	Address     string    `json:"address"`
	Notes       string    `json:"notes"`
	ScheduledAt time.Time `json:"scheduled_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns the audit-relevant fields as a flat map for diffing.
func (j *Job) Snapshot() map[string]any {
	snap := map[string]any{
		"title":        j.Title,
		"status":       j.Status,
		"address":      j.Address,
		"notes":        j.Notes,
		"scheduled_at": j.ScheduledAt.UTC().Format(time.RFC3339),
	}
	if j.ContactID != nil {
		snap["contact_id"] = *j.ContactID
	}
	if j.AssignedTo != nil {
		snap["assigned_to"] = *j.AssignedTo
	}

	return snap
}

// CreateJobRequest is the payload for creating a job.
type CreateJobRequest struct {
	ContactID   *string   `json:"contact_id,omitempty"`
	Title       string    `json:"title"`
	Status      string    `json:"status,omitempty"`
	AssignedTo  *string   `json:"assigned_to,omitempty"`
	Address     string    `json:"address,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

// Validate checks that required fields are present and within limits.
// An empty status defaults to "scheduled".
func (r *CreateJobRequest) Validate() error {
	if r.Title == "" {
		return ErrMissingField("title")
	}

	if len(r.Title) > 500 {
		return ErrFieldTooLong("title", 500)
	}

	if r.Status == "" {
		r.Status = JobScheduled
	}

	if !contains(JobStatuses, r.Status) {
		return &InvalidFilterError{Field: "status", Value: r.Status}
	}

	if r.ScheduledAt.IsZero() {
		return ErrMissingField("scheduled_at")
	}

	if len(r.Address) > 1000 {
		return ErrFieldTooLong("address", 1000)
	}

	if len(r.Notes) > 10000 {
		return ErrFieldTooLong("notes", 10000)
	}

	return nil
}

// UpdateJobRequest is the payload for patching a job.
type UpdateJobRequest struct {
	ContactID   *string    `json:"contact_id,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Status      *string    `json:"status,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// Validate checks UpdateJobRequest fields.
func (r *UpdateJobRequest) Validate() error {
	if r.Title != nil && *r.Title == "" {
		return ErrMissingField("title")
	}

	if r.Title != nil && len(*r.Title) > 500 {
		return ErrFieldTooLong("title", 500)
	}

	if r.Status != nil && !contains(JobStatuses, *r.Status) {
		return &InvalidFilterError{Field: "status", Value: *r.Status}
	}

	if r.Address != nil && len(*r.Address) > 1000 {
		return ErrFieldTooLong("address", 1000)
	}

	if r.Notes != nil && len(*r.Notes) > 10000 {
		return ErrFieldTooLong("notes", 10000)
	}

	return nil
}
