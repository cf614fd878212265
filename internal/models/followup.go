package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow-up statuses.
const (
	FollowUpPending   = "pending"
	FollowUpDone      = "done"
	FollowUpDismissed = "dismissed"
)

// FollowUpStatuses lists the valid values for the status filter.
var FollowUpStatuses = []string{FollowUpPending, FollowUpDone, FollowUpDismissed}

// FollowUp represents a callback owed to a contact.
type FollowUp struct {
	ID          string    `json:"id"`
	WorkspaceID uuid.UUID `json:"-"`
	ContactID   string    `json:"contact_id"`
	CallID      *string   `json:"call_id,omitempty"`
	Status      string    `json:"status"`
	Note        string    `json:"note"`
	DueAt       time.Time `json:"due_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns the audit-relevant fields as a flat map for diffing.
func (f *FollowUp) Snapshot() map[string]any {
	snap := map[string]any{
		"contact_id": f.ContactID,
		"status":     f.Status,
		"note":       f.Note,
		"due_at":     f.DueAt.UTC().Format(time.RFC3339),
	}
	if f.CallID != nil {
		snap["call_id"] = *f.CallID
	}

	return snap
}

// CreateFollowUpRequest is the payload for creating a follow-up.
type CreateFollowUpRequest struct {
	ContactID string    `json:"contact_id"`
	CallID    *string   `json:"call_id,omitempty"`
	Note      string    `json:"note,omitempty"`
	DueAt     time.Time `json:"due_at"`
}

// Validate checks that required fields are present and within limits.
func (r *CreateFollowUpRequest) Validate() error {
	if r.ContactID == "" {
		return ErrMissingField("contact_id")
	}

	if r.DueAt.IsZero() {
		return ErrMissingField("due_at")
	}

	if len(r.Note) > 10000 {
		return ErrFieldTooLong("note", 10000)
	}

	return nil
}

// UpdateFollowUpRequest is the payload for patching a follow-up.
type UpdateFollowUpRequest struct {
	Status *string    `json:"status,omitempty"`
	Note   *string    `json:"note,omitempty"`
	DueAt  *time.Time `json:"due_at,omitempty"`
}

// Validate checks UpdateFollowUpRequest fields.
func (r *UpdateFollowUpRequest) Validate() error {
	if r.Status != nil && !contains(FollowUpStatuses, *r.Status) {
		return &InvalidFilterError{Field: "status", Value: *r.Status}
	}

	if r.Note != nil && len(*r.Note) > 10000 {
		return ErrFieldTooLong("note", 10000)
	}

	return nil
}
