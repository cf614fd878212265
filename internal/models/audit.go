package models

import "time"

// FieldChange is a single before/after pair inside an audit diff.
type FieldChange struct {
	Before any `json:"before"`
	After  any `json:"after"`
}

// AuditEvent is one immutable entry in the workspace audit trail.
type AuditEvent struct {
	ID          int64                  `json:"id"`
	WorkspaceID string                 `json:"-"`
	Actor       string                 `json:"actor"`
	Action      string                 `json:"action"`
	TargetType  string                 `json:"target_type"`
	TargetID    string                 `json:"target_id"`
	Diff        map[string]FieldChange `json:"diff,omitempty"`
	Metadata    map[string]any         `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// AuditQuery holds filters for reading the audit trail.
type AuditQuery struct {
	Action     string
	TargetType string
	TargetID   string
	Cursor     string
	Limit      int
}
