// Package models defines data types for the Crewline operations dashboard.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Call directions.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Call dispositions.
const (
	DispositionBooked    = "booked"
	DispositionMissed    = "missed"
	DispositionVoicemail = "voicemail"
	DispositionSpam      = "spam"
	DispositionFollowUp  = "follow_up"
)

// CallDirections lists the valid values for the direction filter.
var CallDirections = []string{DirectionInbound, DirectionOutbound}

// CallDispositions lists the valid values for the disposition filter.
var CallDispositions = []string{
	DispositionBooked, DispositionMissed, DispositionVoicemail,
	DispositionSpam, DispositionFollowUp,
}

// Call represents one entry in the workspace call log.
type Call struct {
	ID              string    `json:"id"`
	WorkspaceID     uuid.UUID `json:"-"`
	ContactID       *string   `json:"contact_id,omitempty"`
	Direction       string    `json:"direction"`
	Disposition     string    `json:"disposition"`
	CallerName      string    `json:"caller_name"`
	CallerNumber    string    `json:"caller_number"`
	DurationSeconds int       `json:"duration_seconds"`
	Notes           string    `json:"notes"`
	OccurredAt      time.Time `json:"occurred_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Snapshot returns the audit-relevant fields as a flat map for diffing.
func (c *Call) Snapshot() map[string]any {
	snap := map[string]any{
		"direction":        c.Direction,
		"disposition":      c.Disposition,
		"caller_name":      c.CallerName,
		"caller_number":    c.CallerNumber,
		"duration_seconds": c.DurationSeconds,
		"notes":            c.Notes,
	}
	if c.ContactID != nil {
		snap["contact_id"] = *c.ContactID
	}

	return snap
}

// UpdateCallRequest is the payload for patching a call.
// Only disposition, notes, and the contact link are mutable.
type UpdateCallRequest struct {
	Disposition *string `json:"disposition,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	ContactID   *string `json:"contact_id,omitempty"`
}

// Validate checks UpdateCallRequest fields.
func (r *UpdateCallRequest) Validate() error {
	if r.Disposition != nil && !contains(CallDispositions, *r.Disposition) {
		return &InvalidFilterError{Field: "disposition", Value: *r.Disposition}
	}

	if r.Notes != nil && len(*r.Notes) > 10000 {
		return ErrFieldTooLong("notes", 10000)
	}

	return nil
}

func contains(valid []string, v string) bool {
	for _, s := range valid {
		if s == v {
			return true
		}
	}

	return false
}
