package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Contact represents a customer record.
type Contact struct {
	ID          string    `json:"id"`
	WorkspaceID uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	Tags        []string  `json:"tags"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns the audit-relevant fields as a flat map for diffing.
// Tags are joined so the diff compares a single scalar per field.
func (c *Contact) Snapshot() map[string]any {
	snap := map[string]any{
		"name":  c.Name,
		"phone": c.Phone,
		"notes": c.Notes,
	}
	if c.Email != "" {
		snap["email"] = c.Email
	}
	if len(c.Tags) > 0 {
		snap["tags"] = strings.Join(c.Tags, ",")
	}

	return snap
}

// CreateContactRequest is the payload for creating a contact.
type CreateContactRequest struct {
	Name  string   `json:"name"`
	Phone string   `json:"phone"`
	Email string   `json:"email,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	Notes string   `json:"notes,omitempty"`
}

// Validate checks that required fields are present and within limits.
func (r *CreateContactRequest) Validate() error {
	if r.Name == "" {
		return ErrMissingField("name")
	}

	if len(r.Name) > 500 {
		return ErrFieldTooLong("name", 500)
	}

	if r.Phone == "" {
		return ErrMissingField("phone")
	}

	if len(r.Phone) > 50 {
		return ErrFieldTooLong("phone", 50)
	}

	if len(r.Email) > 320 {
		return ErrFieldTooLong("email", 320)
	}

	if len(r.Tags) > 50 {
		return ErrFieldTooLong("tags", 50)
	}

	if len(r.Notes) > 10000 {
		return ErrFieldTooLong("notes", 10000)
	}

	return nil
}

// UpdateContactRequest is the payload for patching a contact.
type UpdateContactRequest struct {
	Name  *string   `json:"name,omitempty"`
	Phone *string   `json:"phone,omitempty"`
	Email *string   `json:"email,omitempty"`
	Tags  *[]string `json:"tags,omitempty"`
	Notes *string   `json:"notes,omitempty"`
}

// Validate checks UpdateContactRequest fields.
func (r *UpdateContactRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return ErrMissingField("name")
	}

	if r.Name != nil && len(*r.Name) > 500 {
		return ErrFieldTooLong("name", 500)
	}

	if r.Phone != nil && *r.Phone == "" {
		return ErrMissingField("phone")
	}

	if r.Phone != nil && len(*r.Phone) > 50 {
		return ErrFieldTooLong("phone", 50)
	}

	if r.Email != nil && len(*r.Email) > 320 {
		return ErrFieldTooLong("email", 320)
	}

	if r.Tags != nil && len(*r.Tags) > 50 {
		return ErrFieldTooLong("tags", 50)
	}

	if r.Notes != nil && len(*r.Notes) > 10000 {
		return ErrFieldTooLong("notes", 10000)
	}

	return nil
}
