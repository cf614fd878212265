package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/diff"
	"github.com/crewline/crewline/internal/events"
	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/models"
)

// ContactStore is the data-access interface ContactService depends on.
type ContactStore interface {
	ListContacts(ctx context.Context, workspaceID string, p filter.Params) ([]models.Contact, bool, string, error)
	GetContact(ctx context.Context, workspaceID, contactID string) (*models.Contact, error)
	CreateContact(ctx context.Context, workspaceID string, req models.CreateContactRequest) (*models.Contact, error)
	UpdateContact(ctx context.Context, workspaceID, contactID string, req models.UpdateContactRequest) (*models.Contact, error)
}

// ContactService serves customer records.
type ContactService struct {
	store ContactStore
	audit Recorder
	pub   events.Publisher
	log   *logrus.Logger
}

// NewContactService creates a ContactService.
func NewContactService(store ContactStore, audit Recorder, pub events.Publisher, log *logrus.Logger) *ContactService {
	return &ContactService{store: store, audit: audit, pub: pub, log: log}
}

// ListContacts returns one page of contacts (pass-through).
func (s *ContactService) ListContacts(
	ctx context.Context, workspaceID string, p filter.Params,
) ([]models.Contact, bool, string, error) {
	return s.store.ListContacts(ctx, workspaceID, p)
}

// GetContact returns one contact (pass-through).
func (s *ContactService) GetContact(ctx context.Context, workspaceID, contactID string) (*models.Contact, error) {
	return s.store.GetContact(ctx, workspaceID, contactID)
}

// CreateContact inserts a contact and records its creation.
func (s *ContactService) CreateContact(
	ctx context.Context, workspaceID, actor string, req models.CreateContactRequest,
) (*models.Contact, error) {
	contact, err := s.store.CreateContact(ctx, workspaceID, req)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, workspaceID, models.AuditEvent{
		Actor:      actor,
		Action:     "contact.create",
		TargetType: "contact",
		TargetID:   contact.ID,
		Metadata:   map[string]any{"name": contact.Name},
	})
	s.pub.Publish(workspaceID, "contact.created", contact)

	return contact, nil
}

// UpdateContact applies a partial update, diffs the snapshots, and records
// the change. A no-op update writes no audit entry.
func (s *ContactService) UpdateContact(
	ctx context.Context, workspaceID, contactID, actor string, req models.UpdateContactRequest,
) (*models.Contact, error) {
	before, err := s.store.GetContact(ctx, workspaceID, contactID)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateContact(ctx, workspaceID, contactID, req)
	if err != nil {
		return nil, err
	}

	changes := diff.Fields(before.Snapshot(), updated.Snapshot())
	if len(changes) == 0 {
		return updated, nil
	}

	s.audit.Record(ctx, workspaceID, models.AuditEvent{
		Actor:      actor,
		Action:     "contact.update",
		TargetType: "contact",
		TargetID:   contactID,
		Diff:       changes,
	})
	s.pub.Publish(workspaceID, "contact.updated", updated)

	return updated, nil
}
