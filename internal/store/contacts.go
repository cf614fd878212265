package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/crewline/crewline/internal/filter"
	"github.com/crewline/crewline/internal/models"
	"github.com/crewline/crewline/internal/query"
)

// ContactStore provides data access for the contacts table.
type ContactStore struct {
	Base
}

// NewContactStore creates a ContactStore.
func NewContactStore(base Base) *ContactStore {
	return &ContactStore{Base: base}
}

const contactColumns = `id::text, name, phone, email, tags, notes, created_at, updated_at`

func contactPredicates(p filter.Params) ([]query.Predicate, error) {
	var preds []query.Predicate

	for name, values := range p.Filters {
		switch name {
		case "tag":
			// Membership in the tags array; repeated tags OR together.
			preds = append(preds, query.In{Field: "t.tag", Values: values})
		case "q":
			preds = append(preds, query.AnyPrefix{
				Fields: []string{"name", "phone"}, Value: values[0],
			})
		}
	}

	if p.From != nil {
		preds = append(preds, query.GtEq{Field: "created_at", Value: *p.From})
	}
	if p.To != nil {
		preds = append(preds, query.Lt{Field: "created_at", Value: *p.To})
	}

	if p.Cursor != nil {
		sort, id, err := cursorPosition(p.Cursor)
		if err != nil {
			return nil, err
		}
		preds = append(preds, query.KeysetBefore{
			SortField: "created_at", IDField: "id", Sort: sort, ID: id,
		})
	}

	return preds, nil
}

// ListContacts returns one page of workspace contacts, newest first.
func (s *ContactStore) ListContacts(
	ctx context.Context, workspaceID string, p filter.Params,
) ([]models.Contact, bool, string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	preds, err := contactPredicates(p)
	if err != nil {
		return nil, false, "", err
	}

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, false, "", err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	// The tag filter joins an unnested view of the tags array.
	from := `contacts`
	if _, ok := p.Filters["tag"]; ok {
		from = `contacts, LATERAL unnest(tags) AS t(tag)`
	}

	where, args := query.Where(2, preds...)
	sql := `SELECT DISTINCT ` + contactColumns + ` FROM ` + from +
		` WHERE workspace_id = $1` + where +
		` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)+2)
	args = append([]any{workspaceID}, args...)
	args = append(args, p.Limit+1)

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, false, "", fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, false, "", err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, "", fmt.Errorf("reading contacts: %w", err)
	}

	contacts, hasMore, next := page(contacts, p.Limit, func(c models.Contact) (time.Time, string) {
		return c.CreatedAt, c.ID
	})

	return contacts, hasMore, next, nil
}

// GetContact returns one contact by ID within the workspace.
func (s *ContactStore) GetContact(ctx context.Context, workspaceID, contactID string) (*models.Contact, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	row := tx.QueryRow(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE workspace_id = $1 AND id = $2`,
		workspaceID, contactID,
	)

	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrContactNotFound
		}

		return nil, err
	}

	return &c, nil
}

// CreateContact inserts a contact and returns the stored row.
func (s *ContactStore) CreateContact(
	ctx context.Context, workspaceID string, req models.CreateContactRequest,
) (*models.Contact, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO contacts (workspace_id, name, phone, email, tags, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+contactColumns,
		workspaceID, req.Name, req.Phone, req.Email, tags, req.Notes,
	)

	c, err := scanContact(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing contact create: %w", err)
	}

	return &c, nil
}

// UpdateContact applies a partial update and returns the new row.
func (s *ContactStore) UpdateContact(
	ctx context.Context, workspaceID, contactID string, req models.UpdateContactRequest,
) (*models.Contact, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	set, args := patchSet(map[string]any{
		"name":  req.Name,
		"phone": req.Phone,
		"email": req.Email,
		"tags":  req.Tags,
		"notes": req.Notes,
	}, 3)

	row := tx.QueryRow(ctx,
		`UPDATE contacts SET `+set+`
		 WHERE workspace_id = $1 AND id = $2
		 RETURNING `+contactColumns,
		append([]any{workspaceID, contactID}, args...)...,
	)

	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrContactNotFound
		}

		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing contact update: %w", err)
	}

	return &c, nil
}

func scanContact(row pgx.Row) (models.Contact, error) {
	var c models.Contact

	err := row.Scan(
		&c.ID, &c.Name, &c.Phone, &c.Email, &c.Tags, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Contact{}, err
		}

		return models.Contact{}, fmt.Errorf("scanning contact: %w", err)
	}

	return c, nil
}
