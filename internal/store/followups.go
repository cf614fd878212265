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

// FollowUpStore provides data access for the followups table.
type FollowUpStore struct {
	Base
}

// NewFollowUpStore creates a FollowUpStore.
func NewFollowUpStore(base Base) *FollowUpStore {
	return &FollowUpStore{Base: base}
}

const followUpColumns = `id::text, contact_id::text, call_id::text, status, note,
	due_at, created_at, updated_at`

func followUpPredicates(p filter.Params) ([]query.Predicate, error) {
	var preds []query.Predicate

	for name, values := range p.Filters {
		switch name {
		case "status", "contact_id":
			preds = append(preds, query.In{Field: name, Values: values})
		}
	}

	if p.From != nil {
		preds = append(preds, query.GtEq{Field: "due_at", Value: *p.From})
	}
	if p.To != nil {
		preds = append(preds, query.Lt{Field: "due_at", Value: *p.To})
	}

	if p.Cursor != nil {
		sort, id, err := cursorPosition(p.Cursor)
		if err != nil {
			return nil, err
		}
		preds = append(preds, query.KeysetBefore{
			SortField: "due_at", IDField: "id", Sort: sort, ID: id,
		})
	}

	return preds, nil
}

// ListFollowUps returns one page of workspace follow-ups by due date, newest first.
func (s *FollowUpStore) ListFollowUps(
	ctx context.Context, workspaceID string, p filter.Params,
) ([]models.FollowUp, bool, string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	preds, err := followUpPredicates(p)
	if err != nil {
		return nil, false, "", err
	}

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, false, "", err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	where, args := query.Where(2, preds...)
	sql := `SELECT ` + followUpColumns + ` FROM followups WHERE workspace_id = $1` + where +
		` ORDER BY due_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)+2)
	args = append([]any{workspaceID}, args...)
	args = append(args, p.Limit+1)

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, false, "", fmt.Errorf("querying follow-ups: %w", err)
	}
	defer rows.Close()

	var followUps []models.FollowUp
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, false, "", err
		}
		followUps = append(followUps, f)
	}
	if err := rows.Err(); err != nil {
		return nil, false, "", fmt.Errorf("reading follow-ups: %w", err)
	}

	followUps, hasMore, next := page(followUps, p.Limit, func(f models.FollowUp) (time.Time, string) {
		return f.DueAt, f.ID
	})

	return followUps, hasMore, next, nil
}

// GetFollowUp returns one follow-up by ID within the workspace.
func (s *FollowUpStore) GetFollowUp(ctx context.Context, workspaceID, followUpID string) (*models.FollowUp, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	row := tx.QueryRow(ctx,
		`SELECT `+followUpColumns+` FROM followups WHERE workspace_id = $1 AND id = $2`,
		workspaceID, followUpID,
	)

	f, err := scanFollowUp(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrFollowUpNotFound
		}

		return nil, err
	}

	return &f, nil
}

// CreateFollowUp inserts a follow-up and returns the stored row.
func (s *FollowUpStore) CreateFollowUp(
	ctx context.Context, workspaceID string, req models.CreateFollowUpRequest,
) (*models.FollowUp, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	row := tx.QueryRow(ctx,
		`INSERT INTO followups (workspace_id, contact_id, call_id, note, due_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+followUpColumns,
		workspaceID, req.ContactID, req.CallID, req.Note, req.DueAt,
	)

	f, err := scanFollowUp(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing follow-up create: %w", err)
	}

	return &f, nil
}

// UpdateFollowUp applies a partial update and returns the new row.
func (s *FollowUpStore) UpdateFollowUp(
	ctx context.Context, workspaceID, followUpID string, req models.UpdateFollowUpRequest,
) (*models.FollowUp, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	set, args := patchSet(map[string]any{
		"status": req.Status,
		"note":   req.Note,
		"due_at": req.DueAt,
	}, 3)

	row := tx.QueryRow(ctx,
		`UPDATE followups SET `+set+`
		 WHERE workspace_id = $1 AND id = $2
		 RETURNING `+followUpColumns,
		append([]any{workspaceID, followUpID}, args...)...,
	)

	f, err := scanFollowUp(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrFollowUpNotFound
		}

		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing follow-up update: %w", err)
	}

	return &f, nil
}

func scanFollowUp(row pgx.Row) (models.FollowUp, error) {
	var f models.FollowUp

	err := row.Scan(
		&f.ID, &f.ContactID, &f.CallID, &f.Status, &f.Note,
		&f.DueAt, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FollowUp{}, err
		}

		return models.FollowUp{}, fmt.Errorf("scanning follow-up: %w", err)
	}

	return f, nil
}
