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

// CallStore provides data access for the calls table.
type CallStore struct {
	Base
}

// NewCallStore creates a CallStore.
func NewCallStore(base Base) *CallStore {
	return &CallStore{Base: base}
}

const callColumns = `id::text, contact_id::text, direction, disposition, caller_name,
	caller_number, duration_seconds, notes, occurred_at, created_at, updated_at`

// callPredicates maps normalized filter names onto call columns.
func callPredicates(p filter.Params) ([]query.Predicate, error) {
	var preds []query.Predicate

	for name, values := range p.Filters {
		switch name {
		case "direction", "disposition":
			preds = append(preds, query.In{Field: name, Values: values})
		case "contact_id":
			preds = append(preds, query.In{Field: "contact_id", Values: values})
		}
	}

	if p.From != nil {
		preds = append(preds, query.GtEq{Field: "occurred_at", Value: *p.From})
	}
	if p.To != nil {
		preds = append(preds, query.Lt{Field: "occurred_at", Value: *p.To})
	}

	if p.Cursor != nil {
		sort, id, err := cursorPosition(p.Cursor)
		if err != nil {
			return nil, err
		}
		preds = append(preds, query.KeysetBefore{
			SortField: "occurred_at", IDField: "id", Sort: sort, ID: id,
		})
	}

	return preds, nil
}

// ListCalls returns one page of the workspace call log, newest first.
// The third return value is the cursor for the next page, empty on the last.
func (s *CallStore) ListCalls(
	ctx context.Context, workspaceID string, p filter.Params,
) ([]models.Call, bool, string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	preds, err := callPredicates(p)
	if err != nil {
		return nil, false, "", err
	}

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, false, "", err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	where, args := query.Where(2, preds...)
	sql := `SELECT ` + callColumns + ` FROM calls WHERE workspace_id = $1` + where +
		` ORDER BY occurred_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)+2)
	args = append([]any{workspaceID}, args...)
	args = append(args, p.Limit+1)

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, false, "", fmt.Errorf("querying calls: %w", err)
	}
	defer rows.Close()

	var calls []models.Call
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, false, "", err
		}
		calls = append(calls, c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, "", fmt.Errorf("reading calls: %w", err)
	}

	calls, hasMore, next := page(calls, p.Limit, func(c models.Call) (time.Time, string) {
		return c.OccurredAt, c.ID
	})

	return calls, hasMore, next, nil
}

// GetCall returns one call by ID within the workspace.
func (s *CallStore) GetCall(ctx context.Context, workspaceID, callID string) (*models.Call, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	row := tx.QueryRow(ctx,
		`SELECT `+callColumns+` FROM calls WHERE workspace_id = $1 AND id = $2`,
		workspaceID, callID,
	)

	c, err := scanCall(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCallNotFound
		}

		return nil, err
	}

	return &c, nil
}

// UpdateCall applies a partial update and returns the new row.
func (s *CallStore) UpdateCall(
	ctx context.Context, workspaceID, callID string, req models.UpdateCallRequest,
) (*models.Call, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	set, args := patchSet(map[string]any{
		"disposition": req.Disposition,
		"notes":       req.Notes,
		"contact_id":  req.ContactID,
	}, 3)

	row := tx.QueryRow(ctx,
		`UPDATE calls SET `+set+`
		 WHERE workspace_id = $1 AND id = $2
		 RETURNING `+callColumns,
		append([]any{workspaceID, callID}, args...)...,
	)

	c, err := scanCall(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrCallNotFound
		}

		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing call update: %w", err)
	}

	return &c, nil
}

func scanCall(row pgx.Row) (models.Call, error) {
	var c models.Call

	err := row.Scan(
		&c.ID, &c.ContactID, &c.Direction, &c.Disposition, &c.CallerName,
		&c.CallerNumber, &c.DurationSeconds, &c.Notes, &c.OccurredAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Call{}, err
		}

		return models.Call{}, fmt.Errorf("scanning call: %w", err)
	}

	return c, nil
}
