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

// JobStore provides data access for the jobs table.
type JobStore struct {
	Base
}

// NewJobStore creates a JobStore.
func NewJobStore(base Base) *JobStore {
	return &JobStore{Base: base}
}

const jobColumns = `id::text, contact_id::text, title, status, assigned_to::text,
	address, notes, scheduled_at, created_at, updated_at`

func jobPredicates(p filter.Params) ([]query.Predicate, error) {
	var preds []query.Predicate

	for name, values := range p.Filters {
		switch name {
		case "status":
			preds = append(preds, query.In{Field: "status", Values: values})
		case "assigned_to", "contact_id":
			preds = append(preds, query.In{Field: name, Values: values})
		}
	}

	if p.From != nil {
		preds = append(preds, query.GtEq{Field: "scheduled_at", Value: *p.From})
	}
	if p.To != nil {
		preds = append(preds, query.Lt{Field: "scheduled_at", Value: *p.To})
	}

	if p.Cursor != nil {
		sort, id, err := cursorPosition(p.Cursor)
		if err != nil {
			return nil, err
		}
		preds = append(preds, query.KeysetBefore{
			SortField: "scheduled_at", IDField: "id", Sort: sort, ID: id,
		})
	}

	return preds, nil
}

// ListJobs returns one page of workspace jobs ordered by schedule, newest first.
func (s *JobStore) ListJobs(
	ctx context.Context, workspaceID string, p filter.Params,
) ([]models.Job, bool, string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	preds, err := jobPredicates(p)
	if err != nil {
		return nil, false, "", err
	}

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, false, "", err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	where, args := query.Where(2, preds...)
	sql := `SELECT ` + jobColumns + ` FROM jobs WHERE workspace_id = $1` + where +
		` ORDER BY scheduled_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)+2)
	args = append([]any{workspaceID}, args...)
	args = append(args, p.Limit+1)

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, false, "", fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, false, "", err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, false, "", fmt.Errorf("reading jobs: %w", err)
	}

	jobs, hasMore, next := page(jobs, p.Limit, func(j models.Job) (time.Time, string) {
		return j.ScheduledAt, j.ID
	})

	return jobs, hasMore, next, nil
}

// GetJob returns one job by ID within the workspace.
func (s *JobStore) GetJob(ctx context.Context, workspaceID, jobID string) (*models.Job, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	row := tx.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE workspace_id = $1 AND id = $2`,
		workspaceID, jobID,
	)

	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrJobNotFound
		}

		return nil, err
	}

	return &j, nil
}

// CreateJob inserts a job and returns the stored row.
func (s *JobStore) CreateJob(
	ctx context.Context, workspaceID string, req models.CreateJobRequest,
) (*models.Job, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	row := tx.QueryRow(ctx,
		`INSERT INTO jobs (workspace_id, contact_id, title, status, assigned_to, address, notes, scheduled_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+jobColumns,
		workspaceID, req.ContactID, req.Title, req.Status, req.AssignedTo,
		req.Address, req.Notes, req.ScheduledAt,
	)

	j, err := scanJob(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing job create: %w", err)
	}

	return &j, nil
}

// UpdateJob applies a partial update and returns the new row.
func (s *JobStore) UpdateJob(
	ctx context.Context, workspaceID, jobID string, req models.UpdateJobRequest,
) (*models.Job, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	set, args := patchSet(map[string]any{
		"contact_id":   req.ContactID,
		"title":        req.Title,
		"status":       req.Status,
		"assigned_to":  req.AssignedTo,
		"address":      req.Address,
		"notes":        req.Notes,
		"scheduled_at": req.ScheduledAt,
	}, 3)

	row := tx.QueryRow(ctx,
		`UPDATE jobs SET `+set+`
		 WHERE workspace_id = $1 AND id = $2
		 RETURNING `+jobColumns,
		append([]any{workspaceID, jobID}, args...)...,
	)

	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrJobNotFound
		}

		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing job update: %w", err)
	}

	return &j, nil
}

func scanJob(row pgx.Row) (models.Job, error) {
	var j models.Job

	err := row.Scan(
		&j.ID, &j.ContactID, &j.Title, &j.Status, &j.AssignedTo,
		&j.Address, &j.Notes, &j.ScheduledAt, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Job{}, err
		}

		return models.Job{}, fmt.Errorf("scanning job: %w", err)
	}

	return j, nil
}
