package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/crewline/crewline/internal/models"
	"github.com/crewline/crewline/internal/pagination"
	"github.com/crewline/crewline/internal/query"
)

// AuditStore provides data access for the audit_log table.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

// RecordAudit appends an audit entry. Entries are immutable once committed.
func (s *AuditStore) RecordAudit(ctx context.Context, workspaceID string, event models.AuditEvent) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	var diffJSON, metaJSON []byte

	if len(event.Diff) > 0 {
		diffJSON, err = json.Marshal(event.Diff)
		if err != nil {
			return fmt.Errorf("marshaling audit diff: %w", err)
		}
	}
	if len(event.Metadata) > 0 {
		metaJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling audit metadata: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO audit_log (workspace_id, actor, action, target_type, target_id, diff, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		workspaceID, event.Actor, event.Action, event.TargetType, event.TargetID,
		diffJSON, metaJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	return tx.Commit(ctx)
}

// auditPredicates builds the filter conjunction for an audit query.
func auditPredicates(q models.AuditQuery) ([]query.Predicate, error) {
	var preds []query.Predicate

	if q.Action != "" {
		preds = append(preds, query.Eq{Field: "action", Value: q.Action})
	}
	if q.TargetType != "" {
		preds = append(preds, query.Eq{Field: "target_type", Value: q.TargetType})
	}
	if q.TargetID != "" {
		preds = append(preds, query.Eq{Field: "target_id", Value: q.TargetID})
	}

	if q.Cursor != "" {
		cur, err := pagination.Decode(q.Cursor)
		if err != nil {
			return nil, err
		}
		sort, err := time.Parse(cursorSortFormat, cur.Sort)
		if err != nil {
			return nil, models.ErrInvalidCursor
		}
		id, err := strconv.ParseInt(cur.ID, 10, 64)
		if err != nil {
			return nil, models.ErrInvalidCursor
		}
		preds = append(preds, query.KeysetBefore{
			SortField: "created_at", IDField: "id", Sort: sort, ID: id,
		})
	}

	return preds, nil
}

// QueryAudit returns one page of audit events, most recent first.
func (s *AuditStore) QueryAudit(
	ctx context.Context, workspaceID string, q models.AuditQuery,
) ([]models.AuditEvent, bool, string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	preds, err := auditPredicates(q)
	if err != nil {
		return nil, false, "", err
	}

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, false, "", err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	where, args := query.Where(2, preds...)
	sql := `SELECT id, actor, action, target_type, target_id, diff, metadata, created_at
		FROM audit_log WHERE workspace_id = $1` + where +
		` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args)+2)
	args = append([]any{workspaceID}, args...)
	args = append(args, q.Limit+1)

	events, err := s.scanAuditRows(ctx, tx, sql, args)
	if err != nil {
		return nil, false, "", err
	}

	hasMore := len(events) > q.Limit
	next := ""
	if hasMore {
		events = events[:q.Limit]
		last := events[len(events)-1]
		next = pagination.Cursor{
			Sort: last.CreatedAt.Format(cursorSortFormat),
			ID:   strconv.FormatInt(last.ID, 10),
		}.Encode()
	}

	return events, hasMore, next, nil
}

// History returns audit events for one entity, most recent first, along with
// the entity's total event count.
func (s *AuditStore) History(
	ctx context.Context, workspaceID string, q models.AuditQuery,
) ([]models.AuditEvent, bool, string, int, error) {
	events, hasMore, next, err := s.QueryAudit(ctx, workspaceID, q)
	if err != nil {
		return nil, false, "", 0, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, false, "", 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	var total int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM audit_log WHERE workspace_id = $1 AND target_type = $2 AND target_id = $3`,
		workspaceID, q.TargetType, q.TargetID,
	).Scan(&total)
	if err != nil {
		return nil, false, "", 0, fmt.Errorf("counting audit history: %w", err)
	}

	return events, hasMore, next, total, nil
}

func (s *AuditStore) scanAuditRows(
	ctx context.Context, tx pgx.Tx, sql string, args []any,
) ([]models.AuditEvent, error) {
	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var events []models.AuditEvent
	for rows.Next() {
		var (
			e        models.AuditEvent
			diffJSON []byte
			metaJSON []byte
		)

		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.TargetType, &e.TargetID, &diffJSON, &metaJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		if diffJSON != nil {
			if err := json.Unmarshal(diffJSON, &e.Diff); err != nil {
				s.Log.WithError(err).Warn("failed to unmarshal audit diff")
			}
		}
		if metaJSON != nil {
			if err := json.Unmarshal(metaJSON, &e.Metadata); err != nil {
				s.Log.WithError(err).Warn("failed to unmarshal audit metadata")
			}
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// purgeBatchSize limits rows deleted per transaction to avoid holding
// long locks on audit_log.
const purgeBatchSize = 5000

// PurgeOldEntries deletes audit entries older than retentionDays in batches.
// Returns the number of deleted entries.
func (s *AuditStore) PurgeOldEntries(
	ctx context.Context, workspaceID string, retentionDays int,
) (int, error) {
	var totalDeleted int

	for {
		batchCtx, cancel := withTimeout(ctx)

		deleted, err := s.purgeBatch(batchCtx, workspaceID, retentionDays)
		cancel()

		if err != nil {
			return totalDeleted, err
		}

		totalDeleted += deleted
		if deleted < purgeBatchSize {
			break
		}
	}

	return totalDeleted, nil
}

func (s *AuditStore) purgeBatch(ctx context.Context, workspaceID string, retentionDays int) (int, error) {
	tx, err := s.beginTx(ctx, workspaceID)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	tag, err := tx.Exec(ctx,
		`DELETE FROM audit_log WHERE id IN (
			SELECT id FROM audit_log
			WHERE workspace_id = $1 AND created_at < NOW() - make_interval(days => $2)
			LIMIT $3
		)`,
		workspaceID, retentionDays, purgeBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("purging audit entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}
