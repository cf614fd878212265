// Package store provides focused, single-concern data access stores for
// the Crewline dashboard.
//
// Each store owns one entity (calls, jobs, contacts, follow-ups, audit,
// members) and embeds shared helpers (Pool, logger) via the Base struct.
// Every query runs inside a transaction whose app.workspace_id setting
// drives row-level security, so a store can only ever see one workspace.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// setWorkspace sets the workspace context for RLS policies within a transaction.
func setWorkspace(ctx context.Context, tx pgx.Tx, workspaceID string) error {
	if _, err := uuid.Parse(workspaceID); err != nil {
		return fmt.Errorf("invalid workspace ID format: %w", err)
	}

	_, err := tx.Exec(ctx, "SELECT set_config('app.workspace_id', $1, true)", workspaceID)
	if err != nil {
		return fmt.Errorf("setting workspace context: %w", err)
	}

	return nil
}

// beginTx starts a read-write transaction and sets the workspace context.
func (b *Base) beginTx(ctx context.Context, workspaceID string) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	if err := setWorkspace(ctx, tx, workspaceID); err != nil {
		tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on setup failure.

		return nil, err
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction and sets the workspace context.
func (b *Base) beginReadTx(ctx context.Context, workspaceID string) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	if err := setWorkspace(ctx, tx, workspaceID); err != nil {
		tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on setup failure.

		return nil, err
	}

	return tx, nil
}
