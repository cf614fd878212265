package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/crewline/crewline/internal/models"
)

// MemberStore handles account and membership lookups.
type MemberStore struct {
	Base
}

// NewMemberStore creates a MemberStore.
func NewMemberStore(base Base) *MemberStore {
	return &MemberStore{Base: base}
}

// GetUserByEmail looks up an account by email. Accounts are global, not
// workspace-scoped, so this runs outside the RLS transaction helpers.
func (s *MemberStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var u models.User

	err := s.Pool.QueryRow(ctx,
		`SELECT id::text, email, name, password_hash, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, models.ErrInvalidCredentials
		}

		return models.User{}, fmt.Errorf("looking up user by email: %w", err)
	}

	return u, nil
}

// GetPrimaryMembership returns the earliest membership for a user, with the
// workspace's timezone.
func (s *MemberStore) GetPrimaryMembership(
	ctx context.Context, userID string,
) (workspaceID, role, timezone string, err error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err = s.Pool.QueryRow(ctx,
		`SELECT m.workspace_id::text, m.role, w.timezone
		 FROM memberships m JOIN workspaces w ON w.id = m.workspace_id
		 WHERE m.user_id = $1
		 ORDER BY m.created_at ASC
		 LIMIT 1`,
		userID,
	).Scan(&workspaceID, &role, &timezone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", "", models.ErrInvalidCredentials
		}

		return "", "", "", fmt.Errorf("looking up membership: %w", err)
	}

	return workspaceID, role, timezone, nil
}

// ListMembers returns all memberships for a workspace.
func (s *MemberStore) ListMembers(ctx context.Context, workspaceID string) ([]models.Member, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	rows, err := tx.Query(ctx,
		`SELECT m.user_id::text, u.email, u.name, m.role, m.created_at
		 FROM memberships m JOIN users u ON u.id = m.user_id
		 WHERE m.workspace_id = $1
		 ORDER BY m.created_at ASC`,
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UserID, &m.Email, &m.Name, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}
