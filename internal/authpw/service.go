// Package authpw provides email/password login issuing cookie sessions.
package authpw

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/crewline/crewline/internal/models"
	"github.com/crewline/crewline/internal/session"
)

// UserStore defines the account lookups login depends on.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	// GetPrimaryMembership returns the workspace, role, and workspace
	// timezone for a user's membership.
	GetPrimaryMembership(ctx context.Context, userID string) (workspaceID, role, timezone string, err error)
}

// SessionMinter creates and revokes sessions.
type SessionMinter interface {
	Create(ctx context.Context, sess session.Session) (string, error)
	Revoke(ctx context.Context, token string) error
}

// Service authenticates users and mints sessions.
type Service struct {
	store    UserStore
	sessions SessionMinter
	log      *logrus.Logger
}

// NewService creates an auth Service.
func NewService(store UserStore, sessions SessionMinter, log *logrus.Logger) *Service {
	return &Service{store: store, sessions: sessions, log: log}
}

// Login verifies credentials and issues a session token. Bad email and bad
// password both fail with models.ErrInvalidCredentials so the response does
// not reveal which part was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		// Burn a bcrypt comparison anyway to keep timing uniform.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinval"), []byte(password))

		return session.Session{}, "", models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return session.Session{}, "", models.ErrInvalidCredentials
		}

		return session.Session{}, "", fmt.Errorf("comparing password: %w", err)
	}

	workspaceID, role, timezone, err := s.store.GetPrimaryMembership(ctx, user.ID)
	if err != nil {
		return session.Session{}, "", fmt.Errorf("loading membership: %w", err)
	}

	sess := session.Session{
		UserID:      user.ID,
		WorkspaceID: workspaceID,
		Email:       user.Email,
		Role:        role,
		Timezone:    timezone,
	}

	token, err := s.sessions.Create(ctx, sess)
	if err != nil {
		return session.Session{}, "", fmt.Errorf("creating session: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":      user.ID,
		"workspace_id": workspaceID,
	}).Info("login")

	return sess, token, nil
}

// Logout revokes a session token. Revoking an unknown token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// HashPassword produces a bcrypt hash for seeding and account creation.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	return string(hash), nil
}
