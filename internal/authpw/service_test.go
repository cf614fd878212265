package authpw_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/crewline/crewline/internal/authpw"
	"github.com/crewline/crewline/internal/models"
	"github.com/crewline/crewline/internal/session"
)

type mockUserStore struct {
	getUserFn    func(ctx context.Context, email string) (models.User, error)
	membershipFn func(ctx context.Context, userID string) (string, string, string, error)
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return m.getUserFn(ctx, email)
}

func (m *mockUserStore) GetPrimaryMembership(ctx context.Context, userID string) (string, string, string, error) {
	return m.membershipFn(ctx, userID)
}

type mockMinter struct {
	createFn func(ctx context.Context, sess session.Session) (string, error)
	revokeFn func(ctx context.Context, token string) error
}

func (m *mockMinter) Create(ctx context.Context, sess session.Session) (string, error) {
	return m.createFn(ctx, sess)
}

func (m *mockMinter) Revoke(ctx context.Context, token string) error {
	return m.revokeFn(ctx, token)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

const password = "correct horse battery staple"

func hashedUser(t *testing.T) models.User {
	t.Helper()

	hash, err := authpw.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}

	return models.User{ID: "u1", Email: "owner@example.com", PasswordHash: hash}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	user := hashedUser(t)
	store := &mockUserStore{
		getUserFn: func(_ context.Context, _ string) (models.User, error) { return user, nil },
		membershipFn: func(_ context.Context, userID string) (string, string, string, error) {
			if userID != "u1" {
				t.Errorf("membership looked up for %q", userID)
			}
			return "ws1", "owner", "America/Denver", nil
		},
	}
	minter := &mockMinter{
		createFn: func(_ context.Context, sess session.Session) (string, error) {
			if sess.WorkspaceID != "ws1" || sess.Role != "owner" || sess.Timezone != "America/Denver" {
				t.Errorf("unexpected session minted: %+v", sess)
			}
			return "tok123", nil
		},
	}

	svc := authpw.NewService(store, minter, testLogger())

	sess, token, err := svc.Login(context.Background(), user.Email, password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "tok123" {
		t.Errorf("unexpected token %q", token)
	}
	if sess.UserID != "u1" || sess.Email != user.Email {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	user := hashedUser(t)
	store := &mockUserStore{
		getUserFn: func(_ context.Context, _ string) (models.User, error) { return user, nil },
		membershipFn: func(_ context.Context, _ string) (string, string, string, error) {
			t.Error("membership should not be consulted on bad password")
			return "", "", "", nil
		},
	}

	svc := authpw.NewService(store, &mockMinter{}, testLogger())

	_, _, err := svc.Login(context.Background(), user.Email, "wrong")
	if !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	store := &mockUserStore{
		getUserFn: func(_ context.Context, _ string) (models.User, error) {
			return models.User{}, models.ErrInvalidCredentials
		},
	}

	svc := authpw.NewService(store, &mockMinter{}, testLogger())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", password)
	if !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()

	var revoked string
	minter := &mockMinter{
		revokeFn: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
	}

	svc := authpw.NewService(&mockUserStore{}, minter, testLogger())

	if err := svc.Logout(context.Background(), "tok123"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if revoked != "tok123" {
		t.Errorf("expected tok123 revoked, got %q", revoked)
	}
}
