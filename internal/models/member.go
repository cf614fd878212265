package models

import "time"

// Member is a user's membership in a workspace, with their role.
type Member struct {
	UserID      string    `json:"user_id"`
	WorkspaceID string    `json:"-"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// User is an account row. PasswordHash never leaves the store layer.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks LoginRequest fields.
func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return ErrMissingField("email")
	}

	if r.Password == "" {
		return ErrMissingField("password")
	}

	return nil
}
