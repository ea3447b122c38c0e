// Package identity defines the port for the external identity collaborator:
// email/password sessions and account maintenance. The dashboard and the
// per-entity services depend only on CurrentUser to obtain the owning-user
// identifier; all other operations serve the auth surface.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no active session")
	ErrUserExists         = errors.New("user already exists")
	ErrUnavailable        = errors.New("identity service unavailable")
)

type User struct {
	ID    string
	Email string
	Name  string
}

type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
}

type Service interface {
	Register(ctx context.Context, email, password, name string) (User, error)
	CreateEmailSession(ctx context.Context, email, password string) (Session, error)
	CurrentUser(ctx context.Context, sessionToken string) (User, error)
	DeleteSession(ctx context.Context, sessionToken string) error
	UpdateName(ctx context.Context, sessionToken, name string) (User, error)
	UpdatePassword(ctx context.Context, sessionToken, oldPassword, newPassword string) error
	CreateRecovery(ctx context.Context, email, redirectURL string) error
}
