package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenTTL is the fixed lifetime of a refresh token.
const RefreshTokenTTL = 7 * 24 * time.Hour

// UserStore defines persistence operations for users and their
// embedded refresh-token record.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	// SetRefreshToken unconditionally replaces the user's refresh-token record.
	SetRefreshToken(ctx context.Context, id uuid.UUID, record RefreshTokenRecord) error
	// RotateRefreshToken replaces the record only if the stored token still
	// equals previousToken. A lost race returns ErrInvalidRefreshToken.
	RotateRefreshToken(ctx context.Context, id uuid.UUID, previousToken string, record RefreshTokenRecord) error
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) error
}

// User represents a stored user with authentication material.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash []byte
	RefreshToken *RefreshTokenRecord
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshTokenRecord is the single active refresh token of a user.
type RefreshTokenRecord struct {
	Token   string
	Expires time.Time
	Created time.Time
	Revoked bool
}

// Valid reports whether the record can still be exchanged at the given time.
// The expiry check is strict: a record expiring exactly now is expired.
func (r *RefreshTokenRecord) Valid(now time.Time) bool {
	return r != nil && !r.Revoked && r.Expires.After(now)
}
