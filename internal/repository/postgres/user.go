package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tripwise/travel-auth/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const uniqueViolation = "23505"

// UserRepository persists users with their embedded refresh-token record.
// The record lives in nullable columns of the users row, so every write of
// it is a single-row atomic update.
type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, username, email, password_hash,
			  refresh_token, refresh_expires_at, refresh_created_at, refresh_revoked,
			  created_at, updated_at`

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $2 LIMIT 1`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, username, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username or email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + userColumns

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	saved, err := r.scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.User{}, model.ErrDuplicateUser
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, record model.RefreshTokenRecord) error {
	const query = `
        UPDATE users
        SET refresh_token = $2, refresh_expires_at = $3, refresh_created_at = $4,
            refresh_revoked = $5, updated_at = NOW()
        WHERE id = $1
    `

	tag, err := r.db.Exec(ctx, query, id, record.Token, record.Expires, record.Created, record.Revoked)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) RotateRefreshToken(ctx context.Context, id uuid.UUID, previousToken string, record model.RefreshTokenRecord) error {
	const query = `
        UPDATE users
        SET refresh_token = $3, refresh_expires_at = $4, refresh_created_at = $5,
            refresh_revoked = $6, updated_at = NOW()
        WHERE id = $1 AND refresh_token = $2 AND refresh_revoked = FALSE
    `

	tag, err := r.db.Exec(ctx, query, id, previousToken,
		record.Token, record.Expires, record.Created, record.Revoked)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Someone rotated first, or the record was revoked meanwhile.
		return model.ErrInvalidRefreshToken
	}
	return nil
}

func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE users SET refresh_revoked = TRUE, updated_at = NOW()
        WHERE id = $1 AND refresh_token IS NOT NULL
    `

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	var (
		refreshToken   *string
		refreshExpires *time.Time
		refreshCreated *time.Time
		refreshRevoked *bool
	)

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&refreshToken, &refreshExpires, &refreshCreated, &refreshRevoked,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}

	if refreshToken != nil {
		user.RefreshToken = &model.RefreshTokenRecord{
			Token:   *refreshToken,
			Expires: *refreshExpires,
			Created: *refreshCreated,
			Revoked: refreshRevoked != nil && *refreshRevoked,
		}
	}

	return user, nil
}
