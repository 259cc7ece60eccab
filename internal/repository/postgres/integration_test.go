//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tripwise/travel-auth/internal/model"
	repo "github.com/tripwise/travel-auth/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "travel_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/travel_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestUserRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ur := repo.NewUserRepository(conn)

	now := time.Now()
	u := model.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: []byte("$2a$10$hash"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := ur.Create(ctx, u)
	require.NoError(t, err)
	require.Equal(t, u.ID, saved.ID)
	require.Nil(t, saved.RefreshToken)

	t.Run("duplicate_username", func(t *testing.T) {
		_, err := ur.Create(ctx, model.User{ID: uuid.New(), Username: "alice", Email: "other@example.com", PasswordHash: []byte("h"), CreatedAt: now, UpdatedAt: now})
		require.ErrorIs(t, err, model.ErrDuplicateUser)
	})

	t.Run("duplicate_email", func(t *testing.T) {
		_, err := ur.Create(ctx, model.User{ID: uuid.New(), Username: "alice2", Email: "alice@example.com", PasswordHash: []byte("h"), CreatedAt: now, UpdatedAt: now})
		require.ErrorIs(t, err, model.ErrDuplicateUser)
	})

	t.Run("lookup", func(t *testing.T) {
		byName, err := ur.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, byName.ID)

		byEither, err := ur.GetByUsernameOrEmail(ctx, "nobody", "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, byEither.ID)

		_, err = ur.GetByUsername(ctx, "nobody")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("refresh_token_lifecycle", func(t *testing.T) {
		first := model.RefreshTokenRecord{Token: "tok-1", Expires: now.Add(7 * 24 * time.Hour), Created: now}
		require.NoError(t, ur.SetRefreshToken(ctx, u.ID, first))

		got, err := ur.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got.RefreshToken)
		require.Equal(t, "tok-1", got.RefreshToken.Token)
		require.False(t, got.RefreshToken.Revoked)

		second := model.RefreshTokenRecord{Token: "tok-2", Expires: now.Add(7 * 24 * time.Hour), Created: now}
		require.NoError(t, ur.RotateRefreshToken(ctx, u.ID, "tok-1", second))

		// The old token value no longer rotates.
		require.ErrorIs(t, ur.RotateRefreshToken(ctx, u.ID, "tok-1", first), model.ErrInvalidRefreshToken)

		require.NoError(t, ur.RevokeRefreshToken(ctx, u.ID))
		got, err = ur.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.True(t, got.RefreshToken.Revoked)

		// A revoked record cannot be rotated either.
		require.ErrorIs(t, ur.RotateRefreshToken(ctx, u.ID, "tok-2", first), model.ErrInvalidRefreshToken)
	})

	t.Run("set_refresh_token_unknown_user", func(t *testing.T) {
		err := ur.SetRefreshToken(ctx, uuid.New(), model.RefreshTokenRecord{Token: "t", Expires: now, Created: now})
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}
