package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tripwise/travel-auth/internal/model"
)

// UserStore is a testify mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

var _ model.UserStore = (*UserStore)(nil)

func (m *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error) {
	args := m.Called(ctx, username, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) SetRefreshToken(ctx context.Context, id uuid.UUID, record model.RefreshTokenRecord) error {
	args := m.Called(ctx, id, record)
	return args.Error(0)
}

func (m *UserStore) RotateRefreshToken(ctx context.Context, id uuid.UUID, previousToken string, record model.RefreshTokenRecord) error {
	args := m.Called(ctx, id, previousToken, record)
	return args.Error(0)
}

func (m *UserStore) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
