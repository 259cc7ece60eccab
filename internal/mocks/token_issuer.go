package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tripwise/travel-auth/internal/model"
)

// TokenIssuer is a testify mock of model.TokenIssuer.
type TokenIssuer struct {
	mock.Mock
}

var _ model.TokenIssuer = (*TokenIssuer)(nil)

func (m *TokenIssuer) IssueAccessToken(username string) (string, time.Time, error) {
	args := m.Called(username)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *TokenIssuer) IssueRefreshToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *TokenIssuer) RecoverIdentity(accessToken string) (string, error) {
	args := m.Called(accessToken)
	return args.String(0), args.Error(1)
}

func (m *TokenIssuer) ParseAccessToken(accessToken string) (string, error) {
	args := m.Called(accessToken)
	return args.String(0), args.Error(1)
}
