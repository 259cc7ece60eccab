package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tripwise/travel-auth/internal/logger"
	"github.com/tripwise/travel-auth/internal/model"
)

// Auth orchestrates registration, login, token refresh and lookups. It owns
// the invariants around refresh-token rotation and revocation.
type Auth struct {
	userStore model.UserStore
	issuer    model.TokenIssuer
	logger    *logger.Logger
}

func NewAuth(userStore model.UserStore, issuer model.TokenIssuer, logger *logger.Logger) *Auth {
	return &Auth{
		userStore: userStore,
		issuer:    issuer,
		logger:    logger,
	}
}

// Register creates a new user with a bcrypt-hashed password and no refresh
// token. A username or email collision returns model.ErrDuplicateUser.
func (a *Auth) Register(ctx context.Context, username, password, email string) (model.User, error) {
	a.logger.Debug("Auth service: starting user registration",
		"username", username)

	existing, err := a.userStore.GetByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to check existing user",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to check existing user: %w", err)
	}
	if err == nil && existing.Username != "" {
		a.logger.Info("Auth service: username or email already taken",
			"username", username)
		return model.User{}, model.ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, err := a.userStore.Create(ctx, model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateUser) {
			return model.User{}, model.ErrDuplicateUser
		}
		a.logger.Error("Auth service: failed to create user",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"username", username)

	return user, nil
}

// Login verifies credentials and issues a fresh token pair. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, username, password string) (model.AuthResult, error) {
	a.logger.Debug("Auth service: starting login",
		"username", username)

	user, err := a.userStore.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login failed",
			"username", username)
		return model.AuthResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		a.logger.Info("Auth service: login failed",
			"username", username)
		return model.AuthResult{}, model.ErrInvalidCredentials
	}

	result, record, err := a.issueTokens(username)
	if err != nil {
		return model.AuthResult{}, err
	}

	// Unconditional replace: concurrent logins race and the last one wins.
	if err := a.userStore.SetRefreshToken(ctx, user.ID, record); err != nil {
		a.logger.Error("Auth service: failed to persist refresh token",
			"username", username,
			"error", err.Error())
		return model.AuthResult{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"username", username)

	return result, nil
}

// Refresh exchanges an expired access token plus a refresh token for a new
// pair. The stored record is rotated with a compare-and-swap on its token
// value, so the same pair can never be exchanged twice.
func (a *Auth) Refresh(ctx context.Context, accessToken, refreshToken string) (model.AuthResult, error) {
	username, err := a.issuer.RecoverIdentity(accessToken)
	if err != nil {
		a.logger.Info("Auth service: refresh rejected, bad access token")
		return model.AuthResult{}, model.ErrInvalidToken
	}

	user, err := a.userStore.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		// Same externally visible kind as a bad access token.
		a.logger.Info("Auth service: refresh rejected, unknown user",
			"username", username)
		return model.AuthResult{}, model.ErrInvalidToken
	}
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if !user.RefreshToken.Valid(time.Now()) || user.RefreshToken.Token != refreshToken {
		a.logger.Info("Auth service: refresh rejected, invalid refresh token",
			"username", username)
		return model.AuthResult{}, model.ErrInvalidRefreshToken
	}

	result, record, err := a.issueTokens(username)
	if err != nil {
		return model.AuthResult{}, err
	}

	err = a.userStore.RotateRefreshToken(ctx, user.ID, refreshToken, record)
	if errors.Is(err, model.ErrInvalidRefreshToken) {
		// A concurrent rotation won; this token is already spent.
		a.logger.Info("Auth service: refresh lost rotation race",
			"username", username)
		return model.AuthResult{}, model.ErrInvalidRefreshToken
	}
	if err != nil {
		a.logger.Error("Auth service: failed to rotate refresh token",
			"username", username,
			"error", err.Error())
		return model.AuthResult{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	a.logger.Info("Auth service: token refreshed",
		"username", username)

	return result, nil
}

// Logout revokes the user's current refresh token, if any.
func (a *Auth) Logout(ctx context.Context, username string) error {
	user, err := a.userStore.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := a.userStore.RevokeRefreshToken(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	a.logger.Info("Auth service: user logged out",
		"username", username)

	return nil
}

// GetUserByUsername is a pure lookup used to surface profile data.
func (a *Auth) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	user, err := a.userStore.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (a *Auth) issueTokens(username string) (model.AuthResult, model.RefreshTokenRecord, error) {
	access, expiry, err := a.issuer.IssueAccessToken(username)
	if err != nil {
		return model.AuthResult{}, model.RefreshTokenRecord{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, err := a.issuer.IssueRefreshToken()
	if err != nil {
		return model.AuthResult{}, model.RefreshTokenRecord{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	now := time.Now()
	record := model.RefreshTokenRecord{
		Token:   refresh,
		Expires: now.Add(model.RefreshTokenTTL),
		Created: now,
		Revoked: false,
	}

	return model.AuthResult{
		AccessToken:  access,
		AccessExpiry: expiry,
		RefreshToken: refresh,
	}, record, nil
}
