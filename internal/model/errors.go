package model

import "errors"

var (
	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already exists")

	// ErrInvalidCredentials covers both unknown username and wrong password.
	// Callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken means the presented access token failed signature,
	// issuer, audience or algorithm checks, or names an unknown user.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidRefreshToken means the stored refresh-token record is
	// missing, revoked, expired, or does not match the presented token.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
