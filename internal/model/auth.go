package model

import "time"

// TokenIssuer generates and validates access tokens and mints opaque
// refresh tokens. It holds no persistent state.
type TokenIssuer interface {
	IssueAccessToken(username string) (token string, expires time.Time, err error)
	IssueRefreshToken() (string, error)
	// RecoverIdentity validates signature, issuer and audience of an access
	// token while ignoring its expiry. Used only by the refresh flow.
	RecoverIdentity(accessToken string) (username string, err error)
	// ParseAccessToken fully validates a token, expiry included.
	ParseAccessToken(accessToken string) (username string, err error)
}

// AuthResult carries the credentials returned by login and refresh.
type AuthResult struct {
	AccessToken  string    `json:"access_token"`
	AccessExpiry time.Time `json:"access_token_expires"`
	RefreshToken string    `json:"refresh_token"`
}
