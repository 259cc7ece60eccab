package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tripwise/travel-auth/internal/model"
)

// Claims are the registered JWT claims carried by access tokens.
// The username travels in the subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

// JWT implements model.TokenIssuer backed by symmetric HMAC-SHA256.
type JWT struct {
	secretKey string
	issuer    string
	audience  string
	accessTTL time.Duration
}

// NewJWT creates a token issuer from the signing secret, issuer and
// audience claims and the access-token lifetime.
func NewJWT(secretKey, issuer, audience string, accessTTL time.Duration) *JWT {
	return &JWT{
		secretKey: secretKey,
		issuer:    issuer,
		audience:  audience,
		accessTTL: accessTTL,
	}
}

const refreshTokenBytes = 32

// IssueAccessToken creates a signed access token for the username and
// returns it together with its absolute expiry.
func (j *JWT) IssueAccessToken(username string) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(j.accessTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, expires, nil
}

// IssueRefreshToken returns the base64 encoding of 32 bytes from a
// cryptographically secure random source.
func (j *JWT) IssueRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// ParseAccessToken fully validates a token, expiry included, and returns
// the username from its subject claim.
func (j *JWT) ParseAccessToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
	)
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", model.ErrInvalidToken
	}
	return claims.Subject, nil
}

// RecoverIdentity validates signature, issuer and audience of an access
// token without enforcing expiry. It exists solely to let the refresh flow
// learn who an expired token belonged to.
func (j *JWT) RecoverIdentity(tokenString string) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", model.ErrInvalidToken
	}

	// WithoutClaimsValidation skips issuer/audience too, so check them here.
	if claims.Issuer != j.issuer || !containsAudience(claims.Audience, j.audience) || claims.Subject == "" {
		return "", model.ErrInvalidToken
	}

	return claims.Subject, nil
}

func (j *JWT) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func containsAudience(aud jwt.ClaimStrings, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}
