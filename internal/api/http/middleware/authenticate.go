package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tripwise/travel-auth/internal/logger"
)

// TokenParser validates access tokens and resolves the username.
type TokenParser interface {
	ParseAccessToken(accessToken string) (username string, err error)
}

// Authenticate validates bearer or cookie access tokens and injects the
// username into the request context. Both transports resolve through the
// same validation path.
type Authenticate struct {
	parser TokenParser
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(parser TokenParser, logger *logger.Logger) *Authenticate {
	return &Authenticate{parser: parser, logger: logger}
}

// Handle extracts the access token from the Authorization header or the
// access-token cookie and aborts with 401 when validation fails.
func (m *Authenticate) Handle(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if cookie, err := c.Cookie(cookieName); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		username, err := m.parser.ParseAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("username", username)
		c.Next()
	}
}
