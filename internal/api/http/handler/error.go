package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tripwise/travel-auth/internal/model"
)

// handleError maps domain errors to HTTP status codes. Anything not in the
// taxonomy crosses the boundary as an opaque server error.
func (h *Auth) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrDuplicateUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrDuplicateUser.Error()})
	case errors.Is(err, model.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": model.ErrInvalidCredentials.Error()})
	case errors.Is(err, model.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": model.ErrInvalidToken.Error()})
	case errors.Is(err, model.ErrInvalidRefreshToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": model.ErrInvalidRefreshToken.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		h.logger.Error("Auth handler: internal error",
			"error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
