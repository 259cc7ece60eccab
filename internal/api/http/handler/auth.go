package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tripwise/travel-auth/internal/logger"
	"github.com/tripwise/travel-auth/internal/model"
)

// Cookie names shared with the frontend.
const (
	AccessTokenCookie  = "TravelAccessToken"
	RefreshTokenCookie = "TravelRefreshToken"
)

// AuthService defines registration, login, refresh and profile operations.
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (model.User, error)
	Login(ctx context.Context, username, password string) (model.AuthResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (model.AuthResult, error)
	Logout(ctx context.Context, username string) error
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=100"`
	Email    string `json:"email" binding:"required,email"`
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type userResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register creates a new user account.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"username", req.Username,
			"error", err.Error())
		h.handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: user registered",
		"username", user.Username)

	c.JSON(http.StatusCreated, userResponse{Username: user.Username, Email: user.Email})
}

// Login verifies credentials, sets auth cookies and returns the token pair.
func (h *Auth) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: user logged in",
		"username", req.Username)

	h.setAuthCookies(c, result)
	c.JSON(http.StatusOK, result)
}

// Refresh exchanges an expired access token and a refresh token for a new
// pair. Tokens come from cookies, with a JSON body as fallback transport.
func (h *Auth) Refresh(c *gin.Context) {
	var req refreshRequest
	// Body is optional; ignore bind errors when cookies carry the tokens.
	_ = c.ShouldBindJSON(&req)

	accessToken := req.AccessToken
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && accessToken == "" {
		accessToken = cookie
	}
	refreshToken := req.RefreshToken
	if cookie, err := c.Cookie(RefreshTokenCookie); err == nil && refreshToken == "" {
		refreshToken = cookie
	}

	result, err := h.authService.Refresh(c.Request.Context(), accessToken, refreshToken)
	if err != nil {
		h.logger.Info("Auth handler: refresh rejected",
			"error", err.Error())
		h.handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: token refreshed")

	h.setAuthCookies(c, result)
	c.JSON(http.StatusOK, result)
}

// Me returns the profile of the authenticated user.
func (h *Auth) Me(c *gin.Context) {
	username := c.GetString("username")

	user, err := h.authService.GetUserByUsername(c.Request.Context(), username)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse{Username: user.Username, Email: user.Email})
}

// Logout revokes the current refresh token and clears auth cookies.
func (h *Auth) Logout(c *gin.Context) {
	username := c.GetString("username")

	if err := h.authService.Logout(c.Request.Context(), username); err != nil {
		h.handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: user logged out",
		"username", username)

	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Auth) setAuthCookies(c *gin.Context, result model.AuthResult) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenCookie, result.AccessToken,
		int(time.Until(result.AccessExpiry).Seconds()), "/", "", true, true)
	c.SetCookie(RefreshTokenCookie, result.RefreshToken,
		int(model.RefreshTokenTTL.Seconds()), "/", "", true, true)
}

func (h *Auth) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", true, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", true, true)
}
