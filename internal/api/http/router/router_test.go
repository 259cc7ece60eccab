package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tripwise/travel-auth/internal/api/http/handler"
	"github.com/tripwise/travel-auth/internal/mocks"
	"github.com/tripwise/travel-auth/internal/model"
	"github.com/tripwise/travel-auth/internal/service"
	"github.com/tripwise/travel-auth/internal/testutil"
	"github.com/tripwise/travel-auth/internal/token"
)

func newTestRouter(t *testing.T, store model.UserStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := testutil.MakeNoopLogger()
	issuer := token.NewJWT("test-secret", "travel-auth", "travel-web", 15*time.Minute)
	authService := service.NewAuth(store, issuer, log)

	return New(authService, issuer, log).Register()
}

func TestRouter_Register(t *testing.T) {
	engine := newTestRouter(t, &mocks.UserStore{})

	require.NotNil(t, engine)
	assert.NotEmpty(t, engine.Routes())
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	engine := newTestRouter(t, &mocks.UserStore{})

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPost, "/api/auth/logout"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}
}

func TestRouter_LoginThenMe(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: hash,
	}

	store := &mocks.UserStore{}
	store.On("GetByUsername", mock.Anything, "alice").Return(user, nil)
	store.On("SetRefreshToken", mock.Anything, user.ID, mock.Anything).Return(nil)

	engine := newTestRouter(t, store)

	loginReq := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"Secret123"}`))
	loginReq.Header.Set("Content-Type", "application/json")
	loginRec := httptest.NewRecorder()
	engine.ServeHTTP(loginRec, loginReq)

	require.Equal(t, http.StatusOK, loginRec.Code)

	var accessCookie *http.Cookie
	for _, c := range loginRec.Result().Cookies() {
		if c.Name == handler.AccessTokenCookie {
			accessCookie = c
		}
	}
	require.NotNil(t, accessCookie)
	require.NotEmpty(t, accessCookie.Value)

	meReq := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	meReq.AddCookie(accessCookie)
	meRec := httptest.NewRecorder()
	engine.ServeHTTP(meRec, meReq)

	require.Equal(t, http.StatusOK, meRec.Code)
	assert.Contains(t, meRec.Body.String(), `"username":"alice"`)
	assert.Contains(t, meRec.Body.String(), `"email":"alice@x.com"`)
}
