package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/taskboard_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
)

const secret = "middleware-test-secret"

func signedToken(t *testing.T, issuer, subject string, expiresIn time.Duration) string {
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/whoami", func(c *gin.Context) {
		userID, _ := middleware.GetUserIDFromContext(c)
		c.String(http.StatusOK, userID)
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(middleware.AuthMiddleware(secret, "taskboard"))

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{"valid token", signedToken(t, "taskboard", "user-1", time.Hour), http.StatusOK, "user-1"},
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"wrong issuer", signedToken(t, "someone-else", "user-1", time.Hour), http.StatusUnauthorized, "Invalid token"},
		{"expired", signedToken(t, "taskboard", "user-1", -time.Minute), http.StatusUnauthorized, "Token has expired"},
		{"no subject", signedToken(t, "taskboard", "", time.Hour), http.StatusUnauthorized, "Invalid token claims"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.token)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestRateLimit_PerUser(t *testing.T) {
	rate := limiter.Rate{Period: time.Minute, Limit: 2}
	l := limiter.New(memorystore.NewStore(), rate)
	r := newRouter(middleware.AuthMiddleware(secret, ""), middleware.RateLimit(l))

	alice := signedToken(t, "", "alice", time.Hour)
	bob := signedToken(t, "", "bob", time.Hour)

	assert.Equal(t, http.StatusOK, get(r, alice).Code)
	w := get(r, alice)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, alice).Code)

	assert.Equal(t, http.StatusOK, get(r, bob).Code, "limits are kept per user")
}
