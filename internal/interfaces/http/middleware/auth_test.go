package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"slotzi.backend/pkg/jwt"
)

func newAuthRouter(svc *jwt.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(svc))
	r.GET("/me", func(c *gin.Context) {
		id, ok := GetUserID(c)
		name, _ := GetUsername(c)
		c.JSON(http.StatusOK, gin.H{"ok": ok, "id": id, "username": name})
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Minute, "slotzi")
	userID := uuid.New()
	token, err := svc.GenerateToken(userID, "nimal")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	w := httptest.NewRecorder()
	newAuthRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), `"username":"nimal"`)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	svc := jwt.NewJWTService("secret", time.Minute, "slotzi")
	expired := jwt.NewJWTService("secret", -time.Minute, "slotzi")
	expiredToken, err := expired.GenerateToken(uuid.New(), "old")
	require.NoError(t, err)

	cases := []struct {
		name    string
		header  string
		message string
	}{
		{"missing header", "", "Authorization header is required"},
		{"wrong scheme", "Basic abc", "Invalid authorization format"},
		{"garbage token", BearerPrefix + "not-a-token", "Invalid token"},
		{"expired token", BearerPrefix + expiredToken, "Token has expired"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(AuthorizationHeader, tc.header)
			}
			w := httptest.NewRecorder()
			newAuthRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tc.message)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)
	_, ok = GetUsername(c)
	assert.False(t, ok)
}
