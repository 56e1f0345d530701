//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cowork-booking/internal/handler/middleware"
	"cowork-booking/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtService := jwt.NewService("test-secret", time.Hour)
	mw := middleware.NewAuthMiddleware(jwtService)

	router := gin.New()
	router.GET("/user", mw.RequireAuth(), func(c *gin.Context) {
		id, ok := middleware.GetUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	router.GET("/admin", mw.RequireAdmin(), func(c *gin.Context) {
		id, ok := middleware.GetAdminID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"admin_id": id.String()})
	})
	return router, jwtService
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid user token passes", func(t *testing.T) {
		router, jwtService := newAuthRouter(t)
		token, err := jwtService.GenerateToken(42)
		require.NoError(t, err)

		w := get(router, "/user", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "42")
	})

	t.Run("missing header", func(t *testing.T) {
		router, _ := newAuthRouter(t)

		w := get(router, "/user", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		router, _ := newAuthRouter(t)

		w := get(router, "/user", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		router, _ := newAuthRouter(t)
		other := jwt.NewService("other-secret", time.Hour)
		token, err := other.GenerateToken(42)
		require.NoError(t, err)

		w := get(router, "/user", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		jwtService := jwt.NewService("test-secret", -time.Hour)
		mw := middleware.NewAuthMiddleware(jwt.NewService("test-secret", time.Hour))
		router := gin.New()
		router.GET("/user", mw.RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

		token, err := jwtService.GenerateToken(42)
		require.NoError(t, err)

		w := get(router, "/user", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin token is not a user token", func(t *testing.T) {
		router, jwtService := newAuthRouter(t)
		token, err := jwtService.GenerateAdminToken(uuid.New())
		require.NoError(t, err)

		w := get(router, "/user", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("valid admin token passes", func(t *testing.T) {
		router, jwtService := newAuthRouter(t)
		adminID := uuid.New()
		token, err := jwtService.GenerateAdminToken(adminID)
		require.NoError(t, err)

		w := get(router, "/admin", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), adminID.String())
	})

	t.Run("user token is rejected with 403", func(t *testing.T) {
		router, jwtService := newAuthRouter(t)
		token, err := jwtService.GenerateToken(42)
		require.NoError(t, err)

		w := get(router, "/admin", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		router, _ := newAuthRouter(t)

		w := get(router, "/admin", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
