package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"cowork-booking/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	jwtService *jwt.Service
}

const (
	ctxUserIDKey  = "user_id"
	ctxAdminIDKey = "admin_id"
)

func NewAuthMiddleware(jwtService *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// RequireAuth accepts messenger-user tokens only.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.validate(c)
		if !ok {
			return
		}
		if claims.UserID == 0 {
			abortUnauthorized(c, "User token required")
			return
		}

		c.Set(ctxUserIDKey, claims.UserID)
		c.Next()
	}
}

// RequireAdmin accepts admin tokens only.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.validate(c)
		if !ok {
			return
		}
		if claims.AdminID == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin token required"})
			c.Abort()
			return
		}

		c.Set(ctxAdminIDKey, *claims.AdminID)
		c.Next()
	}
}

func (m *AuthMiddleware) validate(c *gin.Context) (*jwt.Claims, bool) {
	var token string
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token = strings.TrimSpace(authHeader[len("Bearer "):])
	}

	if token == "" {
		abortUnauthorized(c, "Access token required")
		return nil, false
	}

	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		slog.Warn("token validation failed", "error", err.Error())
		abortUnauthorized(c, "Invalid or expired token")
		return nil, false
	}
	return claims, true
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
	c.Abort()
}

func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ctxUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func GetAdminID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxAdminIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
