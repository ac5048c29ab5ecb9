package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinical-records-server/internal/config"
	"clinical-records-server/internal/utils"
)

const (
	userIDKey   = "userID"
	usernameKey = "username"
)

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reject := func(reason string) {
			logger.Warn("request rejected",
				zap.String("reason", reason),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", GetRequestID(c)),
			)
			utils.Unauthorized(c, reason)
			c.Abort()
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject("authentication credentials were not provided")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			reject("invalid authorization header format")
			return
		}

		claims, err := utils.ValidateToken(parts[1], cfg.JWTSecret)
		if err != nil {
			reject("given token not valid for any token type")
			return
		}

		// Set user information in context for downstream handlers
		c.Set(userIDKey, claims.UserID)
		c.Set(usernameKey, claims.Username)

		c.Next()
	}
}

// GetUserIDFromContext returns the authenticated user's id.
func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUsernameFromContext returns the authenticated user's name.
func GetUsernameFromContext(c *gin.Context) (string, bool) {
	username, exists := c.Get(usernameKey)
	if !exists {
		return "", false
	}
	name, ok := username.(string)
	return name, ok
}
