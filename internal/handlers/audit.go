package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"clinical-records-server/internal/middleware"
)

// audit logs who did what to which record. Deletes are logged at warn.
func audit(c *gin.Context, logger *zap.Logger, action, resource string, targetID uint) {
	userID, _ := middleware.GetUserIDFromContext(c)
	username, _ := middleware.GetUsernameFromContext(c)

	level := zapcore.InfoLevel
	if action == "delete" {
		level = zapcore.WarnLevel
	}
	fields := []zap.Field{
		zap.Uint("user_id", userID),
		zap.String("username", username),
		zap.String("action", action),
		zap.String("resource", resource),
		zap.String("request_id", middleware.GetRequestID(c)),
	}
	if targetID != 0 {
		fields = append(fields, zap.Uint("target_id", targetID))
	}
	if ce := logger.Check(level, "audit"); ce != nil {
		ce.Write(fields...)
	}
}
