package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinical-records-server/internal/apperr"
	"clinical-records-server/internal/middleware"
	"clinical-records-server/internal/utils"
)

const internalErrorMessage = "internal server error"

// respondError writes err to the client and the log. Internal causes never leave the log.
func respondError(c *gin.Context, logger *zap.Logger, metrics *middleware.Metrics, resource string, err error) {
	appErr := apperr.From(err)
	fields := []zap.Field{
		zap.String("resource", resource),
		zap.String("kind", string(appErr.Kind)),
		zap.String("request_id", middleware.GetRequestID(c)),
	}

	switch appErr.Kind {
	case apperr.KindValidation, apperr.KindConflict:
		logger.Warn("request rejected", append(fields, zap.String("error", appErr.Error()))...)
	case apperr.KindNotFound:
		logger.Info("record not found", append(fields, zap.String("path", c.Request.URL.Path))...)
	case apperr.KindUnauthorized:
		logger.Warn("authentication failed", append(fields, zap.String("reason", appErr.Message))...)
	default:
		logger.Error("request failed", append(fields, zap.Error(err))...)
	}
	if appErr.Kind != apperr.KindNotFound {
		metrics.RecordRejection(resource, string(appErr.Kind))
	}

	switch {
	case appErr.Kind == apperr.KindInternal:
		utils.InternalServerError(c, internalErrorMessage)
	case len(appErr.Fields) > 0:
		c.JSON(appErr.Status(), appErr.Fields)
	default:
		utils.Error(c, appErr.Status(), appErr.Message)
	}
}

// parseID reads the :id path parameter. Anything but a positive integer is a 404,
// the same as an unknown id.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.NotFound(c, "not found")
		return 0, false
	}
	return uint(id), true
}
