package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"clinical-records-server/internal/config"
	"clinical-records-server/internal/middleware"
	"clinical-records-server/internal/services"
	"clinical-records-server/internal/utils"
)

const tokenResource = "token"

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Accounts *services.AccountService
	Logger   *zap.Logger
	Metrics  *middleware.Metrics
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, logger *zap.Logger, metrics *middleware.Metrics) *AuthHandler {
	return &AuthHandler{
		Accounts: services.NewAccountService(db, cfg),
		Logger:   logger,
		Metrics:  metrics,
	}
}

// LoginRequest represents the request body for obtaining a token pair.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries a refresh token for rotation or logout.
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// Login handles POST /token/.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	pair, err := h.Accounts.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.Logger, h.Metrics, tokenResource, err)
		return
	}
	h.Logger.Info("token issued", zap.String("username", req.Username), zap.String("request_id", middleware.GetRequestID(c)))
	utils.Success(c, pair)
}

// RefreshToken handles POST /token/refresh/.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	pair, err := h.Accounts.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		respondError(c, h.Logger, h.Metrics, tokenResource, err)
		return
	}
	utils.Success(c, pair)
}

// Logout handles POST /token/logout/. Unknown tokens are accepted.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshTokenRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Accounts.Logout(c.Request.Context(), req.Refresh); err != nil {
		respondError(c, h.Logger, h.Metrics, tokenResource, err)
		return
	}
	utils.NoContent(c)
}
