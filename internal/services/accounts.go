package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"clinical-records-server/internal/apperr"
	"clinical-records-server/internal/config"
	"clinical-records-server/internal/models"
	"clinical-records-server/internal/utils"
	"clinical-records-server/internal/validation"
)

const msgInvalidCredentials = "no active account found with the given credentials"

// TokenPair is returned by login and refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccountService issues and revokes API tokens.
type AccountService struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *gorm.DB, cfg *config.Config) *AccountService {
	return &AccountService{DB: db, Cfg: cfg}
}

// CreateUser stores a new account with a hashed password.
func (s *AccountService) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	errs := validation.Errors{}
	name, err := validation.Text(username, 3, 150)
	if err != nil {
		errs.Add("username", err.Error())
	}
	if _, err := validation.Text(password, 8, 128); err != nil {
		errs.Add("password", err.Error())
	}
	if !errs.Empty() {
		return nil, apperr.Validation(errs)
	}

	user := models.User{Username: name, IsActive: true}
	if err := user.SetPassword(password); err != nil {
		return nil, apperr.Internal("hash password", err)
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation(validation.Errors{"username": {"a user with that username already exists"}})
		}
		return nil, apperr.Internal("create user", err)
	}
	return &user, nil
}

// Login checks the credentials and issues a new token pair.
func (s *AccountService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, apperr.Internal("load user", err)
	}
	if !user.IsActive || !user.CheckPassword(password) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	var pair *TokenPair
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pair, err = s.issue(tx, &user)
		return err
	})
	return pair, err
}

// Refresh exchanges a valid refresh token for a new pair. The old refresh token is revoked.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := utils.ValidateToken(refreshToken, s.Cfg.JWTRefreshSecret)
	if err != nil {
		return nil, apperr.Unauthorized("token is invalid or expired")
	}

	var pair *TokenPair
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored models.RefreshToken
		err := tx.Where("token = ? AND user_id = ? AND is_revoked = ? AND expires_at > ?",
			refreshToken, claims.UserID, false, time.Now().UTC()).First(&stored).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Unauthorized("token is invalid or expired")
		}
		if err != nil {
			return apperr.Internal("load refresh token", err)
		}

		var user models.User
		if err := tx.First(&user, stored.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Unauthorized("token is invalid or expired")
			}
			return apperr.Internal("load user", err)
		}
		if !user.IsActive {
			return apperr.Unauthorized(msgInvalidCredentials)
		}

		// Rotation: a refresh token is good for one exchange.
		if err := tx.Model(&stored).Update("is_revoked", true).Error; err != nil {
			return apperr.Internal("revoke refresh token", err)
		}
		pair, err = s.issue(tx, &user)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes a refresh token. Unknown or already revoked tokens are not an error.
func (s *AccountService) Logout(ctx context.Context, refreshToken string) error {
	err := s.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ? AND is_revoked = ?", refreshToken, false).
		Updates(map[string]interface{}{"is_revoked": true, "expires_at": time.Now().UTC()}).Error
	if err != nil {
		return apperr.Internal("revoke refresh token", err)
	}
	return nil
}

func (s *AccountService) issue(tx *gorm.DB, user *models.User) (*TokenPair, error) {
	access, refresh, err := utils.GenerateTokens(user, s.Cfg)
	if err != nil {
		return nil, apperr.Internal("generate tokens", err)
	}
	stored := models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().UTC().Add(time.Duration(s.Cfg.JWTRefreshExpirationHours) * time.Hour),
	}
	if err := tx.Create(&stored).Error; err != nil {
		return nil, apperr.Internal("store refresh token", err)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}
