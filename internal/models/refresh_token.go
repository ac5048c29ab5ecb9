package models

import (
	"time"
)

// RefreshToken represents an issued JWT refresh token.
type RefreshToken struct {
	BaseModel
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `gorm:"default:false" json:"is_revoked"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
