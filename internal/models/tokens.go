package models

import (
	"time"

	"gorm.io/gorm"
)

// Token represents a refresh token issued to a user after login.
type Token struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:char(12);index;not null" json:"user_id"`
	Token     string    `gorm:"size:250;not null;index" json:"token"`
	TokenType string    `gorm:"size:50;default:'refresh'" json:"token_type"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
