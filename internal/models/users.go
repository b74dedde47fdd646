package models

import (
	"time"

	"gorm.io/gorm"
)

// User account status values.
const (
	AccountStatusActive    = "active"
	AccountStatusSuspended = "suspended"
	AccountStatusLocked    = "locked"
)

// User represents a gallery user account.
type User struct {
	ID            string     `gorm:"type:char(12);primaryKey" json:"id"`
	Username      string     `gorm:"size:100;not null;uniqueIndex" json:"username"` // Login name
	Name          string     `gorm:"size:100;not null;default:''" json:"name"`      // Display name
	Email         string     `gorm:"size:250;not null;uniqueIndex" json:"email"`
	Password      string     `gorm:"size:250;not null" json:"-"` // Hashed password
	Hash          string     `gorm:"size:250;not null" json:"-"` // Salt value
	AccountStatus string     `gorm:"size:50;default:'active'" json:"account_status"`
	IsStaff       bool       `gorm:"default:false" json:"is_staff"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP   string     `gorm:"size:50" json:"last_login_ip,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Images      []Image      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	HomeLayouts []HomeLayout `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"home_layouts,omitempty"`
	Tokens      []Token      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"tokens,omitempty"`
}

// Enabled reports whether the account may log in.
func (u *User) Enabled() bool {
	return u.AccountStatus == AccountStatusActive
}
