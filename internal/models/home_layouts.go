package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HomeLayout stores a user's home-page arrangement. Config is an opaque JSON
// document owned by the frontend; at most one layout per user is active.
type HomeLayout struct {
	ID       uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   string         `gorm:"type:char(12);index;not null" json:"user_id"`
	Name     string         `gorm:"size:100;not null" json:"name"`
	Config   datatypes.JSON `gorm:"type:jsonb" json:"config"`
	IsActive bool           `gorm:"default:false;index" json:"is_active"`

	User *User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
