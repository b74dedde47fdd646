package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image represents an uploaded photo. The bitmap itself lives in S3 under
// ObjectKey; width/height/size are extracted from the file at upload time.
type Image struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ObjectKey   string    `gorm:"size:512;not null" json:"-"`
	ContentType string    `gorm:"size:255" json:"content_type"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Size        int64     `json:"size"`
	OwnerID     string    `gorm:"type:char(12);index" json:"owner_id"`

	Groups []Group `gorm:"many2many:image_groups;" json:"groups,omitempty"`
	Owner  *User   `gorm:"foreignKey:OwnerID;references:ID" json:"owner,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"uploaded_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
