package models

import "time"

// Captcha stores one issued captcha challenge. The rendered PNG is cached in
// Redis under the session key; the row is the source of truth for state.
//
// A challenge moves used=false -> used=true at most once, and only through a
// conditional update keyed on used=false. Expiry is derived from ExpiresAt,
// never stored. Rows are hard-deleted by the purge sweep so session keys can
// keep a plain unique index.
type Captcha struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionKey string    `gorm:"size:64;uniqueIndex" json:"session_key"` // Opaque client-held reference
	Code       string    `gorm:"size:16;not null" json:"-"`              // Secret answer, never serialized
	Used       bool      `gorm:"default:false" json:"used"`
	ExpiresAt  time.Time `gorm:"index" json:"expires_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Expired reports whether the challenge is past its TTL at the given instant.
func (c *Captcha) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
