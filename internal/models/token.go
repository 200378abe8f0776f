package models

import "time"

// RefreshToken is a stored opaque refresh credential. A row is created at
// registration, login and refresh, and deleted on use (rotation), on logout,
// or lazily when presented after its expiry.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"uniqueIndex;size:64;not null"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
