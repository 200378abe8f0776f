package models

import "time"

// Plan values for the subscription tier stored on the user record.
const (
	PlanFree = "FREE"
	PlanPro  = "PRO"
)

// FeatureFlags is the fixed-shape feature set denormalized onto the user.
// It is stored as a single JSON column rather than a key-value table because
// the shape never varies per user.
type FeatureFlags struct {
	CustomDomains     bool `json:"customDomains"`
	AdvancedAnalytics bool `json:"advancedAnalytics"`
	CustomOGImage     bool `json:"customOGImage"`
	RemoveBranding    bool `json:"removeBranding"`
	ExtraThemes       bool `json:"extraThemes"`
}

// User represents an account holder. A user owns at most one Profile.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never exposed in JSON
	Name     string `gorm:"size:255" json:"name,omitempty"`

	// Plan is the subscription tier (FREE or PRO). Feature gating reads the
	// stored snapshot on every request; a tier change takes effect on the
	// next request.
	Plan     string       `gorm:"size:10;not null;default:FREE" json:"plan"`
	Features FeatureFlags `gorm:"serializer:json" json:"features"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}
