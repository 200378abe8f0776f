package models

import "time"

// Profile is the public link-in-bio page of a user.
// The username is unique across active and inactive profiles; uniqueness is
// enforced by the database constraint so concurrent creations cannot race
// past an application-level check.
type Profile struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Username    string `gorm:"uniqueIndex;size:50;not null" json:"username"`
	DisplayName string `gorm:"size:100" json:"display_name,omitempty"`
	Bio         string `gorm:"size:500" json:"bio,omitempty"`
	AvatarURL   string `gorm:"size:500" json:"avatar_url,omitempty"`
	Theme       string `gorm:"size:50;default:default" json:"theme"`

	// PRO-only customization fields.
	CustomCSS       string `json:"custom_css,omitempty"`
	MetaTitle       string `gorm:"size:100" json:"meta_title,omitempty"`
	MetaDescription string `gorm:"size:200" json:"meta_description,omitempty"`
	OGImageURL      string `gorm:"size:500" json:"og_image_url,omitempty"`
	CustomDomain    string `gorm:"size:255" json:"custom_domain,omitempty"`

	// ViewCount is incremented as a side effect of every public fetch by
	// username. There is no server-side deduplication.
	ViewCount int  `gorm:"not null;default:0" json:"view_count"`
	IsActive  bool `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Links []Link `gorm:"foreignKey:ProfileID" json:"links,omitempty"`
}
