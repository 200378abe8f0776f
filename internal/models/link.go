package models

import "time"

// Link is one outbound link on a profile page.
//
// ClickCount is denormalized: it is incremented with an atomic single-row
// update on every tracked click, while the matching ClickEvent row is
// appended by a worker. The two writes are not transactional, so the counter
// and the event log are only eventually consistent.
type Link struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ProfileID   uint   `gorm:"index;not null" json:"profile_id"`
	Title       string `gorm:"size:100;not null" json:"title"`
	URL         string `gorm:"size:2000;not null" json:"url"`
	Description string `gorm:"size:255" json:"description,omitempty"`
	Icon        string `gorm:"size:100" json:"icon,omitempty"`

	// Position defines display order within the profile. The reorder
	// operation rewrites all positions to 0..N-1; uniqueness within a profile
	// holds as a result of that full rewrite, not by constraint.
	Position   int  `gorm:"not null;default:0" json:"position"`
	IsActive   bool `gorm:"not null;default:true" json:"is_active"`
	ClickCount int  `gorm:"not null;default:0" json:"click_count"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:ProfileID" json:"-"`
}
