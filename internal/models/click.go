package models

import "time"

// Click is one recorded click on a link, stored in the database.
// Rows are append-only: they are never updated and only deleted when the
// owning link is hard-deleted.
type Click struct {
	ID     uint `gorm:"primaryKey"`
	LinkID uint `gorm:"index;not null"`
	Link   Link `gorm:"foreignKey:LinkID;constraint:OnDelete:CASCADE"`

	// Timestamp records when the click occurred; analytics windows
	// ("trailing N days") are computed against this column.
	Timestamp time.Time `gorm:"index"`

	// Optional request metadata. An empty string means the header was absent;
	// the referer ranking excludes empty values.
	IPAddress string `gorm:"size:50"`
	UserAgent string `gorm:"size:255"`
	Referer   string `gorm:"size:500"`
}

// ClickEvent is the lightweight click payload passed through the worker
// channel between the redirect handler and the click workers.
type ClickEvent struct {
	LinkID    uint
	Timestamp time.Time
	IPAddress string
	UserAgent string
	Referer   string
}
