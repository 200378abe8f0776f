package repository

import (
	"fmt"
	"time"

	"github.com/axellelanca/linkbio/internal/models"
	"gorm.io/gorm"
)

// ClickRepository defines the data access methods for the append-only click
// event log, including the aggregates consumed by the analytics service.
type ClickRepository interface {
	CreateClick(click *models.Click) error
	CountClicksByLinkID(linkID uint) (int64, error)
	CountClicksByUserSince(userID uint, since time.Time) (int64, error)
	ClicksByDayForUser(userID uint, since time.Time) ([]models.DayClicks, error)
	ClicksByDayForLink(linkID uint, since time.Time) ([]models.DayClicks, error)
	TopReferrersForUser(userID uint, since time.Time, limit int) ([]models.ReferrerClicks, error)
	TopReferrersForLink(linkID uint, since time.Time, limit int) ([]models.ReferrerClicks, error)
	RecentUserAgents(linkID uint, since time.Time, limit int) ([]string, error)
}

// GormClickRepository is the GORM implementation of ClickRepository.
type GormClickRepository struct {
	db *gorm.DB
}

// NewClickRepository creates and returns a new GormClickRepository instance.
func NewClickRepository(db *gorm.DB) *GormClickRepository {
	return &GormClickRepository{db: db}
}

// userClicks scopes the clicks table to links owned by the given user.
func (r *GormClickRepository) userClicks(userID uint) *gorm.DB {
	return r.db.Model(&models.Click{}).
		Joins("JOIN links ON links.id = clicks.link_id").
		Joins("JOIN profiles ON profiles.id = links.profile_id").
		Where("profiles.user_id = ?", userID)
}

// CreateClick inserts a new click record into the database.
func (r *GormClickRepository) CreateClick(click *models.Click) error {
	if err := r.db.Create(click).Error; err != nil {
		return fmt.Errorf("failed to create click: %w", err)
	}
	return nil
}

// CountClicksByLinkID counts the total number of recorded clicks for a link.
func (r *GormClickRepository) CountClicksByLinkID(linkID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Click{}).Where("link_id = ?", linkID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count clicks for link %d: %w", linkID, err)
	}
	return count, nil
}

// CountClicksByUserSince counts the user's click events recorded at or after
// the given instant.
func (r *GormClickRepository) CountClicksByUserSince(userID uint, since time.Time) (int64, error) {
	var count int64
	if err := r.userClicks(userID).Where("clicks.timestamp >= ?", since).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recent clicks for user %d: %w", userID, err)
	}
	return count, nil
}

// ClicksByDayForUser returns the user's per-calendar-date click counts since
// the given instant, most recent date first.
func (r *GormClickRepository) ClicksByDayForUser(userID uint, since time.Time) ([]models.DayClicks, error) {
	rows := make([]models.DayClicks, 0)
	if err := r.userClicks(userID).
		Where("clicks.timestamp >= ?", since).
		Select("DATE(clicks.timestamp) AS date, COUNT(*) AS count").
		Group("DATE(clicks.timestamp)").
		Order("date DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to group clicks by day for user %d: %w", userID, err)
	}
	return rows, nil
}

// ClicksByDayForLink returns one link's per-calendar-date click counts since
// the given instant, most recent date first.
func (r *GormClickRepository) ClicksByDayForLink(linkID uint, since time.Time) ([]models.DayClicks, error) {
	rows := make([]models.DayClicks, 0)
	if err := r.db.Model(&models.Click{}).
		Where("link_id = ? AND timestamp >= ?", linkID, since).
		Select("DATE(timestamp) AS date, COUNT(*) AS count").
		Group("DATE(timestamp)").
		Order("date DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to group clicks by day for link %d: %w", linkID, err)
	}
	return rows, nil
}

// TopReferrersForUser ranks the distinct non-empty referer values over the
// user's clicks since the given instant. Clicks without a referer are
// excluded here, not bucketed as "Direct"; that label belongs to the
// presentation layer.
func (r *GormClickRepository) TopReferrersForUser(userID uint, since time.Time, limit int) ([]models.ReferrerClicks, error) {
	rows := make([]models.ReferrerClicks, 0, limit)
	if err := r.userClicks(userID).
		Where("clicks.timestamp >= ? AND clicks.referer <> ''", since).
		Select("clicks.referer AS referer, COUNT(*) AS count").
		Group("clicks.referer").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to rank referrers for user %d: %w", userID, err)
	}
	return rows, nil
}

// TopReferrersForLink ranks the distinct non-empty referer values over one
// link's clicks since the given instant.
func (r *GormClickRepository) TopReferrersForLink(linkID uint, since time.Time, limit int) ([]models.ReferrerClicks, error) {
	rows := make([]models.ReferrerClicks, 0, limit)
	if err := r.db.Model(&models.Click{}).
		Where("link_id = ? AND timestamp >= ? AND referer <> ''", linkID, since).
		Select("referer, COUNT(*) AS count").
		Group("referer").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to rank referrers for link %d: %w", linkID, err)
	}
	return rows, nil
}

// RecentUserAgents returns up to limit stored user-agent strings for a link
// since the given instant, for the device classification heuristic.
func (r *GormClickRepository) RecentUserAgents(linkID uint, since time.Time, limit int) ([]string, error) {
	agents := make([]string, 0, limit)
	if err := r.db.Model(&models.Click{}).
		Where("link_id = ? AND timestamp >= ?", linkID, since).
		Limit(limit).
		Pluck("user_agent", &agents).Error; err != nil {
		return nil, fmt.Errorf("failed to load user agents for link %d: %w", linkID, err)
	}
	return agents, nil
}
