package repository

import (
	"fmt"

	"github.com/axellelanca/linkbio/internal/models"
	"gorm.io/gorm"
)

// LinkRepository defines the data access methods for links, including the
// link-table aggregates used by the analytics overview.
type LinkRepository interface {
	CreateLink(link *models.Link) error
	GetLinkByID(id uint) (*models.Link, error)
	GetActiveLinkByID(id uint) (*models.Link, error)
	GetLinksByProfileID(profileID uint, includeInactive bool) ([]models.Link, error)
	NextPosition(profileID uint) (int, error)
	SaveLink(link *models.Link) error
	DeactivateLink(id uint) error
	DeleteLink(id uint) error
	IncrementClickCount(id uint) error
	ReorderLinks(linkIDs []uint) error
	CountLinksByUserID(userID uint) (int64, error)
	SumClicksByUserID(userID uint) (int64, error)
	TopLinksByUserID(userID uint, limit int) ([]models.LinkStat, error)
}

// GormLinkRepository is the GORM implementation of LinkRepository.
type GormLinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates and returns a new GormLinkRepository instance.
func NewLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// CreateLink inserts a new link.
func (r *GormLinkRepository) CreateLink(link *models.Link) error {
	if err := r.db.Create(link).Error; err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}
	return nil
}

// GetLinkByID retrieves a link with its owning profile preloaded, which the
// services use for ownership checks.
func (r *GormLinkRepository) GetLinkByID(id uint) (*models.Link, error) {
	var link models.Link
	if err := r.db.Preload("Profile").First(&link, id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// GetActiveLinkByID retrieves a link only if it is active. Used by the public
// click-tracking path, where soft-deleted links must behave as missing.
func (r *GormLinkRepository) GetActiveLinkByID(id uint) (*models.Link, error) {
	var link models.Link
	if err := r.db.Where("id = ? AND is_active = ?", id, true).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// GetLinksByProfileID retrieves a profile's links in display order.
func (r *GormLinkRepository) GetLinksByProfileID(profileID uint, includeInactive bool) ([]models.Link, error) {
	var links []models.Link
	q := r.db.Where("profile_id = ?", profileID).Order("position ASC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to list links for profile %d: %w", profileID, err)
	}
	return links, nil
}

// NextPosition returns the display position for a newly created link:
// one past the current maximum, or 0 for the first link.
func (r *GormLinkRepository) NextPosition(profileID uint) (int, error) {
	var max *int
	if err := r.db.Model(&models.Link{}).Where("profile_id = ?", profileID).
		Select("MAX(position)").Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("failed to compute next position for profile %d: %w", profileID, err)
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// SaveLink persists every field of an already-loaded link.
func (r *GormLinkRepository) SaveLink(link *models.Link) error {
	return r.db.Omit("Profile").Save(link).Error
}

// DeactivateLink soft-deletes a link by clearing its active flag.
func (r *GormLinkRepository) DeactivateLink(id uint) error {
	if err := r.db.Model(&models.Link{}).Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate link %d: %w", id, err)
	}
	return nil
}

// DeleteLink hard-deletes a link and its click events in one transaction.
func (r *GormLinkRepository) DeleteLink(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id = ?", id).Delete(&models.Click{}).Error; err != nil {
			return fmt.Errorf("failed to delete clicks for link %d: %w", id, err)
		}
		if err := tx.Delete(&models.Link{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete link %d: %w", id, err)
		}
		return nil
	})
}

// IncrementClickCount bumps the denormalized click counter with a single
// atomic UPDATE, safe under concurrent clickers. It is intentionally not
// combined with the click event insert (see the workers package).
func (r *GormLinkRepository) IncrementClickCount(id uint) error {
	if err := r.db.Model(&models.Link{}).Where("id = ?", id).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1)).Error; err != nil {
		return fmt.Errorf("failed to increment click count for link %d: %w", id, err)
	}
	return nil
}

// ReorderLinks rewrites every link's position to its index in linkIDs inside
// a single transaction, so a partial application is never observable.
// Membership of the ids in the caller's profile is verified by the service
// before this is called.
func (r *GormLinkRepository) ReorderLinks(linkIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for index, id := range linkIDs {
			if err := tx.Model(&models.Link{}).Where("id = ?", id).
				UpdateColumn("position", index).Error; err != nil {
				return fmt.Errorf("failed to set position %d on link %d: %w", index, id, err)
			}
		}
		return nil
	})
}

// CountLinksByUserID counts every link of a user's profile, active or not.
func (r *GormLinkRepository) CountLinksByUserID(userID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Link{}).
		Joins("JOIN profiles ON profiles.id = links.profile_id").
		Where("profiles.user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count links for user %d: %w", userID, err)
	}
	return count, nil
}

// SumClicksByUserID sums the denormalized click counters over every link of
// the user, deliberately without an is_active filter (soft-deleted links keep
// contributing to the total, matching the overview query shape).
func (r *GormLinkRepository) SumClicksByUserID(userID uint) (int64, error) {
	var sum *int64
	if err := r.db.Model(&models.Link{}).
		Joins("JOIN profiles ON profiles.id = links.profile_id").
		Where("profiles.user_id = ?", userID).
		Select("SUM(links.click_count)").Scan(&sum).Error; err != nil {
		return 0, fmt.Errorf("failed to sum clicks for user %d: %w", userID, err)
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

// TopLinksByUserID returns the user's top active links by click count.
// Ties are returned in whatever order the database yields; no secondary sort
// key is applied.
func (r *GormLinkRepository) TopLinksByUserID(userID uint, limit int) ([]models.LinkStat, error) {
	stats := make([]models.LinkStat, 0, limit)
	if err := r.db.Model(&models.Link{}).
		Joins("JOIN profiles ON profiles.id = links.profile_id").
		Where("profiles.user_id = ? AND links.is_active = ?", userID, true).
		Order("links.click_count DESC").
		Limit(limit).
		Select("links.id, links.title, links.url, links.click_count").
		Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to list top links for user %d: %w", userID, err)
	}
	return stats, nil
}
