package repository

import (
	"fmt"

	"github.com/axellelanca/linkbio/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository defines the data access methods for profiles.
type ProfileRepository interface {
	CreateProfile(profile *models.Profile) error
	GetProfileByID(id uint) (*models.Profile, error)
	GetProfileByUsername(username string) (*models.Profile, error)
	GetProfileByUserID(userID uint) (*models.Profile, error)
	ListActiveProfiles() ([]models.Profile, error)
	SaveProfile(profile *models.Profile) error
	DeactivateProfile(id uint) error
	IncrementViewCount(id uint) error
}

// GormProfileRepository is the GORM implementation of ProfileRepository.
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates and returns a new GormProfileRepository instance.
func NewProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// activeLinksOrdered preloads only active links in display order.
func activeLinksOrdered(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("position ASC")
}

// CreateProfile inserts a new profile. A taken username or an existing
// profile for the same user surfaces as gorm.ErrDuplicatedKey; the unique
// constraints make the check race-safe.
func (r *GormProfileRepository) CreateProfile(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// GetProfileByID retrieves a profile with its active links in display order.
func (r *GormProfileRepository) GetProfileByID(id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Preload("Links", activeLinksOrdered).First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByUsername retrieves a profile by its public username with its
// active links in display order.
func (r *GormProfileRepository) GetProfileByUsername(username string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Preload("Links", activeLinksOrdered).
		Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByUserID retrieves the owner's profile with all links (including
// soft-deleted ones) in display order, for the dashboard.
func (r *GormProfileRepository) GetProfileByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Preload("Links", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListActiveProfiles retrieves every active profile with its active links.
func (r *GormProfileRepository) ListActiveProfiles() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.Preload("Links", activeLinksOrdered).
		Where("is_active = ?", true).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list active profiles: %w", err)
	}
	return profiles, nil
}

// SaveProfile persists every field of an already-loaded profile.
func (r *GormProfileRepository) SaveProfile(profile *models.Profile) error {
	return r.db.Omit("Links").Save(profile).Error
}

// DeactivateProfile soft-deletes a profile by clearing its active flag.
func (r *GormProfileRepository) DeactivateProfile(id uint) error {
	if err := r.db.Model(&models.Profile{}).Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate profile %d: %w", id, err)
	}
	return nil
}

// IncrementViewCount bumps the profile view counter with a single atomic
// UPDATE, safe under concurrent visitors.
func (r *GormProfileRepository) IncrementViewCount(id uint) error {
	if err := r.db.Model(&models.Profile{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error; err != nil {
		return fmt.Errorf("failed to increment view count for profile %d: %w", id, err)
	}
	return nil
}
