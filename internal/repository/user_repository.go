package repository

import (
	"fmt"
	"time"

	"github.com/axellelanca/linkbio/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the data access methods for users.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateLastLogin(id uint, at time.Time) error
	UpdatePlan(id uint, plan string, features models.FeatureFlags) error
}

// GormUserRepository is the GORM implementation of UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates and returns a new GormUserRepository instance.
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// CreateUser inserts a new user. A duplicate email surfaces as
// gorm.ErrDuplicatedKey through the driver's constraint translation.
func (r *GormUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByEmail retrieves a user by email, with the profile preloaded.
func (r *GormUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Profile").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID retrieves a user by primary key, with the profile preloaded.
func (r *GormUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Profile").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin records the time of the user's latest successful login.
func (r *GormUserRepository) UpdateLastLogin(id uint, at time.Time) error {
	if err := r.db.Model(&models.User{}).Where("id = ?", id).
		Update("last_login_at", at).Error; err != nil {
		return fmt.Errorf("failed to update last login for user %d: %w", id, err)
	}
	return nil
}

// UpdatePlan sets the subscription tier and the matching feature flag set.
func (r *GormUserRepository) UpdatePlan(id uint, plan string, features models.FeatureFlags) error {
	// Select forces the update even when every flag is false (a downgrade),
	// and keeps the JSON serializer applied to the features column.
	if err := r.db.Model(&models.User{}).Where("id = ?", id).
		Select("plan", "features").
		Updates(models.User{Plan: plan, Features: features}).Error; err != nil {
		return fmt.Errorf("failed to update plan for user %d: %w", id, err)
	}
	return nil
}
