package repository

import (
	"fmt"

	"github.com/axellelanca/linkbio/internal/models"
	"gorm.io/gorm"
)

// TokenRepository defines the data access methods for stored refresh tokens.
type TokenRepository interface {
	CreateToken(token *models.RefreshToken) error
	GetToken(token string) (*models.RefreshToken, error)
	DeleteToken(token string) error
	DeleteTokensByUserID(userID uint) error
}

// GormTokenRepository is the GORM implementation of TokenRepository.
type GormTokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates and returns a new GormTokenRepository instance.
func NewTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

// CreateToken stores a newly issued refresh token.
func (r *GormTokenRepository) CreateToken(token *models.RefreshToken) error {
	if err := r.db.Create(token).Error; err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// GetToken retrieves a stored refresh token by its opaque value.
func (r *GormTokenRepository) GetToken(token string) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	if err := r.db.Where("token = ?", token).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteToken removes a stored refresh token (rotation, logout, or lazy
// expiry). Deleting an already-absent token is not an error.
func (r *GormTokenRepository) DeleteToken(token string) error {
	if err := r.db.Where("token = ?", token).Delete(&models.RefreshToken{}).Error; err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// DeleteTokensByUserID removes every stored refresh token of a user.
func (r *GormTokenRepository) DeleteTokensByUserID(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
		return fmt.Errorf("failed to delete refresh tokens for user %d: %w", userID, err)
	}
	return nil
}
