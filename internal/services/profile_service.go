package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	apperrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
)

// CreateProfileInput is the payload for creating the caller's profile.
type CreateProfileInput struct {
	Username    string `json:"username" binding:"required,min=3,max=50,alphanum"`
	DisplayName string `json:"display_name" binding:"omitempty,max=100"`
	Bio         string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL   string `json:"avatar_url" binding:"omitempty,url"`
	Theme       string `json:"theme" binding:"omitempty,max=50"`
}

// UpdateProfileInput is the partial-update payload for a profile. Nil fields
// are left untouched.
type UpdateProfileInput struct {
	Username        *string `json:"username" binding:"omitempty,min=3,max=50,alphanum"`
	DisplayName     *string `json:"display_name" binding:"omitempty,max=100"`
	Bio             *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL       *string `json:"avatar_url" binding:"omitempty,url"`
	Theme           *string `json:"theme" binding:"omitempty,max=50"`
	CustomCSS       *string `json:"custom_css"`
	MetaTitle       *string `json:"meta_title" binding:"omitempty,max=100"`
	MetaDescription *string `json:"meta_description" binding:"omitempty,max=200"`
	OGImageURL      *string `json:"og_image_url" binding:"omitempty,url"`
	CustomDomain    *string `json:"custom_domain" binding:"omitempty,max=255"`
}

// ProfileService provides business logic for managing and serving profiles.
type ProfileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService creates and returns a new ProfileService instance.
func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// Create creates the caller's profile. A user owns at most one profile and
// usernames are globally unique; both rules are backed by unique constraints
// so concurrent creations cannot slip past the pre-checks.
func (s *ProfileService) Create(userID uint, in CreateProfileInput) (*models.Profile, error) {
	if _, err := s.profileRepo.GetProfileByUserID(userID); err == nil {
		return nil, apperrors.ErrProfileExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking existing profile: %w", err)
	}

	if _, err := s.profileRepo.GetProfileByUsername(in.Username); err == nil {
		return nil, apperrors.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking username uniqueness: %w", err)
	}

	theme := in.Theme
	if theme == "" {
		theme = "default"
	}
	profile := &models.Profile{
		UserID:      userID,
		Username:    in.Username,
		DisplayName: in.DisplayName,
		Bio:         in.Bio,
		AvatarURL:   in.AvatarURL,
		Theme:       theme,
		IsActive:    true,
	}
	if err := s.profileRepo.CreateProfile(profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

// List returns every active profile with its active links.
func (s *ProfileService) List() ([]models.Profile, error) {
	return s.profileRepo.ListActiveProfiles()
}

// GetByID returns a profile by primary key without touching the view counter.
func (s *ProfileService) GetByID(id uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// GetByUsername serves the public page fetch. The view counter is incremented
// as a side effect of the read; there is no server-side deduplication, so the
// count is a best-effort popularity signal, not an exact unique-visitor
// metric.
func (s *ProfileService) GetByUsername(username string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}

	if err := s.profileRepo.IncrementViewCount(profile.ID); err != nil {
		// A failed counter bump should not break the public page.
		log.Printf("WARNING: failed to increment view count for profile %d: %v", profile.ID, err)
	} else {
		profile.ViewCount++
	}
	return profile, nil
}

// GetMine returns the caller's own profile with all links, including
// soft-deleted ones, for the dashboard.
func (s *ProfileService) GetMine(userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// Update applies a partial update to a profile owned by userID. A username
// change is re-checked for conflicts, with the unique constraint as the
// race-safe backstop.
func (s *ProfileService) Update(id, userID uint, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.ownedProfile(id, userID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil && *in.Username != profile.Username {
		if _, err := s.profileRepo.GetProfileByUsername(*in.Username); err == nil {
			return nil, apperrors.ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("checking username uniqueness: %w", err)
		}
		profile.Username = *in.Username
	}
	if in.DisplayName != nil {
		profile.DisplayName = *in.DisplayName
	}
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		profile.AvatarURL = *in.AvatarURL
	}
	if in.Theme != nil {
		profile.Theme = *in.Theme
	}
	if in.CustomCSS != nil {
		profile.CustomCSS = *in.CustomCSS
	}
	if in.MetaTitle != nil {
		profile.MetaTitle = *in.MetaTitle
	}
	if in.MetaDescription != nil {
		profile.MetaDescription = *in.MetaDescription
	}
	if in.OGImageURL != nil {
		profile.OGImageURL = *in.OGImageURL
	}
	if in.CustomDomain != nil {
		profile.CustomDomain = *in.CustomDomain
	}

	if err := s.profileRepo.SaveProfile(profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// Deactivate soft-deletes a profile owned by userID.
func (s *ProfileService) Deactivate(id, userID uint) error {
	if _, err := s.ownedProfile(id, userID); err != nil {
		return err
	}
	return s.profileRepo.DeactivateProfile(id)
}

// ownedProfile loads a profile and verifies ownership.
func (s *ProfileService) ownedProfile(id, userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	if profile.UserID != userID {
		return nil, apperrors.ErrNotOwner
	}
	return profile, nil
}
