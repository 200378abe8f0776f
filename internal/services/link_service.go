package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
)

// CreateLinkInput is the payload for adding a link to the caller's profile.
type CreateLinkInput struct {
	Title       string `json:"title" binding:"required,max=100"`
	URL         string `json:"url" binding:"required,url"`
	Description string `json:"description" binding:"omitempty,max=255"`
	Icon        string `json:"icon" binding:"omitempty,max=100"`
	Position    *int   `json:"position" binding:"omitempty,gte=0"`
}

// UpdateLinkInput is the partial-update payload for a link. Nil fields are
// left untouched.
type UpdateLinkInput struct {
	Title       *string `json:"title" binding:"omitempty,max=100"`
	URL         *string `json:"url" binding:"omitempty,url"`
	Description *string `json:"description" binding:"omitempty,max=255"`
	Icon        *string `json:"icon" binding:"omitempty,max=100"`
	Position    *int    `json:"position" binding:"omitempty,gte=0"`
	IsActive    *bool   `json:"is_active"`
}

// ReorderInput is the full ordered list of link ids for the reorder
// operation.
type ReorderInput struct {
	LinkIDs []uint `json:"link_ids" binding:"required,min=1"`
}

// LinkService provides business logic for managing links and for the public
// click-tracking path.
type LinkService struct {
	linkRepo    repository.LinkRepository
	profileRepo repository.ProfileRepository
}

// NewLinkService creates and returns a new LinkService instance.
func NewLinkService(linkRepo repository.LinkRepository, profileRepo repository.ProfileRepository) *LinkService {
	return &LinkService{linkRepo: linkRepo, profileRepo: profileRepo}
}

// Create adds a link to the caller's profile. When no explicit position is
// given the link is appended after the current maximum.
func (s *LinkService) Create(userID uint, in CreateLinkInput) (*models.Link, error) {
	profile, err := s.callerProfile(userID)
	if err != nil {
		return nil, err
	}

	position := 0
	if in.Position != nil {
		position = *in.Position
	} else {
		position, err = s.linkRepo.NextPosition(profile.ID)
		if err != nil {
			return nil, err
		}
	}

	link := &models.Link{
		ProfileID:   profile.ID,
		Title:       in.Title,
		URL:         in.URL,
		Description: in.Description,
		Icon:        in.Icon,
		Position:    position,
		IsActive:    true,
	}
	if err := s.linkRepo.CreateLink(link); err != nil {
		return nil, err
	}
	return link, nil
}

// ListMine returns every link of the caller's profile in display order,
// including soft-deleted ones, for the dashboard.
func (s *LinkService) ListMine(userID uint) ([]models.Link, error) {
	profile, err := s.callerProfile(userID)
	if err != nil {
		return nil, err
	}
	return s.linkRepo.GetLinksByProfileID(profile.ID, true)
}

// Get returns one link after verifying ownership.
func (s *LinkService) Get(id, userID uint) (*models.Link, error) {
	return s.ownedLink(id, userID)
}

// Update applies a partial update to an owned link.
func (s *LinkService) Update(id, userID uint, in UpdateLinkInput) (*models.Link, error) {
	link, err := s.ownedLink(id, userID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		link.Title = *in.Title
	}
	if in.URL != nil {
		link.URL = *in.URL
	}
	if in.Description != nil {
		link.Description = *in.Description
	}
	if in.Icon != nil {
		link.Icon = *in.Icon
	}
	if in.Position != nil {
		link.Position = *in.Position
	}
	if in.IsActive != nil {
		link.IsActive = *in.IsActive
	}

	if err := s.linkRepo.SaveLink(link); err != nil {
		return nil, fmt.Errorf("failed to update link: %w", err)
	}
	return link, nil
}

// Deactivate soft-deletes an owned link. The link disappears from the public
// page but its click history and counter survive.
func (s *LinkService) Deactivate(id, userID uint) error {
	if _, err := s.ownedLink(id, userID); err != nil {
		return err
	}
	return s.linkRepo.DeactivateLink(id)
}

// HardDelete permanently removes an owned link together with its click
// events.
func (s *LinkService) HardDelete(id, userID uint) error {
	if _, err := s.ownedLink(id, userID); err != nil {
		return err
	}
	return s.linkRepo.DeleteLink(id)
}

// Reorder rewrites the display order of the caller's links. The submitted id
// set must exactly match the set of links owned by the caller's profile:
// a partial list, a foreign id or a duplicate fails with a forbidden error
// and leaves every position unchanged. The rewrite itself runs in a single
// transaction, so a partial application is never observable.
func (s *LinkService) Reorder(userID uint, in ReorderInput) ([]models.Link, error) {
	profile, err := s.callerProfile(userID)
	if err != nil {
		return nil, err
	}

	owned, err := s.linkRepo.GetLinksByProfileID(profile.ID, true)
	if err != nil {
		return nil, err
	}

	if len(in.LinkIDs) != len(owned) {
		return nil, apperrors.ErrForeignLinkIDs
	}
	ownedSet := make(map[uint]bool, len(owned))
	for _, l := range owned {
		ownedSet[l.ID] = true
	}
	seen := make(map[uint]bool, len(in.LinkIDs))
	for _, id := range in.LinkIDs {
		if !ownedSet[id] || seen[id] {
			return nil, apperrors.ErrForeignLinkIDs
		}
		seen[id] = true
	}

	if err := s.linkRepo.ReorderLinks(in.LinkIDs); err != nil {
		return nil, err
	}
	return s.linkRepo.GetLinksByProfileID(profile.ID, true)
}

// TrackClick resolves an active link for the public redirect path and bumps
// its click counter with a single atomic UPDATE. The matching click event is
// appended separately by the click workers; the two writes are deliberately
// not transactional and can diverge under a crash in between (accepted
// eventual consistency, never reconciled).
func (s *LinkService) TrackClick(id uint) (*models.Link, error) {
	link, err := s.linkRepo.GetActiveLinkByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLinkNotFound
		}
		return nil, err
	}

	if err := s.linkRepo.IncrementClickCount(link.ID); err != nil {
		return nil, err
	}
	link.ClickCount++
	return link, nil
}

// callerProfile loads the caller's profile, required by every link mutation.
func (s *LinkService) callerProfile(userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// ownedLink loads a link and verifies it belongs to userID's profile.
func (s *LinkService) ownedLink(id, userID uint) (*models.Link, error) {
	link, err := s.linkRepo.GetLinkByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLinkNotFound
		}
		return nil, err
	}
	if link.Profile == nil || link.Profile.UserID != userID {
		return nil, apperrors.ErrNotOwner
	}
	return link, nil
}
