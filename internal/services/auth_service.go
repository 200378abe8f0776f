// Package services contains the business logic layer of the application.
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/internal/auth"
	apperrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
)

// RegisterInput is the payload for creating a new account. The username is
// optional; when present a profile is created alongside the user.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"omitempty,max=100"`
	Username string `json:"username" binding:"omitempty,min=3,max=50,alphanum"`
}

// LoginInput is the payload for authenticating with email and password.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult bundles the authenticated user with a freshly issued token pair.
type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

// AuthService implements registration, login, refresh-token rotation and
// logout. Access tokens are short-lived JWTs; refresh tokens are opaque
// random strings stored server-side and rotated on every use.
type AuthService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	tokenRepo   repository.TokenRepository
	tokens      *auth.TokenMaker
	refreshTTL  time.Duration
}

// NewAuthService creates and returns a new AuthService instance.
func NewAuthService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	tokenRepo repository.TokenRepository,
	tokens *auth.TokenMaker,
	refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		tokens:      tokens,
		refreshTTL:  refreshTTL,
	}
}

// Register creates a new FREE-tier user, optionally with a profile, and
// issues the first token pair. Duplicate email or username fails with a
// conflict; the database unique constraints make the check race-safe even
// when two registrations collide between pre-check and insert.
func (s *AuthService) Register(in RegisterInput) (*AuthResult, error) {
	if _, err := s.userRepo.GetUserByEmail(in.Email); err == nil {
		return nil, apperrors.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking email uniqueness: %w", err)
	}

	if in.Username != "" {
		if _, err := s.profileRepo.GetProfileByUsername(in.Username); err == nil {
			return nil, apperrors.ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("checking username uniqueness: %w", err)
		}
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    in.Email,
		Password: hashed,
		Name:     in.Name,
		Plan:     models.PlanFree,
		// Every feature flag starts off; the upgrade path flips them.
		Features: models.FeatureFlags{},
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if in.Username != "" {
		displayName := in.Name
		if displayName == "" {
			displayName = in.Username
		}
		profile := &models.Profile{
			UserID:      user.ID,
			Username:    in.Username,
			DisplayName: displayName,
			Theme:       "default",
			IsActive:    true,
		}
		if err := s.profileRepo.CreateProfile(profile); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.ErrUsernameTaken
			}
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		user.Profile = profile
	}

	return s.issueTokens(user)
}

// Login verifies the credentials, records the login time and issues a new
// token pair. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(in LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetUserByEmail(in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := auth.CheckPassword(user.Password, in.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	return s.issueTokens(user)
}

// Refresh exchanges a stored refresh token for a new token pair, rotating the
// refresh token. An expired token is deleted at this point (lazy expiry);
// there is no background sweep.
func (s *AuthService) Refresh(refreshToken string) (*AuthResult, error) {
	stored, err := s.tokenRepo.GetToken(refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}

	if stored.ExpiresAt.Before(time.Now()) {
		// Stale row: remove it now rather than waiting for a sweep that
		// doesn't exist.
		if err := s.tokenRepo.DeleteToken(stored.Token); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.GetUserByID(stored.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load user for refresh: %w", err)
	}

	// Rotation: the presented token is consumed regardless of what happens
	// next.
	if err := s.tokenRepo.DeleteToken(stored.Token); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Logout deletes the presented refresh token and thereby ends the session.
func (s *AuthService) Logout(refreshToken string) error {
	return s.tokenRepo.DeleteToken(refreshToken)
}

// GetUser loads a fresh user snapshot by id. The auth middleware calls this
// on every request, which is what makes tier changes take effect on the next
// request without any cache invalidation.
func (s *AuthService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ParseAccessToken verifies an access token and returns its claims.
func (s *AuthService) ParseAccessToken(token string) (*auth.Claims, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// AccessTTL exposes the access token lifetime for cookie Max-Age.
func (s *AuthService) AccessTTL() time.Duration { return s.tokens.AccessTTL() }

// RefreshTTL exposes the refresh token lifetime for cookie Max-Age.
func (s *AuthService) RefreshTTL() time.Duration { return s.refreshTTL }

// issueTokens creates the access JWT and a fresh opaque refresh token, and
// stores the latter with its expiry.
func (s *AuthService) issueTokens(user *models.User) (*AuthResult, error) {
	accessToken, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken := uuid.NewString()
	if err := s.tokenRepo.CreateToken(&models.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
