package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/internal/models"
)

// newTestDB opens a fresh in-memory SQLite database for one test, migrated
// with the full schema. cache=shared keeps the database alive across the
// connections of GORM's pool; the name is derived from the test so parallel
// tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Link{},
		&models.Click{},
		&models.RefreshToken{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, plan string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    email,
		Password: "not-a-real-hash",
		Plan:     plan,
	}
	if plan == models.PlanPro {
		user.Features = models.FeatureFlags{AdvancedAnalytics: true}
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProfile(t *testing.T, db *gorm.DB, userID uint, username string) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		UserID:      userID,
		Username:    username,
		DisplayName: username,
		Theme:       "default",
		IsActive:    true,
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func seedLink(t *testing.T, db *gorm.DB, profileID uint, title string, position int, active bool) *models.Link {
	t.Helper()
	link := &models.Link{
		ProfileID: profileID,
		Title:     title,
		URL:       "https://example.com/" + title,
		Position:  position,
		IsActive:  active,
	}
	require.NoError(t, db.Create(link).Error)
	return link
}
