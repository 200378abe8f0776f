package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/internal/auth"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
	"github.com/axellelanca/linkbio/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer wires a full router against a fresh in-memory database, the
// same way the run-server command does.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
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

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	clickRepo := repository.NewClickRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	maker := auth.NewTokenMaker("test-secret", 15*time.Minute)
	authService := services.NewAuthService(userRepo, profileRepo, tokenRepo, maker, 7*24*time.Hour)
	profileService := services.NewProfileService(profileRepo)
	linkService := services.NewLinkService(linkRepo, profileRepo)
	analyticsService := services.NewAnalyticsService(linkRepo, clickRepo, profileRepo)

	// Fresh channel per test so click events never leak between tests.
	ClickEventsChannel = make(chan models.ClickEvent, 16)

	router := gin.New()
	SetupRoutes(router, authService, profileService, linkService, analyticsService, CookieConfig{}, 16)
	return router, db
}

func doJSON(router *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// registerUser creates an account over HTTP and returns the session cookies.
func registerUser(t *testing.T, router *gin.Engine, email, username string) []*http.Cookie {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    email,
		"password": "supersecret",
		"username": username,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return w.Result().Cookies()
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestServer(t)
	w := doJSON(router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterSetsAuthCookies(t *testing.T) {
	router, _ := newTestServer(t)
	cookies := registerUser(t, router, "alice@example.com", "alice")

	access := cookieByName(cookies, "access_token")
	refresh := cookieByName(cookies, "refresh_token")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.NotEmpty(t, access.Value)
	assert.NotEmpty(t, refresh.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)
}

// The password hash must never leave the server, even on the registration
// response.
func TestRegisterResponseOmitsPassword(t *testing.T) {
	router, _ := newTestServer(t)
	w := doJSON(router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "supersecret")
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	router, _ := newTestServer(t)
	registerUser(t, router, "alice@example.com", "alice")

	w := doJSON(router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	router, _ := newTestServer(t)
	registerUser(t, router, "alice@example.com", "alice")

	w := doJSON(router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrongpass",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	router, _ := newTestServer(t)
	cookies := registerUser(t, router, "alice@example.com", "alice")

	w := doJSON(router, http.MethodGet, "/api/v1/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/auth/me", nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)

	// Non-browser clients can present the access token as a Bearer header.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+cookieByName(cookies, "access_token").Value)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshRotation(t *testing.T) {
	router, _ := newTestServer(t)
	cookies := registerUser(t, router, "alice@example.com", "alice")
	oldRefresh := cookieByName(cookies, "refresh_token")

	w := doJSON(router, http.MethodPost, "/api/v1/auth/refresh", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	newRefresh := cookieByName(w.Result().Cookies(), "refresh_token")
	require.NotNil(t, newRefresh)
	assert.NotEqual(t, oldRefresh.Value, newRefresh.Value)

	// The consumed refresh token is dead.
	w = doJSON(router, http.MethodPost, "/api/v1/auth/refresh", nil, []*http.Cookie{oldRefresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	router, _ := newTestServer(t)
	cookies := registerUser(t, router, "alice@example.com", "alice")
	refresh := cookieByName(cookies, "refresh_token")

	w := doJSON(router, http.MethodPost, "/api/v1/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/auth/refresh", nil, []*http.Cookie{refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClickRedirect(t *testing.T) {
	router, db := newTestServer(t)
	cookies := registerUser(t, router, "alice@example.com", "alice")

	w := doJSON(router, http.MethodPost, "/api/v1/links", gin.H{
		"title": "GitHub",
		"url":   "https://github.com/alice",
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var link models.Link
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &link))

	// The click endpoint is public: no cookies.
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/links/%d/click", link.ID), nil)
	req.Header.Set("User-Agent", "iPhone")
	req.Header.Set("Referer", "https://twitter.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://github.com/alice", rec.Header().Get("Location"))

	// The counter was bumped synchronously.
	var stored models.Link
	require.NoError(t, db.First(&stored, link.ID).Error)
	assert.Equal(t, 1, stored.ClickCount)

	// The event was queued for the workers with the request metadata.
	select {
	case event := <-ClickEventsChannel:
		assert.Equal(t, link.ID, event.LinkID)
		assert.Equal(t, "iPhone", event.UserAgent)
		assert.Equal(t, "https://twitter.com", event.Referer)
	default:
		t.Fatal("expected a click event on the channel")
	}
}

func TestClickOnInactiveLink(t *testing.T) {
	router, db := newTestServer(t)
	cookies := registerUser(t, router, "alice@example.com", "alice")

	w := doJSON(router, http.MethodPost, "/api/v1/links", gin.H{
		"title": "GitHub",
		"url":   "https://github.com/alice",
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)
	var link models.Link
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &link))

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/v1/links/%d", link.ID), nil, cookies)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/links/%d/click", link.ID), nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var stored models.Link
	require.NoError(t, db.First(&stored, link.ID).Error)
	assert.Zero(t, stored.ClickCount)
}

func TestReorderEndpoint(t *testing.T) {
	router, _ := newTestServer(t)
	cookies := registerUser(t, router, "alice@example.com", "alice")

	var ids []uint
	for _, title := range []string{"a", "b", "c"} {
		w := doJSON(router, http.MethodPost, "/api/v1/links", gin.H{
			"title": title,
			"url":   "https://example.com/" + title,
		}, cookies)
		require.Equal(t, http.StatusCreated, w.Code)
		var link models.Link
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &link))
		ids = append(ids, link.ID)
	}

	w := doJSON(router, http.MethodPost, "/api/v1/links/reorder", gin.H{
		"link_ids": []uint{ids[2], ids[0], ids[1]},
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var links []models.Link
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &links))
	require.Len(t, links, 3)
	assert.Equal(t, []uint{ids[2], ids[0], ids[1]}, []uint{links[0].ID, links[1].ID, links[2].ID})

	// A foreign id fails the whole batch with 403.
	w = doJSON(router, http.MethodPost, "/api/v1/links/reorder", gin.H{
		"link_ids": []uint{ids[0], ids[1], 9999},
	}, cookies)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFreeLinkAnalyticsShape(t *testing.T) {
	router, _ := newTestServer(t)
	cookies := registerUser(t, router, "alice@example.com", "alice")

	w := doJSON(router, http.MethodPost, "/api/v1/links", gin.H{
		"title": "GitHub",
		"url":   "https://github.com/alice",
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)
	var link models.Link
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &link))

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/analytics/link/%d", link.ID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	// A FREE response is exactly linkId, title, url, totalClicks.
	var fields map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	assert.Len(t, fields, 4)
	assert.Contains(t, fields, "linkId")
	assert.Contains(t, fields, "totalClicks")
}

// A plan change takes effect on the next request because the middleware
// reloads the user per request.
func TestUpgradeTakesEffectNextRequest(t *testing.T) {
	router, db := newTestServer(t)
	cookies := registerUser(t, router, "alice@example.com", "alice")

	w := doJSON(router, http.MethodGet, "/api/v1/analytics/overview", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	assert.NotContains(t, fields, "clicksByDay")

	userRepo := repository.NewUserRepository(db)
	var user models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&user).Error)
	require.NoError(t, userRepo.UpdatePlan(user.ID, models.PlanPro, models.FeatureFlags{AdvancedAnalytics: true}))

	w = doJSON(router, http.MethodGet, "/api/v1/analytics/overview", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	fields = map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	assert.Contains(t, fields, "clicksByDay")
	assert.Contains(t, fields, "profileViews")
}

func TestPublicProfileFetchCountsView(t *testing.T) {
	router, db := newTestServer(t)
	registerUser(t, router, "alice@example.com", "alice")

	w := doJSON(router, http.MethodGet, "/api/v1/profiles/username/alice", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile models.Profile
	require.NoError(t, db.Where("username = ?", "alice").First(&profile).Error)
	assert.Equal(t, 1, profile.ViewCount)

	w = doJSON(router, http.MethodGet, "/api/v1/profiles/username/nobody", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidationErrors(t *testing.T) {
	router, _ := newTestServer(t)
	cookies := registerUser(t, router, "alice@example.com", "alice")

	// Malformed email.
	w := doJSON(router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    "not-an-email",
		"password": "supersecret",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Short password.
	w = doJSON(router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    "bob@example.com",
		"password": "short",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Link URL must be a URL.
	w = doJSON(router, http.MethodPost, "/api/v1/links", gin.H{
		"title": "bad",
		"url":   "not a url",
	}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Non-numeric id parameter.
	w = doJSON(router, http.MethodGet, "/api/v1/links/abc", nil, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
