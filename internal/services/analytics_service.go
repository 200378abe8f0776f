package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
)

const (
	topLinksLimit     = 10
	topReferrersLimit = 10
	// userAgentSample bounds the device classification to the most recent
	// stored user agents, matching the dashboard's heuristic scope.
	userAgentSample = 100
)

// Overview is the analytics summary available to every tier.
type Overview struct {
	TotalLinks  int64             `json:"totalLinks"`
	TotalClicks int64             `json:"totalClicks"`
	TopLinks    []models.LinkStat `json:"topLinks"`
}

// AdvancedOverview extends Overview with the PRO-only metrics.
type AdvancedOverview struct {
	Overview
	ProfileViews    int                     `json:"profileViews"`
	ClicksLast7Days int64                   `json:"clicksLast7Days"`
	ClicksByDay     []models.DayClicks      `json:"clicksByDay"`
	TopReferrers    []models.ReferrerClicks `json:"topReferrers"`
}

// LinkAnalytics is the per-link summary available to every tier. A FREE-tier
// response consists of exactly these four fields and nothing else.
type LinkAnalytics struct {
	LinkID      uint   `json:"linkId"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	TotalClicks int    `json:"totalClicks"`
}

// AdvancedLinkAnalytics extends LinkAnalytics with the PRO-only metrics.
type AdvancedLinkAnalytics struct {
	LinkAnalytics
	ClicksByDay  []models.DayClicks      `json:"clicksByDay"`
	TopReferrers []models.ReferrerClicks `json:"topReferrers"`
	Devices      models.DeviceBreakdown  `json:"devices"`
}

// AnalyticsService computes summary statistics over links and click events.
// All "trailing N days" windows are relative to wall-clock time at request
// time, so results shift as the clock moves.
type AnalyticsService struct {
	linkRepo    repository.LinkRepository
	clickRepo   repository.ClickRepository
	profileRepo repository.ProfileRepository
}

// NewAnalyticsService creates and returns a new AnalyticsService instance.
func NewAnalyticsService(
	linkRepo repository.LinkRepository,
	clickRepo repository.ClickRepository,
	profileRepo repository.ProfileRepository,
) *AnalyticsService {
	return &AnalyticsService{
		linkRepo:    linkRepo,
		clickRepo:   clickRepo,
		profileRepo: profileRepo,
	}
}

// advancedEnabled applies the tier gate: PRO plan plus the advancedAnalytics
// flag from the user's stored snapshot. There is no policy engine; a plan
// change is picked up when the middleware reloads the user on the next
// request.
func advancedEnabled(user *models.User) bool {
	return user.Plan == models.PlanPro && user.Features.AdvancedAnalytics
}

// GetOverview returns the account-wide analytics summary.
//
// totalLinks counts every link, active or not. totalClicks sums the
// denormalized counters without an is_active filter, so soft-deleted links
// keep contributing; the top-links ranking, by contrast, only considers
// active links. These filters intentionally differ.
func (s *AnalyticsService) GetOverview(user *models.User) (any, error) {
	totalLinks, err := s.linkRepo.CountLinksByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	totalClicks, err := s.linkRepo.SumClicksByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	topLinks, err := s.linkRepo.TopLinksByUserID(user.ID, topLinksLimit)
	if err != nil {
		return nil, err
	}

	overview := Overview{
		TotalLinks:  totalLinks,
		TotalClicks: totalClicks,
		TopLinks:    topLinks,
	}

	if !advancedEnabled(user) {
		return &overview, nil
	}

	now := time.Now()
	sevenDaysAgo := now.AddDate(0, 0, -7)
	thirtyDaysAgo := now.AddDate(0, 0, -30)

	profileViews := 0
	if user.Profile != nil {
		profileViews = user.Profile.ViewCount
	}

	clicksLast7Days, err := s.clickRepo.CountClicksByUserSince(user.ID, sevenDaysAgo)
	if err != nil {
		return nil, err
	}
	clicksByDay, err := s.clickRepo.ClicksByDayForUser(user.ID, thirtyDaysAgo)
	if err != nil {
		return nil, err
	}
	topReferrers, err := s.clickRepo.TopReferrersForUser(user.ID, thirtyDaysAgo, topReferrersLimit)
	if err != nil {
		return nil, err
	}

	return &AdvancedOverview{
		Overview:        overview,
		ProfileViews:    profileViews,
		ClicksLast7Days: clicksLast7Days,
		ClicksByDay:     clicksByDay,
		TopReferrers:    topReferrers,
	}, nil
}

// GetLinkAnalytics returns analytics for a single link. The caller must own
// the link's profile. FREE tier (or a PRO user without the flag) gets only
// the basic summary.
func (s *AnalyticsService) GetLinkAnalytics(linkID uint, user *models.User) (any, error) {
	link, err := s.linkRepo.GetLinkByID(linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLinkNotFound
		}
		return nil, err
	}
	if link.Profile == nil || link.Profile.UserID != user.ID {
		return nil, apperrors.ErrNotOwner
	}

	basic := LinkAnalytics{
		LinkID:      link.ID,
		Title:       link.Title,
		URL:         link.URL,
		TotalClicks: link.ClickCount,
	}

	if !advancedEnabled(user) {
		return &basic, nil
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)

	clicksByDay, err := s.clickRepo.ClicksByDayForLink(link.ID, thirtyDaysAgo)
	if err != nil {
		return nil, err
	}
	topReferrers, err := s.clickRepo.TopReferrersForLink(link.ID, thirtyDaysAgo, topReferrersLimit)
	if err != nil {
		return nil, err
	}
	agents, err := s.clickRepo.RecentUserAgents(link.ID, thirtyDaysAgo, userAgentSample)
	if err != nil {
		return nil, err
	}

	return &AdvancedLinkAnalytics{
		LinkAnalytics: basic,
		ClicksByDay:   clicksByDay,
		TopReferrers:  topReferrers,
		Devices:       ClassifyUserAgents(agents),
	}, nil
}
