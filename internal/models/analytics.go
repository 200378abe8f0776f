package models

// Analytics read models. These mirror the shapes returned by the aggregate
// queries; the API serializes them with the camelCase keys the dashboard
// consumes.

// LinkStat is one entry of the top-links ranking.
type LinkStat struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	ClickCount int    `json:"clickCount"`
}

// DayClicks is the click count for one calendar date.
type DayClicks struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// ReferrerClicks is the click count for one referer value.
type ReferrerClicks struct {
	Referer string `json:"referer"`
	Count   int    `json:"count"`
}

// DeviceBreakdown is the heuristic device classification of recent clicks.
type DeviceBreakdown struct {
	Mobile  int `json:"mobile"`
	Desktop int `json:"desktop"`
	Tablet  int `json:"tablet"`
	Unknown int `json:"unknown"`
}
