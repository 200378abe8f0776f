package services

import (
	"strings"

	"github.com/axellelanca/linkbio/internal/models"
)

// Device classes produced by the user-agent heuristic.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"
)

// ClassifyUserAgent maps a raw user-agent string to a device class by
// case-insensitive substring matching. Keyword precedence matters: mobile
// keywords win over tablet keywords, which win over desktop keywords, so
// e.g. an Android agent that also mentions Safari classifies as mobile.
// This is a lossy heuristic, not a parser, and it is kept exactly as is for
// compatibility with historically reported numbers.
func ClassifyUserAgent(ua string) string {
	agent := strings.ToLower(ua)
	switch {
	case strings.Contains(agent, "mobile"),
		strings.Contains(agent, "android"),
		strings.Contains(agent, "iphone"):
		return DeviceMobile
	case strings.Contains(agent, "tablet"),
		strings.Contains(agent, "ipad"):
		return DeviceTablet
	case strings.Contains(agent, "mozilla"),
		strings.Contains(agent, "chrome"),
		strings.Contains(agent, "safari"):
		return DeviceDesktop
	default:
		return DeviceUnknown
	}
}

// ClassifyUserAgents tallies a batch of user-agent strings into a device
// breakdown.
func ClassifyUserAgents(agents []string) models.DeviceBreakdown {
	var devices models.DeviceBreakdown
	for _, ua := range agents {
		switch ClassifyUserAgent(ua) {
		case DeviceMobile:
			devices.Mobile++
		case DeviceTablet:
			devices.Tablet++
		case DeviceDesktop:
			devices.Desktop++
		default:
			devices.Unknown++
		}
	}
	return devices
}
