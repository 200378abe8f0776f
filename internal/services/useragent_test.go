package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/axellelanca/linkbio/internal/models"
)

func TestClassifyUserAgent(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"android phone", "Mozilla/5.0 (Linux; Android 14; Pixel 8) Chrome/120 Mobile Safari/537.36", DeviceMobile},
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Safari/604.1", DeviceMobile},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) Safari/604.1", DeviceTablet},
		{"android tablet without mobile keyword", "Tablet; Android 13", DeviceMobile},
		{"desktop chrome", "Mozilla/5.0 (X11; Linux x86_64) Chrome/120 Safari/537.36", DeviceDesktop},
		{"bare safari", "safari", DeviceDesktop},
		{"curl", "curl/8.4.0", DeviceUnknown},
		{"empty", "", DeviceUnknown},
		{"case insensitive", "ANDROID", DeviceMobile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyUserAgent(tt.ua))
		})
	}
}

// Mobile keywords outrank tablet and desktop keywords even when several
// families of keywords appear in the same agent string.
func TestClassifyUserAgentPrecedence(t *testing.T) {
	assert.Equal(t, DeviceMobile, ClassifyUserAgent("Mozilla Android Safari"))
	assert.Equal(t, DeviceTablet, ClassifyUserAgent("Mozilla iPad Safari"))
}

func TestClassifyUserAgentsTally(t *testing.T) {
	agents := []string{
		"Android Mobile",
		"iPhone Safari",
		"iPad Safari",
		"Mozilla/5.0 Chrome",
		"curl/8.4.0",
		"",
	}

	got := ClassifyUserAgents(agents)
	assert.Equal(t, models.DeviceBreakdown{Mobile: 2, Tablet: 1, Desktop: 1, Unknown: 2}, got)
}
