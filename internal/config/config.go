package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML/JSON keys to Go struct fields.
type Config struct {
	// Server configuration section containing HTTP server settings
	Server struct {
		Port    int    `mapstructure:"port"`     // HTTP server port (default: 8080)
		BaseURL string `mapstructure:"base_url"` // Base URL used when printing public profile URLs
	} `mapstructure:"server"`

	// Database configuration section for SQLite settings
	Database struct {
		Name string `mapstructure:"name"` // SQLite database file name
	} `mapstructure:"database"`

	// Auth configuration for token issuance and cookies
	Auth struct {
		JWTSecret       string `mapstructure:"jwt_secret"`        // HMAC secret for signing access tokens
		AccessTTLMin    int    `mapstructure:"access_ttl_min"`    // Access token lifetime in minutes
		RefreshTTLHours int    `mapstructure:"refresh_ttl_hours"` // Refresh token lifetime in hours
		CookieDomain    string `mapstructure:"cookie_domain"`     // Domain attribute for auth cookies
		CookieSecure    bool   `mapstructure:"cookie_secure"`     // Secure attribute for auth cookies
	} `mapstructure:"auth"`

	// Analytics configuration for asynchronous click tracking
	Analytics struct {
		BufferSize  int `mapstructure:"buffer_size"`  // Size of the click event channel buffer
		WorkerCount int `mapstructure:"worker_count"` // Number of worker goroutines for processing clicks
	} `mapstructure:"analytics"`

	// RateLimit configuration for the router-wide per-IP throttle
	RateLimit struct {
		RequestsPerSecond float64 `mapstructure:"requests_per_second"` // Sustained rate allowed per client IP
		Burst             int     `mapstructure:"burst"`               // Burst size allowed per client IP
	} `mapstructure:"rate_limit"`

	// Monitor configuration for link target URL health checking
	Monitor struct {
		IntervalMinutes int `mapstructure:"interval_minutes"` // Interval in minutes between URL health checks
	} `mapstructure:"monitor"`
}

// LoadConfig loads the application configuration using Viper.
// It supports environment variable overrides and YAML configuration files.
// Returns a populated Config struct or an error if configuration loading fails.
func LoadConfig() (*Config, error) {
	// Enable automatic environment variable binding
	// This allows config values to be overridden via environment variables
	viper.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	// e.g., "auth.jwt_secret" becomes "AUTH_JWT_SECRET"
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Specify the directory path where Viper should look for config files
	viper.AddConfigPath("./configs")

	// Specify the name of the config file (without the extension)
	viper.SetConfigName("config")

	// Specify the type/format of the config file (YAML in this case)
	viper.SetConfigType("yaml")

	// Set default values for all configuration options
	// These will be used if no config file is found or if specific keys are missing
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("database.name", "linkbio.db")
	viper.SetDefault("auth.jwt_secret", "dev-secret-change-me")
	viper.SetDefault("auth.access_ttl_min", 15)
	viper.SetDefault("auth.refresh_ttl_hours", 168) // 7 days
	viper.SetDefault("auth.cookie_domain", "")
	viper.SetDefault("auth.cookie_secure", false)
	viper.SetDefault("analytics.buffer_size", 1000)
	viper.SetDefault("analytics.worker_count", 5)
	viper.SetDefault("rate_limit.requests_per_second", 20)
	viper.SetDefault("rate_limit.burst", 40)
	viper.SetDefault("monitor.interval_minutes", 5)

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		// Check if the error is specifically "config file not found"
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// This is not a fatal error - we'll use default values
			log.Println("Config file not found, using default values")
		} else {
			// Any other error (permissions, malformed YAML, etc.) is fatal
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal the loaded configuration into our Config structure
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Log the loaded configuration for debugging and verification purposes
	log.Printf("Configuration loaded: Server Port=%d, DB Name=%s, Analytics Buffer=%d, Monitor Interval=%dmin",
		cfg.Server.Port, cfg.Database.Name, cfg.Analytics.BufferSize, cfg.Monitor.IntervalMinutes)

	return &cfg, nil
}
