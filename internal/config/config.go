// Package config defines the immutable configuration value the
// pipeline components receive at construction time. Components never
// read ambient state; cmd builds one Config from viper at startup and
// passes it down.
package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Defaults for the Stadtbibliothek Graz WebOPAC.
const (
	DefaultBaseURL   = "https://stadtbibliothek.graz.at"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	DefaultRequestTimeout = 10 * time.Second
	DefaultRetryAttempts  = 3
	DefaultRateLimitDelay = 2 * time.Second
	DefaultCacheTTL       = time.Hour
)

// Config carries the settings the core pipeline consumes. It is read
// once at startup and treated as fixed for the scraper's lifetime.
type Config struct {
	// BaseURL is the catalog origin, without a trailing slash.
	BaseURL   string
	UserAgent string

	RequestTimeout time.Duration
	// RetryAttempts is the total number of tries per request.
	RetryAttempts  int
	RateLimitDelay time.Duration

	CacheTTL time.Duration
	CacheDir string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		UserAgent:      DefaultUserAgent,
		RequestTimeout: DefaultRequestTimeout,
		RetryAttempts:  DefaultRetryAttempts,
		RateLimitDelay: DefaultRateLimitDelay,
		CacheTTL:       DefaultCacheTTL,
		CacheDir:       filepath.Join(".", "cache", "catalog"),
	}
}

// SetDefaults registers the config keys with viper so a generated
// config file documents them.
func SetDefaults() {
	def := Default()
	viper.SetDefault("library.baseurl", def.BaseURL)
	viper.SetDefault("library.useragent", def.UserAgent)
	viper.SetDefault("scraper.timeout", def.RequestTimeout.String())
	viper.SetDefault("scraper.retries", def.RetryAttempts)
	viper.SetDefault("scraper.ratelimit", def.RateLimitDelay.String())
	viper.SetDefault("cache.ttl", def.CacheTTL.String())
	viper.SetDefault("cache.dir", def.CacheDir)
}

// FromViper builds a Config from the current viper state, falling
// back to defaults for missing or unparseable values.
func FromViper() Config {
	cfg := Default()

	if v := viper.GetString("library.baseurl"); v != "" {
		cfg.BaseURL = v
	}
	if v := viper.GetString("library.useragent"); v != "" {
		cfg.UserAgent = v
	}
	if d, err := time.ParseDuration(viper.GetString("scraper.timeout")); err == nil && d > 0 {
		cfg.RequestTimeout = d
	}
	if v := viper.GetInt("scraper.retries"); v > 0 {
		cfg.RetryAttempts = v
	}
	if d, err := time.ParseDuration(viper.GetString("scraper.ratelimit")); err == nil && d >= 0 {
		cfg.RateLimitDelay = d
	}
	if d, err := time.ParseDuration(viper.GetString("cache.ttl")); err == nil && d > 0 {
		cfg.CacheTTL = d
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.CacheDir = v
	}

	return cfg
}
