package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	validModes := map[string]bool{
		"strip": true, "selector": true, "xpath": true,
	}
	if !validModes[cfg.Extractor.Mode] {
		return fmt.Errorf("extractor.mode must be strip/selector/xpath, got %q", cfg.Extractor.Mode)
	}
	if cfg.Extractor.Mode == "xpath" && cfg.Extractor.XPath == "" {
		return fmt.Errorf("extractor.xpath is required when extractor.mode is xpath")
	}
	if cfg.Extractor.MaxTextSize < 0 {
		return fmt.Errorf("extractor.max_text_size must be >= 0, got %d", cfg.Extractor.MaxTextSize)
	}

	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	validBackends := map[string]bool{
		"none": true, "file": true, "mongo": true,
	}
	if !validBackends[cfg.History.Backend] {
		return fmt.Errorf("history.backend %q is not supported (valid: none, file, mongo)", cfg.History.Backend)
	}
	if cfg.History.Backend == "file" && cfg.History.Path == "" {
		return fmt.Errorf("history.path is required for the file backend")
	}
	if cfg.History.Backend == "mongo" && cfg.History.MongoURI == "" {
		return fmt.Errorf("history.mongo_uri is required for the mongo backend")
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", cfg.Server.Port)
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks if a URL string is valid for fetching.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL must not be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
