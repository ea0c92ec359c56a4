// If you are AI: This file validates configuration values and returns descriptive errors.

package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"
)

// Validate checks that all configuration values are within acceptable ranges.
// Returns an error describing the first validation failure found.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Media.Validate(); err != nil {
		return fmt.Errorf("media config: %w", err)
	}
	seen := make(map[string]bool, len(c.Locations))
	for i := range c.Locations {
		loc := &c.Locations[i]
		if err := loc.Validate(); err != nil {
			return fmt.Errorf("locations[%d]: %w", i, err)
		}
		if seen[loc.Prefix] {
			return fmt.Errorf("locations[%d]: duplicate prefix %q", i, loc.Prefix)
		}
		seen[loc.Prefix] = true
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log config: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry config: %w", err)
	}
	if err := c.Limits.Validate(); err != nil {
		return fmt.Errorf("limits config: %w", err)
	}
	return nil
}

// Validate checks server configuration values.
func (s *ServerConfig) Validate() error {
	if s.HealthPort <= 0 || s.HealthPort > 65535 {
		return fmt.Errorf("health_port must be between 1 and 65535, got %d", s.HealthPort)
	}
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("http_port must be between 1 and 65535, got %d", s.HTTPPort)
	}
	if s.HealthPort == s.HTTPPort {
		return fmt.Errorf("health_port and http_port must be different, both are %d", s.HealthPort)
	}
	if s.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout must not be negative, got %s", s.ShutdownTimeout)
	}
	return nil
}

// Validate checks media limits.
func (m *MediaConfig) Validate() error {
	// NOTE: the window must at least hold the file header and one tag header.
	if m.MaxMetadataScanBytes < 24 {
		return fmt.Errorf("max_metadata_scan_bytes must be at least 24, got %d", m.MaxMetadataScanBytes)
	}
	if m.MaxConcurrentScans < 1 {
		return fmt.Errorf("max_concurrent_scans must be positive, got %d", m.MaxConcurrentScans)
	}
	if m.WSChunkBytes < 1 {
		return fmt.Errorf("ws_chunk_bytes must be positive, got %d", m.WSChunkBytes)
	}
	return nil
}

// Validate checks a location entry.
func (l *LocationConfig) Validate() error {
	if !strings.HasPrefix(l.Prefix, "/") {
		return fmt.Errorf("prefix must start with /, got %q", l.Prefix)
	}
	if l.Prefix == "/" || strings.HasSuffix(l.Prefix, "/") || path.Clean(l.Prefix) != l.Prefix {
		return fmt.Errorf("prefix must be a clean path without trailing slash, got %q", l.Prefix)
	}
	for _, reserved := range []string{"/api", "/ws"} {
		if l.Prefix == reserved || strings.HasPrefix(l.Prefix, reserved+"/") {
			return fmt.Errorf("prefix %q collides with reserved path %s", l.Prefix, reserved)
		}
	}
	if l.Root == "" {
		return fmt.Errorf("root is required for prefix %q", l.Prefix)
	}
	if l.Mode != ModeTime && l.Mode != ModeByte {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeTime, ModeByte, l.Mode)
	}
	return nil
}

// Validate checks logging settings.
func (l *LogConfig) Validate() error {
	if _, err := zerolog.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	if l.Format != "json" && l.Format != "console" {
		return fmt.Errorf("format must be json or console, got %q", l.Format)
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return fmt.Errorf("rotation settings must not be negative")
	}
	return nil
}

// Validate checks tracing settings.
func (t *TelemetryConfig) Validate() error {
	if t.SampleRate < 0 || t.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0 and 1, got %v", t.SampleRate)
	}
	return nil
}

// Validate checks rate limits.
func (l *LimitsConfig) Validate() error {
	if l.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %v", l.RequestsPerSecond)
	}
	if l.Burst < 0 {
		return fmt.Errorf("burst must not be negative, got %d", l.Burst)
	}
	return nil
}
