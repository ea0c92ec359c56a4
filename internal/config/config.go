// If you are AI: This file defines the configuration structure for vodflv.
// It uses strict YAML decoding and explicit defaults.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Serving modes accepted by LocationConfig.Mode.
const (
	ModeTime = "time" // start/end are seconds resolved through the keyframe index
	ModeByte = "byte" // start/end are byte offsets, end inclusive
)

// Config holds the complete server configuration.
// All fields must have explicit defaults or be required.
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Media     MediaConfig      `yaml:"media"`
	Locations []LocationConfig `yaml:"locations"`
	Log       LogConfig        `yaml:"log"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`
	Limits    LimitsConfig     `yaml:"limits"`
}

// ServerConfig defines HTTP server settings.
type ServerConfig struct {
	HealthPort      int           `yaml:"health_port"`      // Port for health, readiness and metrics
	HTTPPort        int           `yaml:"http_port"`        // Port for media, websocket and API
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // Grace period for in-flight responses
}

// MediaConfig bounds the work done per request.
type MediaConfig struct {
	MaxMetadataScanBytes int `yaml:"max_metadata_scan_bytes"` // File prefix examined for metadata
	MaxConcurrentScans   int `yaml:"max_concurrent_scans"`    // Scan windows held at once
	WSChunkBytes         int `yaml:"ws_chunk_bytes"`          // Range bytes per websocket frame
}

// LocationConfig maps a URL prefix to a directory of FLV files.
type LocationConfig struct {
	Prefix string `yaml:"prefix"` // URL prefix, e.g. "/vod"
	Root   string `yaml:"root"`   // Directory files are served from
	Mode   string `yaml:"mode"`   // "time" or "byte"
}

// LogConfig controls zerolog output.
type LogConfig struct {
	Level      string `yaml:"level"`        // zerolog level name
	Format     string `yaml:"format"`       // "json" or "console"
	File       string `yaml:"file"`         // Rotated log file; empty logs to stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`  // Rotate after this many megabytes
	MaxBackups int    `yaml:"max_backups"`  // Rotated files kept
	MaxAgeDays int    `yaml:"max_age_days"` // Days rotated files are kept
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	OTLPEndpoint string  `yaml:"otlp_endpoint"` // Empty disables export
	SampleRate   float64 `yaml:"sample_rate"`   // Fraction of traces sampled
	ServiceName  string  `yaml:"service_name"`
}

// LimitsConfig rate limits the media handlers.
type LimitsConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"` // Zero disables limiting
	Burst             int     `yaml:"burst"`
}

// Load reads configuration from a YAML file.
// Returns an error if the file cannot be read or decoded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes configuration from YAML bytes over Default.
// An empty document yields Default unchanged.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields

	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Locations only exist after decoding
	cfg.setDefaults()

	return cfg, nil
}

// Default returns a configuration with every default applied and no locations.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

// setDefaults applies explicit default values to unset fields.
func (c *Config) setDefaults() {
	if c.Server.HealthPort == 0 {
		c.Server.HealthPort = 8080
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8081
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.Media.MaxMetadataScanBytes == 0 {
		c.Media.MaxMetadataScanBytes = 327680
	}
	if c.Media.MaxConcurrentScans == 0 {
		c.Media.MaxConcurrentScans = 64
	}
	if c.Media.WSChunkBytes == 0 {
		c.Media.WSChunkBytes = 65536
	}

	for i := range c.Locations {
		if c.Locations[i].Mode == "" {
			c.Locations[i].Mode = ModeTime
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 100
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 28
	}

	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "vodflv"
	}

	if c.Limits.RequestsPerSecond > 0 && c.Limits.Burst == 0 {
		c.Limits.Burst = int(c.Limits.RequestsPerSecond)
		if c.Limits.Burst < 1 {
			c.Limits.Burst = 1
		}
	}
}
