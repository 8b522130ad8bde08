// Package config provides configuration loading and validation for the API
// server. Values come from environment variables layered over an optional
// YAML file, with the environment winning.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Place catalog database. Optional: when unset the built-in catalog is served.
	DatabaseURL string `koanf:"database_url"`

	// Redis for distributed rate limiting. Optional: when unset an in-memory
	// store is used.
	RedisURL string `koanf:"redis_url"`

	// CORS
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Recommendation pipeline
	DemoRelocate       bool `koanf:"demo_relocate"`        // Project catalog places around the requester
	MaxResults         int  `koanf:"max_results"`          // Maximum recommendations per response
	FallbackSampleSize int  `koanf:"fallback_sample_size"` // Sample places returned when nothing matches
	// Tracing
	TracingEnabled      bool    `koanf:"tracing_enabled"`
	OTLPEndpoint        string  `koanf:"otlp_endpoint"`
	TracingSamplingRate float64 `koanf:"tracing_sampling_rate"`
}

// Configuration validation errors.
var (
	ErrInvalidPort         = errors.New("PORT must be a valid integer")
	ErrInvalidMaxResults   = errors.New("MAX_RESULTS must be > 0")
	ErrInvalidSampleSize   = errors.New("FALLBACK_SAMPLE_SIZE must be >= 0")
	ErrInvalidSamplingRate = errors.New("TRACING_SAMPLING_RATE must be between 0.0 and 1.0")
)

// Default values for non-secret configuration.
const (
	DefaultPort                = 8080
	DefaultEnv                 = "development"
	DefaultDemoRelocate        = true
	DefaultMaxResults          = 20
	DefaultFallbackSampleSize  = 10
	DefaultTracingSamplingRate = 1.0
)

// source resolves one key against the environment first, then the loaded
// file, then a default. Parse errors from the environment accumulate in
// errs so Load can report them all at once.
type source struct {
	k    *koanf.Koanf
	errs []error
}

func (s *source) str(fileKey, defaultVal string, envKeys ...string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if v := s.k.String(fileKey); v != "" {
		return v
	}
	return defaultVal
}

func (s *source) num(fileKey string, defaultVal int, parseErr error, envKeys ...string) int {
	for _, key := range envKeys {
		val := os.Getenv(key)
		if val == "" {
			continue
		}
		i, err := strconv.Atoi(val)
		if err != nil {
			s.errs = append(s.errs, fmt.Errorf("%w: %q", parseErr, val))
			return defaultVal
		}
		return i
	}
	// A zero in the file falls through to the default.
	if v := s.k.Int(fileKey); v != 0 {
		return v
	}
	return defaultVal
}

func (s *source) float(fileKey string, defaultVal float64, parseErr error, envKeys ...string) float64 {
	for _, key := range envKeys {
		val := os.Getenv(key)
		if val == "" {
			continue
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			s.errs = append(s.errs, fmt.Errorf("%w: %q", parseErr, val))
			return defaultVal
		}
		return f
	}
	if v := s.k.Float64(fileKey); v != 0 {
		return v
	}
	return defaultVal
}

func (s *source) boolean(fileKey string, defaultVal bool, envKeys ...string) bool {
	result := defaultVal
	if s.k.Exists(fileKey) {
		result = s.k.Bool(fileKey)
	}
	for _, key := range envKeys {
		switch strings.ToLower(os.Getenv(key)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return result
}

// Load reads configuration from the environment and an optional YAML file,
// environment winning. It returns the config plus every load and
// validation error found; an unreadable file aborts immediately.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	src := &source{k: k}
	cfg := &Config{
		Port:                src.num("port", DefaultPort, ErrInvalidPort, "MOODPLACES_PORT", "PORT"),
		Env:                 src.str("env", DefaultEnv, "MOODPLACES_ENV", "ENV", "GO_ENV"),
		DatabaseURL:         src.str("database_url", "", "DATABASE_URL"),
		RedisURL:            src.str("redis_url", "", "REDIS_URL"),
		CORSAllowedOrigins:  parseOrigins(src.str("cors_allowed_origins", "", "CORS_ALLOWED_ORIGINS")),
		DemoRelocate:        src.boolean("demo_relocate", DefaultDemoRelocate, "DEMO_RELOCATE"),
		MaxResults:          src.num("max_results", DefaultMaxResults, ErrInvalidMaxResults, "MAX_RESULTS"),
		FallbackSampleSize:  src.num("fallback_sample_size", DefaultFallbackSampleSize, ErrInvalidSampleSize, "FALLBACK_SAMPLE_SIZE"),
		TracingEnabled:      src.boolean("tracing_enabled", false, "TRACING_ENABLED"),
		OTLPEndpoint:        src.str("otlp_endpoint", "", "OTLP_ENDPOINT"),
		TracingSamplingRate: src.float("tracing_sampling_rate", DefaultTracingSamplingRate, ErrInvalidSamplingRate, "TRACING_SAMPLING_RATE"),
	}

	return cfg, append(src.errs, cfg.Validate()...)
}

// parseOrigins splits a comma-separated origin list, dropping empties.
func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// Validate checks that all values are in range, returning every violation.
func (c *Config) Validate() []error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}
	if c.MaxResults <= 0 {
		errs = append(errs, ErrInvalidMaxResults)
	}
	if c.FallbackSampleSize < 0 {
		errs = append(errs, ErrInvalidSampleSize)
	}
	if c.TracingSamplingRate < 0.0 || c.TracingSamplingRate > 1.0 {
		errs = append(errs, ErrInvalidSamplingRate)
	}
	return errs
}

// LogSummary returns the configuration as loggable strings, with
// credentials in connection URLs masked.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                  strconv.Itoa(c.Port),
		"env":                   c.Env,
		"database_url":          maskURL(c.DatabaseURL),
		"redis_url":             maskURL(c.RedisURL),
		"cors_allowed_origins":  strings.Join(c.CORSAllowedOrigins, ","),
		"demo_relocate":         strconv.FormatBool(c.DemoRelocate),
		"max_results":           strconv.Itoa(c.MaxResults),
		"fallback_sample_size":  strconv.Itoa(c.FallbackSampleSize),
		"tracing_enabled":       strconv.FormatBool(c.TracingEnabled),
		"otlp_endpoint":         c.OTLPEndpoint,
		"tracing_sampling_rate": fmt.Sprintf("%g", c.TracingSamplingRate),
	}
}

// maskSecret keeps at most a 4-character prefix of a secret.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// maskURL replaces the password portion of a user:password@host connection
// URL with ****. URLs without credentials pass through unchanged; values
// that are not URLs are masked as opaque secrets.
func maskURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	scheme, rest, found := strings.Cut(s, "://")
	if !found {
		return maskSecret(s)
	}
	creds, hostAndPath, found := strings.Cut(rest, "@")
	if !found {
		return s
	}
	user, _, found := strings.Cut(creds, ":")
	if !found {
		return s
	}
	return scheme + "://" + user + ":****@" + hostAndPath
}
