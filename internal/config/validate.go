package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("database.driver must be postgres or memory (got %q)", c.Database.Driver)
	}

	if c.Auth.Enabled && len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.RateLimitPerMinute < 0 {
		return fmt.Errorf("server.rate_limit_per_minute must be >= 0 (got %d)", c.Server.RateLimitPerMinute)
	}

	if c.Sync.Debounce <= 0 {
		return fmt.Errorf("sync.debounce must be > 0 (got %v)", c.Sync.Debounce)
	}

	if err := c.Snapshot.validate(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	return nil
}

func (s *SnapshotConfig) validate() error {
	if _, err := time.Parse("15:04", s.CaptureAt); err != nil {
		return fmt.Errorf("capture_at %q is not HH:MM: %w", s.CaptureAt, err)
	}
	if s.Timezone != "Local" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
	}
	if s.RetentionDays < 0 {
		return fmt.Errorf("retention_days must be >= 0 (got %d)", s.RetentionDays)
	}

	s.Rotations = ParseRotationList(s.RotationsRaw)
	return nil
}

// Location resolves the configured timezone.
func (s SnapshotConfig) Location() (*time.Location, error) {
	if s.Timezone == "Local" || s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

// ParseRotationList splits a comma-separated rotation list, trimming blanks.
// An empty string returns a nil slice.
func ParseRotationList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
