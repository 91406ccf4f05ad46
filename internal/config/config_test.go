package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

database:
  driver: "postgres"
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

sync:
  debounce: "250ms"
  device_id: "tablet-kitchen-1"

snapshot:
  capture_at: "23:45"
  timezone: "America/Chicago"
  retention_days: 90
  rotations: "daily,weekly"

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if got := cfg.Server.Addr(); got != "127.0.0.1:9090" {
		t.Errorf("server.Addr() = %q, want %q", got, "127.0.0.1:9090")
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("database.driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Sync.Debounce != 250*time.Millisecond {
		t.Errorf("sync.debounce = %v, want 250ms", cfg.Sync.Debounce)
	}
	if cfg.Sync.DeviceID != "tablet-kitchen-1" {
		t.Errorf("sync.device_id = %q, want tablet-kitchen-1", cfg.Sync.DeviceID)
	}
	if cfg.Snapshot.CaptureAt != "23:45" {
		t.Errorf("snapshot.capture_at = %q, want 23:45", cfg.Snapshot.CaptureAt)
	}
	if cfg.Snapshot.RetentionDays != 90 {
		t.Errorf("snapshot.retention_days = %d, want 90", cfg.Snapshot.RetentionDays)
	}
	if len(cfg.Snapshot.Rotations) != 2 || cfg.Snapshot.Rotations[0] != "daily" || cfg.Snapshot.Rotations[1] != "weekly" {
		t.Errorf("snapshot.rotations = %v, want [daily weekly]", cfg.Snapshot.Rotations)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_EnvOnly_Defaults(t *testing.T) {
	validEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want default 8080", cfg.Server.Port)
	}
	if cfg.Sync.Debounce != 500*time.Millisecond {
		t.Errorf("sync.debounce = %v, want default 500ms", cfg.Sync.Debounce)
	}
	if cfg.Snapshot.CaptureAt != "23:30" {
		t.Errorf("snapshot.capture_at = %q, want default 23:30", cfg.Snapshot.CaptureAt)
	}
	if cfg.Snapshot.RetentionDays != 365 {
		t.Errorf("snapshot.retention_days = %d, want default 365", cfg.Snapshot.RetentionDays)
	}
	if len(cfg.Snapshot.Rotations) != 0 {
		t.Errorf("snapshot.rotations = %v, want empty", cfg.Snapshot.Rotations)
	}
	if cfg.Auth.Enabled {
		t.Error("auth.enabled should default to false")
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("SNAPSHOT_CAPTURE_AT", "22:00")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Snapshot.CaptureAt != "22:00" {
		t.Errorf("snapshot.capture_at = %q, want env override 22:00", cfg.Snapshot.CaptureAt)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for postgres driver without dsn")
	}
	if !strings.Contains(err.Error(), "dsn") {
		t.Errorf("expected dsn error, got: %v", err)
	}
}

func TestValidate_MemoryDriverNeedsNoDSN(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")

	if _, err := Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mongodb")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestValidate_AuthEnabledShortSecret(t *testing.T) {
	validEnv(t)
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("AUTH_JWT_SECRET", "short")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for short jwt secret")
	}
	if !strings.Contains(err.Error(), "jwt_secret") {
		t.Errorf("expected jwt_secret error, got: %v", err)
	}
}

func TestValidate_BadCaptureTime(t *testing.T) {
	validEnv(t)
	t.Setenv("SNAPSHOT_CAPTURE_AT", "25:99")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid capture time")
	}
}

func TestValidate_BadTimezone(t *testing.T) {
	validEnv(t)
	t.Setenv("SNAPSHOT_TIMEZONE", "Mars/Olympus_Mons")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestParseRotationList(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"daily", []string{"daily"}},
		{"daily,weekly,monthly", []string{"daily", "weekly", "monthly"}},
		{" daily , weekly ", []string{"daily", "weekly"}},
		{",,", nil},
	}

	for _, tc := range cases {
		got := ParseRotationList(tc.raw)
		if len(got) != len(tc.want) {
			t.Errorf("ParseRotationList(%q) = %v, want %v", tc.raw, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("ParseRotationList(%q)[%d] = %q, want %q", tc.raw, i, got[i], tc.want[i])
			}
		}
	}
}
