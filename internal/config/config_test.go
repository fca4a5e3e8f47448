package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points CONFIG_PATH at a missing-or-given file so a config.yaml in
// the working directory never leaks into a test.
func isolate(t *testing.T, yaml string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if yaml != "" {
		if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
	} else {
		path = ""
	}
	t.Setenv(PathEnvVar, path)
	if path == "" {
		// Equivalent of t.Chdir (Go 1.24+) for older toolchains.
		wd, err := os.Getwd()
		if err != nil {
			t.Fatalf("getwd: %v", err)
		}
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatalf("chdir: %v", err)
		}
		t.Cleanup(func() { _ = os.Chdir(wd) })
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t, "")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/esports")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Server.Addr() != ":3000" {
		t.Errorf("addr = %q, want :3000", cfg.Server.Addr())
	}
	if cfg.Server.StaticDir != "public" {
		t.Errorf("static dir = %q, want public", cfg.Server.StaticDir)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("max conns = %d, want 10", cfg.Database.MaxConns)
	}
	if cfg.Database.ConnectTimeout != 30*time.Second {
		t.Errorf("connect timeout = %v, want 30s", cfg.Database.ConnectTimeout)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should be enabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t, "")
	t.Setenv("DATABASE_URL", "postgres://localhost/esports")
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_MAX_CONNS", "4")
	t.Setenv("DATABASE_CONNECT_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("port = %d, want 8081", cfg.Server.Port)
	}
	if cfg.Database.MaxConns != 4 {
		t.Errorf("max conns = %d, want 4", cfg.Database.MaxConns)
	}
	if cfg.Database.ConnectTimeout != 5*time.Second {
		t.Errorf("connect timeout = %v, want 5s", cfg.Database.ConnectTimeout)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Metrics.Enabled {
		t.Error("metrics should be disabled")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	isolate(t, `
server:
  port: 9000
  static_dir: /srv/www
database:
  url: postgres://file/esports
logging:
  level: warn
`)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("env should win over file: port = %d", cfg.Server.Port)
	}
	if cfg.Server.StaticDir != "/srv/www" {
		t.Errorf("static dir = %q", cfg.Server.StaticDir)
	}
	if cfg.Database.URL != "postgres://file/esports" {
		t.Errorf("database url = %q", cfg.Database.URL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	isolate(t, "")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
	if !strings.Contains(err.Error(), "Database.URL") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }},
		{"no conns", func(c *Config) { c.Database.MaxConns = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Database.URL = "postgres://localhost/esports"
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvTransformIgnoresUnknown(t *testing.T) {
	if got := envTransform("HOME"); got != "" {
		t.Errorf("HOME mapped to %q", got)
	}
	if got := envTransform("DATABASE_URL"); got != "database.url" {
		t.Errorf("DATABASE_URL mapped to %q", got)
	}
}
