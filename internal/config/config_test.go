package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Listen != ":8080" {
		t.Errorf("Server.Listen = %q, want %q", cfg.Server.Listen, ":8080")
	}
	if cfg.Server.BasePath != "/workday" {
		t.Errorf("Server.BasePath = %q, want %q", cfg.Server.BasePath, "/workday")
	}
	if cfg.Scheduler.LibraryUpdate != "0 4 * * *" {
		t.Errorf("Scheduler.LibraryUpdate = %q, want %q", cfg.Scheduler.LibraryUpdate, "0 4 * * *")
	}
	if cfg.Scheduler.CacheRefresh != "5 4 * * *" {
		t.Errorf("Scheduler.CacheRefresh = %q, want %q", cfg.Scheduler.CacheRefresh, "5 4 * * *")
	}
	if !strings.Contains(cfg.Secondary.APIURL, "{year}") {
		t.Errorf("Secondary.APIURL = %q, want {year} placeholder", cfg.Secondary.APIURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  listen: ":9090"
  base_path: /api/workday
secondary:
  timeout: 3s
scheduler:
  timezone: UTC
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Listen != ":9090" {
		t.Errorf("Server.Listen = %q, want %q", cfg.Server.Listen, ":9090")
	}
	if cfg.Server.BasePath != "/api/workday" {
		t.Errorf("Server.BasePath = %q, want %q", cfg.Server.BasePath, "/api/workday")
	}
	if got := cfg.Secondary.GetTimeout(); got != 3*time.Second {
		t.Errorf("GetTimeout() = %v, want 3s", got)
	}
	if cfg.Scheduler.GetLocation().String() != "UTC" {
		t.Errorf("GetLocation() = %v, want UTC", cfg.Scheduler.GetLocation())
	}
	// Unset keys keep their defaults.
	if cfg.Calendar.DatasetDir != "data/holiday-cn" {
		t.Errorf("Calendar.DatasetDir = %q, want default", cfg.Calendar.DatasetDir)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with missing explicit file expected error")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Listen: ":8080", BasePath: "/workday"},
			Calendar:  CalendarConfig{DatasetDir: "data", MirrorURL: "https://mirror/{year}.json"},
			Secondary: SecondaryConfig{APIURL: "https://feed/{year}/CN", CacheFile: "cache.json"},
			Scheduler: SchedulerConfig{Timezone: "Asia/Shanghai"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen", func(c *Config) { c.Server.Listen = "" }},
		{"relative base path", func(c *Config) { c.Server.BasePath = "workday" }},
		{"mirror without placeholder", func(c *Config) { c.Calendar.MirrorURL = "https://mirror/2026.json" }},
		{"feed without placeholder", func(c *Config) { c.Secondary.APIURL = "https://feed/CN" }},
		{"empty cache file", func(c *Config) { c.Secondary.CacheFile = "" }},
		{"bad timezone", func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Validate() on valid config error = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}

func TestGetTimeoutFallback(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
		want    time.Duration
	}{
		{"empty", "", 10 * time.Second},
		{"unparseable", "soon", 10 * time.Second},
		{"explicit", "30s", 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := SecondaryConfig{Timeout: tt.timeout}
			if got := c.GetTimeout(); got != tt.want {
				t.Errorf("GetTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}
