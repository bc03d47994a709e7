package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	Secondary SecondaryConfig `mapstructure:"secondary"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig represents the HTTP listener configuration
type ServerConfig struct {
	Listen   string `mapstructure:"listen"`
	BasePath string `mapstructure:"base_path"`
	DocsURL  string `mapstructure:"docs_url"` // optional redirect target for the index route
}

// CalendarConfig represents the primary rule dataset configuration
type CalendarConfig struct {
	DatasetDir string `mapstructure:"dataset_dir"`
	MirrorURL  string `mapstructure:"mirror_url"` // contains a {year} placeholder
}

// SecondaryConfig represents the cross-check holiday feed configuration
type SecondaryConfig struct {
	APIURL    string `mapstructure:"api_url"` // contains a {year} placeholder
	CacheFile string `mapstructure:"cache_file"`
	Timeout   string `mapstructure:"timeout"`
}

// SchedulerConfig represents the daily background job configuration
type SchedulerConfig struct {
	Timezone      string `mapstructure:"timezone"`
	LibraryUpdate string `mapstructure:"library_update"` // cron spec
	CacheRefresh  string `mapstructure:"cache_refresh"`  // cron spec
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load loads configuration from file. With an empty path the usual search
// locations are tried and a missing file falls back to defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.workday-api")
		v.AddConfigPath("/etc/workday-api")
	}

	// Read environment variables
	v.SetEnvPrefix("WORKDAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file anywhere: run on defaults.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.base_path", "/workday")
	v.SetDefault("calendar.dataset_dir", "data/holiday-cn")
	v.SetDefault("calendar.mirror_url", "https://raw.githubusercontent.com/NateScarlet/holiday-cn/master/{year}.json")
	v.SetDefault("secondary.api_url", "https://date.nager.at/api/v3/PublicHolidays/{year}/CN")
	v.SetDefault("secondary.cache_file", "cache/holidays_cache.json")
	v.SetDefault("secondary.timeout", "10s")
	v.SetDefault("scheduler.timezone", "Asia/Shanghai")
	v.SetDefault("scheduler.library_update", "0 4 * * *")
	v.SetDefault("scheduler.cache_refresh", "5 4 * * *")
	v.SetDefault("log.level", "info")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("server.base_path must start with '/'")
	}
	if c.Calendar.DatasetDir == "" {
		return fmt.Errorf("calendar.dataset_dir is required")
	}
	if !strings.Contains(c.Calendar.MirrorURL, "{year}") {
		return fmt.Errorf("calendar.mirror_url must contain a {year} placeholder")
	}
	if !strings.Contains(c.Secondary.APIURL, "{year}") {
		return fmt.Errorf("secondary.api_url must contain a {year} placeholder")
	}
	if c.Secondary.CacheFile == "" {
		return fmt.Errorf("secondary.cache_file is required")
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("scheduler.timezone is invalid: %w", err)
	}
	return nil
}

// GetTimeout returns the secondary feed timeout duration
func (c *SecondaryConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}

// GetLocation returns the scheduler timezone, falling back to Asia/Shanghai
func (c *SchedulerConfig) GetLocation() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}
