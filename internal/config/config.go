// Package config loads runtime settings from the environment and the feed
// source registry from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sentinelai/sentinel/internal/feeds"
	"github.com/sentinelai/sentinel/internal/logging"
)

// Config holds runtime settings. Provider API keys are read directly from
// the environment by the brain package and are not duplicated here.
type Config struct {
	DBPath      string
	SourcesPath string

	ScanInterval  time.Duration
	SweepInterval time.Duration

	TelegramToken  string
	TelegramChatID string
}

// LoadDotEnv applies a .env file from the working directory when present;
// real environment variables win. It runs before the logger is initialized
// so variables like SENTINEL_LOG_LEVEL take effect from .env too, and
// therefore must not log.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Load reads settings from the environment. Call LoadDotEnv first if .env
// support is wanted.
func Load() *Config {
	return &Config{
		DBPath:         getEnv("SENTINEL_DB_PATH", "sentinel.db"),
		SourcesPath:    getEnv("SENTINEL_SOURCES", ""),
		ScanInterval:   getDuration("SENTINEL_SCAN_INTERVAL", 30*time.Minute),
		SweepInterval:  getDuration("SENTINEL_SWEEP_INTERVAL", 10*time.Minute),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
	}
}

// NotifyEnabled reports whether Telegram notification is configured.
func (c *Config) NotifyEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logging.Warn("invalid duration, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

// sourcesFile is the YAML shape of the source registry.
type sourcesFile struct {
	Sources []feeds.Source `yaml:"sources"`
}

// LoadSources reads the feed registry from the given YAML path. An empty
// path returns the built-in defaults.
func LoadSources(path string) ([]feeds.Source, error) {
	if path == "" {
		return DefaultSources(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s defines no sources", path)
	}
	return file.Sources, nil
}

// DefaultSources is the built-in security feed registry used when no YAML
// file is configured.
func DefaultSources() []feeds.Source {
	return []feeds.Source{
		{Name: "The Hacker News", URL: "https://feeds.feedburner.com/TheHackersNews", Active: true},
		{Name: "BleepingComputer", URL: "https://www.bleepingcomputer.com/feed/", Active: true},
		{Name: "Krebs on Security", URL: "https://krebsonsecurity.com/feed/", Active: true},
		{Name: "Dark Reading", URL: "https://www.darkreading.com/rss.xml", Active: true},
		{Name: "SecurityWeek", URL: "https://www.securityweek.com/feed/", Active: true},
		{Name: "CISA Advisories", URL: "https://www.cisa.gov/cybersecurity-advisories/all.xml", Active: true},
	}
}
