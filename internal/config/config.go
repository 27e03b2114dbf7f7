package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ScrapeConfig tunes the headless-browser photo scraper.
type ScrapeConfig struct {
	// Headless toggles headless Chromium. Disable locally to watch a
	// scrape session.
	Headless bool `yaml:"headless" json:"headless"`
	// NavTimeoutSec bounds navigation to the search results page.
	NavTimeoutSec int `yaml:"nav_timeout_sec" json:"nav_timeout_sec"`
	// SettleSec is the fixed delay after DOM content loaded that lets
	// the image grid scripts render.
	SettleSec int `yaml:"settle_sec" json:"settle_sec"`
	// MaxPhotos caps how many photo URLs a single scrape returns.
	MaxPhotos int `yaml:"max_photos" json:"max_photos"`
}

// AIConfig points at the text-generation endpoint used for venue
// enrichment. APIKey is usually supplied via environment, not YAML.
type AIConfig struct {
	APIKey   string `yaml:"api_key" json:"-"`
	Model    string `yaml:"model" json:"model"`
	Endpoint string `yaml:"endpoint" json:"endpoint"`
}

// BasicAuthConfig protects the HTTP API. PasswordHash is an argon2id
// hash produced by the hash-password subcommand, never a plain
// password.
type BasicAuthConfig struct {
	Username     string `yaml:"username" json:"username"`
	PasswordHash string `yaml:"password_hash" json:"-"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// TripStart is the calendar date of itinerary Day 1 ("2006-01-02").
	// Only the ICS export depends on it.
	TripStart string `yaml:"trip_start" json:"trip_start"`

	// StatePath is where itinerary snapshots are written.
	StatePath string `yaml:"state_path" json:"state_path"`

	// AutosaveCron is a cron-style schedule for snapshotting the board
	// to StatePath (e.g. "*/5 * * * *").
	AutosaveCron string `yaml:"autosave" json:"autosave"`

	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`
	AI     AIConfig     `yaml:"ai" json:"ai"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:       "127.0.0.1:8080",
		TripStart:    "",
		StatePath:    "itinerary.json",
		AutosaveCron: "*/5 * * * *",
		Scrape: ScrapeConfig{
			Headless:      true,
			NavTimeoutSec: 30,
			SettleSec:     3,
			MaxPhotos:     10,
		},
		AI: AIConfig{
			Model: "gemini-2.5-flash",
		},
		BasicAuth: nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.StatePath == "" {
		c.StatePath = "itinerary.json"
	}
	if c.AutosaveCron == "" {
		c.AutosaveCron = "*/5 * * * *"
	}
	if c.Scrape.NavTimeoutSec <= 0 {
		c.Scrape.NavTimeoutSec = 30
	}
	if c.Scrape.SettleSec <= 0 {
		c.Scrape.SettleSec = 3
	}
	if c.Scrape.MaxPhotos <= 0 {
		c.Scrape.MaxPhotos = 10
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
}

// ApplyEnv layers environment overrides on top of the file config.
// GEMINI_API_KEY (or TRIPBOARD_AI_KEY, which wins) supplies the AI key,
// keeping secrets out of YAML, and HEADLESS flips the browser mode for
// local debugging.
func (c *Config) ApplyEnv() {
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		c.AI.APIKey = key
	}
	if key := strings.TrimSpace(os.Getenv("TRIPBOARD_AI_KEY")); key != "" {
		c.AI.APIKey = key
	}
	if raw := strings.TrimSpace(os.Getenv("HEADLESS")); raw != "" {
		if headless, err := strconv.ParseBool(raw); err == nil {
			c.Scrape.Headless = headless
		}
	}
}

// TripStartDate parses TripStart. An empty value falls back to today,
// so a fresh config still produces a usable ICS export.
func (c *Config) TripStartDate() (time.Time, error) {
	if c.TripStart == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation("2006-01-02", c.TripStart, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: invalid trip_start %q: %w", c.TripStart, err)
	}
	return t, nil
}

// NavTimeout returns the scrape navigation timeout as a Duration.
func (c *Config) NavTimeout() time.Duration {
	return time.Duration(c.Scrape.NavTimeoutSec) * time.Second
}

// SettleDelay returns the scrape settle delay as a Duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Scrape.SettleSec) * time.Second
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written there
//     (0600) and returned.
//   - Otherwise the YAML is read, unmarshaled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions, creating the parent
// directory as needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tripboard-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
