package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/garrisonlabs/bugle/internal/model"
)

// Config holds the schedule document plus daemon settings.
// Loaded once at startup and passed by reference; no ambient globals.
type Config struct {
	Timezone           string                          `yaml:"timezone"`
	ListenAddress      string                          `yaml:"listen_address"`
	APIToken           string                          `yaml:"api_token"`
	LogFile            string                          `yaml:"log_file"`
	StateFile          string                          `yaml:"state_file"`
	RequestFile        string                          `yaml:"request_file"`
	PlayerCommand      string                          `yaml:"player_command"`
	ColdStartThreshold string                          `yaml:"cold_start_threshold"`
	TickInterval       string                          `yaml:"tick_interval"`
	Weekdays           map[string]model.CallDefinition `yaml:"weekdays"`
	Weekends           map[string]model.CallDefinition `yaml:"weekends"`

	location  *time.Location
	coldStart time.Duration
	tick      time.Duration
}

// Load reads and validates the YAML schedule document.
// A missing or malformed document is fatal; per-entry problems are not
// checked here (the schedule store skips bad entries with a warning).
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	cfg := &Config{
		Timezone:           "America/Chicago",
		ListenAddress:      ":5000",
		StateFile:          "play_state.json",
		RequestFile:        "play_request.json",
		PlayerCommand:      "mpg123",
		ColdStartThreshold: "5m",
		TickInterval:       "1s",
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}

	cfg.location, err = time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", cfg.Timezone, err)
	}
	cfg.coldStart, err = time.ParseDuration(cfg.ColdStartThreshold)
	if err != nil {
		return nil, fmt.Errorf("invalid cold_start_threshold %q: %w", cfg.ColdStartThreshold, err)
	}
	cfg.tick, err = time.ParseDuration(cfg.TickInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid tick_interval %q: %w", cfg.TickInterval, err)
	}
	return cfg, nil
}

// Location returns the configured fixed timezone.
func (c *Config) Location() *time.Location { return c.location }

// ColdStartWindow returns the uptime threshold below which the engine
// treats its start as a cold start.
func (c *Config) ColdStartWindow() time.Duration { return c.coldStart }

// Tick returns the execution loop period.
func (c *Config) Tick() time.Duration { return c.tick }
