package config

import "time"

// Config holds runtime settings for the PaceDog CLI.
//
// Fields:
//   - DatabaseDSN: path/DSN of the local SQLite database.
//   - TimerRefreshInterval: how often the live stopwatch display resamples
//     the timer while it is running.
//
// Units: TimerRefreshInterval is a time.Duration (e.g., 100*time.Millisecond).
type Config struct {
	DatabaseDSN          string
	TimerRefreshInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "pacedog.db"
	c.TimerRefreshInterval = 100 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
