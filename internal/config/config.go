// Package config loads runtime settings for the moodlog client.
package config

import "time"

// Config holds runtime settings for the moodlog CLI.
//
// Fields:
//   - DatabasePath: location of the on-device SQLite store.
//   - RemoteBaseURL: base URL of the remote journal store.
//   - OnlineCheckInterval: how often the client probes remote reachability.
//   - S3Bucket / S3Region: attachment storage location; empty bucket disables
//     attachment upload.
//   - LogFile: when set, logs go to this file with rotation instead of stderr.
type Config struct {
	DatabasePath        string
	RemoteBaseURL       string
	OnlineCheckInterval time.Duration
	S3Bucket            string
	S3Region            string
	LogFile             string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "moodlog.db"
	c.RemoteBaseURL = "https://moodlog-sync.example.org"
	c.OnlineCheckInterval = 3 * time.Second
	c.S3Region = "us-east-1"
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
