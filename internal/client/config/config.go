package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the LockWise CLI.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	// SessionDB is the SQLite file that keeps the refresh token between
	// runs. Empty disables persistence.
	SessionDB string
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
	c.SessionDB = "lockwise-session.db"
}

// LoadConfig applies defaults, then the JSON file and flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
