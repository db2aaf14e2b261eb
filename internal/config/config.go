// Package config handles loading and validating the dispatcher's
// configuration from a ledgerd.json file: the ledger-state database
// connection, a default page size, and the settings cache size.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
)

// Config holds all dispatcher configuration loaded from ledgerd.json.
// The file is read once at startup; changes require a restart.
type Config struct {
	// DBConn is the PostgreSQL host:port (e.g., "ledger-postgres:5432").
	DBConn string `json:"dbConn"`

	// DBName is the PostgreSQL database name.
	DBName string `json:"dbName"`

	// DBUser is the PostgreSQL username.
	DBUser string `json:"dbUser"`

	// DBPass is the PostgreSQL password.
	DBPass string `json:"dbPass"`

	// DefaultPageSize is loaded and defaulted to 10, but nothing reads
	// it: the dispatcher applies its own fixed fallback of 10 when a
	// query omits PaginationMeta or asks for page size 0.
	DefaultPageSize uint32 `json:"defaultPageSize,omitempty"`

	// SettingsCacheSize bounds the typed-settings LRU cache.
	SettingsCacheSize int `json:"settingsCacheSize,omitempty"`
}

// Load reads and parses configuration from the given file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.DefaultPageSize == 0 {
		cfg.DefaultPageSize = 10
	}
	if cfg.SettingsCacheSize == 0 {
		cfg.SettingsCacheSize = 8
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks that all required fields are present.
func (c *Config) validate() error {
	switch {
	case c.DBConn == "":
		return fmt.Errorf("config: dbConn is required")
	case c.DBName == "":
		return fmt.Errorf("config: dbName is required")
	case c.DBUser == "":
		return fmt.Errorf("config: dbUser is required")
	case c.DBPass == "":
		return fmt.Errorf("config: dbPass is required")
	}
	return nil
}

// ConnString builds a PostgreSQL connection URI from the config fields.
func (c *Config) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		url.QueryEscape(c.DBUser),
		url.QueryEscape(c.DBPass),
		c.DBConn,
		url.QueryEscape(c.DBName),
	)
}
