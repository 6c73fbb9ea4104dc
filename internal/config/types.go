package config

import "time"

// Default values.
const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultTimeoutSeconds = 10
	DefaultLogLevel       = "info"
	DefaultStubUserID     = 1
	DefaultTokenTTLHours  = 24
	DefaultCheckSeconds   = 5
	DefaultTheme          = "tokyo-night"
)

// Config holds the full configuration of the client.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	Session SessionConfig `toml:"session"`
	UI      UIConfig      `toml:"ui"`

	// Files that were read, in load order (not persisted)
	Files []string `toml:"-"`
}

// APIConfig locates the backend
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// StorageConfig locates the local sqlite database
type StorageConfig struct {
	Path string `toml:"path"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// SessionConfig configures the stub credential issuer and session polling
type SessionConfig struct {
	StubUserID    int64 `toml:"stub_user_id"`
	TokenTTLHours int   `toml:"token_ttl_hours"`
	CheckSeconds  int   `toml:"check_seconds"`
}

// UIConfig holds presentation settings
type UIConfig struct {
	Theme string `toml:"theme"`
}

// Timeout returns the request timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// TokenTTL returns the lifetime of stub tokens
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Session.TokenTTLHours) * time.Hour
}

// CheckInterval returns how often the session is re-read
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.Session.CheckSeconds) * time.Second
}
