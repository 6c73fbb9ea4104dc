package config

import (
	"fmt"
	"os"
	"strconv"
)

// loadFromEnv overrides config from environment variables. A value that
// cannot be parsed is an error.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("TODO_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("TODO_API_TIMEOUT"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TODO_API_TIMEOUT %q: not a whole number of seconds", v)
		}
		cfg.API.TimeoutSeconds = i
	}
	if v := os.Getenv("TODO_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TODO_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("TODO_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}
