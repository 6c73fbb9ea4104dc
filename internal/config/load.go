package config

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tgienger/todo/internal/validate"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file
// 3. File named by -config
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Explicit config file (overrides user config)
	if explicit := configFlagValue(args); explicit != "" {
		path := expandPath(explicit)
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.API.BaseURL = DefaultBaseURL
	cfg.API.TimeoutSeconds = DefaultTimeoutSeconds
	cfg.Storage.Path = filepath.Join(dataDir(), "todo.db")
	cfg.Log.Level = DefaultLogLevel
	cfg.Log.File = filepath.Join(dataDir(), "todo.log")
	cfg.Session.StubUserID = DefaultStubUserID
	cfg.Session.TokenTTLHours = DefaultTokenTTLHours
	cfg.Session.CheckSeconds = DefaultCheckSeconds
	cfg.UI.Theme = DefaultTheme
}

// loadConfigFile loads TOML config from the given file. Keys absent from the
// file keep their current value; unknown keys are an error.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

// finalizeConfig expands paths and validates values.
func finalizeConfig(cfg *Config) error {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if res := validate.ValidateURL(cfg.API.BaseURL); !res.IsValid {
		return fmt.Errorf("api.base_url %q: %s", cfg.API.BaseURL, res.Error)
	}
	if cfg.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive, got %d", cfg.API.TimeoutSeconds)
	}
	if res := validate.ValidateUserID(cfg.Session.StubUserID); !res.IsValid {
		return fmt.Errorf("session.stub_user_id: %s", res.Error)
	}
	if cfg.Session.TokenTTLHours <= 0 {
		return fmt.Errorf("session.token_ttl_hours must be positive, got %d", cfg.Session.TokenTTLHours)
	}
	if cfg.Session.CheckSeconds <= 0 {
		return fmt.Errorf("session.check_seconds must be positive, got %d", cfg.Session.CheckSeconds)
	}

	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.UI.Theme = strings.ToLower(strings.TrimSpace(cfg.UI.Theme))
	return nil
}
