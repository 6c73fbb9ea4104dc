// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file ($XDG_CONFIG_HOME/todo/config.toml or ~/.config/todo/config.toml)
// 3. The file named by -config
// 4. Environment variables (TODO_*, plus API_BASE_URL)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
package config
