package config

import "flag"

// parseFlags defines and parses CLI flags. Flags default to the values
// loaded so far, so only flags present in args change cfg.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}

	// Consumed earlier by configFlagValue; defined so Parse accepts it.
	fs.String("config", "", "Path to an additional config file")

	fs.StringVar(&cfg.API.BaseURL, "api", cfg.API.BaseURL, "Backend base URL")
	fs.IntVar(&cfg.API.TimeoutSeconds, "timeout", cfg.API.TimeoutSeconds, "Request timeout (seconds)")
	fs.StringVar(&cfg.Storage.Path, "db", cfg.Storage.Path, "Path to the local database")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Log.File, "log-file", cfg.Log.File, "Log file")
	fs.StringVar(&cfg.UI.Theme, "theme", cfg.UI.Theme, "Color theme (tokyo-night, light)")

	return fs.Parse(args)
}
