package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/todo/internal/api"
	"github.com/tgienger/todo/internal/config"
	"github.com/tgienger/todo/internal/db"
	"github.com/tgienger/todo/internal/logging"
	"github.com/tgienger/todo/internal/session"
	"github.com/tgienger/todo/internal/taskstate"
	"github.com/tgienger/todo/internal/tasks"
	"github.com/tgienger/todo/internal/ui"
	"github.com/tgienger/todo/internal/ui/styles"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v":
			fmt.Printf("todo %s (commit: %s, built: %s)\n", version, commit, date)
			os.Exit(0)
		case "--example-config":
			fmt.Print(config.ExampleConfig)
			os.Exit(0)
		}
	}

	fs := flag.NewFlagSet("todo", flag.ExitOnError)
	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Path:   cfg.Log.File,
		Prefix: "todo",
	})
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closer.Close()
	logger.Info("starting", "version", version, "api", cfg.API.BaseURL, "config", cfg.Files)

	database, err := db.New(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer database.Close()

	// A theme picked in the app wins over the configured one
	theme, err := database.Theme()
	if err != nil {
		logger.Warn("read theme", "err", err)
	}
	if theme == "" || !styles.Use(theme) {
		if !styles.Use(cfg.UI.Theme) {
			logger.Warn("unknown theme", "theme", cfg.UI.Theme)
		}
	}

	sess := session.New(
		database.Tokens(),
		session.NewStubIssuer(cfg.Session.StubUserID, cfg.TokenTTL()),
		logger.WithPrefix("session"),
	)
	client := api.New(api.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.Timeout(),
		Tokens:  sess,
		Logger:  logger.WithPrefix("api"),
	})
	store := taskstate.New(tasks.New(client), logger.WithPrefix("tasks"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := ui.NewApp(ctx, ui.Options{
		Session:       sess,
		Store:         store,
		Prefs:         database,
		CheckInterval: cfg.CheckInterval(),
		Logger:        logger.WithPrefix("ui"),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	logger.Info("exiting")
	return nil
}
