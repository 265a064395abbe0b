package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/vitacheck/internal/api"
	"github.com/abhisek/vitacheck/internal/app"
	"github.com/abhisek/vitacheck/internal/config"
	"github.com/abhisek/vitacheck/internal/screens/home"
	"github.com/abhisek/vitacheck/internal/telemetry"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Start the assessment UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp wires the backend client, telemetry, and config into the TUI.
func runApp(cmd *cobra.Command) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cfg.Backend.BaseURL == "" {
		return errors.New("no backend configured: set backend.base_url in the config file or VITACHECK_API_URL")
	}

	logger, closeLog := newFileLogger(cfg.LogPath)
	defer closeLog()

	client := api.New(api.Config{
		BaseURL: cfg.Backend.BaseURL,
		Token:   cfg.Backend.Token,
	})

	journalPath := cfg.Telemetry.JournalPath
	if journalPath == "" {
		journalPath, err = telemetry.DefaultJournalPath()
		if err != nil {
			return err
		}
	}
	var journal telemetry.Journal
	j, err := telemetry.OpenJournal(journalPath)
	if err != nil {
		// Telemetry stays best-effort even when the journal is broken.
		logger.Warn("telemetry journal unavailable", "path", journalPath, "error", err)
	} else {
		journal = j
		defer j.Close()
	}

	emitter := telemetry.NewEmitter(client, journal, logger)
	defer emitter.Close()

	return app.Run(home.Deps{
		Backend:          client,
		Emitter:          emitter,
		LevelBudget:      cfg.Assessment.LevelTimerSeconds,
		TransitionBudget: cfg.Assessment.TransitionTimerSeconds,
	})
}

// newFileLogger opens a log file for slog output. The TUI owns stdout, so
// failures fall back to a discarding logger rather than writing anywhere
// visible.
func newFileLogger(path string) (*slog.Logger, func()) {
	if path == "" {
		p, err := defaultLogPath()
		if err != nil {
			return discardLogger(), func() {}
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return discardLogger(), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return discardLogger(), func() {}
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { f.Close() }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func defaultLogPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "vitacheck", "vitacheck.log"), nil
}
