package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Misadov/gemini-cli-notify/internal/config"
	"github.com/Misadov/gemini-cli-notify/internal/console"
	"github.com/Misadov/gemini-cli-notify/internal/detect"
	"github.com/Misadov/gemini-cli-notify/internal/filelock"
	"github.com/Misadov/gemini-cli-notify/internal/focus"
	"github.com/Misadov/gemini-cli-notify/internal/logging"
	"github.com/Misadov/gemini-cli-notify/internal/notify"
	"github.com/Misadov/gemini-cli-notify/internal/proclist"
	"github.com/Misadov/gemini-cli-notify/internal/registry"
	"github.com/Misadov/gemini-cli-notify/internal/watchdog"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start watching Gemini CLI sessions",
	Long: `Start the polling loop. Every cycle the watchdog enumerates candidate
shell and runtime processes, attaches to their console buffers without
disturbing them, classifies each session's state, and raises a desktop
notification when a session enters a state that needs your attention.

Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Two watchdogs would race console attachment and double-notify.
	lock, err := filelock.Acquire(filepath.Join(config.ConfigDir(), "watchdog.lock"))
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	logger, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Close() }()

	classifier := detect.NewClassifier(cfg.MarkerTable())
	reg := registry.New(classifier, uint64(cfg.Watch.StalenessCycles), logger)

	var notifier watchdog.Notifier = notify.NopNotifier{}
	if cfg.Notifications.Enabled {
		notifier = notify.NewDesktopNotifier(cfg.Notifications.AppName)
	}

	wd := watchdog.New(
		watchdog.Options{
			PollInterval:         cfg.Watch.PollInterval(),
			NotificationsEnabled: cfg.Notifications.Enabled,
			SuppressWhenFocused:  cfg.Notifications.SuppressWhenFocused,
			SelfPID:              os.Getpid(),
		},
		classifier,
		reg,
		proclist.NewInventory(cfg.Watch.ProcessNames),
		console.NewProvider(cfg.Watch.ReadLength),
		focus.NewResolver(classifier.MatchesIdentity),
		notifier,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watchdog starting",
		"poll_interval", cfg.Watch.PollInterval().String(),
		"process_names", cfg.Watch.ProcessNames,
		"notifications_enabled", cfg.Notifications.Enabled)

	if err := wd.Run(ctx); err != nil {
		return fmt.Errorf("watchdog stopped: %w", err)
	}
	return nil
}

func buildLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   true,
	})
}
