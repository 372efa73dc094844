package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Verify default watch config
	if cfg.Watch.PollIntervalSeconds != 2 {
		t.Errorf("Watch.PollIntervalSeconds = %d, want 2", cfg.Watch.PollIntervalSeconds)
	}
	if cfg.Watch.StalenessCycles != 5 {
		t.Errorf("Watch.StalenessCycles = %d, want 5", cfg.Watch.StalenessCycles)
	}
	if cfg.Watch.ReadLength != 8000 {
		t.Errorf("Watch.ReadLength = %d, want 8000", cfg.Watch.ReadLength)
	}
	wantNames := []string{"node.exe", "powershell.exe", "pwsh.exe", "cmd.exe"}
	if len(cfg.Watch.ProcessNames) != len(wantNames) {
		t.Fatalf("Watch.ProcessNames = %v, want %v", cfg.Watch.ProcessNames, wantNames)
	}
	for i, name := range wantNames {
		if cfg.Watch.ProcessNames[i] != name {
			t.Errorf("Watch.ProcessNames[%d] = %q, want %q", i, cfg.Watch.ProcessNames[i], name)
		}
	}

	// Verify default notification config
	if !cfg.Notifications.Enabled {
		t.Error("Notifications.Enabled should be true by default")
	}
	if cfg.Notifications.AppName != "Gemini CLI" {
		t.Errorf("Notifications.AppName = %q, want %q", cfg.Notifications.AppName, "Gemini CLI")
	}
	if !cfg.Notifications.SuppressWhenFocused {
		t.Error("Notifications.SuppressWhenFocused should be true by default")
	}

	// Verify default logging config
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.MaxSizeMB != 10 {
		t.Errorf("Logging.MaxSizeMB = %d, want 10", cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("Logging.MaxBackups = %d, want 3", cfg.Logging.MaxBackups)
	}
}

func TestPollInterval(t *testing.T) {
	cfg := Default()
	if got := cfg.Watch.PollInterval(); got != 2*time.Second {
		t.Errorf("PollInterval() = %v, want 2s", got)
	}

	cfg.Watch.PollIntervalSeconds = 7
	if got := cfg.Watch.PollInterval(); got != 7*time.Second {
		t.Errorf("PollInterval() = %v, want 7s", got)
	}
}

func TestLoadFromViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	viper.Set("watch.poll_interval_seconds", 10)
	viper.Set("notifications.app_name", "My CLI")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Watch.PollIntervalSeconds != 10 {
		t.Errorf("Watch.PollIntervalSeconds = %d, want 10", cfg.Watch.PollIntervalSeconds)
	}
	if cfg.Notifications.AppName != "My CLI" {
		t.Errorf("Notifications.AppName = %q, want %q", cfg.Notifications.AppName, "My CLI")
	}
	// Unset keys fall back to defaults.
	if cfg.Watch.StalenessCycles != 5 {
		t.Errorf("Watch.StalenessCycles = %d, want default 5", cfg.Watch.StalenessCycles)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	viper.Set("watch.poll_interval_seconds", 0)

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted poll_interval_seconds = 0")
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(os.TempDir(), "xdg"))
	want := filepath.Join(os.TempDir(), "xdg", "gemini-cli-notify")
	if got := ConfigDir(); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}
