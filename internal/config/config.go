package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete watchdog configuration
type Config struct {
	Watch         WatchConfig        `mapstructure:"watch"`
	Markers       MarkersConfig      `mapstructure:"markers"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// WatchConfig controls the polling loop and process discovery
type WatchConfig struct {
	// PollIntervalSeconds is the delay between polling cycles
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds"`
	// StalenessCycles is how many cycles an instance may go without a
	// successful snapshot before it is evicted
	StalenessCycles int `mapstructure:"staleness_cycles"`
	// ProcessNames are the executable names considered candidate hosts
	// for a CLI session. The filter is recall-oriented: classification,
	// not this list, decides what is actually a monitored session.
	ProcessNames []string `mapstructure:"process_names"`
	// ReadLength is how many cells to read from the bottom of a console
	// screen buffer
	ReadLength int `mapstructure:"read_length"`
}

// MarkersConfig overrides entries of the built-in marker table.
// Each entry is a list of marker strings; a marker containing "&&" is a
// conjunction that requires all parts to appear. An empty list keeps the
// built-in markers for that slot.
type MarkersConfig struct {
	// Identity markers establish that a window hosts a monitored CLI
	Identity []string `mapstructure:"identity"`
	// Title markers per state
	TitleWorking []string `mapstructure:"title_working"`
	TitleReady   []string `mapstructure:"title_ready"`
	// Buffer markers per state
	BufferActionRequired []string `mapstructure:"buffer_action_required"`
	BufferRateLimited    []string `mapstructure:"buffer_rate_limited"`
	BufferReady          []string `mapstructure:"buffer_ready"`
	BufferWorking        []string `mapstructure:"buffer_working"`
}

// NotificationConfig controls desktop notification behavior
type NotificationConfig struct {
	// Enabled controls whether notifications are dispatched at all
	Enabled bool `mapstructure:"enabled"`
	// AppName is the application name shown on notifications
	AppName string `mapstructure:"app_name"`
	// SuppressWhenFocused skips notifications for the instance whose
	// window currently has input focus
	SuppressWhenFocused bool `mapstructure:"suppress_when_focused"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether file logging is enabled
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Dir is the directory for log files; empty logs to stderr
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep
	MaxBackups int `mapstructure:"max_backups"`
}

// PollInterval returns the poll interval as a time.Duration
func (w *WatchConfig) PollInterval() time.Duration {
	return time.Duration(w.PollIntervalSeconds) * time.Second
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Watch: WatchConfig{
			PollIntervalSeconds: 2,
			StalenessCycles:     5,
			ProcessNames:        []string{"node.exe", "powershell.exe", "pwsh.exe", "cmd.exe"},
			ReadLength:          8000,
		},
		Markers: MarkersConfig{},
		Notifications: NotificationConfig{
			Enabled:             true,
			AppName:             "Gemini CLI",
			SuppressWhenFocused: true,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Watch defaults
	viper.SetDefault("watch.poll_interval_seconds", defaults.Watch.PollIntervalSeconds)
	viper.SetDefault("watch.staleness_cycles", defaults.Watch.StalenessCycles)
	viper.SetDefault("watch.process_names", defaults.Watch.ProcessNames)
	viper.SetDefault("watch.read_length", defaults.Watch.ReadLength)

	// Marker defaults: empty lists keep the built-in table
	viper.SetDefault("markers.identity", []string{})
	viper.SetDefault("markers.title_working", []string{})
	viper.SetDefault("markers.title_ready", []string{})
	viper.SetDefault("markers.buffer_action_required", []string{})
	viper.SetDefault("markers.buffer_rate_limited", []string{})
	viper.SetDefault("markers.buffer_ready", []string{})
	viper.SetDefault("markers.buffer_working", []string{})

	// Notification defaults
	viper.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	viper.SetDefault("notifications.app_name", defaults.Notifications.AppName)
	viper.SetDefault("notifications.suppress_when_focused", defaults.Notifications.SuppressWhenFocused)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gemini-cli-notify")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gemini-cli-notify"
	}
	return filepath.Join(home, ".config", "gemini-cli-notify")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
