package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Misadov/gemini-cli-notify/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long: `View or modify configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  gemini-cli-notify config set watch.poll_interval_seconds 5
  gemini-cli-notify config set notifications.suppress_when_focused false
  gemini-cli-notify config set logging.level debug

Valid keys:
  watch.poll_interval_seconds        - Seconds between polling cycles
  watch.staleness_cycles             - Cycles without a snapshot before eviction
  watch.read_length                  - Console buffer cells read per snapshot
  notifications.enabled              - Dispatch desktop notifications (true/false)
  notifications.app_name             - Application name shown on notifications
  notifications.suppress_when_focused - Keep the focused session quiet (true/false)
  logging.enabled                    - Write a log file (true/false)
  logging.level                      - Log level: debug, info, warn, error
  logging.dir                        - Log directory (empty logs to stderr)
  logging.max_size_mb                - Log file size before rotation
  logging.max_backups                - Rotated log files to keep`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/gemini-cli-notify/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Current configuration:")
	fmt.Println()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Config file: (none - using defaults)\n")
	}
	fmt.Println()

	fmt.Println("watch:")
	fmt.Printf("  poll_interval_seconds: %d\n", cfg.Watch.PollIntervalSeconds)
	fmt.Printf("  staleness_cycles: %d\n", cfg.Watch.StalenessCycles)
	fmt.Printf("  process_names: %v\n", cfg.Watch.ProcessNames)
	fmt.Printf("  read_length: %d\n", cfg.Watch.ReadLength)

	fmt.Println("notifications:")
	fmt.Printf("  enabled: %v\n", cfg.Notifications.Enabled)
	fmt.Printf("  app_name: %s\n", cfg.Notifications.AppName)
	fmt.Printf("  suppress_when_focused: %v\n", cfg.Notifications.SuppressWhenFocused)

	fmt.Println("logging:")
	fmt.Printf("  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Printf("  level: %s\n", cfg.Logging.Level)
	fmt.Printf("  dir: %s\n", cfg.Logging.Dir)
	fmt.Printf("  max_size_mb: %d\n", cfg.Logging.MaxSizeMB)
	fmt.Printf("  max_backups: %d\n", cfg.Logging.MaxBackups)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key exists
	validKeys := map[string]string{
		"watch.poll_interval_seconds":         "int",
		"watch.staleness_cycles":              "int",
		"watch.read_length":                   "int",
		"notifications.enabled":               "bool",
		"notifications.app_name":              "string",
		"notifications.suppress_when_focused": "bool",
		"logging.enabled":                     "bool",
		"logging.level":                       "string",
		"logging.dir":                         "string",
		"logging.max_size_mb":                 "int",
		"logging.max_backups":                 "int",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'gemini-cli-notify config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue interface{}
	switch keyType {
	case "string":
		if key == "logging.level" {
			valid := false
			for _, l := range config.ValidLogLevels() {
				if value == l {
					valid = true
					break
				}
			}
			if !valid {
				return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
					key, value, strings.Join(config.ValidLogLevels(), ", "))
			}
		}
		typedValue = value
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		typedValue = intVal
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set the value in viper
	viper.Set(key, typedValue)

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Set %s = %v\n", key, typedValue)
	fmt.Printf("Config saved to %s\n", configFile)

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'gemini-cli-notify config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Generate a commented config file
	configContent := `# gemini-cli-notify configuration

watch:
  # Seconds between polling cycles
  poll_interval_seconds: 2
  # Cycles an instance may go without a successful snapshot before eviction
  staleness_cycles: 5
  # Executable names considered candidate hosts for a CLI session
  process_names:
    - node.exe
    - powershell.exe
    - pwsh.exe
    - cmd.exe
  # Console buffer cells read per snapshot
  read_length: 8000

# Marker overrides. Each entry replaces the built-in markers for that slot;
# an empty or missing list keeps the built-ins. A marker containing "&&"
# requires all parts to appear.
markers:
  identity: []
  title_working: []
  title_ready: []
  buffer_action_required: []
  buffer_rate_limited: []
  buffer_ready: []
  buffer_working: []

notifications:
  enabled: true
  # Application name shown on notifications
  app_name: Gemini CLI
  # Keep the session whose window has focus quiet
  suppress_when_focused: true

logging:
  enabled: true
  # debug, info, warn, error
  level: info
  # Log directory; empty logs to stderr
  dir: ""
  max_size_mb: 10
  max_backups: 3
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Println(config.ConfigFile())
	return nil
}
