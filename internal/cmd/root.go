package cmd

import (
	"strings"

	"github.com/Misadov/gemini-cli-notify/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "gemini-cli-notify",
	Short: "Desktop notifications for Gemini CLI sessions",
	Long: `gemini-cli-notify watches running Gemini CLI sessions by reading their
console output and raises a desktop notification when a session finishes,
needs user input, or hits a rate limit. The session whose window you are
looking at stays quiet.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/gemini-cli-notify/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/gemini-cli-notify")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("GEMINI_NOTIFY")
	// Replace dots with underscores for nested keys in env vars
	// e.g., GEMINI_NOTIFY_WATCH_POLL_INTERVAL_SECONDS for watch.poll_interval_seconds
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
