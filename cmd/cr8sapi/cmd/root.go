package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cr8s/cr8sapi/cmd/cr8sapi/cmd/users"
	"github.com/cr8s/cr8sapi/internal/config"
	"github.com/cr8s/cr8sapi/internal/logging"
)

var (
	cfg     *config.Config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "cr8sapi",
	Short: "cr8s record service",
	Long: `cr8sapi serves the rustaceans and crates REST API behind token
authentication and role-gated writes, and manages its users and schema.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config file: %w", err)
			}
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logging.Configure(cfg.Debug, cfg.LogFormat)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Path to a YAML config file")
	flags.String("database-url", "", "Database connection URL (env: CR8S_DATABASE_URL)")
	flags.String("redis-url", "", "Redis URL for sessions; empty keeps them in process (env: CR8S_REDIS_URL)")
	flags.String("server-addr", "", "Server bind address (env: CR8S_SERVER_ADDR)")
	flags.Bool("debug", false, "Enable debug logging (env: CR8S_DEBUG)")
	flags.String("log-format", "", "Log format: text or json (env: CR8S_LOG_FORMAT)")

	for key, flag := range map[string]string{
		"database_url": "database-url",
		"redis_url":    "redis-url",
		"server_addr":  "server-addr",
		"debug":        "debug",
		"log_format":   "log-format",
	} {
		// Only errors when the flag does not exist.
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(users.UsersCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
