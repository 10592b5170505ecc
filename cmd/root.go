package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/blog-discovery-api/pkg/config"
	"github.com/killallgit/blog-discovery-api/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "discovery-api",
	Short: "Blog Discovery API server",
	Long: `Blog Discovery API - search and discovery over blog posts and their authors

Features:
  • Substring search over post titles, bodies, tags and categories
  • Author search by name, handle and bio
  • Category and tag suggestions for the current result set
  • Response caching (in-process LRU or Redis) and Prometheus metrics`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd returns the root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default "+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "enable JSON formatted logs")
}

// setup loads configuration and the logger for every command that needs them
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}
	return loadConfig(cmd)
}

// loadConfig reads settings from the config file and DISCOVERY_* environment
// variables, then initializes the root logger
func loadConfig(cmd *cobra.Command) error {
	config.Reset()
	config.SetConfigFile(cfgFile)
	if err := config.Init(); err != nil {
		return fmt.Errorf("error initializing config: %w", err)
	}

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	opts := logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Service: "discovery-api",
		Writer:  cmd.ErrOrStderr(),
	}
	if cmd.Flags().Changed("log-level") {
		opts.Level, _ = cmd.Flags().GetString("log-level")
	}
	if jsonLogs, _ := cmd.Flags().GetBool("json-logs"); jsonLogs {
		opts.Format = "json"
	}
	logger.Init(opts)

	appConfig = cfg
	return nil
}
