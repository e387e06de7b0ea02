package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xiaoyuanzhu-com/project-import/config"
	"github.com/xiaoyuanzhu-com/project-import/log"
)

var (
	configFile string
	logLevel   string
	version    string = "dev"

	// appConfig is resolved once flags are parsed
	appConfig *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "project-import",
	Short: "Import projects into a replayable chat history",
	Long: `Turn a local folder, an archive or a remote autopilot project into the
chat history an assistant would have produced while writing it.

Quick Start:
  project-import serve                         # Run the HTTP API
  project-import import folder ./my-app        # Print the import chat as JSON
  project-import import remote <project-hex>   # Import an autopilot project`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			if _, err := os.Stat(configFile); err != nil {
				return fmt.Errorf("config file: %w", err)
			}
			appConfig = config.Load(viper.New(), configFile)
		} else {
			appConfig = config.Get()
		}

		level := appConfig.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		log.SetLevel(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, off")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
