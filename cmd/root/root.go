// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/statement-csv/internal/config"
	"fjacquet/statement-csv/internal/container"
	"fjacquet/statement-csv/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

var (
	// Log is the shared logger instance for commands. It is replaced by the
	// configured logger once the container is built.
	Log = logging.NewLogrusAdapter("info", "text")

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "statement-csv",
		Short: "Convert UK bank statement PDFs to CSV, QIF, OFX, JSON or XLSX.",
		Long: `statement-csv reads the text layer of UK bank statement PDFs, detects the
issuing bank, extracts and validates the transactions and exports them.
It can also summarize statements and apply keyword or AI categorization.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to statement-csv!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := Initialize(ConfigFile, LogLevel)
			if err != nil {
				return err
			}
			AppContainer = c
			AppConfig = c.GetConfig()
			Log = c.GetLogger()
			return nil
		},
		// Saves learned category mappings when any command finishes.
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to release resources")
			}
		},
	}

	// SharedFlags holds the flags accessible to all commands
	SharedFlags = CommonFlags{}

	// ConfigFile is an explicit config file path; empty searches the defaults.
	ConfigFile string
	// LogLevel overrides log.level when set.
	LogLevel string

	// AppConfig and AppContainer are populated before any subcommand runs.
	AppConfig    *config.Config
	AppContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory")
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default searches ./, ./.statement-csv and ~/.statement-csv)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

// Initialize loads the configuration and builds the dependency container.
func Initialize(configFile, logLevel string) (*container.Container, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.InitializeConfigFromFile(configFile)
	} else {
		cfg, err = config.InitializeConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return c, nil
}

// GetLogger returns the configured logger
func GetLogger() logging.Logger {
	return Log
}

// GetContainer returns the dependency container, nil before initialization
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration, nil before initialization
func GetConfig() *config.Config {
	return AppConfig
}
