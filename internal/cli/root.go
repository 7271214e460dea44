package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/ironfocus/internal/board"
	"github.com/existflow/ironfocus/internal/config"
	"github.com/existflow/ironfocus/internal/logger"
	"github.com/existflow/ironfocus/internal/store"
	"github.com/existflow/ironfocus/internal/tui"
)

var (
	logLevel   string
	logFile    string
	logConsole bool

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ironfocus",
	Short: "IronFocus - Focus timer and task tracker",
	Long: `IronFocus is a terminal focus timer. Add short tasks, focus one for a
25 minute session, complete it, and watch your history fill a heat map.

Run 'ironfocus' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			cfg = config.DefaultConfig()
		}

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Persist flag changes onto the file alone; env overrides stay out of it
		if configChanged {
			err := config.Update(func(c *config.Config) {
				c.LogLevel = cfg.LogLevel
				c.LogFile = cfg.LogFile
				c.LogConsole = cfg.LogConsole
			})
			if err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}
		appConfig = cfg

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("IronFocus started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(st store.Store) error {
			return tui.Run(board.New(st), "")
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("IronFocus exiting", logger.F("command", cmd.Name()))
		_ = logger.Close()
	},
}

// currentConfig returns the config loaded for this invocation
func currentConfig() *config.Config {
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(authCmd)
}
