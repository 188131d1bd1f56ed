package main

import (
	"fmt"
	"os"

	"github.com/hession/chatbot/internal/catalog"
	"github.com/hession/chatbot/internal/cli"
	"github.com/hession/chatbot/internal/config"
	"github.com/hession/chatbot/internal/logger"
	"github.com/spf13/cobra"
)

// flag overrides applied on top of the config file
type overrides struct {
	configDir  string
	memoryFile string
	backend    string
	botName    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o overrides

	rootCmd := &cobra.Command{
		Use:   "chatbot",
		Short: "ChatBot - a friendly keyword chatbot that remembers you",
		Long: `ChatBot answers what you type with canned replies picked by keyword.

It can:
  • Greet you, tell jokes, and give the time and date
  • Remember your name ("my name is ...") across runs
  • Keep a transcript of every exchange in a local file

Type quit, exit, bye or goodbye to end the conversation.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(o)
			if err != nil {
				return err
			}
			defer logger.Close()

			// Start chat
			return cli.Run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&o.configDir, "config-dir", "", "configuration directory (default ./config)")
	rootCmd.PersistentFlags().StringVar(&o.memoryFile, "memory-file", "", "memory file path")
	rootCmd.PersistentFlags().StringVar(&o.backend, "backend", "", "memory backend: json or sqlite")
	rootCmd.PersistentFlags().StringVar(&o.botName, "name", "", "bot name")

	// config subcommand
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(o)
			if err != nil {
				return err
			}
			defer logger.Close()

			fmt.Fprintln(cmd.OutOrStdout(), cfg.String())

			path, _ := config.ConfigPath()
			fmt.Fprintf(cmd.OutOrStdout(), "\nConfig file path: %s\n", path)
			if logPath := logger.LogPath(); logPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Log file path: %s\n", logPath)
			}
			return nil
		},
	}

	// history subcommand
	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show the remembered name and conversation transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(o)
			if err != nil {
				return err
			}
			defer logger.Close()

			return cli.History(cfg, limit, cmd.OutOrStdout())
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of recent exchanges to show (0 for all)")

	// forget subcommand
	forgetCmd := &cobra.Command{
		Use:   "forget",
		Short: "Erase the remembered name and transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(o)
			if err != nil {
				return err
			}
			defer logger.Close()

			return cli.Forget(cfg, cmd.OutOrStdout())
		},
	}

	// catalog subcommand
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the response catalog as YAML (a starting point for catalog.path)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(o)
			if err != nil {
				return err
			}
			defer logger.Close()

			cat, err := cli.LoadCatalog(cfg)
			if err != nil {
				return err
			}
			data, err := catalog.Marshal(cat)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	// version subcommand
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ChatBot v%s\n", cli.Version)
		},
	}

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// loadConfig loads configuration, applies flag overrides and starts logging
func loadConfig(o overrides) (*config.Config, error) {
	if o.configDir != "" {
		config.SetConfigDir(o.configDir)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if o.memoryFile != "" {
		cfg.Memory.Path = o.memoryFile
	}
	if o.backend != "" {
		cfg.Memory.Backend = o.backend
	}
	if o.botName != "" {
		cfg.Bot.Name = o.botName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logger.Init(logger.Config{
		LogDir:     config.LogDir(),
		Level:      logger.ParseLevel(cfg.Log.Level),
		MaxDays:    cfg.Log.MaxDays,
		ConsoleOut: cfg.Log.Console,
	}); err != nil {
		// Logging is best effort; the chat works without it
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	logConfigInfo(cfg)

	return cfg, nil
}

// logConfigInfo records the effective configuration
func logConfigInfo(cfg *config.Config) {
	logger.Info("ChatBot v%s starting", cli.Version)
	logger.Info("Bot name: %s", cfg.Bot.Name)
	logger.Info("Memory: backend=%s path=%s flush_every=%d", cfg.Memory.Backend, cfg.Memory.Path, cfg.Memory.FlushEvery)
	if path := cfg.CatalogPath(); path != "" {
		logger.Info("Catalog: %s", path)
	} else {
		logger.Info("Catalog: built-in")
	}
}
