package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"floatview/internal/app"
	"floatview/internal/config"
	"floatview/internal/layoutstore"
	"floatview/internal/layoutstore/sqlite"
	"floatview/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		logLevel   string
		document   string
	)

	rootCmd := &cobra.Command{
		Use:          "floatview",
		Short:        "Floating, draggable panels over a terminal workspace",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			return run(cfg, document)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/floatview/config.toml)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.Flags().StringVar(&document, "document", "", "text file shown behind the panels")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "paths",
		Short: "Print the resolved config, data and log locations",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			configDir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			fmt.Printf("Config:  %s\n", configDir)
			fmt.Printf("Store:   %s (%s)\n", cfg.Store.Path, cfg.Store.Backend)
			fmt.Printf("Log:     %s\n", cfg.Logging.File)
			return nil
		},
	})

	return rootCmd
}

func loadConfig(configFile string) (*config.Config, error) {
	manager, err := config.NewManager(configFile)
	if err != nil {
		return nil, err
	}
	if err := manager.Load(); err != nil {
		return nil, err
	}
	return manager.Get(), nil
}

func run(cfg *config.Config, documentPath string) error {
	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var logOut io.Writer = io.Discard
	if logFile, err := logging.OpenFile(cfg.Logging.File); err == nil {
		defer logFile.Close()
		logOut = logFile
	} else {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Logging.Level)
	logCfg.Format = cfg.Logging.Format
	logger := logging.New(logCfg, logOut)
	ctx = logging.WithContext(ctx, logger)

	store, closeStore := openStore(ctx, cfg.Store)
	defer closeStore()

	var document string
	if documentPath != "" {
		data, err := os.ReadFile(documentPath)
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}
		document = string(data)
	}

	tuiApp := app.NewApplication(ctx, app.Options{
		Store:          store,
		Window:         cfg.Panels.WindowOptions(),
		Limits:         cfg.Panels.Limits(),
		Gap:            cfg.Panels.Gap,
		Compact:        cfg.Panels.Compact,
		MarkdownStyle:  cfg.Panels.MarkdownStyle,
		InspectorAlign: cfg.Panels.InspectorAlignment(),
		Document:       document,
	})
	defer tuiApp.Shutdown()

	program := tea.NewProgram(
		tuiApp,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	// Set the program in the application so panel events reach the status bar
	tuiApp.SetProgram(program)

	go func() {
		select {
		case <-sigCh:
			logger.Info().Msg("signal received, shutting down")
			program.Quit()
		case <-ctx.Done():
		}
	}()

	logger.Info().
		Str("store", string(cfg.Store.Backend)).
		Str("level", logCfg.Level.String()).
		Msg("floatview starting")

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// openStore builds the layout store for the configured backend. A SQLite
// failure degrades to in-memory persistence for the session.
func openStore(ctx context.Context, cfg config.StoreConfig) (*layoutstore.Store, func()) {
	log := logging.FromContext(ctx)

	if cfg.Backend == config.StoreMemory {
		return layoutstore.New(layoutstore.NewMemoryBackend()), func() {}
	}

	backend, err := sqlite.Open(ctx, cfg.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Path).Msg("layout database unavailable, using memory")
		return layoutstore.New(layoutstore.NewMemoryBackend()), func() {}
	}
	return layoutstore.New(backend), func() {
		if err := backend.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close layout database")
		}
	}
}
