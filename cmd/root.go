// Package cmd implements the rawline command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/rawline"
	"github.com/zjrosen/rawline/internal/config"
	"github.com/zjrosen/rawline/internal/history"
	"github.com/zjrosen/rawline/internal/log"
	"github.com/zjrosen/rawline/internal/tracing"
	"github.com/zjrosen/rawline/internal/watcher"
)

const localConfigPath = ".rawline/config.yaml"

var (
	version  = "dev"
	cfgFile  string
	modeFlag string
	debug    bool
	cfg      config.Config
)

var rootCmd = &cobra.Command{
	Use:   "rawline",
	Short: "A line editor shell with Emacs and Vi key bindings",
	Long: `rawline reads lines from the terminal with Emacs or Vi style editing and
echoes them back. Entered lines are kept in a SQLite history and can be
recalled with Up/Down.

Editing the mode in the config file takes effect at the next prompt.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runShell,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/rawline/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write a debug log (log.path, or rawline-debug.log)")
	rootCmd.Flags().StringVarP(&modeFlag, "mode", "m", "",
		"editing mode for this session: emacs or vi")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("mode", defaults.Mode)
	viper.SetDefault("encoding", defaults.Encoding)
	viper.SetDefault("prompt", defaults.Prompt)
	viper.SetDefault("history.enabled", defaults.History.Enabled)
	viper.SetDefault("history.path", defaults.History.Path)
	viper.SetDefault("history.max_entries", defaults.History.MaxEntries)
	viper.SetDefault("log.path", defaults.Log.Path)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .rawline/config.yaml (current directory)
		// 2. ~/.config/rawline/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else if userPath := config.DefaultConfigPath(); userPath != "" {
			viper.AddConfigPath(filepath.Dir(userPath))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// First run: write the commented template to the user config.
			if userPath := config.DefaultConfigPath(); userPath != "" {
				if writeErr := config.WriteDefaultConfig(userPath); writeErr == nil {
					viper.SetConfigFile(userPath)
					_ = viper.ReadInConfig()
				}
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// configFilePath is the file mode changes are saved to and watched on.
func configFilePath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

func runShell(cmd *cobra.Command, _ []string) error {
	if modeFlag != "" {
		cfg.Mode = modeFlag
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cleanup, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer cleanup()

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
		}
	}()

	ed := rawline.New()
	ed.SetTracer(provider.Tracer())
	ed.SetHistoryLimit(cfg.History.MaxEntries)

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.OpenStore(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		if err := loadHistory(ed, store, cfg.History.MaxEntries); err != nil {
			return err
		}
	}

	mode := newModeSwitch(cfg.EditMode())
	if modeFlag == "" {
		stop := watchMode(configFilePath(), mode)
		defer stop()
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sh := &shell{
		editor:   ed,
		store:    store,
		out:      cmd.OutOrStdout(),
		mode:     mode,
		prompt:   stylePrompt(cfg.Prompt),
		encoding: cfg.Encoding,
		session:  newSessionID(),
	}
	return sh.run(ctx)
}

// setupLogging opens the debug log when --debug or log.path asks for one.
func setupLogging(lc config.LogConfig) (func(), error) {
	path := lc.Path
	if path == "" && debug {
		path = "rawline-debug.log"
	}
	if path == "" {
		return func() {}, nil
	}

	cleanup, err := log.Init(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("log.level: %w", err)
	}
	if debug {
		level = log.LevelDebug
	}
	log.SetMinLevel(level)
	log.Info(log.CatConfig, "Starting rawline", "version", version, "config", viper.ConfigFileUsed())
	return cleanup, nil
}

// loadHistory seeds the editor with the most recent stored lines, oldest
// first so Up recalls the latest.
func loadHistory(ed *rawline.Editor, store *history.Store, limit int) error {
	entries, err := store.Recent(limit)
	if err != nil {
		return err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		ed.AddHistory(entries[i].Line)
	}
	log.Debug(log.CatHistory, "Loaded history", "entries", len(entries), "kept", ed.HistoryLen())
	return nil
}

// watchMode follows mode changes in the config file until the returned stop
// function is called. A missing or unwatchable file leaves the mode fixed.
func watchMode(path string, mode *modeSwitch) func() {
	if path == "" {
		return func() {}
	}
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		log.ErrorErr(log.CatConfig, "Config watcher unavailable", err)
		return func() {}
	}
	changed, err := w.Start()
	if err != nil {
		log.ErrorErr(log.CatConfig, "Config watcher unavailable", err, "path", path)
		_ = w.Stop()
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-changed:
				m, err := loadMode(path)
				if err != nil {
					log.ErrorErr(log.CatConfig, "Ignoring config change", err, "path", path)
					continue
				}
				if mode.Set(m) {
					log.Info(log.CatConfig, "Edit mode changed", "mode", m)
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		_ = w.Stop()
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
