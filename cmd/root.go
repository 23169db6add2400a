package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/splitdiff/internal/app"
	"github.com/zjrosen/splitdiff/internal/cachemanager"
	"github.com/zjrosen/splitdiff/internal/config"
	"github.com/zjrosen/splitdiff/internal/diff"
	"github.com/zjrosen/splitdiff/internal/language"
	"github.com/zjrosen/splitdiff/internal/log"
	"github.com/zjrosen/splitdiff/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const (
	localConfigPath = ".splitdiff/config.yaml"
	logFileEnv      = "SPLITDIFF_LOG"
)

var (
	version   = "dev"
	cfgFile   string
	cfg       config.Config
	debugFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "splitdiff [original] [modified]",
	Short: "Side-by-side text diff in the terminal",
	Long: `splitdiff compares two texts line by line and shows the result as an
aligned side-by-side table that updates while you type.

Paste or type into the Original and Modified panes, or pass files as
arguments. Either pane may start empty.`,
	Version:      version,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/splitdiff/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write a debug log and enable the log overlay (ctrl+x)")

	rootCmd.Flags().Bool("manual", false, "only diff when Compare is pressed")
	rootCmd.Flags().Duration("debounce", 0, "quiet period before a live recompute (e.g. 250ms)")
	rootCmd.Flags().Int("context", 0, "unchanged rows kept around changes in changes-only view")
	rootCmd.Flags().String("algorithm", "", "line diff algorithm: myers or dmp")
	rootCmd.Flags().Bool("changes-only", false, "start with unchanged rows hidden")
	rootCmd.Flags().Bool("watch", false, "reload loaded files when they change on disk")
	rootCmd.Flags().String("left-lang", "", "language of the original pane (default: from file extension)")
	rootCmd.Flags().String("right-lang", "", "language of the modified pane (default: from file extension)")

	// Bind flags to viper
	_ = viper.BindPFlag("diff.debounce", rootCmd.Flags().Lookup("debounce"))
	_ = viper.BindPFlag("diff.context_radius", rootCmd.Flags().Lookup("context"))
	_ = viper.BindPFlag("diff.algorithm", rootCmd.Flags().Lookup("algorithm"))
	_ = viper.BindPFlag("ui.changes_only", rootCmd.Flags().Lookup("changes-only"))
	_ = viper.BindPFlag("watch", rootCmd.Flags().Lookup("watch"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("diff.live", defaults.Diff.Live)
	viper.SetDefault("diff.debounce", defaults.Diff.Debounce)
	viper.SetDefault("diff.context_radius", defaults.Diff.ContextRadius)
	viper.SetDefault("diff.algorithm", defaults.Diff.Algorithm)
	viper.SetDefault("diff.cache_ttl", defaults.Diff.CacheTTL)
	viper.SetDefault("ui.changes_only", defaults.UI.ChangesOnly)
	viper.SetDefault("ui.line_numbers", defaults.UI.LineNumbers)
	viper.SetDefault("ui.highlight", defaults.UI.Highlight)
	viper.SetDefault("ui.highlight_style", defaults.UI.HighlightStyle)
	viper.SetDefault("ui.show_help", defaults.UI.ShowHelp)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("watch", defaults.Watch)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .splitdiff/config.yaml (current directory)
		// 2. ~/.config/splitdiff/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else if dir := userConfigDir(); dir != "" {
			viper.AddConfigPath(dir)
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create the user default
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if dir := userConfigDir(); dir != "" {
				defaultPath := filepath.Join(dir, "config.yaml")
				if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
					viper.SetConfigFile(defaultPath)
					_ = viper.ReadInConfig()
				}
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// userConfigDir returns ~/.config/splitdiff, or "" without a home directory.
func userConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "splitdiff")
}

// setupLogging initializes the debug log when requested by flag or
// environment. The returned cleanup is never nil.
func setupLogging() (func(), error) {
	if !log.Enabled(debugFlag) {
		return func() {}, nil
	}
	logPath := os.Getenv(logFileEnv)
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.Init(logPath)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "splitdiff starting", "version", version, "config", viper.ConfigFileUsed())
	return cleanup, nil
}

// setupTracing builds the trace provider from config. The returned
// shutdown flushes pending spans.
func setupTracing(tc config.TracingConfig) (trace.Tracer, func(), error) {
	filePath := tc.FilePath
	if filePath == "" {
		filePath = config.DefaultTracesFilePath()
	}
	provider, err := tracing.NewProvider(tracing.Config{
		Enabled:      tc.Enabled,
		Exporter:     tc.Exporter,
		FilePath:     filePath,
		OTLPEndpoint: tc.OTLPEndpoint,
		SampleRate:   tc.SampleRate,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initializing tracing: %w", err)
	}
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Failed to flush traces", err)
		}
	}
	return provider.Tracer(), shutdown, nil
}

// newEngine builds the diff engine for dc. A positive cache TTL memoizes
// results.
func newEngine(dc config.DiffConfig, tracer trace.Tracer) (*diff.Engine, error) {
	algo, err := diff.AlgorithmByName(dc.Algorithm)
	if err != nil {
		return nil, err
	}
	opts := []diff.EngineOption{diff.WithAlgorithm(algo), diff.WithTracer(tracer)}
	if dc.CacheTTL > 0 {
		cache := cachemanager.NewInMemoryCacheManager[string, diff.CacheEntry]("diff", dc.CacheTTL, 2*dc.CacheTTL)
		opts = append(opts, diff.WithCache(cache, dc.CacheTTL))
	}
	return diff.NewEngine(opts...), nil
}

// parseLanguage parses a --left-lang/--right-lang value. Empty means
// "detect from the file".
func parseLanguage(flag, value string) (language.Mode, error) {
	if value == "" {
		return "", nil
	}
	mode, err := language.Parse(value)
	if err != nil {
		return "", fmt.Errorf("--%s: %w", flag, err)
	}
	return mode, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	cleanup, err := setupLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	if manual, _ := cmd.Flags().GetBool("manual"); manual {
		cfg.Diff.Live = false
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var langs [2]language.Mode
	for i, name := range []string{"left-lang", "right-lang"} {
		value, _ := cmd.Flags().GetString(name)
		if langs[i], err = parseLanguage(name, value); err != nil {
			return err
		}
	}
	var files [2]string
	copy(files[:], args)

	tracer, shutdown, err := setupTracing(cfg.Tracing)
	if err != nil {
		return err
	}
	defer shutdown()

	engine, err := newEngine(cfg.Diff, tracer)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Store the config file path for saving display preferences
	configFilePath := viper.ConfigFileUsed()

	zone.NewGlobal()
	model, err := app.New(app.Options{
		Config:     cfg,
		ConfigPath: configFilePath,
		Engine:     engine,
		Tracer:     tracer,
		Files:      files,
		Languages:  langs,
		DebugMode:  log.Enabled(debugFlag),
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	final, err := p.Run()

	// The program owns the latest model; close that one so toggled
	// preferences are saved.
	if fm, ok := final.(app.Model); ok {
		model = fm
	}
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
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
