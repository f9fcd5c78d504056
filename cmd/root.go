package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/survival-cli/internal/config"
	"github.com/KaramelBytes/survival-cli/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int

	// Loaded configuration
	cfg     *cfgpkg.Global
	cfgErr  error
	logger  = zerolog.Nop()
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "survival",
	Short: "Survival CLI: Titanic passenger survival summaries and plots",
	Long: `Survival loads the Titanic passenger table (CSV, TSV or XLSX), reports missing
values and column statistics, writes survival counts and percentages per passenger
class, and renders the survival, fare and age charts.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.survival/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: pretty|json (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max download attempts on 429/5xx (overrides config)")
}

func loadConfig() {
	cfg, cfgErr = cfgpkg.Load(cfgFile)

	level, format := "info", "pretty"
	if cfg != nil {
		level, format = cfg.LogLevel, cfg.LogFormat
	}
	if logFormat != "" {
		format = logFormat
	}
	if debug {
		level = "debug"
	}
	logger = logging.Setup(level, format, os.Stderr)

	if cfgErr != nil {
		// Non-fatal: commands that need config report it themselves.
		logger.Warn().Err(cfgErr).Msg("failed to load config")
		return
	}

	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
}

// requireConfig returns the loaded configuration or the reason it is missing.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		if cfgErr != nil {
			return nil, fmt.Errorf("load config: %w", cfgErr)
		}
		return nil, fmt.Errorf("no config loaded")
	}
	return cfg, nil
}
