package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/feignbridge/pkg/config"
	"github.com/getmockd/feignbridge/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	configPath string
	jsonOutput bool
	logLevel   string
	logFormat  string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "feignbridge",
	Short: "feignbridge pushes mock responses into a running application",
	Long: `feignbridge keeps mock responses for remote client methods in sync with
an agent running inside the target application.

It waits for the target to start, pushes every configured mock, forwards later
edits as they happen, and defers them while the target is paused in a debugger.

Configuration is read from --config, $FEIGNBRIDGE_CONFIG or ./.feignbridge.yaml,
then overlaid with FEIGNBRIDGE_* environment variables and command flags.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $FEIGNBRIDGE_CONFIG or ./"+config.DefaultFileName+")")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text, json (overrides config)")
}

// resolveConfigPath returns the explicit --config value or the discovered
// local file.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return config.FindLocal(dir)
}

// flagOverrides turns the persistent log flags into config overrides.
func flagOverrides(extra ...config.Override) []config.Override {
	overrides := []config.Override{func(c *config.Config) {
		if logLevel != "" {
			c.Log.Level = logLevel
		}
		if logFormat != "" {
			c.Log.Format = logFormat
		}
	}}
	return append(overrides, extra...)
}

// loadConfig loads the effective configuration for one-shot commands.
func loadConfig(extra ...config.Override) (*config.Config, error) {
	return config.Load(resolveConfigPath(), flagOverrides(extra...)...)
}

// newLogger builds the process logger for cfg, writing to w.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Log.Level)
	lc.Format = logging.ParseFormat(cfg.Log.Format)
	lc.Output = w
	return logging.New(lc)
}
