// Package cli defines the edesigner command-line surface: the root command,
// its persistent flags, and the CLIContext initialization chain every
// subcommand reads its Config, Logger, and Metrics from.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dnaenc/edesigner/internal/config"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/logging"
	"github.com/dnaenc/edesigner/internal/infrastructure/monitoring/prometheus"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Metrics      prometheus.MetricsCollector
	OutputFormat string
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "edesigner",
		Short:   "DNA-encoded combinatorial chemical library design engine",
		Long:    "edesigner enumerates building-block combinations into DNA-encoded\ncompound libraries: classifying building blocks into catalogue types,\ngrowing multi-cycle designs under atom-budget and functional-group\nconstraints, and coalescing the survivors into validated libraries.",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: env-driven)")
	pf.StringVar(&opts.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")

	cmd.AddCommand(
		newClassifyCmd(),
		newDesignCmd(),
		newDesignWorkerCmd(),
	)

	return cmd
}

// persistentPreRun loads configuration and initializes the logger and
// metrics collector, then stores the resulting CLIContext on the command's
// context for every subcommand's RunE to retrieve via GetCLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	metrics, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "edesigner",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		logger.Warn("metrics collector initialization failed, continuing without metrics", logging.Err(err))
		metrics = nil
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Metrics:      metrics,
		OutputFormat: opts.OutputFormat,
	}

	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads configuration from the given path, or from the
// environment with defaults applied when no path is given.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}
	return config.LoadFromEnv()
}

// initLogger builds a console logger for CLI usage, writing to stderr so
// --output text/json stream output on stdout stays machine-parseable.
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	if level == "" {
		level = cfg.Monitoring.Logging.Level
	}

	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts the CLIContext stored on cmd's context by
// persistentPreRun.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, fmt.Errorf("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute runs the root command, printing any returned error to stderr
// before propagating a non-zero process exit to the caller.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}
