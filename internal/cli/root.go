// Package cli wires configuration, adapters, and the pipeline into the
// kilauea command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/kilauea-seismicity/internal/adapter/csvfile"
	"github.com/couchcryptid/kilauea-seismicity/internal/analysis"
	"github.com/couchcryptid/kilauea-seismicity/internal/config"
	"github.com/couchcryptid/kilauea-seismicity/internal/observability"
	"github.com/couchcryptid/kilauea-seismicity/internal/pipeline"
	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess ExitCode = 0
	exitCodeError   ExitCode = 1
)

// Run executes the command line in os.Args and returns the process exit code.
func Run() ExitCode {
	if err := NewRootCmd().Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

// NewRootCmd builds the kilauea command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "kilauea",
		Short:        "Explosion-set seismicity analysis for the 2018 Kilauea summit collapse.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("catalog-dir", "", "directory holding the catalog CSVs (overrides CATALOG_DIR)")
	flags.Int("first-explosion", 0, "index of the explosion that opens set 1 (overrides FIRST_EXPLOSION_INDEX)")
	flags.String("metrics-textfile", "", "write run metrics to this Prometheus textfile (overrides METRICS_TEXTFILE)")
	flags.BoolP("verbose", "v", false, "set debug logging level")

	rootCmd.AddCommand(
		newReportCmd(),
		newBValuesCmd(),
	)
	return rootCmd
}

// runEnv is everything a subcommand needs for one batch run.
type runEnv struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

// setup loads configuration, applies flag overrides, and builds observability.
func setup(cmd *cobra.Command) (*runEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("catalog-dir") {
		cfg.CatalogDir, _ = flags.GetString("catalog-dir")
	}
	if flags.Changed("first-explosion") {
		cfg.FirstExplosionIndex, _ = flags.GetInt("first-explosion")
	}
	if flags.Changed("metrics-textfile") {
		cfg.MetricsTextfile, _ = flags.GetString("metrics-textfile")
	}
	if flags.Lookup("output") != nil && flags.Changed("output") {
		cfg.OutputPath, _ = flags.GetString("output")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &runEnv{
		cfg:     cfg,
		logger:  observability.NewLoggerTo(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat),
		metrics: observability.NewMetrics(),
	}, nil
}

// run executes the pipeline with the given loaders under the configured
// timeout, then exports metrics whether or not the run succeeded.
func (e *runEnv) run(ctx context.Context, loaders ...pipeline.Loader) (analysis.Result, error) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, e.cfg.RunTimeout)
	defer cancel()

	p := pipeline.New(
		csvfile.NewLoader(e.cfg.EarthquakePaths(), e.cfg.ExplosionPath(), e.logger, e.metrics),
		pipeline.NewAnalyzer(e.cfg.FirstExplosionIndex, e.cfg.CompletenessMagnitudes, e.logger, e.metrics),
		e.logger, e.metrics,
		loaders...,
	)
	res, err := p.Run(ctx)

	if e.cfg.MetricsTextfile != "" {
		if werr := e.metrics.WriteTextfile(e.cfg.MetricsTextfile); werr != nil {
			e.logger.Warn("write metrics textfile failed", "path", e.cfg.MetricsTextfile, "error", werr)
		} else {
			e.logger.Debug("metrics textfile written", "path", e.cfg.MetricsTextfile)
		}
	}
	return res, err
}
