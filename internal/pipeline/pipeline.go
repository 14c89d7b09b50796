package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/kilauea-seismicity/internal/analysis"
	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
	"github.com/couchcryptid/kilauea-seismicity/internal/observability"
)

// Extractor reads the complete catalog from its source.
type Extractor interface {
	Extract(ctx context.Context) (domain.Catalog, error)
}

// Analyzer derives the partitioned tables from a catalog.
type Analyzer interface {
	Analyze(ctx context.Context, cat domain.Catalog) (analysis.Result, error)
}

// Loader publishes analysis results to a destination.
type Loader interface {
	Load(ctx context.Context, res analysis.Result) error
}

// Pipeline runs extract, analyze, and load once, stopping at the first error.
type Pipeline struct {
	extractor Extractor
	analyzer  Analyzer
	loaders   []Loader
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline with the given stages and observability. Loaders run
// in order; a nil loader list makes Run analysis-only.
func New(e Extractor, a Analyzer, logger *slog.Logger, metrics *observability.Metrics, loaders ...Loader) *Pipeline {
	return &Pipeline{
		extractor: e,
		analyzer:  a,
		loaders:   loaders,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes one batch run and returns the analysis result.
func (p *Pipeline) Run(ctx context.Context) (res analysis.Result, err error) {
	start := domain.Now()
	p.logger.Info("pipeline started", "loaders", len(p.loaders))

	defer func() {
		p.metrics.LastRunTimestamp.Set(float64(domain.Now().Unix()))
		if err != nil {
			p.metrics.LastRunSuccess.Set(0)
			p.logger.Error("pipeline failed", "error", err)
			return
		}
		p.metrics.LastRunSuccess.Set(1)
		p.logger.Info("pipeline finished",
			"earthquakes", len(res.Earthquakes),
			"sets", len(res.Sets),
			"estimates", len(res.BValues),
			"duration", domain.Now().Sub(start),
		)
	}()

	var cat domain.Catalog
	err = p.stage(ctx, "extract", func() error {
		var err error
		cat, err = p.extractor.Extract(ctx)
		return err
	})
	if err != nil {
		return analysis.Result{}, fmt.Errorf("extract: %w", err)
	}

	err = p.stage(ctx, "analyze", func() error {
		var err error
		res, err = p.analyzer.Analyze(ctx, cat)
		return err
	})
	if err != nil {
		return analysis.Result{}, fmt.Errorf("analyze: %w", err)
	}

	err = p.stage(ctx, "load", func() error {
		for _, l := range p.loaders {
			if err := l.Load(ctx, res); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return analysis.Result{}, fmt.Errorf("load: %w", err)
	}

	return res, nil
}

// stage runs fn and records its duration, checking for cancellation first.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := domain.Now()
	err := fn()
	elapsed := domain.Now().Sub(start)
	p.metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	p.logger.Debug("stage finished", "stage", name, "duration", elapsed.Round(time.Microsecond), "ok", err == nil)
	return err
}
