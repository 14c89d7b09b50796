package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/kilauea-seismicity/internal/analysis"
	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
	"github.com/couchcryptid/kilauea-seismicity/internal/observability"
)

// CatalogAnalyzer implements Analyzer using the analysis package.
type CatalogAnalyzer struct {
	firstExplosion int
	completeness   []float64
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// NewAnalyzer creates a CatalogAnalyzer. Sets open at
// explosions[firstExplosion]; b-values are fit at each completeness
// magnitude, or analysis.DefaultCompleteness when none are given.
func NewAnalyzer(firstExplosion int, completeness []float64, logger *slog.Logger, metrics *observability.Metrics) *CatalogAnalyzer {
	if len(completeness) == 0 {
		completeness = analysis.DefaultCompleteness
	}
	return &CatalogAnalyzer{
		firstExplosion: firstExplosion,
		completeness:   completeness,
		logger:         logger,
		metrics:        metrics,
	}
}

func (a *CatalogAnalyzer) Analyze(_ context.Context, cat domain.Catalog) (analysis.Result, error) {
	res, err := analysis.Analyze(cat, a.firstExplosion, a.completeness)
	if err != nil {
		var estErr *analysis.EstimateError
		if errors.As(err, &estErr) {
			a.metrics.EstimateFailures.Inc()
			a.logger.Error("b-value estimate failed",
				"set_id", estErr.SetID,
				"completeness_magnitude", estErr.Completeness,
				"error", estErr.Err,
			)
		}
		return analysis.Result{}, err
	}

	a.metrics.SetsPartitioned.Set(float64(len(res.Sets)))
	a.metrics.FreqMagRows.Set(float64(len(res.FrequencyMagnitude)))
	a.metrics.EstimatesComputed.Add(float64(len(res.BValues)))

	for _, s := range res.Sets {
		a.logger.Debug("set partitioned", "set_id", s.ID, "label", s.Label, "count", s.Count)
	}
	a.logger.Info("catalog analyzed",
		"boundaries", len(res.Boundaries),
		"sets", len(res.Sets),
		"freqmag_rows", len(res.FrequencyMagnitude),
		"estimates", len(res.BValues),
	)
	return res, nil
}
