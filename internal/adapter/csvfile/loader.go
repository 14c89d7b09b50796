package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
	"github.com/couchcryptid/kilauea-seismicity/internal/observability"
)

// Required columns. Catalog files may carry more; extra columns are ignored.
var (
	EarthquakeColumns = []string{"time", "depth", "mag", "magType", "latitude", "longitude"}
	ExplosionColumns  = []string{"time", "depth", "mag"}
)

// Loader reads the monthly earthquake catalogs and the explosion catalog.
// It implements pipeline.Extractor.
type Loader struct {
	earthquakePaths []string
	explosionPath   string
	logger          *slog.Logger
	metrics         *observability.Metrics
}

// NewLoader creates a Loader for the given catalog files.
func NewLoader(earthquakePaths []string, explosionPath string, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		earthquakePaths: earthquakePaths,
		explosionPath:   explosionPath,
		logger:          logger,
		metrics:         metrics,
	}
}

// Extract reads every catalog, concatenates the earthquake files, and sorts
// both lists by time. The first unreadable file or malformed row aborts the load.
func (l *Loader) Extract(ctx context.Context) (domain.Catalog, error) {
	var quakes []domain.EarthquakeEvent
	for _, path := range l.earthquakePaths {
		if err := ctx.Err(); err != nil {
			return domain.Catalog{}, err
		}
		recs, err := ReadRecords(path, EarthquakeColumns)
		if err != nil {
			return domain.Catalog{}, err
		}
		for _, rec := range recs {
			ev, err := domain.ParseEarthquake(rec)
			if err != nil {
				return domain.Catalog{}, err
			}
			quakes = append(quakes, ev)
		}
		l.metrics.FilesRead.Inc()
		l.logger.Debug("earthquake catalog read", "path", path, "rows", len(recs))
	}

	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, err
	}
	recs, err := ReadRecords(l.explosionPath, ExplosionColumns)
	if err != nil {
		return domain.Catalog{}, err
	}
	explosions := make([]domain.ExplosionEvent, 0, len(recs))
	for _, rec := range recs {
		ev, err := domain.ParseExplosion(rec)
		if err != nil {
			return domain.Catalog{}, err
		}
		explosions = append(explosions, ev)
	}
	l.metrics.FilesRead.Inc()

	sort.SliceStable(quakes, func(i, j int) bool { return quakes[i].Time.Before(quakes[j].Time) })
	sort.SliceStable(explosions, func(i, j int) bool { return explosions[i].Time.Before(explosions[j].Time) })

	l.metrics.EventsLoaded.WithLabelValues("earthquake").Add(float64(len(quakes)))
	l.metrics.EventsLoaded.WithLabelValues("explosion").Add(float64(len(explosions)))
	l.logger.Info("catalog loaded",
		"earthquakes", len(quakes),
		"explosions", len(explosions),
		"files", len(l.earthquakePaths)+1,
	)

	return domain.Catalog{Earthquakes: quakes, Explosions: explosions}, nil
}

// ReadRecords reads a catalog CSV and returns one RawCSVRecord per data row.
// Columns are matched by header name; required lists the columns that must be
// present. Columns missing from required but present in the file are still read.
func ReadRecords(path string, required []string) ([]domain.RawCSVRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	recs, err := readRecords(f, path, required)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return recs, nil
}

func readRecords(r io.Reader, source string, required []string) ([]domain.RawCSVRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, err
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var recs []domain.RawCSVRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)
		recs = append(recs, domain.RawCSVRecord{
			Time:      get(row, colIdx, "time"),
			Depth:     get(row, colIdx, "depth"),
			Mag:       get(row, colIdx, "mag"),
			MagType:   get(row, colIdx, "magType"),
			Latitude:  get(row, colIdx, "latitude"),
			Longitude: get(row, colIdx, "longitude"),
			Source:    source,
			Line:      line,
		})
	}
	return recs, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
