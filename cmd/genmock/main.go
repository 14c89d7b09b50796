// Command genmock writes a deterministic synthetic Kilauea catalog in the
// ComCat CSV layout read by the kilauea binary: four monthly earthquake files
// and one explosion file. Magnitudes follow a Gutenberg-Richter distribution
// and explosions recur every 26-38 hours from mid May to early August.
//
// Usage:
//
//	go run ./cmd/genmock -out data -seed 2018 -html data/kilauea_2018_mock.html
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/couchcryptid/kilauea-seismicity/internal/adapter/csvfile"
	"github.com/couchcryptid/kilauea-seismicity/internal/adapter/report"
	"github.com/couchcryptid/kilauea-seismicity/internal/adapter/vegalite"
	"github.com/couchcryptid/kilauea-seismicity/internal/analysis"
	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
	"github.com/jonboulle/clockwork"
)

var (
	catalogStart = time.Date(2018, time.May, 1, 0, 0, 0, 0, time.UTC)
	catalogEnd   = time.Date(2018, time.September, 1, 0, 0, 0, 0, time.UTC)

	firstExplosion = time.Date(2018, time.May, 17, 4, 15, 0, 0, time.UTC)
	lastExplosion  = time.Date(2018, time.August, 2, 0, 0, 0, 0, time.UTC)

	// Halemaumau crater.
	summitLat, summitLon = 19.4069, -155.2834
)

// params controls the synthetic catalog.
type params struct {
	seed         uint64
	bValue       float64 // Gutenberg-Richter slope of generated magnitudes
	minMagnitude float64
	hourlyRate   float64 // mean earthquakes per hour
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "data", "directory for the generated CSV files")
	htmlOut := flag.String("html", "", "optional path for a dashboard rendered from the generated catalog")
	seed := flag.Uint64("seed", 2018, "random seed")
	bValue := flag.Float64("b", 1.0, "Gutenberg-Richter b-value of generated magnitudes")
	rate := flag.Float64("rate", 6, "mean earthquakes per hour")
	flag.Parse()

	// Fixed clock so the rendered dashboard is byte-for-byte reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2018, time.September, 1, 0, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	cat := generate(params{seed: *seed, bValue: *bValue, minMagnitude: 1.5, hourlyRate: *rate})

	if err := writeCatalog(*outDir, cat); err != nil {
		return err
	}
	log.Printf("wrote %d earthquakes and %d explosions to %s", len(cat.Earthquakes), len(cat.Explosions), *outDir)

	res, err := analysis.Analyze(cat, 0, analysis.DefaultCompleteness)
	if err != nil {
		return fmt.Errorf("generated catalog does not analyze cleanly: %w", err)
	}

	if *htmlOut != "" {
		dashboard := vegalite.NewWriter(*htmlOut, vegalite.DefaultTitle+" (synthetic)", slog.Default())
		if err := dashboard.Load(context.Background(), res); err != nil {
			return err
		}
		log.Printf("wrote dashboard: %s", dashboard.Path())
	}

	fmt.Println("\n=== Synthetic catalog ===")
	report.Sets(os.Stdout, res.Sets)
	return nil
}

// generate builds the synthetic catalog for p. Equal seeds give equal catalogs.
func generate(p params) domain.Catalog {
	rng := rand.New(rand.NewPCG(p.seed, p.seed^0x9e3779b97f4a7c15))

	var explosions []domain.ExplosionEvent
	for t := firstExplosion; t.Before(lastExplosion); t = t.Add(jitter(rng, 26*time.Hour, 38*time.Hour)) {
		explosions = append(explosions, domain.ExplosionEvent{
			Time:      t.Truncate(time.Millisecond),
			Depth:     round(0.2+rng.Float64()*0.8, 2),
			Magnitude: round(5.0+rng.Float64()*0.4, 1),
		})
	}

	var quakes []domain.EarthquakeEvent
	meanGap := float64(time.Hour) / p.hourlyRate
	for t := catalogStart; ; {
		t = t.Add(time.Duration(rng.ExpFloat64() * meanGap))
		if !t.Before(catalogEnd) {
			break
		}
		quakes = append(quakes, domain.EarthquakeEvent{
			Time:          t.Truncate(time.Millisecond),
			Depth:         round(rng.Float64()*3, 2),
			Magnitude:     round(grMagnitude(rng, p.minMagnitude, p.bValue), 2),
			MagnitudeType: magnitudeType(rng),
			Latitude:      round(summitLat+rng.NormFloat64()*0.01, 4),
			Longitude:     round(summitLon+rng.NormFloat64()*0.01, 4),
		})
	}

	return domain.Catalog{Earthquakes: quakes, Explosions: explosions}
}

// grMagnitude draws from an exponential magnitude distribution above minMag,
// which is the Gutenberg-Richter law with slope b.
func grMagnitude(rng *rand.Rand, minMag, b float64) float64 {
	return minMag - math.Log10(1-rng.Float64())/b
}

func magnitudeType(rng *rand.Rand) string {
	if rng.IntN(10) < 7 {
		return "ml"
	}
	return "md"
}

func jitter(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	return lo + time.Duration(rng.Int64N(int64(hi-lo)))
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// writeCatalog splits earthquakes into kilauea_2018_MM.csv files by month.
func writeCatalog(dir string, cat domain.Catalog) error {
	byMonth := map[time.Month][]domain.EarthquakeEvent{}
	for _, q := range cat.Earthquakes {
		byMonth[q.Time.Month()] = append(byMonth[q.Time.Month()], q)
	}

	months := make([]time.Month, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	for _, m := range months {
		path := filepath.Join(dir, fmt.Sprintf("kilauea_2018_%02d.csv", int(m)))
		if err := csvfile.WriteEarthquakes(path, byMonth[m]); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("%s: %d earthquakes", m, len(byMonth[m]))
	}

	path := filepath.Join(dir, "kilauea_2018_explosions.csv")
	if err := csvfile.WriteExplosions(path, cat.Explosions); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
