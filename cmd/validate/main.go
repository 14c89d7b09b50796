// Command validate checks a Kilauea catalog before analysis: that every
// configured file is present with the expected columns, every row parses,
// explosions are ordered, the explosion sets partition the earthquakes, and
// each set has events at every completeness magnitude.
//
// Paths and thresholds come from the same environment variables as the
// kilauea binary; -catalog-dir and -first-explosion override them.
//
// Usage:
//
//	go run ./cmd/validate -catalog-dir data
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/couchcryptid/kilauea-seismicity/internal/adapter/csvfile"
	"github.com/couchcryptid/kilauea-seismicity/internal/analysis"
	"github.com/couchcryptid/kilauea-seismicity/internal/config"
	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	catalogDir := flag.String("catalog-dir", "", "directory holding the catalog CSVs (overrides CATALOG_DIR)")
	firstExplosion := flag.Int("first-explosion", -1, "index of the explosion that opens set 1 (overrides FIRST_EXPLOSION_INDEX)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		os.Exit(1)
	}
	if *catalogDir != "" {
		cfg.CatalogDir = *catalogDir
	}
	if *firstExplosion >= 0 {
		cfg.FirstExplosionIndex = *firstExplosion
	}

	os.Exit(run(cfg, os.Stdout))
}

func run(cfg *config.Config, w io.Writer) int {
	fmt.Fprintln(w, "=== Kilauea Catalog Validation ===")
	fmt.Fprintln(w)

	files, quakeRecs, explosionRecs := validateFiles(cfg)
	rows, cat := validateRows(quakeRecs, explosionRecs)
	order := validateExplosionOrder(cat.Explosions)

	phases := []*phase{files, rows, order}

	// Later phases need a usable partition.
	bounds, err := analysis.Boundaries(sortedExplosions(cat.Explosions), cfg.FirstExplosionIndex)
	if err != nil {
		order.errorf("boundaries: %v", err)
	} else {
		quakes, err := analysis.Partition(cat.Earthquakes, bounds)
		if err != nil {
			order.errorf("partition: %v", err)
		} else {
			phases = append(phases,
				validatePartition(cat.Earthquakes, quakes, bounds),
				validateCoverage(quakes, bounds, cfg.CompletenessMagnitudes),
			)
		}
	}

	fmt.Fprintln(w)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d earthquakes in %d files, %d explosions\n",
		len(quakeRecs), len(cfg.EarthquakeFiles), len(explosionRecs))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Files ──
// Every configured file exists and carries the required columns.

func validateFiles(cfg *config.Config) (*phase, []domain.RawCSVRecord, []domain.RawCSVRecord) {
	p := &phase{name: "Phase 1: Files and headers"}

	var quakes []domain.RawCSVRecord
	for _, path := range cfg.EarthquakePaths() {
		recs, err := csvfile.ReadRecords(path, csvfile.EarthquakeColumns)
		if err != nil {
			p.errorf("%v", err)
			continue
		}
		if len(recs) == 0 {
			p.errorf("%s: no data rows", path)
		}
		quakes = append(quakes, recs...)
	}

	explosions, err := csvfile.ReadRecords(cfg.ExplosionPath(), csvfile.ExplosionColumns)
	if err != nil {
		p.errorf("%v", err)
	} else if len(explosions) == 0 {
		p.errorf("%s: no data rows", cfg.ExplosionPath())
	}
	return p, quakes, explosions
}

// ── Phase 2: Rows ──
// Every row parses into an event.

func validateRows(quakeRecs, explosionRecs []domain.RawCSVRecord) (*phase, domain.Catalog) {
	p := &phase{name: "Phase 2: Parseable rows"}

	var cat domain.Catalog
	for _, rec := range quakeRecs {
		ev, err := domain.ParseEarthquake(rec)
		if err != nil {
			p.errorf("%v", err)
			continue
		}
		cat.Earthquakes = append(cat.Earthquakes, ev)
	}
	for _, rec := range explosionRecs {
		ev, err := domain.ParseExplosion(rec)
		if err != nil {
			p.errorf("%v", err)
			continue
		}
		cat.Explosions = append(cat.Explosions, ev)
	}
	return p, cat
}

// ── Phase 3: Explosions ──
// The explosion file is in time order without duplicates, and the first
// explosion index leaves at least one boundary.

func validateExplosionOrder(explosions []domain.ExplosionEvent) *phase {
	p := &phase{name: "Phase 3: Explosion ordering"}

	for i := 1; i < len(explosions); i++ {
		prev, cur := explosions[i-1].Time, explosions[i].Time
		switch {
		case cur.Equal(prev):
			p.errorf("explosion at %s is duplicated", cur.Format(time.RFC3339))
		case cur.Before(prev):
			p.errorf("explosion at %s precedes the one before it (%s)", cur.Format(time.RFC3339), prev.Format(time.RFC3339))
		}
	}
	return p
}

// sortedExplosions returns explosions ordered by time, as the loader does.
func sortedExplosions(explosions []domain.ExplosionEvent) []domain.ExplosionEvent {
	out := slices.Clone(explosions)
	slices.SortStableFunc(out, func(a, b domain.ExplosionEvent) int { return a.Time.Compare(b.Time) })
	return out
}

// ── Phase 4: Partition ──
// Every earthquake lands in exactly one half-open interval and the set counts
// add up to the catalog size.

func validatePartition(original, partitioned []domain.EarthquakeEvent, bounds []time.Time) *phase {
	p := &phase{name: "Phase 4: Partition invariant"}

	if len(original) != len(partitioned) {
		p.errorf("partition returned %d events for %d inputs", len(partitioned), len(original))
	}

	n := analysis.SetCount(bounds)
	for _, q := range partitioned {
		matches := 0
		for id := 0; id < n; id++ {
			if inSet(q.Time, id, bounds) {
				matches++
				if id != q.SetID {
					p.errorf("earthquake at %s assigned set %d, interval says %d", q.Time.Format(time.RFC3339Nano), q.SetID, id)
				}
			}
		}
		if matches != 1 {
			p.errorf("earthquake at %s falls in %d sets", q.Time.Format(time.RFC3339Nano), matches)
		}
	}

	total := 0
	for _, s := range analysis.Summarize(partitioned, bounds) {
		total += s.Count
	}
	if total != len(partitioned) {
		p.errorf("set counts sum to %d, catalog has %d earthquakes", total, len(partitioned))
	}
	return p
}

// inSet reports whether t lies in [bounds[id-1], bounds[id]).
func inSet(t time.Time, id int, bounds []time.Time) bool {
	if id > 0 && t.Before(bounds[id-1]) {
		return false
	}
	if id < len(bounds) && !t.Before(bounds[id]) {
		return false
	}
	return true
}

// ── Phase 5: Coverage ──
// Every set present in the catalog has events at every completeness magnitude.

func validateCoverage(quakes []domain.EarthquakeEvent, bounds []time.Time, mcs []float64) *phase {
	p := &phase{name: "Phase 5: Completeness coverage"}

	for _, s := range analysis.Summarize(quakes, bounds) {
		if s.Count == 0 {
			continue
		}
		for _, mc := range mcs {
			if s.MaxMagnitude < mc {
				p.errorf("set %d (%s): no events at or above Mc %.1f (max %.2f)", s.ID, s.Label, mc, s.MaxMagnitude)
			}
		}
	}
	return p
}
