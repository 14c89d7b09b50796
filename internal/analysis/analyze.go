package analysis

import (
	"errors"
	"time"

	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
)

// ErrEmptyCatalog is returned when there are no earthquakes to analyze.
var ErrEmptyCatalog = errors.New("catalog has no earthquakes")

// Result holds every table derived from one catalog.
type Result struct {
	Earthquakes        []domain.EarthquakeEvent // partitioned, time order
	Explosions         []domain.ExplosionEvent  // all explosions, including those before the first boundary
	Boundaries         []time.Time
	Sets               []Set
	FrequencyMagnitude []FrequencyMagnitudeRow
	BValues            []BValueEstimate
}

// Analyze partitions the catalog at explosions[firstExplosion:] and computes
// the frequency-magnitude table and b-values at each completeness magnitude.
func Analyze(cat domain.Catalog, firstExplosion int, mcs []float64) (Result, error) {
	if len(cat.Earthquakes) == 0 {
		return Result{}, ErrEmptyCatalog
	}

	bounds, err := Boundaries(cat.Explosions, firstExplosion)
	if err != nil {
		return Result{}, err
	}
	quakes, err := Partition(cat.Earthquakes, bounds)
	if err != nil {
		return Result{}, err
	}
	bvalues, err := EstimateBValues(quakes, mcs)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Earthquakes:        quakes,
		Explosions:         cat.Explosions,
		Boundaries:         bounds,
		Sets:               Summarize(quakes, bounds),
		FrequencyMagnitude: FrequencyMagnitude(quakes),
		BValues:            bvalues,
	}, nil
}
