package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
)

// ErrNoEvents is returned when no event reaches the completeness magnitude,
// leaving the mean magnitude and b-value undefined.
var ErrNoEvents = errors.New("no events at or above completeness magnitude")

// EstimateError identifies the set and threshold an estimate failed for.
type EstimateError struct {
	SetID        int
	Completeness float64
	Err          error
}

func (e *EstimateError) Error() string {
	return fmt.Sprintf("b-value for set %d at Mc %.1f: %v", e.SetID, e.Completeness, e.Err)
}

func (e *EstimateError) Unwrap() error { return e.Err }

// Estimate is a Gutenberg-Richter fit of one magnitude sample at one
// completeness magnitude.
type Estimate struct {
	Completeness  float64 `json:"completeness_magnitude"`
	N             int     `json:"n"`
	MeanMagnitude float64 `json:"mean_mag"`
	B             float64 `json:"b_value"`
	BError        float64 `json:"b_value_error"`
	A             float64 `json:"a_value"`
}

// BValueEstimate is an Estimate for one set.
type BValueEstimate struct {
	SetID int `json:"set_id"`
	Estimate
}

// DefaultCompleteness are the thresholds evaluated when none are configured.
var DefaultCompleteness = CompletenessRange(18, 24)

// CompletenessRange returns thresholds from fromTenths to toTenths inclusive,
// in steps of 0.1. Building them from integers keeps 1.9 equal to a parsed "1.9".
func CompletenessRange(fromTenths, toTenths int) []float64 {
	if toTenths < fromTenths {
		return nil
	}
	out := make([]float64, 0, toTenths-fromTenths+1)
	for t := fromTenths; t <= toTenths; t++ {
		out = append(out, BinMagnitude(t))
	}
	return out
}

// EstimateB fits the magnitudes at or above mc.
func EstimateB(mags []float64, mc float64) (Estimate, error) {
	n := 0
	sum := 0.0
	for _, m := range mags {
		if m >= mc {
			n++
			sum += m
		}
	}
	if n == 0 {
		return Estimate{}, ErrNoEvents
	}

	mean := sum / float64(n)
	b := math.Log10E / (mean - (mc - BinWidth/2))
	return Estimate{
		Completeness:  mc,
		N:             n,
		MeanMagnitude: mean,
		B:             b,
		BError:        b / math.Sqrt(float64(n)),
		A:             math.Log10(float64(n)) - b*mc,
	}, nil
}

// EstimateBValues fits every set present in quakes at every threshold in mcs.
// A set with no earthquakes at all, such as two explosions with nothing
// between them, is never estimated and does not appear in the result.
// It stops at the first (set, threshold) pair with no qualifying events and
// returns an *EstimateError naming it. Results are ordered by set, then mcs.
func EstimateBValues(quakes []domain.EarthquakeEvent, mcs []float64) ([]BValueEstimate, error) {
	bySet := make(map[int][]float64)
	for _, q := range quakes {
		bySet[q.SetID] = append(bySet[q.SetID], q.Magnitude)
	}

	out := make([]BValueEstimate, 0, len(bySet)*len(mcs))
	for _, setID := range sortedKeys(bySet) {
		for _, mc := range mcs {
			est, err := EstimateB(bySet[setID], mc)
			if err != nil {
				return nil, &EstimateError{SetID: setID, Completeness: mc, Err: err}
			}
			out = append(out, BValueEstimate{SetID: setID, Estimate: est})
		}
	}
	return out, nil
}

// Round2 rounds v to two decimals for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
