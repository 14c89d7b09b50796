package analysis

import (
	"math"
	"sort"

	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
)

// BinWidth is the magnitude bin width used for counting and for the b-value
// half-bin correction.
const BinWidth = 0.1

// MagnitudeBin returns the 0.1 bin of mag in integer tenths. Ties round to
// even, matching the rounding of the published catalog summaries.
func MagnitudeBin(mag float64) int {
	return int(math.RoundToEven(mag * 10))
}

// BinMagnitude converts a bin in tenths back to a magnitude.
func BinMagnitude(bin int) float64 {
	return float64(bin) / 10
}

// FrequencyMagnitudeRow is one magnitude bin of one set.
type FrequencyMagnitudeRow struct {
	SetID                     int     `json:"set_id"`
	Magnitude                 float64 `json:"mag"`
	Count                     int     `json:"count"`
	CumulativeCount           int     `json:"cumulative_count"`
	NormalizedCount           float64 `json:"normalized_count"`
	NormalizedCumulativeCount float64 `json:"normalized_cumulative_count"`
}

// FrequencyMagnitude bins partitioned earthquakes by set and rounded magnitude.
// Per set, counts are normalized by the largest bin and the reverse-cumulative
// counts (this bin and every larger one) by the set total. Only occupied bins
// are reported. Rows are ordered by set, then magnitude.
func FrequencyMagnitude(quakes []domain.EarthquakeEvent) []FrequencyMagnitudeRow {
	counts := make(map[int]map[int]int)
	for _, q := range quakes {
		bins, ok := counts[q.SetID]
		if !ok {
			bins = make(map[int]int)
			counts[q.SetID] = bins
		}
		bins[MagnitudeBin(q.Magnitude)]++
	}

	var rows []FrequencyMagnitudeRow
	for _, setID := range sortedKeys(counts) {
		rows = append(rows, setFrequencyMagnitude(setID, counts[setID])...)
	}
	return rows
}

func setFrequencyMagnitude(setID int, bins map[int]int) []FrequencyMagnitudeRow {
	keys := sortedKeys(bins)

	maxCount, total := 0, 0
	for _, c := range bins {
		total += c
		if c > maxCount {
			maxCount = c
		}
	}

	rows := make([]FrequencyMagnitudeRow, len(keys))
	cumulative := 0
	for i := len(keys) - 1; i >= 0; i-- {
		c := bins[keys[i]]
		cumulative += c
		rows[i] = FrequencyMagnitudeRow{
			SetID:                     setID,
			Magnitude:                 BinMagnitude(keys[i]),
			Count:                     c,
			CumulativeCount:           cumulative,
			NormalizedCount:           float64(c) / float64(maxCount),
			NormalizedCumulativeCount: float64(cumulative) / float64(total),
		}
	}
	return rows
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
