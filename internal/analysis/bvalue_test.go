package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletenessRange(t *testing.T) {
	assert.Equal(t, []float64{1.8, 1.9, 2.0, 2.1, 2.2, 2.3, 2.4}, DefaultCompleteness)
	assert.Equal(t, []float64{2.0}, CompletenessRange(20, 20))
	assert.Nil(t, CompletenessRange(21, 20))
}

func TestEstimateB_ConstantMagnitudes(t *testing.T) {
	tests := []struct {
		name  string
		mc    float64
		delta float64
		n     int
	}{
		{"at threshold", 1.8, 0, 10},
		{"above threshold", 2.0, 0.35, 25},
		{"single event", 2.4, 0.1, 1},
		{"large sample", 1.9, 0.45, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mags := make([]float64, tt.n)
			for i := range mags {
				mags[i] = tt.mc + tt.delta
			}

			est, err := EstimateB(mags, tt.mc)
			require.NoError(t, err)

			wantB := math.Log10E / (tt.delta + 0.05)
			assert.Equal(t, tt.n, est.N)
			assert.InDelta(t, tt.mc+tt.delta, est.MeanMagnitude, 1e-12)
			assert.InDelta(t, wantB, est.B, 1e-9)
			assert.Equal(t, est.B/math.Sqrt(float64(tt.n)), est.BError)
			assert.InDelta(t, math.Log10(float64(tt.n))-est.B*tt.mc, est.A, 1e-12)
		})
	}
}

func TestEstimateB_IgnoresBelowThreshold(t *testing.T) {
	est, err := EstimateB([]float64{1.0, 1.5, 2.0, 2.2, 2.4}, 2.0)
	require.NoError(t, err)

	assert.Equal(t, 3, est.N)
	assert.InDelta(t, 2.2, est.MeanMagnitude, 1e-12)
	assert.InDelta(t, math.Log10E/(2.2-1.95), est.B, 1e-9)
}

func TestEstimateB_NoEvents(t *testing.T) {
	_, err := EstimateB([]float64{1.0, 1.7}, 1.8)
	require.ErrorIs(t, err, ErrNoEvents)

	_, err = EstimateB(nil, 1.8)
	require.ErrorIs(t, err, ErrNoEvents)
}

func TestEstimateBValues(t *testing.T) {
	quakes := []domain.EarthquakeEvent{
		{SetID: 0, Magnitude: 2.0},
		{SetID: 0, Magnitude: 2.4},
		{SetID: 1, Magnitude: 2.5},
		{SetID: 1, Magnitude: 2.9},
		{SetID: 1, Magnitude: 3.3},
	}

	got, err := EstimateBValues(quakes, []float64{1.8, 2.0})
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, 0, got[0].SetID)
	assert.InDelta(t, 1.8, got[0].Completeness, 1e-12)
	assert.Equal(t, 2, got[0].N)
	assert.Equal(t, 0, got[1].SetID)
	assert.InDelta(t, 2.0, got[1].Completeness, 1e-12)
	assert.Equal(t, 1, got[2].SetID)
	assert.Equal(t, 3, got[3].N)
	assert.InDelta(t, 2.9, got[3].MeanMagnitude, 1e-12)
}

func TestEstimateBValues_SkipsEmptySets(t *testing.T) {
	quakes := []domain.EarthquakeEvent{
		{SetID: 0, Magnitude: 2.2},
		{SetID: 2, Magnitude: 2.6},
	}

	got, err := EstimateBValues(quakes, []float64{2.0})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].SetID)
	assert.Equal(t, 2, got[1].SetID)
}

func TestEstimateBValues_ReportsOffendingPair(t *testing.T) {
	quakes := []domain.EarthquakeEvent{
		{SetID: 0, Magnitude: 2.6},
		{SetID: 3, Magnitude: 1.9},
		{SetID: 3, Magnitude: 2.05},
	}

	got, err := EstimateBValues(quakes, DefaultCompleteness)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, errors.Is(err, ErrNoEvents))

	var estErr *EstimateError
	require.ErrorAs(t, err, &estErr)
	assert.Equal(t, 3, estErr.SetID)
	assert.InDelta(t, 2.1, estErr.Completeness, 1e-12)
	assert.Contains(t, err.Error(), "set 3")
	assert.Contains(t, err.Error(), "Mc 2.1")
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 1.23, Round2(1.2349), 1e-12)
	assert.InDelta(t, 1.24, Round2(1.2351), 1e-12)
	assert.InDelta(t, -0.5, Round2(-0.499), 1e-12)
}
