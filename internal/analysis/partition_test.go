package analysis

import (
	"testing"
	"time"

	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2018, time.June, 1, 0, 0, 0, 0, time.UTC)

func at(hours float64) time.Time {
	return t0.Add(time.Duration(hours * float64(time.Hour)))
}

func explosionsAt(hours ...float64) []domain.ExplosionEvent {
	out := make([]domain.ExplosionEvent, len(hours))
	for i, h := range hours {
		out[i] = domain.ExplosionEvent{Time: at(h), Magnitude: 5.3}
	}
	return out
}

func quakesAt(hours ...float64) []domain.EarthquakeEvent {
	out := make([]domain.EarthquakeEvent, len(hours))
	for i, h := range hours {
		out[i] = domain.EarthquakeEvent{Time: at(h), Magnitude: 2.0}
	}
	return out
}

func setIDs(quakes []domain.EarthquakeEvent) []int {
	ids := make([]int, len(quakes))
	for i, q := range quakes {
		ids[i] = q.SetID
	}
	return ids
}

func TestBoundaries(t *testing.T) {
	ex := explosionsAt(1, 2, 3, 4)

	t.Run("from start", func(t *testing.T) {
		b, err := Boundaries(ex, 0)
		require.NoError(t, err)
		assert.Equal(t, []time.Time{at(1), at(2), at(3), at(4)}, b)
	})

	t.Run("from index", func(t *testing.T) {
		b, err := Boundaries(ex, 2)
		require.NoError(t, err)
		assert.Equal(t, []time.Time{at(3), at(4)}, b)
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := Boundaries(ex, 4)
		require.ErrorIs(t, err, ErrNoBoundaries)

		_, err = Boundaries(ex, -1)
		require.ErrorIs(t, err, ErrNoBoundaries)
	})

	t.Run("no explosions", func(t *testing.T) {
		_, err := Boundaries(nil, 0)
		require.ErrorIs(t, err, ErrNoBoundaries)
	})

	t.Run("unsorted", func(t *testing.T) {
		_, err := Boundaries(explosionsAt(1, 3, 2), 0)
		require.ErrorIs(t, err, ErrUnsorted)
	})
}

func TestSetFor(t *testing.T) {
	bounds := []time.Time{at(10), at(20), at(30)}

	tests := []struct {
		name  string
		hours float64
		want  int
	}{
		{"before first boundary", 5, 0},
		{"on first boundary", 10, 1},
		{"inside first interval", 15, 1},
		{"just before second boundary", 19.999, 1},
		{"on second boundary", 20, 2},
		{"on last boundary", 30, 3},
		{"after last boundary", 100, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SetFor(at(tt.hours), bounds))
		})
	}

	assert.Equal(t, 0, SetFor(at(1), nil))
}

func TestPartition_InterleavedTimes(t *testing.T) {
	// T0 < T0.5 < T1 < T1.5 < T2
	quakes := quakesAt(0, 1, 2)
	bounds := []time.Time{at(0.5), at(1.5)}

	got, err := Partition(quakes, bounds)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, setIDs(got))
	assert.Equal(t, []int{0, 0, 0}, setIDs(quakes), "input must not be modified")
}

func TestPartition_EveryEventInExactlyOneSet(t *testing.T) {
	bounds := []time.Time{at(3), at(7), at(7.5), at(12)}
	var hours []float64
	for h := 0.0; h < 15; h += 0.25 {
		hours = append(hours, h)
	}
	quakes := quakesAt(hours...)

	got, err := Partition(quakes, bounds)
	require.NoError(t, err)
	require.Len(t, got, len(quakes))

	for _, q := range got {
		matches := 0
		for id := 0; id < SetCount(bounds); id++ {
			var lo, hi time.Time
			if id > 0 {
				lo = bounds[id-1]
			}
			if id < len(bounds) {
				hi = bounds[id]
			}
			inLower := id == 0 || !q.Time.Before(lo)
			inUpper := id == len(bounds) || q.Time.Before(hi)
			if inLower && inUpper {
				matches++
				assert.Equal(t, id, q.SetID, "event at %s", q.Time)
			}
		}
		assert.Equal(t, 1, matches, "event at %s", q.Time)
	}

	summary := Summarize(got, bounds)
	total := 0
	for _, s := range summary {
		total += s.Count
	}
	assert.Equal(t, len(quakes), total)
}

func TestPartition_Sorted(t *testing.T) {
	got, err := Partition(quakesAt(0, 1, 2, 3, 4, 5), []time.Time{at(1), at(4)})
	require.NoError(t, err)

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].SetID, got[i].SetID)
	}
}

func TestPartition_UnsortedBoundaries(t *testing.T) {
	_, err := Partition(quakesAt(0), []time.Time{at(2), at(1)})
	require.ErrorIs(t, err, ErrUnsorted)
}

func TestSummarize(t *testing.T) {
	bounds := []time.Time{at(10), at(20)}
	quakes := []domain.EarthquakeEvent{
		{Time: at(1), Magnitude: 1.2},
		{Time: at(2), Magnitude: 2.6},
		{Time: at(25), Magnitude: 3.1},
	}
	parted, err := Partition(quakes, bounds)
	require.NoError(t, err)

	want := []Set{
		{ID: 0, Label: "before regular pattern", End: at(10), Count: 2, MinMagnitude: 1.2, MaxMagnitude: 2.6},
		{ID: 1, Label: "set 1", Start: at(10), End: at(20)},
		{ID: 2, Label: "after last explosion", Start: at(20), Count: 1, MinMagnitude: 3.1, MaxMagnitude: 3.1},
	}
	if diff := cmp.Diff(want, Summarize(parted, bounds)); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}
