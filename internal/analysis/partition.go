package analysis

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
)

var (
	// ErrUnsorted is returned when explosion boundaries are not in time order.
	ErrUnsorted = errors.New("explosions not sorted by time")

	// ErrNoBoundaries is returned when the starting explosion index leaves no
	// explosion to partition on.
	ErrNoBoundaries = errors.New("no explosion boundaries")
)

// Boundaries returns the explosion times from index first onward. Explosions
// before first are part of the irregular lead-up and do not open a set.
func Boundaries(explosions []domain.ExplosionEvent, first int) ([]time.Time, error) {
	if first < 0 || first >= len(explosions) {
		return nil, fmt.Errorf("%w: first explosion index %d, %d explosions loaded", ErrNoBoundaries, first, len(explosions))
	}

	bounds := make([]time.Time, 0, len(explosions)-first)
	for i, ex := range explosions[first:] {
		if i > 0 && ex.Time.Before(bounds[i-1]) {
			return nil, fmt.Errorf("%w: explosion %d at %s precedes %s",
				ErrUnsorted, first+i, ex.Time.Format(time.RFC3339), bounds[i-1].Format(time.RFC3339))
		}
		bounds = append(bounds, ex.Time)
	}
	return bounds, nil
}

// SetFor returns the set of an event at t: the number of boundaries at or
// before t. Intervals are half-open, so an event exactly on a boundary opens
// the later set.
func SetFor(t time.Time, boundaries []time.Time) int {
	return sort.Search(len(boundaries), func(i int) bool {
		return boundaries[i].After(t)
	})
}

// SetCount is the number of sets produced by the given boundaries, including
// set 0 and the set after the last explosion.
func SetCount(boundaries []time.Time) int {
	return len(boundaries) + 1
}

// Partition returns a copy of quakes with SetID assigned from boundaries,
// which must be sorted. The input slice is not modified.
func Partition(quakes []domain.EarthquakeEvent, boundaries []time.Time) ([]domain.EarthquakeEvent, error) {
	for i := 1; i < len(boundaries); i++ {
		if boundaries[i].Before(boundaries[i-1]) {
			return nil, fmt.Errorf("%w: boundary %d", ErrUnsorted, i)
		}
	}

	out := make([]domain.EarthquakeEvent, len(quakes))
	for i, q := range quakes {
		q.SetID = SetFor(q.Time, boundaries)
		out[i] = q
	}
	return out, nil
}

// Set describes one time interval and the earthquakes that fell in it.
type Set struct {
	ID           int       `json:"set_id"`
	Label        string    `json:"label"`
	Start        time.Time `json:"start,omitzero"` // zero for set 0
	End          time.Time `json:"end,omitzero"`   // zero for the last set
	Count        int       `json:"count"`
	MinMagnitude float64   `json:"min_mag"`
	MaxMagnitude float64   `json:"max_mag"`
}

// Summarize reports every set implied by boundaries, including empty ones.
// quakes must already be partitioned against the same boundaries.
func Summarize(quakes []domain.EarthquakeEvent, boundaries []time.Time) []Set {
	n := SetCount(boundaries)
	sets := make([]Set, n)
	for id := range sets {
		s := Set{ID: id, Label: setLabel(id, n)}
		if id > 0 {
			s.Start = boundaries[id-1]
		}
		if id < len(boundaries) {
			s.End = boundaries[id]
		}
		sets[id] = s
	}

	for _, q := range quakes {
		if q.SetID < 0 || q.SetID >= n {
			continue
		}
		s := &sets[q.SetID]
		if s.Count == 0 || q.Magnitude < s.MinMagnitude {
			s.MinMagnitude = q.Magnitude
		}
		if s.Count == 0 || q.Magnitude > s.MaxMagnitude {
			s.MaxMagnitude = q.Magnitude
		}
		s.Count++
	}
	return sets
}

func setLabel(id, n int) string {
	switch {
	case id == 0:
		return "before regular pattern"
	case id == n-1:
		return "after last explosion"
	default:
		return fmt.Sprintf("set %d", id)
	}
}
