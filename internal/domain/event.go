package domain

import "time"

// RawCSVRecord holds the catalog columns of one CSV row before parsing.
// Explosion catalogs leave MagType, Latitude and Longitude empty.
type RawCSVRecord struct {
	Time      string `json:"time"`
	Depth     string `json:"depth"`
	Mag       string `json:"mag"`
	MagType   string `json:"magType"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`

	// Source and Line locate the row for diagnostics.
	Source string `json:"-"`
	Line   int    `json:"-"`
}

// EarthquakeEvent is a parsed catalog earthquake. SetID is assigned once by
// the partitioner; events are treated as values and never mutated in place.
type EarthquakeEvent struct {
	Time          time.Time `json:"time"`
	Depth         float64   `json:"depth"`
	Magnitude     float64   `json:"mag"`
	MagnitudeType string    `json:"magType"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	SetID         int       `json:"set_id"`
}

// ExplosionEvent is an explosive summit event. Explosion times bound the sets.
type ExplosionEvent struct {
	Time      time.Time `json:"time"`
	Depth     float64   `json:"depth"`
	Magnitude float64   `json:"mag"`
}

// Catalog is the loaded input: earthquakes and explosions, each sorted by time.
type Catalog struct {
	Earthquakes []EarthquakeEvent
	Explosions  []ExplosionEvent
}
