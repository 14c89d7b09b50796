package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedRecord marks a catalog row that cannot be parsed.
var ErrMalformedRecord = errors.New("malformed catalog record")

// timeLayouts are tried in order. ComCat exports use the first; the others
// cover spreadsheet round-trips that drop the "T" and "Z".
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseEarthquake converts a raw row into an EarthquakeEvent. Every numeric
// column is required; a blank or unparseable value is an error rather than zero.
func ParseEarthquake(rec RawCSVRecord) (EarthquakeEvent, error) {
	t, err := ParseTimestamp(rec.Time)
	if err != nil {
		return EarthquakeEvent{}, recordError(rec, "time", err)
	}
	depth, err := parseRequiredFloat(rec.Depth)
	if err != nil {
		return EarthquakeEvent{}, recordError(rec, "depth", err)
	}
	mag, err := parseRequiredFloat(rec.Mag)
	if err != nil {
		return EarthquakeEvent{}, recordError(rec, "mag", err)
	}
	lat, err := parseRequiredFloat(rec.Latitude)
	if err != nil {
		return EarthquakeEvent{}, recordError(rec, "latitude", err)
	}
	if lat < -90 || lat > 90 {
		return EarthquakeEvent{}, recordError(rec, "latitude", fmt.Errorf("%g out of range", lat))
	}
	lon, err := parseRequiredFloat(rec.Longitude)
	if err != nil {
		return EarthquakeEvent{}, recordError(rec, "longitude", err)
	}
	if lon < -180 || lon > 180 {
		return EarthquakeEvent{}, recordError(rec, "longitude", fmt.Errorf("%g out of range", lon))
	}

	return EarthquakeEvent{
		Time:          t,
		Depth:         depth,
		Magnitude:     mag,
		MagnitudeType: strings.ToLower(strings.TrimSpace(rec.MagType)),
		Latitude:      lat,
		Longitude:     lon,
	}, nil
}

// ParseExplosion converts a raw row into an ExplosionEvent. Only the time is
// required: curated explosion lists sometimes omit depth or magnitude.
func ParseExplosion(rec RawCSVRecord) (ExplosionEvent, error) {
	t, err := ParseTimestamp(rec.Time)
	if err != nil {
		return ExplosionEvent{}, recordError(rec, "time", err)
	}
	depth, err := parseOptionalFloat(rec.Depth)
	if err != nil {
		return ExplosionEvent{}, recordError(rec, "depth", err)
	}
	mag, err := parseOptionalFloat(rec.Mag)
	if err != nil {
		return ExplosionEvent{}, recordError(rec, "mag", err)
	}
	return ExplosionEvent{Time: t, Depth: depth, Magnitude: mag}, nil
}

// ParseTimestamp parses a catalog time string. Values without a zone are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty value")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseRequiredFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

func parseOptionalFloat(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return parseRequiredFloat(s)
}

func recordError(rec RawCSVRecord, column string, err error) error {
	if rec.Source != "" {
		return fmt.Errorf("%w: %s line %d: column %q: %w", ErrMalformedRecord, rec.Source, rec.Line, column, err)
	}
	return fmt.Errorf("%w: column %q: %w", ErrMalformedRecord, column, err)
}
