package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
)

// ComCat time layout: UTC with milliseconds.
const timeLayout = "2006-01-02T15:04:05.000Z"

// WriteEarthquakes writes events in the catalog CSV format read by Loader.
func WriteEarthquakes(path string, events []domain.EarthquakeEvent) error {
	rows := make([][]string, 0, len(events)+1)
	rows = append(rows, EarthquakeColumns)
	for _, ev := range events {
		rows = append(rows, []string{
			formatTime(ev.Time),
			formatFloat(ev.Depth, 2),
			formatFloat(ev.Magnitude, 2),
			ev.MagnitudeType,
			formatFloat(ev.Latitude, 4),
			formatFloat(ev.Longitude, 4),
		})
	}
	return writeAll(path, rows)
}

// WriteExplosions writes explosion events in the catalog CSV format.
func WriteExplosions(path string, events []domain.ExplosionEvent) error {
	rows := make([][]string, 0, len(events)+1)
	rows = append(rows, ExplosionColumns)
	for _, ev := range events {
		rows = append(rows, []string{
			formatTime(ev.Time),
			formatFloat(ev.Depth, 2),
			formatFloat(ev.Magnitude, 2),
		})
	}
	return writeAll(path, rows)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func writeAll(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create catalog: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
