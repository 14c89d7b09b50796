package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/kilauea-seismicity/internal/analysis"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const defaultEarthquakeFiles = "kilauea_2018_05.csv,kilauea_2018_06.csv,kilauea_2018_07.csv,kilauea_2018_08.csv"

// Config holds all run settings, populated from environment variables.
type Config struct {
	CatalogDir      string
	EarthquakeFiles []string
	ExplosionFile   string

	// FirstExplosionIndex is the explosion that opens set 1.
	FirstExplosionIndex    int
	CompletenessMagnitudes []float64

	OutputPath      string
	MetricsTextfile string
	LogLevel        string
	LogFormat       string
	RunTimeout      time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	firstExplosion, err := strconv.Atoi(sharedcfg.EnvOrDefault("FIRST_EXPLOSION_INDEX", "0"))
	if err != nil || firstExplosion < 0 {
		return nil, errors.New("invalid FIRST_EXPLOSION_INDEX")
	}

	mcs, err := parseCompleteness(sharedcfg.EnvOrDefault("COMPLETENESS_MAGNITUDES", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid COMPLETENESS_MAGNITUDES: %w", err)
	}

	runTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("RUN_TIMEOUT", "2m"))
	if err != nil || runTimeout <= 0 {
		return nil, errors.New("invalid RUN_TIMEOUT")
	}

	cfg := &Config{
		CatalogDir:             sharedcfg.EnvOrDefault("CATALOG_DIR", "data"),
		EarthquakeFiles:        splitList(sharedcfg.EnvOrDefault("EARTHQUAKE_FILES", defaultEarthquakeFiles)),
		ExplosionFile:          sharedcfg.EnvOrDefault("EXPLOSION_FILE", "kilauea_2018_explosions.csv"),
		FirstExplosionIndex:    firstExplosion,
		CompletenessMagnitudes: mcs,
		OutputPath:             sharedcfg.EnvOrDefault("OUTPUT_PATH", "kilauea_2018.html"),
		MetricsTextfile:        sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
		LogLevel:               sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		RunTimeout:             runTimeout,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that flags may have overridden after Load.
func (c *Config) Validate() error {
	if len(c.EarthquakeFiles) == 0 {
		return errors.New("EARTHQUAKE_FILES is required")
	}
	if c.ExplosionFile == "" {
		return errors.New("EXPLOSION_FILE is required")
	}
	if c.OutputPath == "" {
		return errors.New("OUTPUT_PATH is required")
	}
	if c.FirstExplosionIndex < 0 {
		return errors.New("FIRST_EXPLOSION_INDEX must not be negative")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// EarthquakePaths returns the monthly catalog paths under CatalogDir.
func (c *Config) EarthquakePaths() []string {
	paths := make([]string, len(c.EarthquakeFiles))
	for i, f := range c.EarthquakeFiles {
		paths[i] = c.resolve(f)
	}
	return paths
}

// ExplosionPath returns the explosion catalog path under CatalogDir.
func (c *Config) ExplosionPath() string {
	return c.resolve(c.ExplosionFile)
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.CatalogDir, name)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseCompleteness accepts a comma-separated list of magnitudes with at most
// one decimal. Values are snapped to tenths so they compare equal to catalog
// magnitudes. An empty string selects the default range.
func parseCompleteness(s string) ([]float64, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return analysis.DefaultCompleteness, nil
	}

	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		tenths := analysis.MagnitudeBin(v)
		if analysis.BinMagnitude(tenths) != v {
			return nil, fmt.Errorf("%s is not a multiple of %.1f", p, analysis.BinWidth)
		}
		out = append(out, analysis.BinMagnitude(tenths))
	}
	return out, nil
}
