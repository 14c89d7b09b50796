package csvfile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
	"github.com/couchcryptid/kilauea-seismicity/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const comcatHeader = "time,latitude,longitude,depth,mag,magType,nst,gap,dmin,rms,net,id,updated,place,type\n"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Extract(t *testing.T) {
	dir := t.TempDir()
	may := writeFile(t, dir, "may.csv", comcatHeader+
		`2018-05-20T10:00:00.000Z,19.41,-155.28,1.2,2.31,ml,,,,,hv,hv1,2018-05-21T00:00:00.000Z,"5km SW of Volcano, Hawaii",earthquake`+"\n"+
		`2018-05-04T22:32:54.650Z,19.32,-154.99,5.8,6.9,mw,,,,,hv,hv2,2018-05-21T00:00:00.000Z,"Leilani Estates, Hawaii",earthquake`+"\n")
	june := writeFile(t, dir, "june.csv", comcatHeader+
		`2018-06-01T03:00:00.000Z,19.40,-155.27,0.9,1.95,md,,,,,hv,hv3,2018-06-02T00:00:00.000Z,"Kilauea",earthquake`+"\n")
	explosions := writeFile(t, dir, "explosions.csv", "time,depth,mag\n"+
		"2018-06-02T00:00:00.000Z,0.5,5.3\n"+
		"2018-05-29T12:00:00.000Z,,\n")

	metrics := observability.NewMetrics()
	loader := NewLoader([]string{may, june}, explosions, discardLogger(), metrics)

	cat, err := loader.Extract(context.Background())
	require.NoError(t, err)

	require.Len(t, cat.Earthquakes, 3)
	assert.Equal(t, time.Date(2018, 5, 4, 22, 32, 54, 650_000_000, time.UTC), cat.Earthquakes[0].Time)
	assert.InDelta(t, 6.9, cat.Earthquakes[0].Magnitude, 1e-9)
	assert.Equal(t, "mw", cat.Earthquakes[0].MagnitudeType)
	assert.InDelta(t, 2.31, cat.Earthquakes[1].Magnitude, 1e-9)
	assert.Equal(t, "md", cat.Earthquakes[2].MagnitudeType)

	require.Len(t, cat.Explosions, 2)
	assert.True(t, cat.Explosions[0].Time.Before(cat.Explosions[1].Time))
	assert.InDelta(t, 5.3, cat.Explosions[1].Magnitude, 1e-9)

	assert.InDelta(t, 3, testutil.ToFloat64(metrics.EventsLoaded.WithLabelValues("earthquake")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.EventsLoaded.WithLabelValues("explosion")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.FilesRead), 0)
}

func TestLoader_Extract_MissingFile(t *testing.T) {
	dir := t.TempDir()
	explosions := writeFile(t, dir, "explosions.csv", "time,depth,mag\n")
	loader := NewLoader([]string{filepath.Join(dir, "nope.csv")}, explosions, discardLogger(), observability.NewMetrics())

	_, err := loader.Extract(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestLoader_Extract_MalformedRow(t *testing.T) {
	dir := t.TempDir()
	quakes := writeFile(t, dir, "may.csv", "time,depth,mag,magType,latitude,longitude\n"+
		"2018-05-20T10:00:00.000Z,1.2,2.3,ml,19.4,-155.3\n"+
		"2018-05-20T11:00:00.000Z,1.2,,ml,19.4,-155.3\n")
	explosions := writeFile(t, dir, "explosions.csv", "time,depth,mag\n")
	loader := NewLoader([]string{quakes}, explosions, discardLogger(), observability.NewMetrics())

	_, err := loader.Extract(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), `"mag"`)
}

func TestLoader_Extract_NonFiniteValue(t *testing.T) {
	dir := t.TempDir()
	quakes := writeFile(t, dir, "june.csv", "time,depth,mag,magType,latitude,longitude\n"+
		"2018-06-20T10:00:00.000Z,1.2,2.3,ml,19.4,-155.3\n"+
		"2018-06-20T11:00:00.000Z,1.2,2.1,ml,NaN,-155.3\n")
	explosions := writeFile(t, dir, "explosions.csv", "time,depth,mag\n")
	loader := NewLoader([]string{quakes}, explosions, discardLogger(), observability.NewMetrics())

	_, err := loader.Extract(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "june.csv line 3")
	assert.Contains(t, err.Error(), `"latitude"`)
}

func TestLoader_Extract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewLoader([]string{"unused.csv"}, "unused.csv", discardLogger(), observability.NewMetrics())
	_, err := loader.Extract(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadRecords(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		_, err := readRecords(strings.NewReader("time,depth\n2018-05-01T00:00:00Z,1\n"), "x.csv", EarthquakeColumns)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `missing column "mag"`)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := readRecords(strings.NewReader(""), "x.csv", ExplosionColumns)
		require.ErrorContains(t, err, "empty file")
	})

	t.Run("ragged row", func(t *testing.T) {
		_, err := readRecords(strings.NewReader("time,depth,mag\n2018-05-01T00:00:00Z,1\n"), "x.csv", ExplosionColumns)
		require.Error(t, err)
	})

	t.Run("byte order mark and header only", func(t *testing.T) {
		recs, err := readRecords(strings.NewReader("\ufefftime,depth,mag\n"), "x.csv", ExplosionColumns)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("line numbers", func(t *testing.T) {
		recs, err := readRecords(strings.NewReader("time,depth,mag\na,b,c\nd,e,f\n"), "x.csv", ExplosionColumns)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, 2, recs[0].Line)
		assert.Equal(t, 3, recs[1].Line)
		assert.Equal(t, "x.csv", recs[1].Source)
		assert.Equal(t, "d", recs[1].Time)
	})
}

func TestWriteThenLoad(t *testing.T) {
	dir := t.TempDir()
	when := time.Date(2018, 7, 14, 5, 6, 7, 123_000_000, time.UTC)

	quakes := []domain.EarthquakeEvent{{Time: when, Depth: 1.5, Magnitude: 2.37, MagnitudeType: "ml", Latitude: 19.4061, Longitude: -155.2812}}
	explosions := []domain.ExplosionEvent{{Time: when.Add(-time.Hour), Depth: 0.4, Magnitude: 5.3}}

	qPath := filepath.Join(dir, "nested", "july.csv")
	ePath := filepath.Join(dir, "explosions.csv")
	require.NoError(t, WriteEarthquakes(qPath, quakes))
	require.NoError(t, WriteExplosions(ePath, explosions))

	cat, err := NewLoader([]string{qPath}, ePath, discardLogger(), observability.NewMetrics()).Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, quakes, cat.Earthquakes)
	assert.Equal(t, explosions, cat.Explosions)
	assert.Equal(t, "2018-07-14T05:06:07.123Z", formatTime(when))
}
