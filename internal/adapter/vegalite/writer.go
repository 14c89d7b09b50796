package vegalite

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/kilauea-seismicity/internal/analysis"
	"github.com/couchcryptid/kilauea-seismicity/internal/domain"
)

// DefaultTitle is used when the writer is created without one.
const DefaultTitle = "Kilauea 2018 summit collapse seismicity"

//go:embed page.html.tmpl
var pageTemplate string

var page = template.Must(template.New("page").Parse(pageTemplate))

type pageData struct {
	Title       string
	GeneratedAt string
	Spec        template.JS
}

// Writer renders a Result as a standalone HTML dashboard.
// It implements pipeline.Loader.
type Writer struct {
	path   string
	title  string
	logger *slog.Logger
}

// NewWriter creates a Writer for path. An empty title uses DefaultTitle.
func NewWriter(path, title string, logger *slog.Logger) *Writer {
	if title == "" {
		title = DefaultTitle
	}
	return &Writer{path: path, title: title, logger: logger}
}

// Path returns the output file path.
func (w *Writer) Path() string { return w.path }

// Load writes the dashboard for res, replacing any previous file atomically.
func (w *Writer) Load(ctx context.Context, res analysis.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Render(&buf, res, w.title); err != nil {
		return err
	}
	if err := writeAtomic(w.path, buf.Bytes()); err != nil {
		return fmt.Errorf("write dashboard %s: %w", w.path, err)
	}

	w.logger.Info("dashboard written", "path", w.path, "bytes", buf.Len(), "sets", len(res.Sets))
	return nil
}

// Render writes the HTML page for res to w.
func Render(w io.Writer, res analysis.Result, title string) error {
	spec, err := json.Marshal(Compose(res, title))
	if err != nil {
		return fmt.Errorf("encode chart spec: %w", err)
	}
	return page.Execute(w, pageData{
		Title:       title,
		GeneratedAt: domain.Now().Format(time.RFC3339),
		Spec:        template.JS(spec), //nolint:gosec // spec is produced by json.Marshal
	})
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".dashboard-*.html")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
