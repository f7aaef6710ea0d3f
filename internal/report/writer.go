// Package report persists analysis output: result documents as JSON,
// echarts HTML dashboards and gonum PNG plots.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magatfairy/crawlstats/internal/analysis"
	"github.com/magatfairy/crawlstats/internal/fsutil"
	"github.com/magatfairy/crawlstats/internal/security"
)

// CombinedResultName is the roll-up document written for directory runs.
const CombinedResultName = "combined_analysis.json"

// Writer renders analysis output into an output directory.
type Writer struct {
	FS fsutil.FileSystem
}

// NewWriter returns a Writer over fs. A nil fs means the real filesystem.
func NewWriter(fs fsutil.FileSystem) *Writer {
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	return &Writer{FS: fs}
}

// Stem returns the base name of file without its extension, sanitized into
// the artifact prefix used for that experiment. Results analyzed in memory
// carry the experiment's own name in File, which can hold anything the
// recording software put there.
func Stem(file string) string {
	base := filepath.Base(file)
	return security.SanitizeFilename(strings.TrimSuffix(base, filepath.Ext(base)))
}

// ResultPath returns where the result document for file lands in outputDir.
func ResultPath(outputDir, file string) string {
	return filepath.Join(outputDir, Stem(file)+"_analysis.json")
}

// WriteResult writes one experiment's result document as indented JSON and
// returns the path written.
func (w *Writer) WriteResult(outputDir string, res *analysis.Result) (string, error) {
	if err := w.FS.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling result: %w", err)
	}

	path := ResultPath(outputDir, res.File)
	if err := w.FS.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing result: %w", err)
	}
	return path, nil
}

// WriteCombined writes the directory roll-up document and returns the path
// written.
func (w *Writer) WriteCombined(outputDir string, combined *analysis.CombinedResult) (string, error) {
	if err := w.FS.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := json.MarshalIndent(combined, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling combined result: %w", err)
	}

	path := filepath.Join(outputDir, CombinedResultName)
	if err := w.FS.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing combined result: %w", err)
	}
	return path, nil
}

// WriteCharts renders the echarts dashboard for res as a standalone HTML
// page and returns the path written.
func (w *Writer) WriteCharts(outputDir string, res *analysis.Result) (string, error) {
	if err := w.FS.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := RenderCharts(res)
	if err != nil {
		return "", fmt.Errorf("rendering charts: %w", err)
	}

	path := filepath.Join(outputDir, Stem(res.File)+"_charts.html")
	if err := w.FS.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing charts: %w", err)
	}
	return path, nil
}
