// Package viewer serves a directory of analysis result documents over HTTP:
// an index page linking each result, a small JSON API, and rendered chart
// dashboards. The viewer is read only; analysis happens in the crawlstats
// command.
package viewer

import (
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/magatfairy/crawlstats/internal/analysis"
	"github.com/magatfairy/crawlstats/internal/fsutil"
	"github.com/magatfairy/crawlstats/internal/report"
	"github.com/magatfairy/crawlstats/internal/security"
	"github.com/magatfairy/crawlstats/internal/stats"
	"github.com/magatfairy/crawlstats/internal/timeutil"
	"github.com/magatfairy/crawlstats/internal/units"
	"github.com/magatfairy/crawlstats/internal/version"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server serves analysis results from a single output directory.
type Server struct {
	dir   string
	fs    fsutil.FileSystem
	clock timeutil.Clock
}

// NewServer returns a viewer over dir. A nil fs or clock selects the real
// filesystem and wall clock.
func NewServer(dir string, fs fsutil.FileSystem, clock timeutil.Clock) *Server {
	if fs == nil {
		fs = fsutil.OSFileSystem{}
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Server{dir: dir, fs: fs, clock: clock}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux mounts all viewer routes on a fresh mux.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/charts", s.showCharts)
	mux.HandleFunc("/api/files", s.listFiles)
	mux.HandleFunc("/api/results", s.showResult)
	mux.HandleFunc("/api/version", s.showVersion)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// resultFiles lists result documents in the viewer directory, sorted by name.
func (s *Server) resultFiles() ([]string, error) {
	return s.fs.Glob(filepath.Join(s.dir, "*_analysis.json"))
}

// resolveFile turns a user-supplied file name into a path inside the viewer
// directory, rejecting anything that would escape it.
func (s *Server) resolveFile(name string) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := security.ValidatePathWithinDirectory(path, s.dir); err != nil {
		return "", err
	}
	return path, nil
}

const indexPage = `<!DOCTYPE html>
<html>
<head>
<title>crawlstats results</title>
<style>
body { font-family: monospace; background: #111; color: #ddd; margin: 2em; }
a { color: #6cf; }
table { border-collapse: collapse; }
td, th { padding: 0.3em 1em; border-bottom: 1px solid #333; text-align: left; }
</style>
</head>
<body>
<h1>crawlstats results</h1>
<p>directory: %s</p>
<table>
<tr><th>file</th><th></th><th></th></tr>
%s</table>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	matches, err := s.resultFiles()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list results: %v", err), http.StatusInternalServerError)
		return
	}

	var rows strings.Builder
	for _, m := range matches {
		name := filepath.Base(m)
		q := url.QueryEscape(name)
		fmt.Fprintf(&rows,
			"<tr><td>%s</td><td><a href=\"/api/results?file=%s\">json</a></td><td><a href=\"/charts?file=%s\">charts</a></td></tr>\n",
			html.EscapeString(name), q, q)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, html.EscapeString(s.dir), rows.String())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "crawlview", "timestamp": "%s"}`,
		s.clock.Now().UTC().Format(time.RFC3339))
}

type fileEntry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	matches, err := s.resultFiles()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to list results: %v", err))
		return
	}

	files := make([]fileEntry, 0, len(matches))
	for _, m := range matches {
		info, err := s.fs.Stat(m)
		if err != nil {
			continue
		}
		files = append(files, fileEntry{Name: filepath.Base(m), Size: info.Size()})
	}

	if err := json.NewEncoder(w).Encode(files); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write file list")
		return
	}
}

// readResult loads one result document named by the request's "file"
// parameter. On failure it writes the error response and returns nil.
func (s *Server) readResult(w http.ResponseWriter, r *http.Request) []byte {
	name := r.URL.Query().Get("file")
	if name == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'file' parameter")
		return nil
	}

	path, err := s.resolveFile(name)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, "Invalid 'file' parameter")
		return nil
	}

	if !s.fs.Exists(path) {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("No such result: %s", name))
		return nil
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to read result: %v", err))
		return nil
	}
	return data
}

func (s *Server) showResult(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data := s.readResult(w, r)
	if data == nil {
		return
	}

	// Documents store speeds in cm/s; an explicit units parameter converts
	// them on the way out.
	target := r.URL.Query().Get("units")
	if target == "" || target == units.CMPS {
		w.Write(data)
		return
	}
	if !units.IsValid(target) {
		s.writeJSONError(w, http.StatusBadRequest,
			fmt.Sprintf("Invalid 'units' parameter; valid units are: %s", units.GetValidUnitsString()))
		return
	}

	var res analysis.Result
	if err := json.Unmarshal(data, &res); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to parse result: %v", err))
		return
	}
	convertResultSpeeds(&res, target)

	if err := json.NewEncoder(w).Encode(&res); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write result")
		return
	}
}

// convertResultSpeeds rewrites every speed field of res from cm/s into the
// target units. Counts, durations, rates and fractions are untouched.
func convertResultSpeeds(res *analysis.Result, target string) {
	for i := range res.Tracks {
		tr := &res.Tracks[i]
		tr.MeanSpeed = units.ConvertSpeed(tr.MeanSpeed, target)
		tr.MeanSignedVel = units.ConvertSpeed(tr.MeanSignedVel, target)
		for j := range tr.Reversals {
			tr.Reversals[j].MeanSpeed = units.ConvertSpeed(tr.Reversals[j].MeanSpeed, target)
		}
	}
	for i := range res.TrackWindows {
		res.TrackWindows[i].MeanSignedVel = units.ConvertSpeed(res.TrackWindows[i].MeanSignedVel, target)
	}
	for id, pop := range res.PopulationWindows {
		pop.MeanSignedVel = convertDescriptive(pop.MeanSignedVel, target)
		res.PopulationWindows[id] = pop
	}
}

func convertDescriptive(d stats.Descriptive, target string) stats.Descriptive {
	d.Mean = units.ConvertSpeed(d.Mean, target)
	d.Median = units.ConvertSpeed(d.Median, target)
	d.Min = units.ConvertSpeed(d.Min, target)
	d.Max = units.ConvertSpeed(d.Max, target)
	d.Std = units.ConvertSpeed(d.Std, target)
	return d
}

func (s *Server) showCharts(w http.ResponseWriter, r *http.Request) {
	// Errors render as JSON; the content type flips to HTML only once the
	// chart page has been built.
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data := s.readResult(w, r)
	if data == nil {
		return
	}

	var res analysis.Result
	if err := json.Unmarshal(data, &res); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to parse result: %v", err))
		return
	}

	page, err := report.RenderCharts(&res)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to render charts: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) showVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	info := map[string]string{
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	}

	if err := json.NewEncoder(w).Encode(info); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write version")
		return
	}
}
