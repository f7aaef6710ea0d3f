// Command crawlstats analyzes larva tracking experiments. For each
// experiment document it derives per-track kinematics, detects reversal and
// turn events, aggregates population statistics per stimulus window, and
// writes a JSON result document plus optional chart and plot files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/magatfairy/crawlstats/internal/analysis"
	"github.com/magatfairy/crawlstats/internal/config"
	"github.com/magatfairy/crawlstats/internal/fsutil"
	"github.com/magatfairy/crawlstats/internal/monitoring"
	"github.com/magatfairy/crawlstats/internal/report"
	"github.com/magatfairy/crawlstats/internal/track"
	"github.com/magatfairy/crawlstats/internal/version"
)

var (
	input          = flag.String("input", "", "experiment JSON file or directory (also accepted as the first positional argument)")
	output         = flag.String("out", "analysis_output", "directory for result documents")
	configPath     = flag.String("config", "", "analysis config JSON; built-in defaults apply when empty")
	minDuration    = flag.Float64("min-duration", 3.0, "minimum reversal duration in seconds")
	angleThreshold = flag.Float64("angle-threshold", 45.0, "turn angle threshold in degrees")
	ledThreshold   = flag.Float64("led-threshold", 0, "absolute stimulus intensity cutoff; unset derives it from the channel maximum")
	workers        = flag.Int("workers", 0, "concurrent track analyses per experiment")
	charts         = flag.Bool("charts", false, "write an HTML chart page per experiment")
	plots          = flag.Bool("plots", false, "write trajectory and signed-velocity PNGs per experiment")
	watch          = flag.Bool("watch", false, "keep watching the input directory for new experiments")
	interval       = flag.Duration("interval", 30*time.Second, "poll interval in watch mode")
	showVersion    = flag.Bool("version", false, "print version and exit")
)

// applyFlagOverrides copies explicitly set detector flags onto cfg, so flags
// beat config file values which beat built-in defaults.
func applyFlagOverrides(cfg *config.AnalysisConfig) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-duration":
			cfg.MinReversalDurationSecs = minDuration
		case "angle-threshold":
			cfg.TurnAngleThresholdDeg = angleThreshold
		case "led-threshold":
			cfg.StimulusThreshold = ledThreshold
		case "workers":
			cfg.Workers = workers
		}
	})
}

// processFile runs the full pipeline for one experiment document and returns
// the written result.
func processFile(analyzer *analysis.Analyzer, writer *report.Writer, fs fsutil.FileSystem, path, outDir string) (*analysis.Result, error) {
	res, err := analyzer.AnalyzeFile(fs, path)
	if err != nil {
		return nil, err
	}

	resultPath, err := writer.WriteResult(outDir, res)
	if err != nil {
		return nil, err
	}
	log.Printf("✓ %s: %d tracks analyzed, %d skipped -> %s",
		filepath.Base(path), len(res.Tracks), len(res.SkippedTracks), resultPath)

	if *charts {
		chartPath, err := writer.WriteCharts(outDir, res)
		if err != nil {
			return nil, fmt.Errorf("writing charts: %w", err)
		}
		log.Printf("  charts -> %s", chartPath)
	}

	if *plots {
		// Plots draw raw trajectories, which the result document does not
		// carry, so the experiment is loaded again here.
		exp, err := track.LoadExperiment(fs, path)
		if err != nil {
			return nil, fmt.Errorf("loading experiment for plots: %w", err)
		}
		paths, err := writer.WritePlots(outDir, path, exp)
		if err != nil {
			return nil, fmt.Errorf("writing plots: %w", err)
		}
		for _, p := range paths {
			log.Printf("  plot -> %s", p)
		}
	}

	return res, nil
}

// runDirectory analyzes every experiment document in dir and writes a
// combined roll-up document alongside the per-file results.
func runDirectory(analyzer *analysis.Analyzer, writer *report.Writer, fs fsutil.FileSystem, dir, outDir string) {
	files, err := fs.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		log.Fatalf("scan %s: %v", dir, err)
	}

	progress := monitoring.NewProgress(nil)
	combined := &analysis.CombinedResult{
		ProcessedAt:    time.Now().UTC(),
		InputDirectory: dir,
		Files:          make([]*analysis.Result, 0, len(files)),
	}

	for _, f := range files {
		if analysis.IsResultDocument(f) {
			progress.Skip()
			continue
		}
		res, err := processFile(analyzer, writer, fs, f, outDir)
		if err != nil {
			progress.Fail()
			log.Printf("✗ %s: %v", filepath.Base(f), err)
			continue
		}
		progress.Complete()
		combined.Files = append(combined.Files, res)
	}

	if len(combined.Files) == 0 {
		log.Printf("no experiment files analyzed in %s", dir)
		return
	}
	combined.Summarize()

	combinedPath, err := writer.WriteCombined(outDir, combined)
	if err != nil {
		log.Fatalf("write combined result: %v", err)
	}
	log.Printf("combined -> %s", combinedPath)
	log.Printf("%s", progress.Summary())
}

// watchDirectory scans dir immediately, then keeps polling for new
// experiment documents until interrupted.
func watchDirectory(analyzer *analysis.Analyzer, writer *report.Writer, fs fsutil.FileSystem, dir, outDir string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := analysis.NewWatcher(fs, dir, func(path string) error {
		_, err := processFile(analyzer, writer, fs, path, outDir)
		return err
	})
	w.Interval = *interval

	log.Printf("watching %s every %s", dir, *interval)
	if err := w.RunOnce(); err != nil {
		log.Printf("scan error: %v", err)
	}
	w.Start()

	<-ctx.Done()
	w.Stop()
	log.Print("watch stopped")
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	in := *input
	if in == "" {
		in = flag.Arg(0)
	}
	if in == "" {
		log.Fatal("input file or directory is required")
	}

	cfg := config.EmptyAnalysisConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadAnalysisConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	fs := fsutil.OSFileSystem{}
	analyzer := analysis.NewAnalyzer(cfg, nil)
	writer := report.NewWriter(fs)

	info, err := fs.Stat(in)
	if err != nil {
		log.Fatalf("stat input: %v", err)
	}

	if !info.IsDir() {
		if *watch {
			log.Fatal("watch mode needs a directory input")
		}
		res, err := processFile(analyzer, writer, fs, in, *output)
		if err != nil {
			log.Fatalf("analyze %s: %v", in, err)
		}
		fmt.Printf("%d tracks, %d with reversals (%.1f%%), %d reversal events\n",
			res.Summary.TotalTracks, res.Summary.TracksWithReversals,
			res.Summary.PercentTracksWithReversals, res.Summary.TotalReversalEvents)
		return
	}

	if *watch {
		watchDirectory(analyzer, writer, fs, in, *output)
		return
	}
	runDirectory(analyzer, writer, fs, in, *output)
}
