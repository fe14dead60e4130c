// Command pdfanalyzer analyzes PDF documents for layout compliance and
// prints one JSON report per file.
//
// Usage:
//
//	pdfanalyzer [flags] file.pdf [file.pdf ...]
//
// Configuration comes from the environment (see internal/config), with a
// .env file honored when present.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	pdfanalyzer "github.com/noctureous/itext-ver-docker"
	"github.com/noctureous/itext-ver-docker/compliance"
	"github.com/noctureous/itext-ver-docker/fitzdoc"
	cfgpkg "github.com/noctureous/itext-ver-docker/internal/config"
	logpkg "github.com/noctureous/itext-ver-docker/internal/logger"
	"github.com/noctureous/itext-ver-docker/internal/metrics"
	"github.com/noctureous/itext-ver-docker/model"
	"github.com/noctureous/itext-ver-docker/ocr"
)

// report is the per-file output: the analysis result plus the policy
// verdicts derived from it.
type report struct {
	*model.AnalysisResult

	FontIssues   map[int][]string `json:"fontIssues,omitempty"`
	MarginIssues map[int][]string `json:"marginIssues,omitempty"`
}

func main() {
	os.Exit(run())
}

// run carries the real main body so deferred cleanup survives the exit
// code path.
func run() int {
	_ = godotenv.Load()
	cfg := cfgpkg.FromEnv()

	compact := flag.Bool("compact", false, "emit compact JSON instead of indented")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] file.pdf [file.pdf ...]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	if err := logpkg.Init(logpkg.Options{
		Level:      cfg.Logging.Level,
		Pretty:     cfg.Logging.Pretty,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		return 1
	}

	metrics.Init()
	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr)
	}

	var engine pdfanalyzer.OCREngine
	if cfg.OCR.Enabled {
		e := ocr.NewEngine(cfg.OCR.EngineOptions())
		defer e.Close()
		engine = e
	}

	exitCode := 0
	for _, path := range flag.Args() {
		if err := analyzeFile(path, cfg, engine, !*compact); err != nil {
			log.Error().Err(err).Str("file", path).Msg("analysis failed")
			exitCode = 1
		}
	}
	return exitCode
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("metrics endpoint listening")
	if err := srv.ListenAndServe(); err != nil {
		log.Error().Err(err).Msg("metrics endpoint stopped")
	}
}

func analyzeFile(path string, cfg cfgpkg.Config, engine pdfanalyzer.OCREngine, indent bool) error {
	doc, err := fitzdoc.Open(path)
	if err != nil {
		return err
	}
	defer doc.Close()

	analyzer := pdfanalyzer.New(doc).
		FileName(filepath.Base(path)).
		WithOptions(cfg.Analysis.AnalyzerOptions()).
		WithValidator(compliance.FileValidator{Path: path})
	if structure, err := compliance.ExtractStructure(path); err != nil {
		log.Debug().Err(err).Str("file", path).Msg("document structure unavailable")
	} else {
		analyzer = analyzer.WithStructure(structure)
	}
	if engine != nil {
		analyzer = analyzer.WithOCR(engine)
	}

	result, err := analyzer.Analyze()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(buildReport(result, cfg.Analysis))
}

// buildReport attaches the font and margin policy verdicts to the result.
func buildReport(result *model.AnalysisResult, cfg cfgpkg.AnalysisConfig) report {
	rep := report{AnalysisResult: result}

	if policy := cfg.FontPolicy(); len(policy.Allowed) > 0 || policy.MinSize > 0 {
		rep.FontIssues = make(map[int][]string)
		for page, runs := range result.TextRuns {
			if ok, reasons := compliance.CheckFonts(runs, policy); !ok {
				rep.FontIssues[page] = reasons
			}
		}
		if len(rep.FontIssues) == 0 {
			rep.FontIssues = nil
		}
	}

	if cfg.MarginMinCm > 0 {
		rep.MarginIssues = make(map[int][]string)
		minimums := cfg.MarginMinimums()
		for page, margins := range result.Margins {
			if ok, reasons := compliance.CheckMargins(margins, minimums); !ok {
				rep.MarginIssues[page] = reasons
			}
		}
		if len(rep.MarginIssues) == 0 {
			rep.MarginIssues = nil
		}
	}

	return rep
}
