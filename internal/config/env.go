// Package config loads process configuration from the environment with
// sensible defaults, so containers configure the analyzer without flags.
package config

import (
	"os"
	"strconv"
	"strings"

	pdfanalyzer "github.com/noctureous/itext-ver-docker"
	"github.com/noctureous/itext-ver-docker/compliance"
	"github.com/noctureous/itext-ver-docker/ocr"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// OCRConfig holds text-recognition configuration.
type OCRConfig struct {
	Enabled     bool
	Languages   []string
	DataPath    string
	PageSegMode int
}

// AnalysisConfig holds the layout-analysis thresholds exposed to operators.
type AnalysisConfig struct {
	LineTolerance  float64
	LineBreakGap   float64
	TopBucketSize  float64
	MinimumLineGap float64
	MinImageWidth  int
	MinImageHeight int
	AllowedFonts   []string
	FontMinSizePts float64
	MarginMinCm    float64
}

// MetricsConfig holds the metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the listen address for /metrics, e.g. ":9090". Empty
	// disables the endpoint.
	Addr string
}

// Config is the top-level configuration.
type Config struct {
	Logging  LoggingConfig
	OCR      OCRConfig
	Analysis AnalysisConfig
	Metrics  MetricsConfig
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
		File:       getEnv("LOG_FILE", "logs/pdfanalyzer.log"),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	cfg.OCR = OCRConfig{
		Enabled:     parseBool(getEnv("OCR_ENABLED", "false")),
		Languages:   parseList(getEnv("OCR_LANGUAGES", "eng")),
		DataPath:    getEnv("OCR_DATA_PATH", ""),
		PageSegMode: parseInt(getEnv("OCR_PAGE_SEG_MODE", "1"), 1),
	}

	cfg.Analysis = AnalysisConfig{
		LineTolerance:  parseFloat(getEnv("LINE_TOLERANCE_PTS", "2"), 2),
		LineBreakGap:   parseFloat(getEnv("LINE_BREAK_GAP_PTS", "3"), 3),
		TopBucketSize:  parseFloat(getEnv("TOP_BUCKET_SIZE_PTS", "10"), 10),
		MinimumLineGap: parseFloat(getEnv("MIN_LINE_GAP_PTS", "12"), 12),
		MinImageWidth:  parseInt(getEnv("MIN_IMAGE_WIDTH_PX", "50"), 50),
		MinImageHeight: parseInt(getEnv("MIN_IMAGE_HEIGHT_PX", "20"), 20),
		AllowedFonts:   parseList(getEnv("ALLOWED_FONTS", "")),
		FontMinSizePts: parseFloat(getEnv("FONT_MIN_SIZE_PTS", "0"), 0),
		MarginMinCm:    parseFloat(getEnv("MARGIN_MIN_CM", "2.54"), 2.54),
	}

	cfg.Metrics = MetricsConfig{
		Addr: getEnv("METRICS_ADDR", ""),
	}

	return cfg
}

// AnalyzerOptions maps the analysis configuration onto analyzer options.
func (c AnalysisConfig) AnalyzerOptions() pdfanalyzer.Options {
	opts := pdfanalyzer.DefaultOptions()
	opts.Segmenter.LineTolerance = c.LineTolerance
	opts.Segmenter.LineBreakGap = c.LineBreakGap
	opts.Margin.TopBucketSize = c.TopBucketSize
	opts.Spacing.LineTolerance = c.LineTolerance
	opts.Spacing.MinimumLineGap = c.MinimumLineGap
	opts.Spacing.SingleLineMin = c.MinimumLineGap
	opts.MinImageWidth = c.MinImageWidth
	opts.MinImageHeight = c.MinImageHeight
	return opts
}

// FontPolicy maps the configured font rules onto a compliance policy.
func (c AnalysisConfig) FontPolicy() compliance.FontPolicy {
	return compliance.FontPolicy{
		Allowed: c.AllowedFonts,
		MinSize: c.FontMinSizePts,
	}
}

// MarginMinimums maps the configured floor onto all four sides.
func (c AnalysisConfig) MarginMinimums() compliance.MarginMinimums {
	return compliance.MarginMinimums{
		Left:   c.MarginMinCm,
		Top:    c.MarginMinCm,
		Right:  c.MarginMinCm,
		Bottom: c.MarginMinCm,
	}
}

// EngineOptions maps the recognition configuration onto engine options.
func (c OCRConfig) EngineOptions() ocr.Options {
	return ocr.Options{
		Languages:   c.Languages,
		DataPath:    c.DataPath,
		PageSegMode: c.PageSegMode,
	}
}

// Helpers

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func devDefaultPretty() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "dev" || env == "development" || env == "local" {
		return "true"
	}
	return "false"
}
