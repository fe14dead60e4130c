package pdfanalyzer

import "github.com/noctureous/itext-ver-docker/layout"

// Options holds the tunable parameters of an analysis.
type Options struct {
	// Segmenter, Margin and Spacing configure the per-page layout
	// analyzers.
	Segmenter layout.SegmenterConfig
	Margin    layout.MarginConfig
	Spacing   layout.SpacingConfig

	// MinImageWidth and MinImageHeight are the pixel floor below which an
	// image is considered decorative and skipped without recognition
	// (defaults: 50 by 20).
	MinImageWidth  int
	MinImageHeight int

	// ImageTextSampleLimit truncates recognized image text in the
	// per-page text-run entries (default: 100 characters). The full text
	// still appears in the combined text.
	ImageTextSampleLimit int
}

// DefaultOptions returns the analysis defaults.
func DefaultOptions() Options {
	return Options{
		Segmenter:            layout.DefaultSegmenterConfig(),
		Margin:               layout.DefaultMarginConfig(),
		Spacing:              layout.DefaultSpacingConfig(),
		MinImageWidth:        50,
		MinImageHeight:       20,
		ImageTextSampleLimit: 100,
	}
}
