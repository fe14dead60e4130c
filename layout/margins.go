package layout

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/noctureous/itext-ver-docker/model"
)

// PointsToCm converts PDF points to centimeters.
const PointsToCm = 0.03528

// MarginConfig holds configuration for margin inference.
type MarginConfig struct {
	// TopBucketSize is the width in points of the buckets used by the
	// density-based main-content detector for the top margin. Coarser than
	// the line tolerance; the detector groups bands of content, not
	// individual baselines (default: 10 points).
	TopBucketSize float64

	// MinBucketCount is the floor on the population a bucket needs before
	// it can count as main content (default: 2).
	MinBucketCount int

	// BucketFraction divides the most populated bucket's count to form the
	// significance threshold: max(MinBucketCount, maxCount/BucketFraction)
	// (default: 4).
	BucketFraction int

	// MaxTopMarginCm bounds the computed top margin; values outside
	// [0, MaxTopMarginCm] trigger the fallback computation from the highest
	// text top (default: 10 cm).
	MaxTopMarginCm float64

	// HeaderZoneFraction is the fraction of the page height below which a
	// text top must fall to qualify for the no-dense-bucket fallback
	// (default: 0.9, i.e. ignore the top 10% of the page).
	HeaderZoneFraction float64
}

// DefaultMarginConfig returns sensible default configuration.
func DefaultMarginConfig() MarginConfig {
	return MarginConfig{
		TopBucketSize:      10.0,
		MinBucketCount:     2,
		BucketFraction:     4,
		MaxTopMarginCm:     10.0,
		HeaderZoneFraction: 0.9,
	}
}

// MarginAnalyzer infers page margins from a page's glyph runs. Construct a
// fresh MarginAnalyzer per page.
type MarginAnalyzer struct {
	config MarginConfig
}

// NewMarginAnalyzer creates a margin analyzer with default configuration.
func NewMarginAnalyzer() *MarginAnalyzer {
	return &MarginAnalyzer{config: DefaultMarginConfig()}
}

// NewMarginAnalyzerWithConfig creates a margin analyzer with custom configuration.
func NewMarginAnalyzerWithConfig(config MarginConfig) *MarginAnalyzer {
	return &MarginAnalyzer{config: config}
}

// Infer computes the page margins in centimeters. A page without glyph runs
// yields all-zero margins. Any panic during the computation is recovered and
// reported as the tagged unavailable result, so document-level analysis can
// continue.
func (a *MarginAnalyzer) Infer(runs []model.GlyphRun, page model.PageSize) (result model.MarginInfo) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("margin inference failed")
			result = model.UnavailableMargins()
		}
	}()

	if len(runs) == 0 {
		return model.MarginInfo{}
	}

	size := page.Adjusted()

	minX := math.Inf(1)
	maxX := math.Inf(-1)
	minY := math.Inf(1)
	maxTextTop := math.Inf(-1)
	textTops := make([]float64, 0, len(runs))

	for _, run := range runs {
		minX = math.Min(minX, run.BaselineStart.X)
		maxX = math.Max(maxX, run.BaselineEnd.X)
		minY = math.Min(minY, run.BaselineStart.Y)

		// Text top uses real font metrics when available, with ascent ==
		// fontSize as the fallback.
		top := run.BaselineStart.Y + run.Metrics.Ascent(run.Font.Size)
		textTops = append(textTops, top)
		maxTextTop = math.Max(maxTextTop, top)
	}

	left := math.Max(0, minX*PointsToCm)
	right := math.Max(0, (size.Width-maxX)*PointsToCm)
	bottom := math.Max(0, minY*PointsToCm)

	mainContentTop := a.findMainContentTop(textTops, size.Height)
	top := (size.Height - mainContentTop) * PointsToCm
	if top < 0 || top > a.config.MaxTopMarginCm {
		// Sanity fallback: measure from the single highest text top.
		top = (size.Height - maxTextTop) * PointsToCm
		top = math.Max(0, math.Min(top, a.config.MaxTopMarginCm))
	}
	top = math.Max(0, top)

	return model.MarginInfo{Left: left, Top: top, Right: right, Bottom: bottom}
}

// findMainContentTop locates the highest text boundary that belongs to the
// page's main content, ignoring isolated headers. Text tops are grouped into
// fixed-width buckets; scanning from the top of the page down, the first
// bucket whose population reaches the significance threshold wins.
func (a *MarginAnalyzer) findMainContentTop(textTops []float64, pageHeight float64) float64 {
	sorted := make([]float64, len(textTops))
	copy(sorted, textTops)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	if len(sorted) == 1 {
		return sorted[0]
	}

	bucket := func(top float64) int {
		return int(math.Round(top/a.config.TopBucketSize)) // bucket index
	}

	counts := make(map[int]int)
	maxCount := 0
	for _, top := range sorted {
		counts[bucket(top)]++
		if counts[bucket(top)] > maxCount {
			maxCount = counts[bucket(top)]
		}
	}

	threshold := maxCount / a.config.BucketFraction
	if threshold < a.config.MinBucketCount {
		threshold = a.config.MinBucketCount
	}

	for _, top := range sorted {
		if counts[bucket(top)] >= threshold {
			return top
		}
	}

	// No bucket qualifies: take the highest top outside the header zone.
	headerLimit := pageHeight * a.config.HeaderZoneFraction
	for _, top := range sorted {
		if top <= headerLimit {
			return top
		}
	}

	return sorted[0]
}
