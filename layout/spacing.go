package layout

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/noctureous/itext-ver-docker/model"
)

// SpacingConfig holds configuration for line-spacing classification.
type SpacingConfig struct {
	// LineTolerance is the bucket size in points used to cluster baselines
	// into lines (default: 2 points).
	LineTolerance float64

	// ParagraphBreakRatio is the multiple of the current line's font size a
	// gap must exceed to end a paragraph (default: 1.8).
	ParagraphBreakRatio float64

	// SentenceBreakRatio is the lower multiple applied when the current
	// line ends a sentence, a heading or a numbered-list item (default: 1.3).
	SentenceBreakRatio float64

	// MinimumLineGap is the smallest acceptable average baseline gap within
	// a paragraph, in points (default: 12).
	MinimumLineGap float64

	// SingleLineMin and SingleLineMax bound the gap range classified as
	// single-line spacing (defaults: 12 and 18 points).
	SingleLineMin float64
	SingleLineMax float64

	// DoubleLineMin is the gap at which spacing classifies as double or
	// wider (default: 24 points).
	DoubleLineMin float64

	// MaxPlausibleGap discards implausible baseline gaps, such as those
	// spanning a column break (default: 100 points).
	MaxPlausibleGap float64

	// SampleTextLimit truncates each paragraph's sample text (default: 100
	// characters).
	SampleTextLimit int
}

// DefaultSpacingConfig returns sensible default configuration.
func DefaultSpacingConfig() SpacingConfig {
	return SpacingConfig{
		LineTolerance:       2.0,
		ParagraphBreakRatio: 1.8,
		SentenceBreakRatio:  1.3,
		MinimumLineGap:      12.0,
		SingleLineMin:       12.0,
		SingleLineMax:       18.0,
		DoubleLineMin:       24.0,
		MaxPlausibleGap:     100.0,
		SampleTextLimit:     100,
	}
}

// numberedListPattern matches lines ending like "3.", a numbered item whose
// trailing gap may legitimately be wider than in-paragraph spacing.
var numberedListPattern = regexp.MustCompile(`\d+\.\s*$`)

// line is one baseline cluster. Ephemeral; used only while classifying.
type line struct {
	key          int
	ys           []float64
	fontSizes    []float64
	texts        []string
	avgY         float64
	avgFontSize  float64
	combinedText string
}

// paragraphStats holds the spacing measured for one paragraph.
type paragraphStats struct {
	averageLineGap  float64
	averageFontSize float64
	spacingRatio    float64
	lineCount       int
	sampleText      string
}

// SpacingAnalyzer classifies a page's line spacing. Construct a fresh
// SpacingAnalyzer per page.
type SpacingAnalyzer struct {
	config SpacingConfig
}

// NewSpacingAnalyzer creates a spacing analyzer with default configuration.
func NewSpacingAnalyzer() *SpacingAnalyzer {
	return &SpacingAnalyzer{config: DefaultSpacingConfig()}
}

// NewSpacingAnalyzerWithConfig creates a spacing analyzer with custom configuration.
func NewSpacingAnalyzerWithConfig(config SpacingConfig) *SpacingAnalyzer {
	return &SpacingAnalyzer{config: config}
}

// Classify clusters the glyph runs into lines and paragraphs and derives the
// page's spacing classification. Pages with fewer than two glyph runs are
// classified "Unknown"; pages where no measurable paragraph survives
// segmentation default to single-line spacing.
func (a *SpacingAnalyzer) Classify(runs []model.GlyphRun) model.SpacingInfo {
	if len(runs) < 2 {
		return model.SpacingInfo{
			SpacingType:       "Unknown",
			SingleLineSpacing: true,
			ParagraphDetails:  []model.ParagraphSpacingDetail{},
		}
	}

	lines := a.clusterLines(runs)
	paragraphs := a.segmentParagraphs(lines)

	var stats []paragraphStats
	for _, p := range paragraphs {
		if len(p) < 2 {
			continue // spacing needs at least two lines
		}
		if ps, ok := a.measureParagraph(p); ok {
			stats = append(stats, ps)
		}
	}

	if len(stats) == 0 {
		return model.SpacingInfo{
			SpacingType:       "Single Line",
			SpacingRatio:      1.0,
			SingleLineSpacing: true,
			ParagraphDetails:  []model.ParagraphSpacingDetail{},
		}
	}

	return a.aggregate(stats)
}

// clusterLines buckets glyph runs by baseline Y and returns the resulting
// lines sorted top to bottom. Bucket keys are iterated in sorted order so the
// outcome never depends on map iteration order.
func (a *SpacingAnalyzer) clusterLines(runs []model.GlyphRun) []*line {
	buckets := make(map[int]*line)
	for _, run := range runs {
		key := int(math.Round(run.BaselineStart.Y / a.config.LineTolerance))
		l, ok := buckets[key]
		if !ok {
			l = &line{key: key}
			buckets[key] = l
		}
		l.ys = append(l.ys, run.BaselineStart.Y)
		l.fontSizes = append(l.fontSizes, run.Font.Size)
		l.texts = append(l.texts, run.Text)
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	lines := make([]*line, 0, len(keys))
	for _, k := range keys {
		l := buckets[k]
		l.avgY = mean(l.ys)
		l.avgFontSize = mean(l.fontSizes)
		l.combinedText = strings.Join(l.texts, "")
		lines = append(lines, l)
	}

	// Bucket key order already approximates top-to-bottom; make it exact on
	// the averaged Y while keeping ties deterministic.
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].avgY > lines[j].avgY
	})

	return lines
}

// segmentParagraphs walks the top-to-bottom lines and splits them at
// inferred paragraph boundaries.
func (a *SpacingAnalyzer) segmentParagraphs(lines []*line) [][]*line {
	var paragraphs [][]*line
	var current []*line

	for i, l := range lines {
		current = append(current, l)

		endOfParagraph := i == len(lines)-1
		if !endOfParagraph {
			gap := l.avgY - lines[i+1].avgY
			if gap > l.avgFontSize*a.config.ParagraphBreakRatio {
				endOfParagraph = true
			} else if a.endsParagraphText(l.combinedText) && gap > l.avgFontSize*a.config.SentenceBreakRatio {
				endOfParagraph = true
			}
		}

		if endOfParagraph {
			paragraphs = append(paragraphs, current)
			current = nil
		}
	}

	return paragraphs
}

// endsParagraphText reports whether the line's text is a content-based
// paragraph indicator: a sentence end, a heading colon, or a numbered item.
func (a *SpacingAnalyzer) endsParagraphText(text string) bool {
	return strings.HasSuffix(text, ".") ||
		strings.HasSuffix(text, ":") ||
		numberedListPattern.MatchString(text)
}

// measureParagraph computes the spacing metrics for one paragraph. It
// returns false when no plausible baseline gap survives filtering.
func (a *SpacingAnalyzer) measureParagraph(lines []*line) (paragraphStats, bool) {
	var gaps []float64
	totalFontSize := 0.0

	for i := 0; i < len(lines)-1; i++ {
		gap := lines[i].avgY - lines[i+1].avgY
		if gap > 0 && gap < a.config.MaxPlausibleGap {
			gaps = append(gaps, gap)
		}
		totalFontSize += lines[i].avgFontSize
	}
	totalFontSize += lines[len(lines)-1].avgFontSize

	if len(gaps) == 0 {
		return paragraphStats{}, false
	}

	avgGap := mean(gaps)
	avgFontSize := totalFontSize / float64(len(lines))

	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		texts = append(texts, l.combinedText)
	}
	sample := strings.Join(texts, " ")
	if runes := []rune(sample); len(runes) > a.config.SampleTextLimit {
		sample = string(runes[:a.config.SampleTextLimit]) + "..."
	}

	return paragraphStats{
		averageLineGap:  avgGap,
		averageFontSize: avgFontSize,
		spacingRatio:    avgGap / avgFontSize,
		lineCount:       len(lines),
		sampleText:      sample,
	}, true
}

// aggregate rolls per-paragraph stats up into the page classification.
func (a *SpacingAnalyzer) aggregate(stats []paragraphStats) model.SpacingInfo {
	details := make([]model.ParagraphSpacingDetail, 0, len(stats))

	totalGap := 0.0
	totalRatio := 0.0
	allAcceptable := true
	singleLineCount := 0
	tooTight := 0

	for i, ps := range stats {
		acceptable := ps.averageLineGap >= a.config.MinimumLineGap
		if !acceptable {
			allAcceptable = false
			tooTight++
		}
		if ps.averageLineGap >= a.config.SingleLineMin && ps.averageLineGap < a.config.SingleLineMax {
			singleLineCount++
		}

		details = append(details, model.ParagraphSpacingDetail{
			ParagraphNumber: i + 1,
			LineGap:         ps.averageLineGap,
			SpacingRatio:    ps.spacingRatio,
			Acceptable:      acceptable,
			SampleText:      ps.sampleText,
			LineCount:       ps.lineCount,
		})

		totalGap += ps.averageLineGap
		totalRatio += ps.spacingRatio
	}

	avgGap := totalGap / float64(len(stats))
	avgRatio := totalRatio / float64(len(stats))

	// Predominantly single-line: at least half the paragraphs in the
	// single-line range, and nothing unacceptably tight.
	singleLine := float64(singleLineCount) >= float64(len(stats))/2.0 && allAcceptable

	var spacingType string
	switch {
	case !allAcceptable:
		spacingType = fmt.Sprintf("Invalid Spacing (%d/%d paragraphs gap < %.0fpts)",
			tooTight, len(stats), a.config.MinimumLineGap)
	case avgGap >= a.config.SingleLineMin && avgGap < a.config.SingleLineMax:
		spacingType = "Single Line (All Paragraphs - Acceptable)"
	case avgGap >= a.config.SingleLineMax && avgGap < a.config.DoubleLineMin:
		spacingType = "1.5x Line (All Paragraphs - Acceptable)"
	case avgGap >= a.config.DoubleLineMin:
		spacingType = "Double+ Line (All Paragraphs - Acceptable)"
	default:
		spacingType = fmt.Sprintf("Custom %.1f pts Line (All Paragraphs - Acceptable)", avgGap)
	}

	return model.SpacingInfo{
		LineSpacing:       avgGap,
		SpacingType:       spacingType,
		SpacingRatio:      avgRatio,
		SingleLineSpacing: singleLine,
		ParagraphDetails:  details,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
