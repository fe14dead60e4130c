package layout

import (
	"sort"
	"strings"

	"github.com/noctureous/itext-ver-docker/model"
)

// SegmenterConfig holds configuration for text-run segmentation.
type SegmenterConfig struct {
	// LineTolerance is the Y distance within which two baselines are
	// treated as the same line for ordering purposes (default: 2 points).
	LineTolerance float64

	// LineBreakGap is the vertical distance between two fragments above
	// which a synthetic space is always inserted, because the text crossed
	// a line boundary (default: 3 points).
	LineBreakGap float64

	// WordGapDivisor controls the horizontal-gap threshold for ordinary
	// text: a space is inserted when the gap exceeds fontSize/WordGapDivisor
	// (default: 2).
	WordGapDivisor float64

	// PunctGapDivisor is the divisor used instead of WordGapDivisor when
	// either fragment edge is adjacent to sentence punctuation, where
	// narrower gaps still separate words (default: 4).
	PunctGapDivisor float64
}

// DefaultSegmenterConfig returns sensible default configuration.
func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		LineTolerance:   2.0,
		LineBreakGap:    3.0,
		WordGapDivisor:  2.0,
		PunctGapDivisor: 4.0,
	}
}

// Segmenter groups a page's glyph runs into logical text runs. Construct a
// fresh Segmenter per page.
type Segmenter struct {
	config SegmenterConfig
}

// NewSegmenter creates a segmenter with default configuration.
func NewSegmenter() *Segmenter {
	return &Segmenter{config: DefaultSegmenterConfig()}
}

// NewSegmenterWithConfig creates a segmenter with custom configuration.
func NewSegmenterWithConfig(config SegmenterConfig) *Segmenter {
	return &Segmenter{config: config}
}

// Segment sorts the glyph runs into reading order and groups consecutive
// runs with identical font identity into text runs. The sort is a total
// order (Y bucket, then X), so identical input always yields an identical
// run sequence. Empty and whitespace-only fragments are discarded.
func (s *Segmenter) Segment(runs []model.GlyphRun) []model.TextRun {
	filtered := make([]model.GlyphRun, 0, len(runs))
	for _, r := range runs {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) == 0 {
		return nil
	}

	sorted := make([]model.GlyphRun, len(filtered))
	copy(sorted, filtered)
	sort.SliceStable(sorted, func(i, j int) bool {
		dy := sorted[i].BaselineStart.Y - sorted[j].BaselineStart.Y
		if absFloat(dy) > s.config.LineTolerance {
			return dy > 0 // higher Y first (top of page)
		}
		// Same line, left to right.
		return sorted[i].BaselineStart.X < sorted[j].BaselineStart.X
	})

	var result []model.TextRun
	var sb strings.Builder
	var current model.FontID
	var prev model.GlyphRun
	haveCurrent := false
	lastEndX := 0.0

	flush := func() {
		text := collapseWhitespace(sb.String())
		if text != "" {
			result = append(result, model.TextRun{
				Text:     text,
				FontName: current.Name,
				FontSize: current.Size,
				Embedded: current.Embedded,
			})
		}
		sb.Reset()
	}

	for _, run := range sorted {
		if !haveCurrent || run.Font != current {
			if haveCurrent {
				flush()
			}
			current = run.Font
			haveCurrent = true
		} else if sb.Len() > 0 && s.shouldAddSpace(prev, run, lastEndX) {
			sb.WriteString(" ")
		}
		sb.WriteString(run.Text)
		lastEndX = run.BaselineEnd.X
		prev = run
	}
	if haveCurrent {
		flush()
	}

	return result
}

// shouldAddSpace decides whether a synthetic word boundary belongs between
// two same-font fragments.
func (s *Segmenter) shouldAddSpace(prev, next model.GlyphRun, lastEndX float64) bool {
	// Never double up on whitespace the stream already carries.
	if strings.HasSuffix(prev.Text, " ") || strings.HasPrefix(next.Text, " ") {
		return false
	}

	// Crossing a line always separates words.
	if absFloat(prev.BaselineStart.Y-next.BaselineStart.Y) > s.config.LineBreakGap {
		return true
	}

	horizontalGap := next.BaselineStart.X - lastEndX
	avgFontSize := (prev.Font.Size + next.Font.Size) / 2

	// Adjacent sentence punctuation separates words at narrower gaps than
	// ordinary glyph pairs do.
	if endsWithPunct(prev.Text) || startsWithPunct(next.Text) {
		return horizontalGap > avgFontSize/s.config.PunctGapDivisor
	}

	return horizontalGap > avgFontSize/s.config.WordGapDivisor
}

const sentencePunct = ".,;:!?"

func endsWithPunct(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 {
		return false
	}
	return strings.ContainsRune(sentencePunct, runes[len(runes)-1])
}

func startsWithPunct(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 {
		return false
	}
	return strings.ContainsRune(sentencePunct, runes[0])
}

// collapseWhitespace trims the text and collapses internal whitespace runs
// to a single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
