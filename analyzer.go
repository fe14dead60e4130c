package pdfanalyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/noctureous/itext-ver-docker/compliance"
	"github.com/noctureous/itext-ver-docker/internal/metrics"
	"github.com/noctureous/itext-ver-docker/layout"
	"github.com/noctureous/itext-ver-docker/model"
)

// Analyze walks every page of the document, reconstructs its layout and
// returns the assembled result. Failing to enumerate pages is the only fatal
// error; any single page that cannot be read degrades to tagged defaults and
// analysis continues.
func (a *Analyzer) Analyze() (*model.AnalysisResult, error) {
	pageCount, err := a.interp.PageCount()
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}

	result := model.NewAnalysisResult(a.fileName)
	result.ID = uuid.NewString()

	log.Info().Str("file", a.fileName).Int("pages", pageCount).Msg("analysis started")

	for page := 1; page <= pageCount; page++ {
		a.analyzePage(result, page)
	}

	result.PDFACompliant = compliance.CheckPDFA(a.validator)
	metrics.IncCompliance("pdfa", result.PDFACompliant)

	if a.structure != nil {
		result.PDFXCompliant = compliance.CheckPDFX(*a.structure)
	}
	metrics.IncCompliance("pdfx", result.PDFXCompliant)

	metrics.IncDocument()
	log.Info().
		Str("file", a.fileName).
		Str("id", result.ID).
		Int("pages", pageCount).
		Bool("pdfa", result.PDFACompliant).
		Bool("pdfx", result.PDFXCompliant).
		Msg("analysis finished")

	return result, nil
}

// analyzePage fills the result maps for one page. Each layout analyzer is
// constructed fresh here; they accumulate per-page state and must never be
// shared across pages.
func (a *Analyzer) analyzePage(result *model.AnalysisResult, page int) {
	content, err := a.interp.Page(page)
	if err != nil {
		log.Error().Err(err).Int("page", page).Msg("page unreadable, recording degraded results")
		result.TextRuns[page] = []model.TextRun{}
		result.Margins[page] = model.UnavailableMargins()
		result.PageText[page] = ""
		result.CombinedText[page] = ""
		result.Spacing[page] = layout.NewSpacingAnalyzerWithConfig(a.options.Spacing).Classify(nil)
		result.PageSizes[page] = model.PageInfo{Label: "unknown"}
		metrics.IncPage("degraded")
		return
	}

	size := content.Size.Adjusted()
	result.PageSizes[page] = model.PageInfo{
		Width:  size.Width,
		Height: size.Height,
		Label:  pageLabel(size),
	}

	runs := layout.NewSegmenterWithConfig(a.options.Segmenter).Segment(content.GlyphRuns)
	if runs == nil {
		runs = []model.TextRun{}
	}

	texts := make([]string, 0, len(runs))
	for _, r := range runs {
		texts = append(texts, r.Text)
	}
	pageText := strings.Join(texts, "\n")

	result.TextRuns[page] = runs
	result.PageText[page] = pageText
	result.CombinedText[page] = pageText
	result.Margins[page] = layout.NewMarginAnalyzerWithConfig(a.options.Margin).Infer(content.GlyphRuns, content.Size)
	result.Spacing[page] = layout.NewSpacingAnalyzerWithConfig(a.options.Spacing).Classify(content.GlyphRuns)

	a.fuseImages(result, page, content.Images)

	metrics.IncPage("ok")
}

// knownPapers maps common paper sizes, in points, to their names.
var knownPapers = []struct {
	name          string
	width, height float64
}{
	{"A3", 842, 1191},
	{"A4", 595, 842},
	{"A5", 420, 595},
	{"Letter", 612, 792},
	{"Legal", 612, 1008},
}

// pageLabel renders the page dimensions, naming the paper size when it
// matches a common one within a 2-point tolerance.
func pageLabel(size model.PageSize) string {
	for _, p := range knownPapers {
		if math.Abs(size.Width-p.width) <= 2 && math.Abs(size.Height-p.height) <= 2 {
			return fmt.Sprintf("%.1f x %.1f pts (%s)", size.Width, size.Height, p.name)
		}
	}
	return fmt.Sprintf("%.1f x %.1f pts", size.Width, size.Height)
}
