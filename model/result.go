package model

// Markers used for image-derived entries in the analysis result. They let a
// consumer distinguish "no image on the page" from "image with no readable
// text" and from "image that failed to decode".
const (
	// NoTextSentinel is recorded for a detected image that produced no
	// readable text, either because OCR found nothing or because the image
	// was skipped (too small, OCR disabled or unavailable).
	NoTextSentinel = "[IMAGE DETECTED - NO TEXT]"

	// ImageErrorSentinel is recorded for a detected image whose data could
	// not be decoded or processed.
	ImageErrorSentinel = "[IMAGE DETECTED - PROCESSING ERROR]"

	// FontNameOCR is the synthetic font name on text-run entries created
	// from OCR output.
	FontNameOCR = "OCR-Extracted-From-Image"

	// FontNameImageNoText is the synthetic font name on text-run entries
	// created for images without readable text.
	FontNameImageNoText = "Image-Detected-No-Text"
)

// TextRun is a maximal grouping of consecutive (in reading order) glyph runs
// sharing identical font identity, with synthetic word spacing applied.
type TextRun struct {
	Text     string  `json:"text"`
	FontName string  `json:"fontName"`
	FontSize float64 `json:"fontSize"`
	Embedded bool    `json:"embedded"`
}

// MarginInfo holds the inferred page margins in centimeters.
//
// All four values are >= 0 for a successful computation. Zero margins with
// Unavailable == false mean "no text found on the page". When the
// computation failed, Unavailable is true and all four values carry the -1
// sentinel, so serialized results remain distinguishable as well.
type MarginInfo struct {
	Left        float64 `json:"leftMargin"`
	Top         float64 `json:"topMargin"`
	Right       float64 `json:"rightMargin"`
	Bottom      float64 `json:"bottomMargin"`
	Unavailable bool    `json:"unavailable,omitempty"`
}

// UnavailableMargins returns the tagged "computation failed" margin result.
func UnavailableMargins() MarginInfo {
	return MarginInfo{Left: -1, Top: -1, Right: -1, Bottom: -1, Unavailable: true}
}

// ParagraphSpacingDetail describes the spacing measured within one detected
// paragraph.
type ParagraphSpacingDetail struct {
	ParagraphNumber int     `json:"paragraphNumber"` // 1-based
	LineGap         float64 `json:"lineGap"`         // average baseline gap in points
	SpacingRatio    float64 `json:"spacingRatio"`    // gap divided by average font size
	Acceptable      bool    `json:"acceptable"`
	SampleText      string  `json:"sampleText"`
	LineCount       int     `json:"lineCount"`
}

// SpacingInfo is the per-page line-spacing classification.
type SpacingInfo struct {
	LineSpacing       float64                  `json:"lineSpacing"` // average line gap across paragraphs, points
	SpacingType       string                   `json:"spacingType"`
	SpacingRatio      float64                  `json:"spacingRatio"`
	SingleLineSpacing bool                     `json:"singleLineSpacing"`
	ParagraphDetails  []ParagraphSpacingDetail `json:"paragraphDetails"`
}

// PageInfo records a page's rotation-adjusted dimensions.
type PageInfo struct {
	Width  float64 `json:"width"`  // points
	Height float64 `json:"height"` // points
	Label  string  `json:"pageSize"`
}

// AnalysisResult is the document-level outcome of layout analysis. All maps
// are keyed by 1-based page number. The result is built once per document
// and is immutable after construction.
type AnalysisResult struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`

	TextRuns     map[int][]TextRun    `json:"fontInfo"`
	Margins      map[int]MarginInfo   `json:"margins"`
	PageSizes    map[int]PageInfo     `json:"pageSizes"`
	PageText     map[int]string       `json:"pageText"`
	ImageText    map[int][]string     `json:"imageText"`
	CombinedText map[int]string       `json:"combinedText"`
	Spacing      map[int]SpacingInfo  `json:"spacing"`

	PDFACompliant bool `json:"pdfACompliant"`
	PDFXCompliant bool `json:"pdfXCompliant"`
}

// NewAnalysisResult creates an empty result with all page maps allocated.
func NewAnalysisResult(fileName string) *AnalysisResult {
	return &AnalysisResult{
		FileName:     fileName,
		TextRuns:     make(map[int][]TextRun),
		Margins:      make(map[int]MarginInfo),
		PageSizes:    make(map[int]PageInfo),
		PageText:     make(map[int]string),
		ImageText:    make(map[int][]string),
		CombinedText: make(map[int]string),
		Spacing:      make(map[int]SpacingInfo),
	}
}

// PageCount returns the number of pages the result covers.
func (r *AnalysisResult) PageCount() int {
	if r == nil {
		return 0
	}
	return len(r.PageSizes)
}
