package model

// FontID identifies the exact font of a glyph run. Two runs belong to the
// same logical text run only when all three fields match exactly; font size
// is compared without rounding.
type FontID struct {
	Name     string
	Size     float64
	Embedded bool
}

// FontMetrics carries the subset of font-program metrics used during layout
// analysis. A zero value means "metrics unavailable".
type FontMetrics struct {
	Ascender   int // typographic ascender in font units
	UnitsPerEm int // font units per em square
}

// Ascent returns the ascender scaled to the given font size. When metrics
// are unavailable it falls back to the font size itself, which is a
// conservative over-estimate of the true ascent.
func (m FontMetrics) Ascent(fontSize float64) float64 {
	if m.UnitsPerEm > 0 && m.Ascender > 0 {
		return fontSize * float64(m.Ascender) / float64(m.UnitsPerEm)
	}
	return fontSize
}

// GlyphRun is one positioned fragment of rendered text with a single font
// and baseline. Runs arrive in content-stream emission order, which is not
// reading order.
type GlyphRun struct {
	Text          string
	BaselineStart Point
	BaselineEnd   Point
	Font          FontID
	Metrics       FontMetrics
}
