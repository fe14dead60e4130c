package pdfanalyzer

import "github.com/noctureous/itext-ver-docker/model"

// Interpreter supplies the per-page content the analyzer consumes. The
// fitzdoc package provides the production implementation; tests supply
// fakes.
type Interpreter interface {
	// PageCount returns the number of pages in the document.
	PageCount() (int, error)

	// Page returns the content of one page. Pages are numbered from 1.
	Page(number int) (PageContent, error)

	// Close releases document resources.
	Close() error
}

// PageContent is everything the analyzer needs from one page.
type PageContent struct {
	// Size is the page's media box, with rotation unapplied; the analyzer
	// adjusts for rotation itself.
	Size model.PageSize

	// GlyphRuns are the page's positioned text fragments in emission
	// order, which need not be reading order.
	GlyphRuns []model.GlyphRun

	// Images holds the encoded bytes of each image detected on the page.
	Images [][]byte
}

// OCREngine recognizes text in an encoded image. The ocr package provides
// the Tesseract-backed implementation.
type OCREngine interface {
	ExtractText(image []byte) (string, error)
}
