package ocr

import "errors"

// ErrUnavailable is returned when text recognition is requested but no
// working engine is present, either because the binary was built without the
// "ocr" tag or because Tesseract failed to initialize.
var ErrUnavailable = errors.New("ocr engine unavailable")

// Options configures the recognition engine.
type Options struct {
	// Languages lists the Tesseract language models to load, e.g.
	// "eng", "chi_sim". Chinese models automatically get "eng" added so
	// mixed-language documents keep their Latin text.
	Languages []string

	// DataPath overrides the tessdata directory. Empty uses the system
	// default.
	DataPath string

	// PageSegMode selects Tesseract's page segmentation mode. The default
	// of 1 (automatic with orientation and script detection) suits whole
	// scanned pages.
	PageSegMode int
}

// DefaultOptions returns the recognition defaults.
func DefaultOptions() Options {
	return Options{
		Languages:   []string{"eng"},
		PageSegMode: 1,
	}
}
