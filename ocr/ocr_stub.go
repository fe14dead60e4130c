//go:build !ocr

// Package ocr extracts text from page images with the Tesseract engine.
//
// This is the stub built when the "ocr" tag is not set: NewEngine still
// returns a usable value, but every ExtractText call reports ErrUnavailable.
// Rebuild with -tags ocr (and Tesseract installed) to enable recognition.
package ocr

// Engine is the recognition stub. All recognition calls report
// ErrUnavailable.
type Engine struct{}

// NewEngine returns a stub engine.
func NewEngine(opts Options) *Engine {
	return &Engine{}
}

// ExtractText always returns ErrUnavailable.
func (e *Engine) ExtractText(image []byte) (string, error) {
	return "", ErrUnavailable
}

// Close is a no-op on the stub.
func (e *Engine) Close() error {
	return nil
}
