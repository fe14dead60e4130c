//go:build ocr

// Package ocr extracts text from page images with the Tesseract engine via
// gosseract. Tesseract must be installed on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Without the "ocr" build tag the package compiles to a stub whose engine
// reports ErrUnavailable, so callers degrade instead of failing the build.
package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// Engine performs text recognition on image bytes. The underlying Tesseract
// client is created lazily on first use and is not reentrant, so the engine
// serializes recognition with a mutex. An Engine is safe for concurrent use.
type Engine struct {
	opts Options

	mu      sync.Mutex
	client  *gosseract.Client
	initErr error
	inited  bool
}

// NewEngine creates a recognition engine. Tesseract itself is not touched
// until the first ExtractText call.
func NewEngine(opts Options) *Engine {
	if len(opts.Languages) == 0 {
		opts.Languages = DefaultOptions().Languages
	}
	return &Engine{opts: opts}
}

// ExtractText runs recognition on one image and returns the trimmed text.
// Initialization failures are cached: once Tesseract fails to come up, every
// later call returns ErrUnavailable immediately instead of retrying.
func (e *Engine) ExtractText(image []byte) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.inited {
		e.client, e.initErr = e.initClient()
		e.inited = true
	}
	if e.initErr != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, e.initErr)
	}

	if err := e.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// initClient builds and configures the Tesseract client. Called once, under
// the engine mutex.
func (e *Engine) initClient() (*gosseract.Client, error) {
	client := gosseract.NewClient()

	if e.opts.DataPath != "" {
		if err := client.SetTessdataPrefix(e.opts.DataPath); err != nil {
			client.Close()
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}

	if err := client.SetLanguage(expandLanguages(e.opts.Languages)...); err != nil {
		client.Close()
		return nil, fmt.Errorf("set languages: %w", err)
	}

	if err := client.SetPageSegMode(gosseract.PageSegMode(e.opts.PageSegMode)); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}

	return client, nil
}

// Close releases the Tesseract client, if one was ever created.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	e.initErr = ErrUnavailable
	return err
}

// expandLanguages adds "eng" alongside any Chinese model so mixed documents
// keep their Latin text, and deduplicates the result in order.
func expandLanguages(langs []string) []string {
	out := make([]string, 0, len(langs)+1)
	seen := make(map[string]bool)
	add := func(l string) {
		if l != "" && !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	for _, l := range langs {
		add(l)
		if l == "chi_sim" || l == "chi_tra" {
			add("eng")
		}
	}
	return out
}
