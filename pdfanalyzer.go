// Package pdfanalyzer reconstructs document layout from positioned text and
// classifies it for compliance screening: text runs grouped by font, inferred
// page margins, line-spacing classification, recognized text from page
// images, and archival/print-production conformance flags.
//
// Basic usage:
//
//	doc, err := fitzdoc.Open("thesis.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer doc.Close()
//
//	result, err := pdfanalyzer.New(doc).
//	    FileName("thesis.pdf").
//	    WithValidator(compliance.FileValidator{Path: "thesis.pdf"}).
//	    Analyze()
//
// Recognition of image text is optional:
//
//	result, err := pdfanalyzer.New(doc).
//	    WithOCR(ocr.NewEngine(ocr.DefaultOptions())).
//	    Analyze()
package pdfanalyzer

import (
	"github.com/noctureous/itext-ver-docker/compliance"
)

// Analyzer runs document analysis over an Interpreter's pages. Configuration
// methods return a modified copy, so a configured Analyzer can be reused and
// further specialized without affecting earlier references.
type Analyzer struct {
	interp    Interpreter
	ocr       OCREngine
	validator compliance.Validator
	structure *compliance.DocumentStructure
	fileName  string
	options   Options
}

// New creates an Analyzer over the given page source with default options.
func New(interp Interpreter) *Analyzer {
	return &Analyzer{
		interp:  interp,
		options: DefaultOptions(),
	}
}

// clone creates a copy for the fluent configuration methods.
func (a *Analyzer) clone() *Analyzer {
	c := *a
	return &c
}

// FileName sets the document name recorded in the result.
func (a *Analyzer) FileName(name string) *Analyzer {
	c := a.clone()
	c.fileName = name
	return c
}

// WithOCR enables text recognition for page images. A nil engine leaves
// recognition disabled; detected images are still recorded, without text.
func (a *Analyzer) WithOCR(engine OCREngine) *Analyzer {
	c := a.clone()
	c.ocr = engine
	return c
}

// WithValidator sets the structural validator backing the archival
// conformance flag. Without one the flag is always false.
func (a *Analyzer) WithValidator(v compliance.Validator) *Analyzer {
	c := a.clone()
	c.validator = v
	return c
}

// WithStructure supplies the document structure inspected by the
// print-production conformance heuristic. Without it the flag is always
// false.
func (a *Analyzer) WithStructure(s compliance.DocumentStructure) *Analyzer {
	c := a.clone()
	c.structure = &s
	return c
}

// WithOptions replaces the analysis options.
func (a *Analyzer) WithOptions(opts Options) *Analyzer {
	c := a.clone()
	c.options = opts
	return c
}

// Must panics on a non-nil error. Intended for scripts and tests.
//
//	result := pdfanalyzer.Must(pdfanalyzer.New(doc).Analyze())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
