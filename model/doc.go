// Package model defines the core data types shared across the analyzer:
// positioned glyph runs as produced by a content-stream interpreter, the
// logical text runs, margin and spacing results derived from them, and the
// document-level analysis result.
//
// All result types are plain values. They are built once per page (or per
// document) and never mutated afterwards, so they are safe to share across
// goroutines once returned.
package model
