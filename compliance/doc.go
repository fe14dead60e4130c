// Package compliance holds the document-level conformance checks: archival
// (PDF/A) and print-production (PDF/X) heuristics plus the font and margin
// policy checks used for submission screening.
//
// The PDF/A check delegates to a structural Validator, so strictness lives
// with the validating library, not here. The PDF/X check is heuristic by
// design: true conformance requires output intents and ICC profile
// verification, while this check only screens for the strong signals
// (identification metadata, full font embedding, print color spaces).
package compliance
