// Package layout reconstructs the logical layout of a page from an unordered
// stream of positioned glyph runs. It provides three independent analyzers:
//
//   - Segmenter groups glyph runs into logical text runs by font identity,
//     inserting synthetic word boundaries where the geometry calls for them.
//   - MarginAnalyzer infers the page margins from baseline extrema, using a
//     density-based detector for the top margin so isolated headers do not
//     skew the result.
//   - SpacingAnalyzer clusters baselines into lines, lines into paragraphs,
//     and classifies the page's line spacing.
//
// Each analyzer accumulates state while consuming one page's runs and must
// be freshly constructed per page; none of them may be shared across pages
// or goroutines. Every heuristic threshold is exposed through the analyzer's
// config struct with documented defaults.
package layout
