// Package symbols normalizes text recovered by OCR. Recognition output from
// scanned pages mixes readable text with dingbats, private-use glyphs and
// stray control characters; Normalize keeps the readable part, including CJK,
// and rewrites the rest into stable bracketed descriptors so downstream
// consumers never see unprintable runes.
package symbols

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// cjk covers the unified ideograph blocks that OCR legitimately emits for
// Chinese documents. These pass through untouched.
var cjk = rangetable.Merge(
	&unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x4E00, Hi: 0x9FFF, Stride: 1}, // CJK Unified Ideographs
			{Lo: 0x3400, Hi: 0x4DBF, Stride: 1}, // Extension A
		},
	},
	&unicode.RangeTable{
		R32: []unicode.Range32{
			{Lo: 0x20000, Hi: 0x2A6DF, Stride: 1}, // Extension B
		},
	},
)

// symbolic covers the glyph ranges rewritten into descriptors: arrows,
// geometric shapes, miscellaneous symbols, dingbats and the private-use area
// Wingdings map into.
var symbolic = rangetable.Merge(
	&unicode.RangeTable{
		R16: []unicode.Range16{
			{Lo: 0x2190, Hi: 0x21FF, Stride: 1}, // arrows
			{Lo: 0x25A0, Hi: 0x25FF, Stride: 1}, // geometric shapes
			{Lo: 0x2600, Hi: 0x26FF, Stride: 1}, // miscellaneous symbols
			{Lo: 0x2700, Hi: 0x27BF, Stride: 1}, // dingbats
			{Lo: 0xF000, Hi: 0xF0FF, Stride: 1}, // Wingdings private use
		},
	},
)

// namedSymbols maps the glyphs common enough in checklists and forms to
// deserve a readable name instead of a code point.
var namedSymbols = map[rune]string{
	0x25CF: "[BULLET]",
	0x25A0: "[SQUARE]",
	0x25B2: "[TRIANGLE]",
	0x2713: "[CHECKMARK]",
	0x2717: "[X-MARK]",
	0x2192: "[RIGHT-ARROW]",
	0x2190: "[LEFT-ARROW]",
}

const (
	wingdingLo = 0xF000
	wingdingHi = 0xF0FF
)

// Normalize rewrites OCR output into printable text. CJK ideographs and
// ordinary text pass through, symbolic glyphs become bracketed descriptors,
// and control characters become spaces. The result is trimmed.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(text))

	for _, r := range text {
		switch {
		case unicode.Is(cjk, r):
			sb.WriteRune(r)
		case unicode.Is(symbolic, r):
			sb.WriteString(describe(r))
		case unicode.IsControl(r):
			sb.WriteRune(' ')
		default:
			sb.WriteRune(r)
		}
	}

	return strings.TrimSpace(sb.String())
}

// describe renders one symbolic rune as its bracketed descriptor.
func describe(r rune) string {
	if name, ok := namedSymbols[r]; ok {
		return name
	}
	if r >= wingdingLo && r <= wingdingHi {
		return fmt.Sprintf("[WINGDING-%04X]", r)
	}
	return fmt.Sprintf("[SYMBOL-%X]", r)
}
