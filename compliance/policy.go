package compliance

import (
	"fmt"
	"strings"

	"github.com/noctureous/itext-ver-docker/model"
)

// MarginMinimums is the smallest acceptable margin on each side, in
// centimeters.
type MarginMinimums struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// DefaultMarginMinimums returns the common one-inch requirement on all
// sides.
func DefaultMarginMinimums() MarginMinimums {
	return MarginMinimums{Left: 2.54, Top: 2.54, Right: 2.54, Bottom: 2.54}
}

// FontPolicy is the submission standard a page's fonts are screened
// against.
type FontPolicy struct {
	// Allowed lists acceptable font names. Empty disables the name check.
	Allowed []string

	// MinSize is the smallest acceptable font size in points. Zero
	// disables the size check.
	MinSize float64
}

// CheckFonts reports whether every text run on a page satisfies the policy.
// Font names compare loosely: case, spaces, hyphens and subset prefixes like
// "ABCDEF+" are ignored, so "BCDEFG+TimesNewRomanPSMT" matches
// "timesnewromanpsmt". Runs synthesized from image recognition carry marker
// font names and are skipped. Returns the reasons alongside the verdict.
func CheckFonts(runs []model.TextRun, policy FontPolicy) (bool, []string) {
	allowedSet := make(map[string]bool, len(policy.Allowed))
	for _, name := range policy.Allowed {
		allowedSet[normalizeFontName(name)] = true
	}

	var reasons []string
	seen := make(map[string]bool)
	report := func(reason string) {
		if !seen[reason] {
			seen[reason] = true
			reasons = append(reasons, reason)
		}
	}

	for _, run := range runs {
		if run.FontName == model.FontNameOCR || run.FontName == model.FontNameImageNoText {
			continue
		}
		if len(policy.Allowed) > 0 && !allowedSet[normalizeFontName(run.FontName)] {
			report(fmt.Sprintf("font %s not allowed", run.FontName))
		}
		if policy.MinSize > 0 && run.FontSize < policy.MinSize {
			report(fmt.Sprintf("font size %.1fpt below minimum %.1fpt (%s)", run.FontSize, policy.MinSize, run.FontName))
		}
	}

	return len(reasons) == 0, reasons
}

// CheckMargins reports whether the inferred margins meet the minimums.
// Margins tagged unavailable fail with a single reason, since nothing can be
// verified about them.
func CheckMargins(m model.MarginInfo, min MarginMinimums) (bool, []string) {
	if m.Unavailable {
		return false, []string{"margins could not be determined"}
	}

	var reasons []string
	check := func(side string, got, want float64) {
		if got < want {
			reasons = append(reasons, fmt.Sprintf("%s margin %.2fcm below minimum %.2fcm", side, got, want))
		}
	}
	check("left", m.Left, min.Left)
	check("top", m.Top, min.Top)
	check("right", m.Right, min.Right)
	check("bottom", m.Bottom, min.Bottom)

	return len(reasons) == 0, reasons
}

// normalizeFontName lowercases the name, strips spaces and hyphens, and
// drops a subset prefix of the form "ABCDEF+".
func normalizeFontName(name string) string {
	if plus := strings.IndexByte(name, '+'); plus == 6 && isSubsetTag(name[:6]) {
		name = name[7:]
	}
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "-", "")
	return name
}

func isSubsetTag(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
