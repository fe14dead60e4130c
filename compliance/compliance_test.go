package compliance

import (
	"errors"
	"strings"
	"testing"

	"github.com/noctureous/itext-ver-docker/model"
)

type fakeValidator struct {
	err   error
	panic bool
}

func (f fakeValidator) Validate() error {
	if f.panic {
		panic("validator blew up")
	}
	return f.err
}

func TestCheckPDFA(t *testing.T) {
	tests := []struct {
		name      string
		validator Validator
		want      bool
	}{
		{"nil validator", nil, false},
		{"passing validator", fakeValidator{}, true},
		{"failing validator", fakeValidator{err: errors.New("xref broken")}, false},
		{"panicking validator", fakeValidator{panic: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPDFA(tt.validator); got != tt.want {
				t.Errorf("CheckPDFA = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckPDFX(t *testing.T) {
	conformingPage := PageResources{
		Fonts:       []FontResource{{Name: "Helvetica", Embedded: true}},
		ColorSpaces: []string{"DeviceCMYK"},
	}

	tests := []struct {
		name string
		doc  DocumentStructure
		want bool
	}{
		{
			"identified and conforming",
			DocumentStructure{
				XMPMetadata: `<pdfxid:part>PDF/X-4</pdfxid:part>`,
				Pages:       []PageResources{conformingPage},
			},
			true,
		},
		{
			"identification via prefix only",
			DocumentStructure{
				XMPMetadata: `pdfxid:part="3"`,
				Pages:       []PageResources{conformingPage},
			},
			true,
		},
		{
			"grayscale allowed",
			DocumentStructure{
				XMPMetadata: "PDF/X-1a:2001",
				Pages: []PageResources{{
					Fonts:       []FontResource{{Name: "Courier", Embedded: true}},
					ColorSpaces: []string{"DeviceGray"},
				}},
			},
			true,
		},
		{
			"no identification",
			DocumentStructure{
				XMPMetadata: "<x:xmpmeta/>",
				Pages:       []PageResources{conformingPage},
			},
			false,
		},
		{
			"empty metadata",
			DocumentStructure{Pages: []PageResources{conformingPage}},
			false,
		},
		{
			"unembedded font",
			DocumentStructure{
				XMPMetadata: "PDF/X-4",
				Pages: []PageResources{{
					Fonts:       []FontResource{{Name: "Arial", Embedded: false}},
					ColorSpaces: []string{"DeviceCMYK"},
				}},
			},
			false,
		},
		{
			"rgb color space",
			DocumentStructure{
				XMPMetadata: "PDF/X-4",
				Pages: []PageResources{{
					Fonts:       []FontResource{{Name: "Helvetica", Embedded: true}},
					ColorSpaces: []string{"DeviceRGB"},
				}},
			},
			false,
		},
		{
			"one bad page spoils the document",
			DocumentStructure{
				XMPMetadata: "PDF/X-4",
				Pages: []PageResources{
					conformingPage,
					{Fonts: []FontResource{{Name: "Arial", Embedded: false}}},
				},
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPDFX(tt.doc); got != tt.want {
				t.Errorf("CheckPDFX = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckFonts(t *testing.T) {
	policy := FontPolicy{Allowed: []string{"TimesNewRomanPSMT", "SimSun"}}

	runs := []model.TextRun{
		{Text: "body", FontName: "TimesNewRomanPSMT", FontSize: 12},
		{Text: "subset", FontName: "BCDEFG+TimesNewRomanPSMT", FontSize: 12},
		{Text: "spaced", FontName: "Times New Roman PSMT", FontSize: 12},
		{Text: "cjk", FontName: "SimSun", FontSize: 12},
	}
	ok, reasons := CheckFonts(runs, policy)
	if !ok || len(reasons) != 0 {
		t.Errorf("expected all fonts allowed, got %v", reasons)
	}

	runs = append(runs,
		model.TextRun{Text: "rogue", FontName: "ComicSansMS", FontSize: 12},
		model.TextRun{Text: "rogue again", FontName: "ComicSansMS", FontSize: 12},
		model.TextRun{Text: "recognized", FontName: model.FontNameOCR, FontSize: 12},
		model.TextRun{Text: "image", FontName: model.FontNameImageNoText, FontSize: 12},
	)
	ok, reasons = CheckFonts(runs, policy)
	if ok {
		t.Error("expected font check to fail")
	}
	if len(reasons) != 1 || !strings.Contains(reasons[0], "ComicSansMS") {
		t.Errorf("reasons = %v, want one ComicSansMS entry", reasons)
	}
}

func TestCheckFonts_MinimumSize(t *testing.T) {
	policy := FontPolicy{MinSize: 10.5}

	runs := []model.TextRun{
		{Text: "body", FontName: "TimesNewRomanPSMT", FontSize: 12},
		{Text: "footnote", FontName: "TimesNewRomanPSMT", FontSize: 9},
	}
	ok, reasons := CheckFonts(runs, policy)
	if ok {
		t.Error("expected size check to fail")
	}
	if len(reasons) != 1 || !strings.Contains(reasons[0], "9.0pt below minimum 10.5pt") {
		t.Errorf("reasons = %v", reasons)
	}

	// No allow-list means any font name passes.
	ok, _ = CheckFonts(runs[:1], policy)
	if !ok {
		t.Error("12pt run should pass a size-only policy")
	}
}

func TestCheckMargins(t *testing.T) {
	min := DefaultMarginMinimums()

	ok, reasons := CheckMargins(model.MarginInfo{Left: 2.6, Top: 3.0, Right: 2.54, Bottom: 2.8}, min)
	if !ok || len(reasons) != 0 {
		t.Errorf("expected compliant margins, got %v", reasons)
	}

	ok, reasons = CheckMargins(model.MarginInfo{Left: 1.2, Top: 3.0, Right: 2.6, Bottom: 0.5}, min)
	if ok {
		t.Error("expected margin check to fail")
	}
	if len(reasons) != 2 {
		t.Fatalf("reasons = %v, want 2 entries", reasons)
	}
	if !strings.Contains(reasons[0], "left margin 1.20cm") {
		t.Errorf("unexpected reason: %q", reasons[0])
	}

	ok, reasons = CheckMargins(model.UnavailableMargins(), min)
	if ok || len(reasons) != 1 {
		t.Errorf("unavailable margins should fail with one reason, got %v", reasons)
	}
}
