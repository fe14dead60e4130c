package pdfanalyzer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"reflect"
	"strings"
	"testing"

	"github.com/noctureous/itext-ver-docker/compliance"
	"github.com/noctureous/itext-ver-docker/model"
)

type fakeInterpreter struct {
	pages    []PageContent
	pageErrs map[int]error
	countErr error
	closed   bool
}

func (f *fakeInterpreter) PageCount() (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.pages), nil
}

func (f *fakeInterpreter) Page(number int) (PageContent, error) {
	if err := f.pageErrs[number]; err != nil {
		return PageContent{}, err
	}
	return f.pages[number-1], nil
}

func (f *fakeInterpreter) Close() error {
	f.closed = true
	return nil
}

type fakeOCR struct {
	text  string
	err   error
	calls int
}

func (f *fakeOCR) ExtractText(image []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type okValidator struct{}

func (okValidator) Validate() error { return nil }

var testFont = model.FontID{Name: "TimesNewRomanPSMT", Size: 12, Embedded: true}

func glyph(text string, x, endX, y float64) model.GlyphRun {
	return model.GlyphRun{
		Text:          text,
		BaselineStart: model.Point{X: x, Y: y},
		BaselineEnd:   model.Point{X: endX, Y: y},
		Font:          testFont,
	}
}

func textPage() PageContent {
	return PageContent{
		Size: model.PageSize{Width: 612, Height: 792},
		GlyphRuns: []model.GlyphRun{
			glyph("First line of body text.", 72, 240, 700),
			glyph("Second line of body text.", 72, 245, 686),
			glyph("Third line of body text.", 72, 242, 672),
		},
	}
}

// pngBytes encodes a blank image of the given pixel size.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestAnalyze_TextPage(t *testing.T) {
	interp := &fakeInterpreter{pages: []PageContent{textPage()}}
	result, err := New(interp).FileName("thesis.pdf").Analyze()
	if err != nil {
		t.Fatal(err)
	}

	if result.ID == "" {
		t.Error("result ID not assigned")
	}
	if result.FileName != "thesis.pdf" {
		t.Errorf("FileName = %q", result.FileName)
	}
	if result.PageCount() != 1 {
		t.Fatalf("PageCount = %d, want 1", result.PageCount())
	}

	runs := result.TextRuns[1]
	if len(runs) != 1 || runs[0].FontName != testFont.Name {
		t.Errorf("unexpected text runs: %+v", runs)
	}
	if !strings.Contains(result.PageText[1], "First line of body text.") {
		t.Errorf("PageText = %q", result.PageText[1])
	}
	if result.CombinedText[1] != result.PageText[1] {
		t.Error("combined text should equal page text when no images exist")
	}

	m := result.Margins[1]
	if m.Unavailable || m.Left <= 0 {
		t.Errorf("unexpected margins: %+v", m)
	}
	if result.Spacing[1].SpacingType == "" {
		t.Error("spacing type missing")
	}
	if !strings.Contains(result.PageSizes[1].Label, "Letter") {
		t.Errorf("page label = %q, want Letter designation", result.PageSizes[1].Label)
	}
	if result.PDFACompliant || result.PDFXCompliant {
		t.Error("compliance flags must default to false")
	}
}

func TestAnalyze_ImageFusion(t *testing.T) {
	page := textPage()
	page.Images = [][]byte{pngBytes(t, 200, 100)}
	interp := &fakeInterpreter{pages: []PageContent{page}}
	engine := &fakeOCR{text: "Scanned ● heading"}

	result, err := New(interp).WithOCR(engine).Analyze()
	if err != nil {
		t.Fatal(err)
	}
	if engine.calls != 1 {
		t.Fatalf("recognition called %d times, want 1", engine.calls)
	}

	want := "Scanned [BULLET] heading"
	if got := result.ImageText[1]; len(got) != 1 || got[0] != want {
		t.Errorf("ImageText = %v, want [%q]", got, want)
	}

	runs := result.TextRuns[1]
	last := runs[len(runs)-1]
	if last.FontName != model.FontNameOCR {
		t.Errorf("synthetic run font = %q", last.FontName)
	}
	if !strings.HasPrefix(last.Text, "[IMAGE 1 OCR]: Scanned") {
		t.Errorf("synthetic run text = %q", last.Text)
	}

	combined := result.CombinedText[1]
	if !strings.HasPrefix(combined, result.PageText[1]) {
		t.Error("combined text must start with the page text")
	}
	if !strings.Contains(combined, "--- Text from Images ---\nImage 1: "+want) {
		t.Errorf("combined text = %q", combined)
	}
}

func TestAnalyze_ImageTextTruncatedInRun(t *testing.T) {
	page := textPage()
	page.Images = [][]byte{pngBytes(t, 200, 100)}
	interp := &fakeInterpreter{pages: []PageContent{page}}
	long := strings.Repeat("recognized words ", 20)
	engine := &fakeOCR{text: long}

	result, err := New(interp).WithOCR(engine).Analyze()
	if err != nil {
		t.Fatal(err)
	}

	runs := result.TextRuns[1]
	last := runs[len(runs)-1]
	if !strings.HasSuffix(last.Text, "...") {
		t.Errorf("expected truncation marker, got %q", last.Text)
	}
	// The combined text keeps the full recognition output.
	if !strings.Contains(result.CombinedText[1], strings.TrimSpace(long)) {
		t.Error("combined text should carry the untruncated recognition output")
	}
}

func TestAnalyze_ImageWithoutOCR(t *testing.T) {
	page := textPage()
	page.Images = [][]byte{pngBytes(t, 200, 100)}
	interp := &fakeInterpreter{pages: []PageContent{page}}

	result, err := New(interp).Analyze()
	if err != nil {
		t.Fatal(err)
	}

	if got := result.ImageText[1]; len(got) != 1 || got[0] != model.NoTextSentinel {
		t.Errorf("ImageText = %v, want [%q]", got, model.NoTextSentinel)
	}
	runs := result.TextRuns[1]
	last := runs[len(runs)-1]
	if last.FontName != model.FontNameImageNoText {
		t.Errorf("synthetic run font = %q", last.FontName)
	}
	if last.Text != "[IMAGE 1 DETECTED]: No readable text content" {
		t.Errorf("synthetic run text = %q", last.Text)
	}
	want := result.PageText[1] + "\n\n--- Text from Images ---\nImage 1: " + model.NoTextSentinel
	if result.CombinedText[1] != want {
		t.Errorf("CombinedText = %q, want %q", result.CombinedText[1], want)
	}
}

func TestAnalyze_RecognitionFailureDegrades(t *testing.T) {
	page := textPage()
	page.Images = [][]byte{pngBytes(t, 200, 100)}
	interp := &fakeInterpreter{pages: []PageContent{page}}
	engine := &fakeOCR{err: errors.New("tesseract not installed")}

	result, err := New(interp).WithOCR(engine).Analyze()
	if err != nil {
		t.Fatal(err)
	}
	if got := result.ImageText[1]; len(got) != 1 || got[0] != model.NoTextSentinel {
		t.Errorf("ImageText = %v, want no-text marker", got)
	}
}

func TestAnalyze_TinyImageSkipped(t *testing.T) {
	page := textPage()
	page.Images = [][]byte{pngBytes(t, 10, 10)}
	interp := &fakeInterpreter{pages: []PageContent{page}}
	engine := &fakeOCR{text: "should never be seen"}

	result, err := New(interp).WithOCR(engine).Analyze()
	if err != nil {
		t.Fatal(err)
	}
	if engine.calls != 0 {
		t.Errorf("recognition called %d times for a tiny image, want 0", engine.calls)
	}
	if got := result.ImageText[1]; len(got) != 1 || got[0] != model.NoTextSentinel {
		t.Errorf("ImageText = %v, want no-text marker", got)
	}
}

func TestAnalyze_UndecodableImage(t *testing.T) {
	page := textPage()
	page.Images = [][]byte{[]byte("not an image at all")}
	interp := &fakeInterpreter{pages: []PageContent{page}}
	engine := &fakeOCR{text: "irrelevant"}

	result, err := New(interp).WithOCR(engine).Analyze()
	if err != nil {
		t.Fatal(err)
	}
	if engine.calls != 0 {
		t.Error("recognition must not run on undecodable data")
	}
	if got := result.ImageText[1]; len(got) != 1 || got[0] != model.ImageErrorSentinel {
		t.Errorf("ImageText = %v, want processing-error marker", got)
	}
	for _, run := range result.TextRuns[1] {
		if run.FontName == model.FontNameOCR || run.FontName == model.FontNameImageNoText {
			t.Errorf("no synthetic run expected for an undecodable image, got %+v", run)
		}
	}
	if !strings.Contains(result.CombinedText[1], "--- Text from Images ---\nImage 1: "+model.ImageErrorSentinel) {
		t.Errorf("CombinedText = %q, want processing-error entry", result.CombinedText[1])
	}
}

func TestAnalyze_ImageSectionKeepsDetectionOrder(t *testing.T) {
	page := textPage()
	page.Images = [][]byte{
		[]byte("not an image at all"),
		pngBytes(t, 200, 100),
	}
	interp := &fakeInterpreter{pages: []PageContent{page}}
	engine := &fakeOCR{text: "Figure caption"}

	result, err := New(interp).WithOCR(engine).Analyze()
	if err != nil {
		t.Fatal(err)
	}

	want := result.PageText[1] +
		"\n\n--- Text from Images ---\n" +
		"Image 1: " + model.ImageErrorSentinel +
		"\n\nImage 2: Figure caption"
	if result.CombinedText[1] != want {
		t.Errorf("CombinedText = %q, want %q", result.CombinedText[1], want)
	}
}

func TestAnalyze_PageErrorDegrades(t *testing.T) {
	interp := &fakeInterpreter{
		pages:    []PageContent{textPage(), textPage()},
		pageErrs: map[int]error{1: errors.New("corrupt page stream")},
	}

	result, err := New(interp).Analyze()
	if err != nil {
		t.Fatal(err)
	}

	if !result.Margins[1].Unavailable {
		t.Error("unreadable page must report unavailable margins")
	}
	if len(result.TextRuns[1]) != 0 || result.PageText[1] != "" {
		t.Error("unreadable page must report empty text")
	}
	if result.Spacing[1].SpacingType != "Unknown" {
		t.Errorf("spacing type = %q, want Unknown", result.Spacing[1].SpacingType)
	}

	// The healthy page is unaffected.
	if result.Margins[2].Unavailable || len(result.TextRuns[2]) == 0 {
		t.Error("second page should analyze normally")
	}
}

func TestAnalyze_PageCountErrorIsFatal(t *testing.T) {
	interp := &fakeInterpreter{countErr: errors.New("not a pdf")}
	if _, err := New(interp).Analyze(); err == nil {
		t.Fatal("expected error")
	}
}

func TestAnalyze_Compliance(t *testing.T) {
	structure := compliance.DocumentStructure{
		XMPMetadata: "pdfxid:part",
		Pages: []compliance.PageResources{{
			Fonts:       []compliance.FontResource{{Name: "Helvetica", Embedded: true}},
			ColorSpaces: []string{"DeviceCMYK"},
		}},
	}

	interp := &fakeInterpreter{pages: []PageContent{textPage()}}
	result, err := New(interp).
		WithValidator(okValidator{}).
		WithStructure(structure).
		Analyze()
	if err != nil {
		t.Fatal(err)
	}

	if !result.PDFACompliant {
		t.Error("expected archival flag with passing validator")
	}
	if !result.PDFXCompliant {
		t.Error("expected print-production flag with conforming structure")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	page := textPage()
	page.Images = [][]byte{pngBytes(t, 200, 100)}
	interp := &fakeInterpreter{pages: []PageContent{page}}

	first, err := New(interp).WithOCR(&fakeOCR{text: "stable"}).Analyze()
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(interp).WithOCR(&fakeOCR{text: "stable"}).Analyze()
	if err != nil {
		t.Fatal(err)
	}

	second.ID = first.ID // identifiers are per-run by design
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ between identical runs:\n%+v\nvs\n%+v", first, second)
	}
}

func TestConfigurationDoesNotMutateOriginal(t *testing.T) {
	base := New(&fakeInterpreter{})
	opts := DefaultOptions()
	opts.MinImageWidth = 500

	derived := base.WithOptions(opts).FileName("other.pdf")
	if base.options.MinImageWidth == 500 || base.fileName == "other.pdf" {
		t.Error("fluent configuration mutated the original analyzer")
	}
	if derived.options.MinImageWidth != 500 || derived.fileName != "other.pdf" {
		t.Error("fluent configuration lost on the derived analyzer")
	}
}

func ExampleMust() {
	interp := &fakeInterpreter{pages: []PageContent{textPage()}}
	result := Must(New(interp).FileName("example.pdf").Analyze())
	fmt.Println(result.FileName, result.PageCount())
	// Output: example.pdf 1
}
