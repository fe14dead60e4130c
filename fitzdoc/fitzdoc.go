// Package fitzdoc adapts a MuPDF-rendered document (via go-fitz) to the
// analyzer's page source interface.
//
// MuPDF does not expose glyph positions directly through go-fitz, so the
// adapter reads the positioned-HTML rendition of each page: paragraph
// elements carry top/left offsets in points and nested elements carry font
// family and size. Horizontal advances within a paragraph are estimated from
// font size, which is precise enough for margin and spacing analysis though
// not for exact character positions. Embedded images are recovered from the
// rendition's data URLs; a page with neither text nor images is treated as
// scanned and rendered to a single full-page image so recognition can run
// over it.
package fitzdoc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strconv"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	pdfanalyzer "github.com/noctureous/itext-ver-docker"
	"github.com/noctureous/itext-ver-docker/model"
)

// scanDPI is the render resolution for pages without extractable content.
const scanDPI = 150

// Document implements pdfanalyzer.Interpreter over go-fitz. The underlying
// handle is not thread safe, so all access is serialized.
type Document struct {
	mu  sync.Mutex
	doc *fitz.Document
}

// Open opens a document from a file.
func Open(path string) (*Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Document{doc: doc}, nil
}

// OpenBytes opens a document held in memory.
func OpenBytes(data []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open from memory: %w", err)
	}
	return &Document{doc: doc}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return 0, fmt.Errorf("document closed")
	}
	return d.doc.NumPage(), nil
}

// Page extracts one page's content. Pages are numbered from 1.
func (d *Document) Page(number int) (pdfanalyzer.PageContent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.doc == nil {
		return pdfanalyzer.PageContent{}, fmt.Errorf("document closed")
	}
	idx := number - 1
	if idx < 0 || idx >= d.doc.NumPage() {
		return pdfanalyzer.PageContent{}, fmt.Errorf("page %d out of range (document has %d pages)", number, d.doc.NumPage())
	}

	bound, err := d.doc.Bound(idx)
	if err != nil {
		return pdfanalyzer.PageContent{}, fmt.Errorf("page %d bounds: %w", number, err)
	}
	content := pdfanalyzer.PageContent{
		Size: model.PageSize{
			Width:  float64(bound.Dx()),
			Height: float64(bound.Dy()),
		},
	}

	rendition, err := d.doc.HTML(idx, false)
	if err != nil {
		log.Warn().Err(err).Int("page", number).Msg("positioned rendition unavailable")
	} else {
		content.GlyphRuns, content.Images = parsePage(rendition, content.Size.Height)
	}

	if len(content.GlyphRuns) == 0 && len(content.Images) == 0 {
		if img := d.renderScan(idx); img != nil {
			content.Images = append(content.Images, img)
		}
	}

	return content, nil
}

// renderScan rasterizes a contentless page on the assumption that it is a
// scan MuPDF could not decompose. Returns nil when rendering fails.
func (d *Document) renderScan(idx int) []byte {
	img, err := d.doc.ImageDPI(idx, scanDPI)
	if err != nil {
		log.Warn().Err(err).Int("page", idx+1).Msg("page render failed")
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Warn().Err(err).Int("page", idx+1).Msg("page image encode failed")
		return nil
	}
	return buf.Bytes()
}

// Close releases the document handle.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	return err
}

// textStyle is the style context inherited down the rendition's element
// tree.
type textStyle struct {
	fontName string
	fontSize float64
}

// parsePage walks the positioned-HTML rendition of one page and produces
// glyph runs and embedded images. The rendition puts each line in a
// paragraph element styled with top/left point offsets; font properties
// appear on the paragraph or on nested elements.
func parsePage(rendition string, pageHeight float64) ([]model.GlyphRun, [][]byte) {
	var (
		runs   []model.GlyphRun
		images [][]byte

		stack = []textStyle{{fontName: "unknown", fontSize: 12}}

		paraTop    float64
		cursorX    float64
		positioned bool
	)

	tz := html.NewTokenizer(strings.NewReader(rendition))
	for {
		switch tz.Next() {
		case html.ErrorToken:
			return runs, images

		case html.StartTagToken, html.SelfClosingTagToken:
			token := tz.Token()
			if token.Data == "img" {
				if data := decodeDataURL(attr(token, "src")); data != nil {
					images = append(images, data)
				}
				continue
			}

			style := parseStyle(attr(token, "style"))
			st := stack[len(stack)-1]
			if v, ok := style["font-family"]; ok {
				st.fontName = firstFamily(v)
			}
			if v, ok := style["font-size"]; ok {
				if size := parsePt(v); size > 0 {
					st.fontSize = size
				}
			}
			if v, ok := style["top"]; ok {
				paraTop = parsePt(v)
				positioned = true
			}
			if v, ok := style["left"]; ok {
				cursorX = parsePt(v)
			}
			if token.Type == html.StartTagToken {
				stack = append(stack, st)
			}

		case html.EndTagToken:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}

		case html.TextToken:
			text := string(tz.Text())
			if strings.TrimSpace(text) == "" || !positioned {
				continue
			}
			st := stack[len(stack)-1]

			// Baseline sits roughly one font size below the line top.
			y := pageHeight - paraTop - st.fontSize
			width := estimateWidth(text, st.fontSize)
			runs = append(runs, model.GlyphRun{
				Text:          text,
				BaselineStart: model.Point{X: cursorX, Y: y},
				BaselineEnd:   model.Point{X: cursorX + width, Y: y},
				Font: model.FontID{
					Name:     st.fontName,
					Size:     st.fontSize,
					Embedded: true,
				},
			})
			cursorX += width
		}
	}
}

// estimateWidth approximates the advance of text at the given font size:
// half an em per Latin glyph, a full em per CJK glyph.
func estimateWidth(text string, fontSize float64) float64 {
	var w float64
	for _, r := range text {
		if r >= 0x2E80 {
			w += fontSize
		} else {
			w += fontSize / 2
		}
	}
	return w
}

// attr returns the value of the named attribute, or "".
func attr(token html.Token, name string) string {
	for _, a := range token.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// parseStyle splits an inline style attribute into properties.
func parseStyle(style string) map[string]string {
	props := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		key, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		props[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	return props
}

// parsePt parses a CSS length in points, e.g. "72pt". Returns 0 on anything
// else.
func parsePt(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "pt")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// firstFamily extracts the first name from a font-family list.
func firstFamily(v string) string {
	name, _, _ := strings.Cut(v, ",")
	return strings.Trim(strings.TrimSpace(name), `"'`)
}

// decodeDataURL decodes a base64 data URL into raw bytes. Returns nil for
// any other source form.
func decodeDataURL(src string) []byte {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return nil
	}
	_, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		log.Debug().Err(err).Msg("embedded image payload undecodable")
		return nil
	}
	return data
}
