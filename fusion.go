package pdfanalyzer

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	// Decoders for the image formats PDF streams commonly carry.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/noctureous/itext-ver-docker/internal/metrics"
	"github.com/noctureous/itext-ver-docker/model"
	"github.com/noctureous/itext-ver-docker/symbols"
)

// fuseImages recognizes text in the page's images and folds the outcome into
// the result: one entry per image in ImageText, a synthetic text run per
// detected image, and an image section appended to the page's combined text.
// The section lists every image in detection order, sentinel entries included,
// so a page with images always differs from its plain text. Recognition
// failures never fail the page.
func (a *Analyzer) fuseImages(result *model.AnalysisResult, page int, images [][]byte) {
	if len(images) == 0 {
		return
	}

	for i, img := range images {
		n := i + 1

		text, err := a.recognizeImage(img)
		if err != nil {
			log.Warn().Err(err).Int("page", page).Int("image", n).Msg("image could not be processed")
			result.ImageText[page] = append(result.ImageText[page], model.ImageErrorSentinel)
			metrics.IncRecognition("error")
			continue
		}

		if text == "" {
			result.ImageText[page] = append(result.ImageText[page], model.NoTextSentinel)
			result.TextRuns[page] = append(result.TextRuns[page], model.TextRun{
				Text:     fmt.Sprintf("[IMAGE %d DETECTED]: No readable text content", n),
				FontName: model.FontNameImageNoText,
				FontSize: 12,
			})
			continue
		}

		result.ImageText[page] = append(result.ImageText[page], text)
		result.TextRuns[page] = append(result.TextRuns[page], model.TextRun{
			Text:     fmt.Sprintf("[IMAGE %d OCR]: %s", n, truncate(text, a.options.ImageTextSampleLimit)),
			FontName: model.FontNameOCR,
			FontSize: 12,
		})
		metrics.IncRecognition("text")
	}

	entries := result.ImageText[page]
	numbered := make([]string, len(entries))
	for i, entry := range entries {
		numbered[i] = fmt.Sprintf("Image %d: %s", i+1, entry)
	}

	var sb strings.Builder
	if pageText := result.PageText[page]; pageText != "" {
		sb.WriteString(pageText)
		sb.WriteString("\n\n")
	}
	sb.WriteString("--- Text from Images ---\n")
	sb.WriteString(strings.Join(numbered, "\n\n"))
	result.CombinedText[page] = sb.String()
}

// recognizeImage runs one image through the recognition pipeline. It returns
// the normalized text, empty when the image was skipped or produced nothing
// readable, and an error only when the image itself could not be decoded.
func (a *Analyzer) recognizeImage(img []byte) (string, error) {
	format := mimetype.Detect(img)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return "", fmt.Errorf("decode %s image: %w", format.String(), err)
	}
	log.Debug().Str("format", format.String()).Int("bytes", len(img)).Msg("image decoded")

	// Tiny images are decorations (rules, icons); recognition on them
	// yields noise.
	if cfg.Width < a.options.MinImageWidth || cfg.Height < a.options.MinImageHeight {
		metrics.IncRecognition("skipped")
		return "", nil
	}

	if a.ocr == nil {
		metrics.IncRecognition("skipped")
		return "", nil
	}

	text, err := a.ocr.ExtractText(img)
	if err != nil {
		log.Debug().Err(err).Msg("recognition unavailable or failed")
		metrics.IncRecognition("no_text")
		return "", nil
	}

	normalized := symbols.Normalize(text)
	if normalized == "" {
		metrics.IncRecognition("no_text")
	}
	return normalized, nil
}

// truncate caps s at limit characters, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
