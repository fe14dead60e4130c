package compliance

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// FontResource is one font referenced by a page's resources.
type FontResource struct {
	Name     string
	Embedded bool
}

// PageResources lists the conformance-relevant resources of one page.
type PageResources struct {
	Fonts       []FontResource
	ColorSpaces []string
}

// DocumentStructure is the subset of a document's structure the PDF/X
// heuristic inspects.
type DocumentStructure struct {
	// XMPMetadata is the raw XMP packet, empty when the document has none.
	XMPMetadata string

	Pages []PageResources
}

// CheckPDFX reports whether the document carries the strong signals of
// print-production conformance: PDF/X identification in the XMP metadata,
// every referenced font embedded, and only print color spaces (DeviceCMYK or
// DeviceGray) in use. Failing any signal reports false.
func CheckPDFX(s DocumentStructure) bool {
	if !hasPDFXIdentification(s.XMPMetadata) {
		log.Debug().Msg("pdfx: no identification in xmp metadata")
		return false
	}

	for _, page := range s.Pages {
		for _, font := range page.Fonts {
			if !font.Embedded {
				log.Debug().Str("font", font.Name).Msg("pdfx: font not embedded")
				return false
			}
		}
		for _, cs := range page.ColorSpaces {
			if !isPrintColorSpace(cs) {
				log.Debug().Str("colorspace", cs).Msg("pdfx: non-print color space")
				return false
			}
		}
	}

	return true
}

func hasPDFXIdentification(xmp string) bool {
	return strings.Contains(xmp, "PDF/X") || strings.Contains(xmp, "pdfxid:part")
}

func isPrintColorSpace(cs string) bool {
	return strings.Contains(cs, "DeviceCMYK") || strings.Contains(cs, "DeviceGray")
}
