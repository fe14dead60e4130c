package compliance

import (
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/rs/zerolog/log"
)

// ExtractStructure reads the conformance-relevant structure of a PDF file:
// the catalog's XMP metadata packet and each page's font and color-space
// resources. Pages whose dictionary cannot be read contribute an empty
// PageResources entry rather than failing the extraction.
func ExtractStructure(path string) (DocumentStructure, error) {
	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return DocumentStructure{}, fmt.Errorf("read %s: %w", path, err)
	}

	s := DocumentStructure{XMPMetadata: readXMPMetadata(ctx)}

	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageDict, _, _, err := ctx.PageDict(pageNr, false)
		if err != nil {
			log.Debug().Err(err).Int("page", pageNr).Msg("page dictionary unavailable")
			s.Pages = append(s.Pages, PageResources{})
			continue
		}
		s.Pages = append(s.Pages, pageResources(ctx, pageDict))
	}

	return s, nil
}

// readXMPMetadata returns the decoded content of the catalog's Metadata
// stream, or empty when the document carries none.
func readXMPMetadata(ctx *model.Context) string {
	catalog, err := ctx.Catalog()
	if err != nil {
		log.Debug().Err(err).Msg("catalog unavailable")
		return ""
	}

	obj, found := catalog.Find("Metadata")
	if !found {
		return ""
	}

	sd, ok := dereference(ctx, obj).(types.StreamDict)
	if !ok {
		return ""
	}
	if len(sd.Content) == 0 && len(sd.Raw) > 0 {
		if err := sd.Decode(); err != nil {
			log.Debug().Err(err).Msg("metadata stream undecodable")
			return ""
		}
	}
	return string(sd.Content)
}

// pageResources collects the fonts and color spaces a page's resource
// dictionary references. Entries are sorted so the output never depends on
// dictionary iteration order.
func pageResources(ctx *model.Context, pageDict types.Dict) PageResources {
	var res PageResources

	obj, found := pageDict.Find("Resources")
	if !found {
		return res
	}
	resDict, ok := dereferenceDict(ctx, obj)
	if !ok {
		return res
	}

	if fontsObj, found := resDict.Find("Font"); found {
		if fontsDict, ok := dereferenceDict(ctx, fontsObj); ok {
			for name, fontObj := range fontsDict {
				res.Fonts = append(res.Fonts, fontResource(ctx, name, fontObj))
			}
		}
	}
	sort.Slice(res.Fonts, func(i, j int) bool { return res.Fonts[i].Name < res.Fonts[j].Name })

	if csObj, found := resDict.Find("ColorSpace"); found {
		if csDict, ok := dereferenceDict(ctx, csObj); ok {
			for _, entry := range csDict {
				if name := colorSpaceName(ctx, entry); name != "" {
					res.ColorSpaces = append(res.ColorSpaces, name)
				}
			}
		}
	}
	sort.Strings(res.ColorSpaces)

	return res
}

// fontResource describes one font entry. The BaseFont name replaces the
// resource key when present, and the font counts as embedded when its
// descriptor carries a font program stream.
func fontResource(ctx *model.Context, resourceName string, obj types.Object) FontResource {
	fr := FontResource{Name: resourceName}

	fontDict, ok := dereferenceDict(ctx, obj)
	if !ok {
		return fr
	}

	if baseFont, found := fontDict.Find("BaseFont"); found {
		if name, ok := baseFont.(types.Name); ok {
			fr.Name = name.String()
		}
	}
	fr.Embedded = fontEmbedded(ctx, fontDict)
	return fr
}

func fontEmbedded(ctx *model.Context, fontDict types.Dict) bool {
	if desc, found := fontDict.Find("FontDescriptor"); found {
		if descDict, ok := dereferenceDict(ctx, desc); ok {
			return hasFontFile(descDict)
		}
	}

	// Type0 composite fonts keep the descriptor on the descendant font.
	if descendants, found := fontDict.Find("DescendantFonts"); found {
		if arr, ok := dereference(ctx, descendants).(types.Array); ok && len(arr) > 0 {
			if descFont, ok := dereferenceDict(ctx, arr[0]); ok {
				return fontEmbedded(ctx, descFont)
			}
		}
	}

	return false
}

func hasFontFile(desc types.Dict) bool {
	for _, key := range []string{"FontFile", "FontFile2", "FontFile3"} {
		if _, found := desc.Find(key); found {
			return true
		}
	}
	return false
}

// colorSpaceName resolves a ColorSpace resource entry to its family name:
// a bare name directly, an array form (ICCBased, Separation, Indexed) by its
// leading name.
func colorSpaceName(ctx *model.Context, obj types.Object) string {
	switch v := dereference(ctx, obj).(type) {
	case types.Name:
		return v.String()
	case types.Array:
		if len(v) > 0 {
			if name, ok := dereference(ctx, v[0]).(types.Name); ok {
				return name.String()
			}
		}
	}
	return ""
}

func dereference(ctx *model.Context, obj types.Object) types.Object {
	indRef, ok := obj.(types.IndirectRef)
	if !ok {
		return obj
	}
	deref, err := ctx.Dereference(indRef)
	if err != nil {
		log.Debug().Err(err).Msg("dangling indirect reference")
		return obj
	}
	return deref
}

func dereferenceDict(ctx *model.Context, obj types.Object) (types.Dict, bool) {
	d, ok := dereference(ctx, obj).(types.Dict)
	return d, ok
}
