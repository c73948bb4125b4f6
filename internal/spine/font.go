package spine

import (
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// systemFonts are tried in order when no explicit font path is given.
var systemFonts = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"C:/Windows/Fonts/arial.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
}

// resolveFont walks the candidate chain: the explicit override first, then
// known system locations, then the embedded Go Regular font. Font trouble is
// cosmetic, so it is recovered here and never reported to callers.
func resolveFont(fontPath string) *sfnt.Font {
	if fontPath != "" {
		if f := parseFontFile(fontPath); f != nil {
			return f
		}
	}
	for _, cand := range systemFonts {
		if f := parseFontFile(cand); f != nil {
			return f
		}
	}
	f, _ := opentype.Parse(goregular.TTF)
	return f
}

func parseFontFile(path string) *sfnt.Font {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil
	}
	return f
}

// newFace builds a rendering face at the given pixel size.
func newFace(f *sfnt.Font, size float64) font.Face {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		fallback, _ := opentype.Parse(goregular.TTF)
		face, _ = opentype.NewFace(fallback, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}
	return face
}
