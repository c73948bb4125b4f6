package spine

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// platformNames maps platform codes to the label printed on the spine.
var platformNames = map[string]string{
	"ps2":    "PlayStation 2",
	"ps3":    "PlayStation 3",
	"ps4":    "PlayStation 4",
	"psp":    "PSP",
	"psvita": "PS Vita",
	"psx":    "PlayStation",
}

// DisplayName returns the spine label for a platform code, falling back to
// the code itself for platforms without a friendlier name.
func DisplayName(code string) string {
	if code == "" {
		return ""
	}
	if name, ok := platformNames[code]; ok {
		return name
	}
	return code
}

// TallCase renders DVD tall-case styling: dark case bands at the cover's top
// and bottom, a rotated platform label under the top band of the spine, a
// light band carrying the vertically typeset title, and a glossy highlight.
type TallCase struct{}

const (
	caseShade    = 20  // near-black plastic
	labelAlpha   = 230 // white label ink
	titleAlpha   = 200 // black title ink
	minLabelSize = 5
	minTitleSize = 6
)

func (TallCase) DecorateCover(cover image.Image) *image.NRGBA {
	out := imaging.Clone(cover)
	cw := out.Bounds().Dx()
	ch := out.Bounds().Dy()
	band := max(2, ch*2/100)
	shade := image.NewUniform(color.NRGBA{R: caseShade, G: caseShade, B: caseShade, A: 255})
	draw.Draw(out, image.Rect(0, 0, cw, band), shade, image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, ch-band, cw, ch), shade, image.Point{}, draw.Src)
	return out
}

func (TallCase) DecorateSpine(spine image.Image, style Style) *image.NRGBA {
	out := imaging.Clone(spine)
	sw := out.Bounds().Dx()
	sh := out.Bounds().Dy()
	if sw < 6 {
		return out
	}

	fnt := resolveFont(style.FontPath)
	label := DisplayName(style.Platform)

	caseBand := max(1, sh*2/100)

	var rotatedLabel *image.NRGBA
	if label != "" {
		rotatedLabel = renderLabel(fnt, label, sw, sh)
	}
	labelH := 0
	if rotatedLabel != nil {
		labelH = rotatedLabel.Bounds().Dy()
	}

	titleTop := caseBand + labelH
	titleBot := sh - caseBand

	// Case plastic covers the whole face; the title band is lightened on top.
	dark := image.NewUniform(color.NRGBA{R: caseShade, G: caseShade, B: caseShade, A: 255})
	draw.Draw(out, out.Bounds(), dark, image.Point{}, draw.Src)
	if style.Title != "" && titleBot > titleTop {
		light := image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		draw.Draw(out, image.Rect(0, titleTop, sw, titleBot), light, image.Point{}, draw.Src)
	}

	if rotatedLabel != nil {
		px := (sw - rotatedLabel.Bounds().Dx()) / 2
		out = imaging.Overlay(out, rotatedLabel, image.Pt(px, caseBand), 1.0)
	}

	if style.Title != "" {
		pad := int(float64(sw) * 0.15)
		typesetTitle(out, fnt, style.Title, sw/2, titleTop+pad, titleBot-pad)
	}

	return addGloss(out)
}

// renderLabel draws the platform name horizontally and rotates it clockwise
// so it reads bottom-to-top on the spine. The font shrinks until the label
// fits within 35% of the spine height.
func renderLabel(fnt *sfnt.Font, label string, sw, sh int) *image.NRGBA {
	size := math.Max(6, float64(sw)*0.50)
	maxW := float64(sh) * 0.35

	face := newFace(fnt, size)
	textW := font.MeasureString(face, label).Ceil()
	for float64(textW) > maxW && size > minLabelSize {
		size--
		face = newFace(fnt, size)
		textW = font.MeasureString(face, label).Ceil()
	}

	m := face.Metrics()
	textH := (m.Ascent + m.Descent).Ceil()
	pad := max(2, textH*3/10)
	w := textW + pad*2
	h := textH + pad*2

	dc := gg.NewContext(w, h)
	dc.SetFontFace(face)
	dc.SetRGBA255(255, 255, 255, labelAlpha)
	dc.DrawStringAnchored(label, float64(w)/2, float64(h)/2, 0.5, 0.5)
	return imaging.Rotate270(dc.Image())
}

// typesetTitle lays the title out one glyph per line, centered on xCenter,
// inside the band [yStart, yEnd). The font size shrinks one unit at a time
// until the glyph stack fits or the minimum size is reached; at the minimum
// the stack is clipped at the band's lower bound and never drawn past it.
func typesetTitle(dst *image.NRGBA, fnt *sfnt.Font, title string, xCenter, yStart, yEnd int) {
	if yEnd <= yStart {
		return
	}
	chars := []rune(title)
	bandH := yEnd - yStart

	size := math.Max(7, float64(dst.Bounds().Dx())*0.55)
	var face font.Face
	var spacing int
	for {
		face = newFace(fnt, size)
		spacing = max(1, int(size*0.12))
		if stackHeight(face, chars, spacing) <= bandH || size <= minTitleSize {
			break
		}
		size--
	}

	ink := image.NewUniform(color.NRGBA{A: titleAlpha})
	y := yStart
	for _, ch := range chars {
		b, _ := font.BoundString(face, string(ch))
		chW := (b.Max.X - b.Min.X).Ceil()
		chH := (b.Max.Y - b.Min.Y).Ceil()
		if y+chH > yEnd {
			break
		}
		d := font.Drawer{
			Dst:  dst,
			Src:  ink,
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.I(xCenter-chW/2) - b.Min.X,
				Y: fixed.I(y) - b.Min.Y,
			},
		}
		d.DrawString(string(ch))
		y += chH + spacing
	}
}

// stackHeight measures the total height of the vertical glyph stack.
func stackHeight(face font.Face, chars []rune, spacing int) int {
	total := 0
	for _, ch := range chars {
		b, _ := font.BoundString(face, string(ch))
		total += (b.Max.Y - b.Min.Y).Ceil()
	}
	if len(chars) > 1 {
		total += spacing * (len(chars) - 1)
	}
	return total
}

// addGloss overlays the plastic-case reflection: a soft white band peaked at
// 75% of the spine width, fading quadratically with distance from the peak.
func addGloss(spine *image.NRGBA) *image.NRGBA {
	sw := spine.Bounds().Dx()
	sh := spine.Bounds().Dy()

	center := int(float64(sw) * 0.75)
	width := max(2, int(float64(sw)*0.25))

	hl := imaging.New(sw, sh, color.NRGBA{})
	for x := 0; x < sw; x++ {
		dist := x - center
		if dist < 0 {
			dist = -dist
		}
		if dist > width {
			continue
		}
		t := 1.0 - float64(dist)/float64(width)
		a := uint8(50 * t * t)
		if a == 0 {
			continue
		}
		col := color.NRGBA{R: 255, G: 255, B: 255, A: a}
		for y := 0; y < sh; y++ {
			hl.SetNRGBA(x, y, col)
		}
	}
	return imaging.Overlay(spine, hl, image.Pt(0, 0), 1.0)
}
