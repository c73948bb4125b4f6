// Package raster provides the pixel-level building blocks shared by the box
// synthesizer and the layout compositor: perspective warping, no-upscale
// fitting, alpha trimming, masks, and silhouette drop shadows.
//
// Every function allocates and returns a new image; inputs are never mutated.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Fit shrinks img to fit within maxW×maxH preserving aspect ratio. Images
// that already fit are returned as an untouched copy: fitting never upscales
// past native resolution.
func Fit(img image.Image, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return imaging.Clone(img)
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	if scale >= 1.0 {
		return imaging.Clone(img)
	}
	nw := max(1, int(float64(w)*scale))
	nh := max(1, int(float64(h)*scale))
	return imaging.Resize(img, nw, nh, imaging.Lanczos)
}

// OpaqueBounds returns the bounding box of pixels with nonzero alpha,
// relative to the image origin. ok is false when the image is fully
// transparent.
func OpaqueBounds(img *image.NRGBA) (r image.Rectangle, ok bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride : (y-b.Min.Y)*img.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			px := b.Min.X + x
			if px < minX {
				minX = px
			}
			if px > maxX {
				maxX = px
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX || maxY < minY {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// TrimTransparent crops img to the bounding box of its non-transparent
// pixels, so the result carries no fully transparent border rows or columns.
// A fully transparent image is returned unchanged.
func TrimTransparent(img *image.NRGBA) *image.NRGBA {
	r, ok := OpaqueBounds(img)
	if !ok {
		return imaging.Clone(img)
	}
	return imaging.Crop(img, r)
}

// ApplyAlphaMask returns img with each pixel's alpha reduced to at most the
// mask's alpha at the same position. The mask must have the same dimensions.
func ApplyAlphaMask(img image.Image, mask image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	b := out.Bounds()
	mb := mask.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			_, _, _, ma := mask.At(mb.Min.X+x, mb.Min.Y+y).RGBA()
			i := y*out.Stride + x*4
			a := uint32(out.Pix[i+3]) * (ma >> 8) / 255
			out.Pix[i+3] = uint8(a)
		}
	}
	return out
}

// Silhouette returns a canvas-sized image holding the layer's alpha channel
// re-filled with shade, the raw material for a drop shadow.
func Silhouette(layer *image.NRGBA, shade color.NRGBA) *image.NRGBA {
	b := layer.Bounds()
	out := imaging.New(b.Dx(), b.Dy(), color.NRGBA{})
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			i := y*layer.Stride + x*4
			a := layer.Pix[i+3]
			if a == 0 {
				continue
			}
			o := y*out.Stride + x*4
			out.Pix[o] = shade.R
			out.Pix[o+1] = shade.G
			out.Pix[o+2] = shade.B
			out.Pix[o+3] = uint8(uint32(a) * uint32(shade.A) / 255)
		}
	}
	return out
}

// ShadowOptions controls silhouette drop shadows.
type ShadowOptions struct {
	Offset int
	Blur   float64
	Shade  color.NRGBA
}

// DropShadow composites a blurred, diagonally offset silhouette of layer
// onto canvas, as if the layer were placed at (x, y). The canvas itself is
// not modified; the composited result is returned.
func DropShadow(canvas *image.NRGBA, layer *image.NRGBA, x, y int, opts ShadowOptions) *image.NRGBA {
	cb := canvas.Bounds()
	sh := imaging.New(cb.Dx(), cb.Dy(), color.NRGBA{})
	sh = imaging.Paste(sh, Silhouette(layer, opts.Shade), image.Pt(x+opts.Offset, y+opts.Offset))
	if opts.Blur > 0 {
		sh = imaging.Blur(sh, opts.Blur)
	}
	return imaging.Overlay(canvas, sh, image.Pt(0, 0), 1.0)
}
