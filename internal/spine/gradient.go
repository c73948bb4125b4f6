package spine

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Gradient builds the base spine face for a cover: a thin strip along the
// cover's left edge is averaged, the average is scaled to a dark (45%) and a
// light (70%) tone, and the two are interpolated horizontally across the
// spine width. The result is fully opaque.
func Gradient(cover image.Image, width, height int) *image.NRGBA {
	c := imaging.Clone(cover)
	cw := c.Bounds().Dx()
	ch := c.Bounds().Dy()

	strip := max(1, cw/10)
	var sumR, sumG, sumB, n uint64
	for y := 0; y < ch; y++ {
		for x := 0; x < strip && x < cw; x++ {
			i := y*c.Stride + x*4
			sumR += uint64(c.Pix[i])
			sumG += uint64(c.Pix[i+1])
			sumB += uint64(c.Pix[i+2])
			n++
		}
	}
	var avgR, avgG, avgB float64
	if n > 0 {
		avgR = float64(sumR) / float64(n)
		avgG = float64(sumG) / float64(n)
		avgB = float64(sumB) / float64(n)
	}

	dark := [3]float64{avgR * 0.45, avgG * 0.45, avgB * 0.45}
	light := [3]float64{avgR * 0.70, avgG * 0.70, avgB * 0.70}

	out := imaging.New(width, height, color.NRGBA{A: 255})
	for x := 0; x < width; x++ {
		t := 0.0
		if width > 1 {
			t = float64(x) / float64(width-1)
		}
		col := color.NRGBA{
			R: uint8(dark[0] + (light[0]-dark[0])*t),
			G: uint8(dark[1] + (light[1]-dark[1])*t),
			B: uint8(dark[2] + (light[2]-dark[2])*t),
			A: 255,
		}
		for y := 0; y < height; y++ {
			out.SetNRGBA(x, y, col)
		}
	}
	return out
}
