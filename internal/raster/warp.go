package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/boxart-tools/boxart/internal/geometry"
)

// Warp resamples src through the destination→source mapping in coeffs and
// returns a raster of exactly outW×outH. Every output pixel whose mapped
// source coordinate falls outside the source bounds is fully transparent;
// in-bounds samples use a Catmull-Rom bicubic kernel. The function is pure:
// identical inputs produce byte-identical output.
func Warp(src image.Image, coeffs geometry.Coeffs, outW, outH int) *image.NRGBA {
	out := imaging.New(outW, outH, color.NRGBA{})
	in := imaging.Clone(src)
	sw := in.Bounds().Dx()
	sh := in.Bounds().Dy()
	if sw == 0 || sh == 0 {
		return out
	}

	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			sx, sy := coeffs.Apply(float64(x), float64(y))
			if sx < 0 || sy < 0 || sx > float64(sw-1) || sy > float64(sh-1) {
				continue
			}
			r, g, b, a := sampleBicubic(in, sx, sy)
			i := y*out.Stride + x*4
			out.Pix[i] = r
			out.Pix[i+1] = g
			out.Pix[i+2] = b
			out.Pix[i+3] = a
		}
	}
	return out
}

// cubicWeight is the Catmull-Rom kernel (a = -0.5).
func cubicWeight(t float64) float64 {
	const a = -0.5
	t = math.Abs(t)
	switch {
	case t <= 1:
		return (a+2)*t*t*t - (a+3)*t*t + 1
	case t < 2:
		return a*t*t*t - 5*a*t*t + 8*a*t - 4*a
	}
	return 0
}

// sampleBicubic interpolates the 4×4 neighborhood around (sx, sy), clamping
// neighbor indices at the image edge.
func sampleBicubic(img *image.NRGBA, sx, sy float64) (uint8, uint8, uint8, uint8) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	x0 := int(math.Floor(sx))
	y0 := int(math.Floor(sy))
	fx := sx - float64(x0)
	fy := sy - float64(y0)

	var acc [4]float64
	for m := -1; m <= 2; m++ {
		wy := cubicWeight(float64(m) - fy)
		if wy == 0 {
			continue
		}
		iy := min(max(y0+m, 0), h-1)
		for n := -1; n <= 2; n++ {
			wx := cubicWeight(float64(n) - fx)
			if wx == 0 {
				continue
			}
			ix := min(max(x0+n, 0), w-1)
			wgt := wx * wy
			i := iy*img.Stride + ix*4
			acc[0] += wgt * float64(img.Pix[i])
			acc[1] += wgt * float64(img.Pix[i+1])
			acc[2] += wgt * float64(img.Pix[i+2])
			acc[3] += wgt * float64(img.Pix[i+3])
		}
	}

	return clampByte(acc[0]), clampByte(acc[1]), clampByte(acc[2]), clampByte(acc[3])
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
