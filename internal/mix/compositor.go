// Package mix assembles the fixed-canvas composite thumbnail: a rounded,
// shadowed screenshot backdrop with the logo, 3D box and physical-media
// layers anchored around it.
package mix

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/boxart-tools/boxart/internal/raster"
)

// ErrNoScreenshot is returned when the mandatory background layer is absent.
var ErrNoScreenshot = errors.New("mix: screenshot layer is required")

// Layout fixes the canvas geometry. All fields have working defaults from
// DefaultLayout; the zero value is not usable.
type Layout struct {
	CanvasW int
	CanvasH int

	CornerRadius     float64
	ScreenshotMargin int

	MarqueeMaxW        float64 // fraction of canvas width
	MarqueeMaxH        float64 // fraction of canvas height
	MarqueeMarginTop   int
	MarqueeMarginRight int

	BoxMaxW         float64
	BoxMaxH         float64
	BoxMarginLeft   int
	BoxMarginBottom int

	MediaMaxW         float64
	MediaMaxH         float64
	MediaMarginBottom int
	MediaGap          int // may be negative for a slight overlap

	Shadow raster.ShadowOptions
}

// DefaultLayout is the 1280×960 arrangement used for library thumbnails.
func DefaultLayout() Layout {
	return Layout{
		CanvasW: 1280,
		CanvasH: 960,

		CornerRadius:     24,
		ScreenshotMargin: 40,

		MarqueeMaxW:        0.45,
		MarqueeMaxH:        0.25,
		MarqueeMarginTop:   20,
		MarqueeMarginRight: 30,

		BoxMaxW:         0.40,
		BoxMaxH:         0.55,
		BoxMarginLeft:   20,
		BoxMarginBottom: 20,

		MediaMaxW:         0.25,
		MediaMaxH:         0.30,
		MediaMarginBottom: 30,
		MediaGap:          -10,

		Shadow: raster.ShadowOptions{
			Offset: 8,
			Blur:   12,
			Shade:  color.NRGBA{A: 100},
		},
	}
}

// Compose lays the screenshot and up to three optional layers out on a fresh
// canvas. Optional layers passed as nil are simply omitted. Layers are
// composited in a fixed order (background, marquee, box, physical media),
// each preceded by its silhouette drop shadow, so later layers occlude
// earlier ones wherever they overlap.
func Compose(screenshot, marquee, box3d, physical image.Image, l Layout) (*image.NRGBA, error) {
	if screenshot == nil {
		return nil, ErrNoScreenshot
	}

	canvas := imaging.New(l.CanvasW, l.CanvasH, color.NRGBA{})

	// Background: scale-to-cover, center crop, rounded corners.
	ssW := l.CanvasW - l.ScreenshotMargin*2
	ssH := l.CanvasH - l.ScreenshotMargin*2
	ss := imaging.Fill(screenshot, ssW, ssH, imaging.Center, imaging.Lanczos)
	ss = raster.ApplyAlphaMask(ss, roundedMask(ssW, ssH, l.CornerRadius))
	canvas = placeLayer(canvas, ss, l.ScreenshotMargin, l.ScreenshotMargin, l.Shadow)

	if marquee != nil {
		mq := raster.Fit(marquee, int(float64(l.CanvasW)*l.MarqueeMaxW), int(float64(l.CanvasH)*l.MarqueeMaxH))
		x := l.CanvasW - mq.Bounds().Dx() - l.MarqueeMarginRight
		canvas = placeLayer(canvas, mq, x, l.MarqueeMarginTop, l.Shadow)
	}

	boxRightEdge := l.BoxMarginLeft
	if box3d != nil {
		bx := raster.Fit(box3d, int(float64(l.CanvasW)*l.BoxMaxW), int(float64(l.CanvasH)*l.BoxMaxH))
		y := l.CanvasH - bx.Bounds().Dy() - l.BoxMarginBottom
		canvas = placeLayer(canvas, bx, l.BoxMarginLeft, y, l.Shadow)
		boxRightEdge = l.BoxMarginLeft + bx.Bounds().Dx()
	}

	if physical != nil {
		pm := raster.Fit(physical, int(float64(l.CanvasW)*l.MediaMaxW), int(float64(l.CanvasH)*l.MediaMaxH))
		x := boxRightEdge + l.MediaGap
		y := l.CanvasH - pm.Bounds().Dy() - l.MediaMarginBottom
		canvas = placeLayer(canvas, pm, x, y, l.Shadow)
	}

	return canvas, nil
}

// placeLayer drops the layer's shadow onto the canvas and composites the
// layer itself at (x, y).
func placeLayer(canvas *image.NRGBA, layer *image.NRGBA, x, y int, shadow raster.ShadowOptions) *image.NRGBA {
	out := raster.DropShadow(canvas, layer, x, y, shadow)
	return imaging.Overlay(out, layer, image.Pt(x, y), 1.0)
}

// roundedMask builds a white rounded rectangle whose alpha clips the
// screenshot corners.
func roundedMask(w, h int, radius float64) *image.NRGBA {
	dc := gg.NewContext(w, h)
	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), radius)
	dc.SetRGB(1, 1, 1)
	dc.Fill()
	return imaging.Clone(dc.Image())
}
