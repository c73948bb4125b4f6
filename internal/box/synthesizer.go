// Package box synthesizes a pseudo-3D case render from flat cover art: the
// cover is warped into a perspective front face, a decorated spine face is
// warped to meet it along a shared vertical edge, and the two are composited
// over a silhouette drop shadow.
package box

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/boxart-tools/boxart/internal/geometry"
	"github.com/boxart-tools/boxart/internal/raster"
	"github.com/boxart-tools/boxart/internal/spine"
)

// ErrDegenerateGeometry is returned when the cover is too small to produce a
// meaningful render even after clamping.
var ErrDegenerateGeometry = errors.New("box: cover dimensions are degenerate")

// Options configures one synthesis call. Zero canvas dimensions size the
// canvas automatically from the cover.
type Options struct {
	// SpineRatio is the spine width as a fraction of the cover width.
	SpineRatio float64
	// DepthPercent sets the perspective strength: 0 is head-on, higher
	// values compress the front face and deepen the spine.
	DepthPercent float64
	// Shadow enables the silhouette drop shadow.
	Shadow bool
	// Title is typeset vertically on the spine.
	Title string
	// Platform selects the decoration strategy and spine label.
	Platform string
	// FontPath optionally overrides the spine font fallback chain.
	FontPath string

	CanvasW int
	CanvasH int
}

// DefaultOptions mirrors the interactive defaults: a slim spine, moderate
// perspective, shadow on.
func DefaultOptions() Options {
	return Options{
		SpineRatio:   0.08,
		DepthPercent: 0.30,
		Shadow:       true,
	}
}

const (
	minCoverDim  = 4
	shadowOffset = 6
	shadowBlur   = 4.0
)

var shadowShade = color.NRGBA{A: 80}

// Synthesize renders the cover as a transparent-background 3D box. For fixed
// inputs and options the output is byte-identical across calls.
func Synthesize(cover image.Image, opts Options, reg *spine.Registry) (*image.NRGBA, error) {
	c := imaging.Clone(cover)
	cw := c.Bounds().Dx()
	ch := c.Bounds().Dy()
	if cw == 0 || ch == 0 {
		return nil, ErrDegenerateGeometry
	}
	// Near-zero inputs are clamped up to a usable size rather than refused.
	if cw < minCoverDim || ch < minCoverDim {
		c = imaging.Resize(c, max(cw, minCoverDim), max(ch, minCoverDim), imaging.Lanczos)
		cw = c.Bounds().Dx()
		ch = c.Bounds().Dy()
	}

	ratio := clamp(opts.SpineRatio, 0.01, 0.90)
	depth := clamp(opts.DepthPercent, 0.01, 1.00)

	spineW := max(4, int(float64(cw)*ratio))
	frontW := int(float64(cw) * (1.0 - depth*0.55))
	shrink := int(float64(ch) * depth * 0.22)
	spineDrop := int(float64(spineW) * depth * 1.8)
	margin := max(12, int(float64(cw)*0.04))

	flX := spineW
	top := margin + spineDrop

	outW := opts.CanvasW
	if outW == 0 {
		outW = spineW + frontW + margin
	}
	outH := opts.CanvasH
	if outH == 0 {
		outH = ch + spineDrop + 2*margin
	}

	dec := reg.Lookup(opts.Platform)
	front := dec.DecorateCover(c)

	frontDst := geometry.Quad{
		geometry.Pt(float64(flX), float64(top)),
		geometry.Pt(float64(flX+frontW), float64(top+shrink)),
		geometry.Pt(float64(flX+frontW), float64(top+ch-shrink)),
		geometry.Pt(float64(flX), float64(top+ch)),
	}
	frontCoeffs, err := geometry.Solve(geometry.Rect(float64(cw), float64(ch)), frontDst)
	if err != nil {
		return nil, err
	}
	frontWarped := raster.Warp(front, frontCoeffs, outW, outH)

	grad := spine.Gradient(front, spineW, ch)
	face := dec.DecorateSpine(grad, spine.Style{
		Title:    opts.Title,
		Platform: opts.Platform,
		FontPath: opts.FontPath,
	})

	// The spine projects as a parallelogram rising away from the shared
	// edge, mirroring the front face's keystone direction.
	spineDst := geometry.Quad{
		geometry.Pt(0, float64(top-spineDrop)),
		geometry.Pt(float64(flX), float64(top)),
		geometry.Pt(float64(flX), float64(top+ch)),
		geometry.Pt(0, float64(top+ch-spineDrop)),
	}
	spineCoeffs, err := geometry.Solve(geometry.Rect(float64(spineW), float64(ch)), spineDst)
	if err != nil {
		return nil, err
	}
	spineWarped := raster.Warp(face, spineCoeffs, outW, outH)

	result := imaging.New(outW, outH, color.NRGBA{})

	if opts.Shadow {
		sh := imaging.New(outW, outH, color.NRGBA{})
		for _, layer := range []*image.NRGBA{spineWarped, frontWarped} {
			sil := raster.Silhouette(layer, shadowShade)
			sh = imaging.Overlay(sh, sil, image.Pt(shadowOffset, shadowOffset), 1.0)
		}
		sh = imaging.Blur(sh, shadowBlur)
		result = imaging.Overlay(result, sh, image.Pt(0, 0), 1.0)
	}

	result = imaging.Overlay(result, spineWarped, image.Pt(0, 0), 1.0)
	result = imaging.Overlay(result, frontWarped, image.Pt(0, 0), 1.0)

	return raster.TrimTransparent(result), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
