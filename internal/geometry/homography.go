package geometry

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSourceDegenerate is returned when the source quad has coincident or
// collinear corners and no projective mapping exists.
var ErrSourceDegenerate = errors.New("geometry: source quad is degenerate")

// Point is a 2D coordinate in pixel space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for constructing a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Quad is four ordered corners, clockwise starting at the top-left.
type Quad [4]Point

// Rect returns the axis-aligned quad covering a w×h rectangle at the origin.
func Rect(w, h float64) Quad {
	return Quad{Pt(0, 0), Pt(w, 0), Pt(w, h), Pt(0, h)}
}

const collinearEps = 1e-9

// Degenerate reports whether any three corners are collinear or coincident.
func (q Quad) Degenerate() bool {
	for i := 0; i < 4; i++ {
		a := q[i]
		b := q[(i+1)%4]
		c := q[(i+2)%4]
		cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
		if math.Abs(cross) < collinearEps {
			return true
		}
	}
	return false
}

// Coeffs holds the eight coefficients of a projective plane mapping.
//
// The convention is destination→source: applying the coefficients to a point
// in the output canvas yields the point to sample in the source image. That
// backward form makes resampling well-defined for every output pixel, which a
// forward painter-style warp would not be.
type Coeffs [8]float64

// Solve computes the coefficients mapping points on dst back onto src.
//
// Each of the four correspondences contributes two rows to an 8×8 linear
// system, solved by least squares. A degenerate source quad (or a singular
// system) yields ErrSourceDegenerate and no coefficients.
func Solve(src, dst Quad) (Coeffs, error) {
	if src.Degenerate() {
		return Coeffs{}, ErrSourceDegenerate
	}

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		sx, sy := src[i].X, src[i].Y
		dx, dy := dst[i].X, dst[i].Y
		r := 2 * i
		a.SetRow(r, []float64{dx, dy, 1, 0, 0, 0, -sx * dx, -sx * dy})
		a.SetRow(r+1, []float64{0, 0, 0, dx, dy, 1, -sy * dx, -sy * dy})
		b.SetVec(r, sx)
		b.SetVec(r+1, sy)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return Coeffs{}, ErrSourceDegenerate
	}

	var c Coeffs
	for i := range c {
		c[i] = x.AtVec(i)
	}
	return c, nil
}

// Apply maps a destination-plane point to its source-plane position.
func (c Coeffs) Apply(x, y float64) (float64, float64) {
	d := c[6]*x + c[7]*y + 1
	if d == 0 {
		return math.Inf(1), math.Inf(1)
	}
	sx := (c[0]*x + c[1]*y + c[2]) / d
	sy := (c[3]*x + c[4]*y + c[5]) / d
	return sx, sy
}
