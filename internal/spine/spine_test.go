package spine

import (
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

func TestGradientDimensionsAndDirection(t *testing.T) {
	cover := imaging.New(200, 300, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	g := Gradient(cover, 16, 300)

	if b := g.Bounds(); b.Dx() != 16 || b.Dy() != 300 {
		t.Fatalf("gradient size: got %dx%d, want 16x300", b.Dx(), b.Dy())
	}

	left := g.NRGBAAt(0, 150)
	right := g.NRGBAAt(15, 150)
	if left.A != 255 || right.A != 255 {
		t.Error("gradient must be fully opaque")
	}
	if left.R >= right.R {
		t.Errorf("gradient should run dark to light: left R=%d, right R=%d", left.R, right.R)
	}
	if want := uint8(200 * 0.45); left.R != want {
		t.Errorf("dark tone: got %d, want %d", left.R, want)
	}
	if want := uint8(200 * 0.70); right.R != want {
		t.Errorf("light tone: got %d, want %d", right.R, want)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Lookup("ps2").(TallCase); !ok {
		t.Error("ps2 should resolve to the tall-case decorator")
	}
	if _, ok := r.Lookup("PS2").(TallCase); !ok {
		t.Error("lookup should be case-insensitive")
	}
	if _, ok := r.Lookup("dreamcast").(Nop); !ok {
		t.Error("unknown platform should resolve to the no-op decorator")
	}
	if _, ok := r.Lookup("").(Nop); !ok {
		t.Error("empty platform should resolve to the no-op decorator")
	}
	if len(r.Codes()) == 0 {
		t.Error("registry should list its built-in codes")
	}
}

func TestNopDecoratorCopies(t *testing.T) {
	src := imaging.New(12, 40, color.NRGBA{R: 5, G: 6, B: 7, A: 255})
	out := Nop{}.DecorateSpine(src, Style{Title: "ignored"})
	if &out.Pix[0] == &src.Pix[0] {
		t.Error("decorator must return a new raster, not alias its input")
	}
	if out.NRGBAAt(5, 5) != src.NRGBAAt(5, 5) {
		t.Error("no-op decorator changed pixel data")
	}
}

func TestDecorateSpinePreservesDimensions(t *testing.T) {
	cover := imaging.New(200, 600, color.NRGBA{R: 90, G: 20, B: 20, A: 255})
	grad := Gradient(cover, 20, 600)

	for _, style := range []Style{
		{},
		{Title: "Shadow of the Colossus", Platform: "ps2"},
		{Title: "ア very long title that can never fit on such a small spine at any legible size", Platform: "ps2"},
	} {
		out := TallCase{}.DecorateSpine(grad, style)
		if b := out.Bounds(); b.Dx() != 20 || b.Dy() != 600 {
			t.Errorf("style %+v changed dimensions: got %dx%d", style, b.Dx(), b.Dy())
		}
	}
}

func TestDecorateSpineTinyFaceUntouched(t *testing.T) {
	grad := imaging.New(4, 100, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	out := TallCase{}.DecorateSpine(grad, Style{Title: "X", Platform: "ps2"})
	if out.NRGBAAt(2, 50) != grad.NRGBAAt(2, 50) {
		t.Error("spines narrower than the drawable minimum should pass through unchanged")
	}
}

func TestDecorateCoverBands(t *testing.T) {
	cover := imaging.New(100, 200, color.NRGBA{R: 250, G: 250, B: 250, A: 255})
	out := TallCase{}.DecorateCover(cover)

	if got := out.NRGBAAt(50, 0); got.R != caseShade {
		t.Errorf("top case band missing: got %v", got)
	}
	if got := out.NRGBAAt(50, 199); got.R != caseShade {
		t.Errorf("bottom case band missing: got %v", got)
	}
	if got := out.NRGBAAt(50, 100); got.R != 250 {
		t.Errorf("cover middle overwritten: got %v", got)
	}
}

func TestTypesetShrinkTerminatesWithinBand(t *testing.T) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}

	chars := []rune("An Exceedingly Wordy Game Subtitle Edition")
	bandH := 120
	size := 40.0
	var fits bool
	for i := 0; i < 200; i++ {
		face := newFace(fnt, size)
		spacing := max(1, int(size*0.12))
		if stackHeight(face, chars, spacing) <= bandH || size <= minTitleSize {
			fits = stackHeight(face, chars, spacing) <= bandH
			break
		}
		size--
	}
	if size > minTitleSize && !fits {
		t.Error("shrink loop stopped above the floor without fitting")
	}
	// At whatever size the loop settled on, a fitting stack must be no
	// taller than the band.
	if fits {
		face := newFace(fnt, size)
		if h := stackHeight(face, chars, max(1, int(size*0.12))); h > bandH {
			t.Errorf("converged stack height %d exceeds band %d", h, bandH)
		}
	}
}

func TestResolveFontFallsBack(t *testing.T) {
	// A bogus override must not fail; the chain ends at the embedded face.
	f := resolveFont("/nonexistent/font.ttf")
	if f == nil {
		t.Fatal("resolveFont returned nil")
	}
	face := newFace(f, 14)
	if face == nil {
		t.Fatal("newFace returned nil")
	}
}
