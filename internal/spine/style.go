// Package spine synthesizes and decorates the spine face of a 3D box render.
//
// Decoration strategies are registered per platform code; codes without a
// registered strategy fall back to a decorator that leaves the face
// untouched, so an unknown platform is never an error.
package spine

import (
	"image"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// Style carries the per-invocation decoration inputs. It is a plain value;
// no two invocations share mutable style state.
type Style struct {
	// Title is typeset vertically on the spine. Empty skips the title band.
	Title string
	// Platform is the console code (e.g. "ps2") used for the rotated label.
	Platform string
	// FontPath optionally overrides the font fallback chain.
	FontPath string
}

// Decorator renders platform-specific artwork onto box faces. Both methods
// return a new image of the same dimensions as their input.
type Decorator interface {
	// DecorateCover dresses the front face before warping.
	DecorateCover(cover image.Image) *image.NRGBA
	// DecorateSpine paints label, title and finish onto the gradient face.
	DecorateSpine(spine image.Image, style Style) *image.NRGBA
}

// Nop copies its inputs unchanged.
type Nop struct{}

func (Nop) DecorateCover(cover image.Image) *image.NRGBA {
	return imaging.Clone(cover)
}

func (Nop) DecorateSpine(spine image.Image, _ Style) *image.NRGBA {
	return imaging.Clone(spine)
}

// Registry maps platform codes to decoration strategies. It is read-only
// after construction and safe for concurrent lookups.
type Registry struct {
	styles map[string]Decorator
}

// NewRegistry returns a registry with the built-in platform styles.
func NewRegistry() *Registry {
	r := &Registry{styles: make(map[string]Decorator)}
	tall := TallCase{}
	for _, code := range []string{"ps2", "ps3", "ps4", "psp", "psvita", "psx"} {
		r.Register(code, tall)
	}
	return r
}

// Register binds a decorator to a platform code, replacing any previous one.
func (r *Registry) Register(code string, d Decorator) {
	r.styles[strings.ToLower(code)] = d
}

// Lookup returns the decorator for code, or a Nop decorator when the code is
// unknown or empty.
func (r *Registry) Lookup(code string) Decorator {
	if d, ok := r.styles[strings.ToLower(code)]; ok {
		return d
	}
	return Nop{}
}

// Codes lists the registered platform codes in sorted order.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.styles))
	for code := range r.styles {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
