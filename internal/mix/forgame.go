package mix

import (
	"fmt"
	"image"

	"github.com/boxart-tools/boxart/internal/mediafs"
)

// ForGame resolves a game's artwork from the media tree and composes its mix
// thumbnail. A game without a screenshot yields ErrNoScreenshot; callers
// treating the mix as optional can skip on that error.
func ForGame(mediaPath, stem string, l Layout) (*image.NRGBA, error) {
	assets := mediafs.GameAssets(mediaPath, stem)
	if assets.Screenshot == "" {
		return nil, fmt.Errorf("%w for %q", ErrNoScreenshot, stem)
	}

	screenshot, err := mediafs.LoadImage(assets.Screenshot)
	if err != nil {
		return nil, err
	}

	var marquee, box3d, physical image.Image
	if assets.Marquee != "" {
		if marquee, err = mediafs.LoadImage(assets.Marquee); err != nil {
			return nil, err
		}
	}
	if assets.Box3D != "" {
		if box3d, err = mediafs.LoadImage(assets.Box3D); err != nil {
			return nil, err
		}
	}
	if assets.PhysicalMedia != "" {
		if physical, err = mediafs.LoadImage(assets.PhysicalMedia); err != nil {
			return nil, err
		}
	}

	return Compose(screenshot, marquee, box3d, physical, l)
}
