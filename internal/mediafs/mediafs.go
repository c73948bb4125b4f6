// Package mediafs implements the media-directory conventions of the game
// library: one folder per artwork kind under a per-system media root, with
// files named after the rom stem. It also owns image decode/encode at the
// pipeline boundary.
package mediafs

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// Folders are the standard artwork folders under a media root.
var Folders = []string{
	"3dboxes", "backcovers", "covers", "fanart", "manuals",
	"marquees", "miximages", "physicalmedia", "screenshots",
	"titlescreens", "videos",
}

var imageSuffixes = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".tga": true, ".tif": true, ".tiff": true,
}

// RomStem returns the extension-less file name of a rom path value, e.g.
// "./Super Mario World.zip" → "Super Mario World".
func RomStem(pathVal string) string {
	base := filepath.Base(pathVal)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Find returns the first image in mediaPath/folder whose stem matches.
func Find(mediaPath, folder, stem string) (string, bool) {
	dir := filepath.Join(mediaPath, folder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if strings.TrimSuffix(name, filepath.Ext(name)) == stem && imageSuffixes[ext] {
			return filepath.Join(dir, name), true
		}
	}
	return "", false
}

// Assets holds the resolved artwork paths for one game; absent assets are
// empty strings.
type Assets struct {
	Cover         string
	Screenshot    string
	Marquee       string
	Box3D         string
	PhysicalMedia string
}

// GameAssets resolves the compositor inputs for a rom stem.
func GameAssets(mediaPath, stem string) Assets {
	var a Assets
	a.Cover, _ = Find(mediaPath, "covers", stem)
	a.Screenshot, _ = Find(mediaPath, "screenshots", stem)
	a.Marquee, _ = Find(mediaPath, "marquees", stem)
	a.Box3D, _ = Find(mediaPath, "3dboxes", stem)
	a.PhysicalMedia, _ = Find(mediaPath, "physicalmedia", stem)
	return a
}

// CoverStems lists the rom stems present in the covers folder, sorted.
func CoverStems(mediaPath string) ([]string, error) {
	dir := filepath.Join(mediaPath, "covers")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading covers folder: %w", err)
	}
	var stems []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if imageSuffixes[ext] {
			stems = append(stems, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}
	sort.Strings(stems)
	return stems, nil
}

// LoadImage decodes a source raster. Decode failures surface to the caller
// before any compositing begins.
func LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return img, nil
}

// SavePNG writes img as a PNG, creating the destination folder as needed.
func SavePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// OutputPath returns the conventional destination for a generated artifact:
// <mediaPath>/<folder>/<stem>.png.
func OutputPath(mediaPath, folder, stem string) string {
	return filepath.Join(mediaPath, folder, stem+".png")
}
