package gallery

import (
	"image"
	"image/color"
	"io"
	"os"
	"waifud/internal/structures"

	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	canvasBackground = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
	tileBackground   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	borderColor      = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	placeholderColor = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	titleColor       = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// Normalizer turns arbitrary source images into fixed-size opaque tiles, the
// atomic unit of every gallery. It never fails past its boundary: undecodable
// input degrades to a placeholder tile so grid layout stays regular.
type Normalizer struct {
	width  int
	height int
}

func NewNormalizer(conf *structures.Config) *Normalizer {
	return &Normalizer{width: conf.Gallery.ThumbWidth, height: conf.Gallery.ThumbHeight}
}

// newNormalizer is the conf-free form used by the compositing internals and
// tests.
func newNormalizer(width, height int) *Normalizer {
	return &Normalizer{width: width, height: height}
}

// Normalize decodes, flattens transparency onto the tile background,
// downscales (never upscales) to fit and letterboxes into an exactly
// width×height opaque tile.
func (n *Normalizer) Normalize(r io.Reader) *image.NRGBA {
	src, _, err := image.Decode(r)
	if err != nil {
		return n.Placeholder()
	}

	// Alpha-composite onto the background first; Fit alone would drop the
	// alpha channel against black.
	flat := imaging.New(src.Bounds().Dx(), src.Bounds().Dy(), tileBackground)
	flat = imaging.Overlay(flat, src, image.Pt(0, 0), 1.0)

	fitted := imaging.Fit(flat, n.width, n.height, imaging.Lanczos)

	tile := imaging.New(n.width, n.height, tileBackground)
	return imaging.PasteCenter(tile, fitted)
}

// NormalizeFile is Normalize over a file path, with the same degradation
// contract: any open or decode failure yields a placeholder.
func (n *Normalizer) NormalizeFile(path string) *image.NRGBA {
	f, err := os.Open(path)
	if err != nil {
		return n.Placeholder()
	}
	defer f.Close()
	return n.Normalize(f)
}

// Placeholder is the designated tile for unreadable items.
func (n *Normalizer) Placeholder() *image.NRGBA {
	return imaging.New(n.width, n.height, placeholderColor)
}

// Desaturate converts a tile to grayscale, same dimensions.
func (n *Normalizer) Desaturate(tile image.Image) *image.NRGBA {
	return imaging.Grayscale(tile)
}
