package gallery

import (
	"image"
	"image/color"
	"waifud/internal/structures"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Compositor arranges fixed-size tiles into a row-major grid. Tile i lands at
// row i/columns, column i%columns; the canvas is always columns*tileW wide,
// trailing cells of a ragged last row stay background-filled but still get a
// border so the grid reads as complete.
type Compositor struct {
	columns   int
	tileW     int
	tileH     int
	barHeight int
}

func NewCompositor(conf *structures.Config) *Compositor {
	return &Compositor{
		columns:   conf.Gallery.Columns,
		tileW:     conf.Gallery.ThumbWidth,
		tileH:     conf.Gallery.ThumbHeight,
		barHeight: conf.Gallery.TitleBarHeight,
	}
}

func newCompositor(columns, tileW, tileH, barHeight int) *Compositor {
	return &Compositor{columns: columns, tileW: tileW, tileH: tileH, barHeight: barHeight}
}

// TilePosition returns the top-left pixel of tile i.
func (c *Compositor) TilePosition(i int) image.Point {
	return image.Pt((i%c.columns)*c.tileW, (i/c.columns)*c.tileH)
}

func (c *Compositor) rows(n int) int {
	return (n + c.columns - 1) / c.columns
}

// Compose lays the tiles out on a fresh canvas.
func (c *Compositor) Compose(tiles []*image.NRGBA) *image.NRGBA {
	rows := c.rows(len(tiles))
	canvas := imaging.New(c.columns*c.tileW, rows*c.tileH, canvasBackground)

	for i, tile := range tiles {
		canvas = imaging.Paste(canvas, tile, c.TilePosition(i))
	}
	for i := 0; i < rows*c.columns; i++ {
		c.drawCellBorder(canvas, c.TilePosition(i))
	}
	return canvas
}

// PasteTile overwrites tile i's cell on an existing canvas and redraws its
// border.
func (c *Compositor) PasteTile(canvas *image.NRGBA, tile *image.NRGBA, i int) *image.NRGBA {
	canvas = imaging.Paste(canvas, tile, c.TilePosition(i))
	c.drawCellBorder(canvas, c.TilePosition(i))
	return canvas
}

// drawCellBorder draws the 1-pixel cell outline over the tile's bounding box.
func (c *Compositor) drawCellBorder(canvas *image.NRGBA, pos image.Point) {
	x1, y1 := pos.X, pos.Y
	x2, y2 := pos.X+c.tileW-1, pos.Y+c.tileH-1
	for x := x1; x <= x2; x++ {
		canvas.SetNRGBA(x, y1, borderColor)
		canvas.SetNRGBA(x, y2, borderColor)
	}
	for y := y1; y <= y2; y++ {
		canvas.SetNRGBA(x1, y, borderColor)
		canvas.SetNRGBA(x2, y, borderColor)
	}
}

// AddTitleBar returns a canvas barHeight pixels taller with the original
// shifted down and the title drawn near the top-left of the bar.
func (c *Compositor) AddTitleBar(canvas *image.NRGBA, title string) *image.NRGBA {
	out := imaging.New(canvas.Bounds().Dx(), canvas.Bounds().Dy()+c.barHeight, canvasBackground)
	out = imaging.Paste(out, canvas, image.Pt(0, c.barHeight))
	drawText(out, title, 10, 17, titleColor)
	return out
}

func drawText(dst *image.NRGBA, text string, x, y int, col color.NRGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
