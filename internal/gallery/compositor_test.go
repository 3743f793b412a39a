package gallery

import (
	"image"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tiles(n, w, h int) []*image.NRGBA {
	out := make([]*image.NRGBA, n)
	for i := range out {
		out[i] = imaging.New(w, h, tileBackground)
	}
	return out
}

func TestCompositor_TilePosition(t *testing.T) {
	c := newCompositor(3, 64, 80, 24)

	assert.Equal(t, image.Pt(0, 0), c.TilePosition(0))
	assert.Equal(t, image.Pt(64, 0), c.TilePosition(1))
	assert.Equal(t, image.Pt(128, 0), c.TilePosition(2))
	assert.Equal(t, image.Pt(0, 80), c.TilePosition(3))
	assert.Equal(t, image.Pt(64, 80), c.TilePosition(4))
}

func TestCompositor_ComposeDimensions(t *testing.T) {
	c := newCompositor(3, 64, 80, 24)

	canvas := c.Compose(tiles(5, 64, 80))
	// 5 tiles over 3 columns: 2 rows, full width regardless of the ragged row.
	assert.Equal(t, 192, canvas.Bounds().Dx())
	assert.Equal(t, 160, canvas.Bounds().Dy())
}

func TestCompositor_ComposeExactRows(t *testing.T) {
	c := newCompositor(3, 64, 80, 24)
	canvas := c.Compose(tiles(6, 64, 80))
	assert.Equal(t, 160, canvas.Bounds().Dy())
}

func TestCompositor_TrailingCellsKeepBackgroundAndBorder(t *testing.T) {
	c := newCompositor(3, 64, 80, 24)
	canvas := c.Compose(tiles(4, 64, 80))

	// Cell 5 (row 1, col 2) holds no tile.
	pos := c.TilePosition(5)
	assert.Equal(t, canvasBackground, canvas.NRGBAAt(pos.X+32, pos.Y+40))
	assert.Equal(t, borderColor, canvas.NRGBAAt(pos.X, pos.Y))
}

func TestCompositor_PasteTileOverwritesCell(t *testing.T) {
	c := newCompositor(3, 64, 80, 24)
	canvas := c.Compose(tiles(6, 64, 80))

	marker := imaging.New(64, 80, titleColor)
	canvas = c.PasteTile(canvas, marker, 4)

	pos := c.TilePosition(4)
	assert.Equal(t, titleColor, canvas.NRGBAAt(pos.X+32, pos.Y+40))
	// The border is redrawn on top of the pasted tile.
	assert.Equal(t, borderColor, canvas.NRGBAAt(pos.X, pos.Y))
	// Neighbours are untouched.
	other := c.TilePosition(3)
	assert.Equal(t, tileBackground, canvas.NRGBAAt(other.X+32, other.Y+40))
}

func TestCompositor_AddTitleBar(t *testing.T) {
	c := newCompositor(3, 64, 80, 24)
	canvas := c.Compose(tiles(3, 64, 80))
	require.Equal(t, 80, canvas.Bounds().Dy())

	titled := c.AddTitleBar(canvas, "Group 12345 - unlocked 1/3")
	assert.Equal(t, 104, titled.Bounds().Dy())
	assert.Equal(t, 192, titled.Bounds().Dx())
	// Original content shifted below the bar.
	assert.Equal(t, borderColor, titled.NRGBAAt(0, 24))
}
