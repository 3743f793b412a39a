package gallery

import (
	"bytes"
	"image"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return bytes.NewReader(buf.Bytes())
}

func TestNormalizer_OutputDimensions(t *testing.T) {
	n := newNormalizer(64, 80)
	src := imaging.New(300, 200, tileBackground)

	tile := n.Normalize(encodePNG(t, src))
	assert.Equal(t, 64, tile.Bounds().Dx())
	assert.Equal(t, 80, tile.Bounds().Dy())
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := newNormalizer(64, 80)
	src := imaging.New(300, 200, titleColor)

	first := n.Normalize(encodePNG(t, src))
	second := n.Normalize(encodePNG(t, first))
	assert.Equal(t, first.Pix, second.Pix)
}

func TestNormalizer_NeverUpscales(t *testing.T) {
	n := newNormalizer(64, 64)
	small := imaging.New(10, 10, titleColor)

	tile := n.Normalize(encodePNG(t, small))
	require.Equal(t, 64, tile.Bounds().Dx())
	// The small source sits centered, the rest is letterbox background.
	assert.Equal(t, titleColor, tile.NRGBAAt(32, 32))
	assert.Equal(t, tileBackground, tile.NRGBAAt(1, 1))
}

func TestNormalizer_GarbageYieldsPlaceholder(t *testing.T) {
	n := newNormalizer(64, 64)
	tile := n.Normalize(bytes.NewReader([]byte("definitely not an image")))
	assert.Equal(t, n.Placeholder().Pix, tile.Pix)
}

func TestNormalizer_MissingFileYieldsPlaceholder(t *testing.T) {
	n := newNormalizer(64, 64)
	tile := n.NormalizeFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Equal(t, n.Placeholder().Pix, tile.Pix)
}

func TestNormalizer_DesaturateKeepsDimensions(t *testing.T) {
	n := newNormalizer(64, 64)
	colored := imaging.New(64, 64, canvasBackground)

	gray := n.Desaturate(colored)
	assert.Equal(t, 64, gray.Bounds().Dx())
	assert.Equal(t, 64, gray.Bounds().Dy())

	px := gray.NRGBAAt(10, 10)
	assert.Equal(t, px.R, px.G)
	assert.Equal(t, px.G, px.B)
}
