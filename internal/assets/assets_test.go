package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverlayPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	got, err := LoadOverlay(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), got.Bounds())
}

func TestLoadOverlayFailures(t *testing.T) {
	_, err := LoadOverlay(filepath.Join(t.TempDir(), "missing.png"))
	var ae *AssetError
	require.ErrorAs(t, err, &ae)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	_, err = LoadOverlay(path)
	assert.ErrorAs(t, err, &ae)
}

func TestQRCodeOverlayCorner(t *testing.T) {
	frame, err := QRCodeOverlay("https://example.com", 320, 180, QROptions{Size: 0.5, Margin: 4})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 320, 180), frame.Bounds())

	// top-left stays transparent, the code sits bottom-right
	assert.Equal(t, uint8(0), frame.RGBAAt(2, 2).A)
	assert.NotZero(t, frame.RGBAAt(320-4-45, 180-4-45).A)
}

func TestParseCorner(t *testing.T) {
	c, err := ParseCorner("top-left")
	require.NoError(t, err)
	assert.Equal(t, TopLeft, c)

	c, err = ParseCorner("")
	require.NoError(t, err)
	assert.Equal(t, BottomRight, c)

	c, err = ParseCorner("auto")
	require.NoError(t, err)
	assert.Equal(t, Auto, c)

	_, err = ParseCorner("middle")
	assert.Error(t, err)
}

func TestCornerRect(t *testing.T) {
	assert.Equal(t, image.Rect(86, 46, 96, 56), CornerRect(BottomRight, 100, 60, 10, 4))
	assert.Equal(t, image.Rect(4, 46, 14, 56), CornerRect(BottomLeft, 100, 60, 10, 4))
	assert.Equal(t, image.Rect(86, 4, 96, 14), CornerRect(TopRight, 100, 60, 10, 4))
	assert.Equal(t, image.Rect(4, 4, 14, 14), CornerRect(TopLeft, 100, 60, 10, 4))
	assert.Equal(t, CornerRect(BottomRight, 100, 60, 10, 4), CornerRect(Auto, 100, 60, 10, 4))
}

func TestQRSide(t *testing.T) {
	assert.Equal(t, 36, QRSide(320, 180, 0.2))
	assert.Equal(t, 36, QRSide(320, 180, 0))
	assert.Equal(t, 21, QRSide(320, 40, 0.1))
	assert.Equal(t, 30, QRSide(30, 180, 0.5))
}
