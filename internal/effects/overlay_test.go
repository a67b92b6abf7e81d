package effects

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/slideshow/internal/assets"
	"github.com/ivlev/slideshow/internal/gpu"
)

func checker(w, h int) []byte {
	img := solid(w, h, color.RGBA{})
	for i := 0; i < w*h; i++ {
		img.Pix[i*4] = byte(i * 29)
		img.Pix[i*4+1] = byte(255 - i*13)
		img.Pix[i*4+2] = byte(i * 7)
		img.Pix[i*4+3] = 255
	}
	return img.Pix
}

func TestOverlayWithoutFrameIsPassThrough(t *testing.T) {
	dev := gpu.NewSoftDevice(5, 3)
	video := solid(5, 3, color.RGBA{})
	copy(video.Pix, checker(5, 3))
	tex := rawTexture(t, dev, video)
	dev.TexParameter(tex, gpu.MinFilter, gpu.Linear)
	dev.TexParameter(tex, gpu.MagFilter, gpu.Linear)

	o := NewOverlay(dev)
	defer o.Release()
	require.NoError(t, o.Configure(5, 3))
	assert.False(t, o.HasFrame())
	require.NoError(t, o.DrawFrame(tex))

	assert.Equal(t, video.Pix, dev.Surface().Pix)
}

func TestOverlayBlendsByFrameAlpha(t *testing.T) {
	dev := gpu.NewSoftDevice(2, 1)
	tex := rawTexture(t, dev, solid(2, 1, color.RGBA{G: 200, A: 255}))

	frame := solid(2, 1, color.RGBA{})
	frame.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})

	o := NewOverlay(dev)
	defer o.Release()
	require.NoError(t, o.Configure(2, 1))
	o.SetFrame(frame)
	require.NoError(t, o.DrawFrame(tex))

	assert.Equal(t, []byte{255, 0, 0, 255}, pixel(dev, 0, 0), "opaque frame pixel wins")
	assert.Equal(t, []byte{0, 200, 0, 255}, pixel(dev, 1, 0), "transparent frame pixel shows video")
}

func TestOverlayHalfAlphaFrameFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	nrgba := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	nrgba.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 128})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, nrgba))
	require.NoError(t, f.Close())

	dev := gpu.NewSoftDevice(1, 1)
	tex := rawTexture(t, dev, solid(1, 1, color.RGBA{A: 255}))

	o := NewOverlay(dev)
	defer o.Release()
	require.NoError(t, o.Configure(1, 1))
	require.NoError(t, o.LoadFrame(path))
	require.NoError(t, o.DrawFrame(tex))

	// white at half alpha over black is mid gray, fully opaque
	assert.Equal(t, []byte{128, 128, 128, 255}, pixel(dev, 0, 0))
}

func TestOverlayUploadFailureIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	dev := gpu.NewSoftDevice(1, 1, gpu.WithMaxTextureSize(2))
	tex := rawTexture(t, dev, solid(1, 1, color.RGBA{R: 9, G: 8, B: 7, A: 255}))

	o := NewOverlay(dev, WithLogger(logrus.NewEntry(logger)))
	defer o.Release()
	require.NoError(t, o.Configure(1, 1))
	o.SetFrame(solid(4, 4, color.RGBA{R: 255, A: 255}))
	require.NoError(t, o.DrawFrame(tex))

	assert.Equal(t, []byte{9, 8, 7, 255}, pixel(dev, 0, 0))
	assert.False(t, o.HasFrame())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "DrawFrame", hook.LastEntry().Data["function"])
}

func TestOverlayBadAssetRendersWithoutFrame(t *testing.T) {
	dev := gpu.NewSoftDevice(1, 1)
	tex := rawTexture(t, dev, solid(1, 1, color.RGBA{R: 1, G: 2, B: 3, A: 255}))

	o := NewOverlay(dev)
	defer o.Release()
	require.NoError(t, o.Configure(1, 1))

	err := o.LoadFrame(filepath.Join(t.TempDir(), "missing.png"))
	var ae *assets.AssetError
	require.ErrorAs(t, err, &ae)
	assert.False(t, o.HasFrame())

	require.NoError(t, o.DrawFrame(tex))
	assert.Equal(t, []byte{1, 2, 3, 255}, pixel(dev, 0, 0))
}

func TestOverlayNeedsVideo(t *testing.T) {
	dev := gpu.NewSoftDevice(1, 1)
	o := NewOverlay(dev)
	defer o.Release()
	require.NoError(t, o.Configure(1, 1))

	assert.ErrorIs(t, o.DrawFrame(gpu.NoTexture), ErrFrameSkipped)
}
