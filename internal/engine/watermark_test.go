package engine

import (
	"image"
	"image/color"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/slideshow/internal/config"
)

func watermarkProject(corner string) *VideoProject {
	cfg := &config.Config{Width: 200, Height: 100, QRText: "https://example.com", QRCorner: corner, QRSize: 0.3}
	return &VideoProject{Config: cfg, log: logrus.WithField("component", "test")}
}

func TestWatermarkAutoAvoidsContent(t *testing.T) {
	// text-like stripes over the bottom half
	first := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 50; y < 100; y++ {
		for x := 0; x < 200; x++ {
			if x%4 < 2 {
				first.Set(x, y, color.White)
			}
		}
	}

	img, err := watermarkProject("auto").watermark(first)
	require.NoError(t, err)
	qr := img.(*image.RGBA)

	assert.NotZero(t, qr.RGBAAt(180, 20).A, "top-right is the first quiet corner")
	assert.Zero(t, qr.RGBAAt(20, 20).A)
	assert.Zero(t, qr.RGBAAt(180, 80).A)
}

func TestWatermarkFixedCorner(t *testing.T) {
	img, err := watermarkProject("top-left").watermark(image.NewRGBA(image.Rect(0, 0, 200, 100)))
	require.NoError(t, err)
	qr := img.(*image.RGBA)
	assert.NotZero(t, qr.RGBAAt(20, 20).A)
	assert.Zero(t, qr.RGBAAt(180, 80).A)

	_, err = watermarkProject("center").watermark(qr)
	assert.Error(t, err)
}
