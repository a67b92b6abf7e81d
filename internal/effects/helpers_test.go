package effects

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ivlev/slideshow/internal/gpu"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func pixel(dev *gpu.SoftDevice, x, y int) []byte {
	s := dev.Surface()
	i := s.PixOffset(x, y)
	return s.Pix[i : i+4]
}

// rawTexture creates a texture straight on the device, standing in for one
// produced by an upstream stage.
func rawTexture(t *testing.T, dev *gpu.SoftDevice, img *image.RGBA) gpu.TextureID {
	t.Helper()
	id := dev.GenTexture()
	dev.TexParameter(id, gpu.WrapS, gpu.ClampToEdge)
	dev.TexParameter(id, gpu.WrapT, gpu.ClampToEdge)
	dev.TexImage2D(id, img.Rect.Dx(), img.Rect.Dy(), img.Pix)
	require.NoError(t, dev.GetError())
	return id
}
