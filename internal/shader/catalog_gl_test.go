//go:build gl

package shader

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/slideshow/internal/gpu"
	"github.com/ivlev/slideshow/internal/transition"
	"github.com/ivlev/slideshow/internal/vec"
)

const catalogSize = 16

func openGLOrSkip(t *testing.T) gpu.Device {
	t.Helper()
	dev, err := gpu.Open(gpu.BackendGL, catalogSize, catalogSize)
	if err != nil {
		t.Skipf("no OpenGL 3.3 context: %v", err)
	}
	return dev
}

func TestValidateCatalogOnGL(t *testing.T) {
	dev := openGLOrSkip(t)
	defer dev.Release()

	require.NoError(t, ValidateCatalog(dev, transition.New()))
}

func solidTexture(t *testing.T, dev gpu.Device, c [4]byte) gpu.TextureID {
	t.Helper()
	tex := dev.GenTexture()
	dev.TexParameter(tex, gpu.MinFilter, gpu.Linear)
	dev.TexParameter(tex, gpu.MagFilter, gpu.Linear)
	dev.TexParameter(tex, gpu.WrapS, gpu.ClampToEdge)
	dev.TexParameter(tex, gpu.WrapT, gpu.ClampToEdge)
	pix := make([]byte, catalogSize*catalogSize*4)
	for i := 0; i < len(pix); i += 4 {
		copy(pix[i:], c[:])
	}
	dev.TexImage2D(tex, catalogSize, catalogSize, pix)
	require.NoError(t, dev.GetError())
	return tex
}

// meanColor draws tr at progress into an offscreen target and averages it.
func meanColor(t *testing.T, dev gpu.Device, tr transition.Transition, progress float64) [4]float64 {
	t.Helper()
	fb, _, err := dev.NewFramebuffer(catalogSize, catalogSize)
	require.NoError(t, err)
	defer dev.DeleteFramebuffer(fb)

	from := solidTexture(t, dev, [4]byte{220, 40, 10, 255})
	defer dev.DeleteTexture(from)
	to := solidTexture(t, dev, [4]byte{10, 60, 230, 255})
	defer dev.DeleteTexture(to)

	src, err := TransitionSource(tr)
	require.NoError(t, err)
	p, err := NewProgram(dev, src)
	require.NoError(t, err)
	defer p.Release()

	dev.BindFramebuffer(fb)
	dev.Viewport(catalogSize, catalogSize)
	p.Use()
	p.SetSampler(UniformFrom, 0, from)
	p.SetSampler(UniformTo, 1, to)
	p.SetFloat(UniformProgress, progress)
	p.SetFloat(UniformRatio, 1)
	p.SetFloat(UniformSmoothness, 0.05)
	p.SetVec4(UniformFadeColor, vec.Black)
	dev.DrawQuad()
	out := image.NewRGBA(image.Rect(0, 0, catalogSize, catalogSize))
	dev.ReadPixels(out)
	dev.BindTexture(0, gpu.NoTexture)
	dev.BindTexture(1, gpu.NoTexture)
	dev.BindFramebuffer(gpu.DefaultFramebuffer)
	require.NoError(t, dev.GetError())

	var sum [4]float64
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 4; c++ {
			sum[c] += float64(out.Pix[i+c])
		}
	}
	n := float64(catalogSize * catalogSize)
	return [4]float64{sum[0] / n, sum[1] / n, sum[2] / n, sum[3] / n}
}

// The GLSL bodies and their Go twins agree at the ends of the window.
func TestGLSLMatchesReferenceKernels(t *testing.T) {
	dev := openGLOrSkip(t)
	defer dev.Release()
	soft := gpu.NewSoftDevice(catalogSize, catalogSize)

	for _, tr := range transition.New().All() {
		for _, progress := range []float64{0, 1} {
			got := meanColor(t, dev, tr, progress)
			want := meanColor(t, soft, tr, progress)
			for c := 0; c < 4; c++ {
				assert.InDelta(t, want[c], got[c], 4, "%s at %v, channel %d", tr.ID, progress, c)
			}
		}
	}
}
