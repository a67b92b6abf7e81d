package texture

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/slideshow/internal/gpu"
	"github.com/ivlev/slideshow/internal/vec"
)

// copySource samples uTex at a shifted UV so that fragments land between
// texels and exercise the filter.
var copySource = gpu.ProgramSource{
	Name:     "copy",
	Vertex:   "void main() {}",
	Fragment: "uniform sampler2D uTex;\nvoid main() {}",
	Kernel: func(env gpu.Env) gpu.Shade {
		tex := env.Sampler("uTex")
		return func(uv vec.Vec2) vec.Color {
			return tex(vec.V2(uv.X*0.73+0.11, uv.Y*0.81+0.07))
		}
	},
}

// sampleThrough draws tex with copySource into the default framebuffer and
// returns the result.
func sampleThrough(t *testing.T, dev *gpu.SoftDevice, prog gpu.ProgramID, tex *Texture) []byte {
	t.Helper()
	dev.UseProgram(prog)
	dev.Uniform1i(dev.UniformLocation(prog, "uTex"), 0)
	dev.BindTexture(0, tex.ID())
	dev.DrawQuad()
	require.NoError(t, dev.GetError())
	return dev.Surface().Pix
}

func TestUploadIsConsistentAcrossCalls(t *testing.T) {
	dev := gpu.NewSoftDevice(7, 5)
	src := NewSource(dev, nil)
	prog, err := dev.CreateProgram(copySource)
	require.NoError(t, err)
	defer dev.DeleteProgram(prog)

	straight := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			straight.SetNRGBA(x, y, color.NRGBA{R: uint8(60 * x), G: uint8(255 - 70*y), B: uint8(40 * (x + y)), A: uint8(255 - 50*x)})
		}
	}
	premul := image.NewRGBA(straight.Rect)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			premul.Set(x, y, straight.At(x, y))
		}
	}

	first, err := src.Upload(premul)
	require.NoError(t, err)
	defer first.Release()
	second, err := src.Upload(premul)
	require.NoError(t, err)
	defer second.Release()
	fromNRGBA, err := src.Upload(straight)
	require.NoError(t, err)
	defer fromNRGBA.Release()

	want := sampleThrough(t, dev, prog, first)
	assert.NotEqual(t, make([]byte, len(want)), want)
	assert.Equal(t, want, sampleThrough(t, dev, prog, second), "same bitmap uploaded twice")
	assert.Equal(t, want, sampleThrough(t, dev, prog, fromNRGBA), "same pixels as NRGBA")
}

func TestUploadAllocatesDistinctTextures(t *testing.T) {
	dev := gpu.NewSoftDevice(4, 4)
	src := NewSource(dev, nil)

	img := image.NewNRGBA(image.Rect(2, 3, 6, 6))
	img.Set(2, 3, color.NRGBA{R: 255, A: 255})

	a, err := src.Upload(img)
	require.NoError(t, err)
	b, err := src.Upload(image.NewRGBA(image.Rect(0, 0, 4, 3)))
	require.NoError(t, err)

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 4, a.Width())
	assert.Equal(t, 3, a.Height())
	assert.Equal(t, 2, dev.LiveTextures())

	a.Release()
	a.Release()
	b.Release()
	assert.Zero(t, dev.LiveTextures())
}

func TestUploadFailureDeletesTexture(t *testing.T) {
	dev := gpu.NewSoftDevice(4, 4, gpu.WithMaxTextureSize(8))
	src := NewSource(dev, nil)

	tex, err := src.Upload(image.NewRGBA(image.Rect(0, 0, 16, 4)))
	assert.Nil(t, tex)

	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 16, ue.Width)
	assert.ErrorIs(t, err, gpu.ErrInvalidValue)
	assert.Zero(t, dev.LiveTextures())
	assert.NoError(t, dev.GetError(), "error flag consumed by upload")
}

func TestToRGBA(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	assert.Same(t, rgba, ToRGBA(rgba))

	gray := image.NewGray(image.Rect(1, 1, 3, 2))
	gray.SetGray(1, 1, color.Gray{Y: 200})
	out := ToRGBA(gray)
	assert.Equal(t, image.Rect(0, 0, 2, 1), out.Rect)
	assert.Equal(t, []byte{200, 200, 200, 255}, out.Pix[:4])
}

func TestSlotPrecedence(t *testing.T) {
	dev := gpu.NewSoftDevice(2, 2)
	src := NewSource(dev, nil)
	var slot Slot

	_, ok := slot.Resolve(gpu.NoTexture)
	assert.False(t, ok)

	id, ok := slot.Resolve(gpu.TextureID(42))
	assert.True(t, ok)
	assert.Equal(t, gpu.TextureID(42), id)

	owned, err := src.Upload(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	require.NoError(t, err)
	slot.Set(owned)
	id, _ = slot.Resolve(gpu.TextureID(42))
	assert.Equal(t, owned.ID(), id)

	next, err := src.Upload(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	require.NoError(t, err)
	slot.Set(next)
	assert.Equal(t, 1, dev.LiveTextures(), "replacing releases the old texture")

	slot.Release()
	assert.Zero(t, dev.LiveTextures())
	assert.Nil(t, slot.Owned())
}
