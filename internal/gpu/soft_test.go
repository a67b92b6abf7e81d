package gpu

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/slideshow/internal/vec"
)

const testVertex = "void main() {}"

func copyKernel(env Env) Shade {
	src := env.Sampler("uTexture")
	return func(uv vec.Vec2) vec.Color { return src(uv) }
}

func testProgram(kernel Kernel) ProgramSource {
	return ProgramSource{
		Name:     "copy",
		Vertex:   testVertex,
		Fragment: "uniform sampler2D uTexture;\nuniform float progress;\nvoid main() {}",
		Kernel:   kernel,
	}
}

func checkerPix(w, h int) []byte {
	pix := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		pix[i*4] = byte(i * 37)
		pix[i*4+1] = byte(i * 91)
		pix[i*4+2] = byte(255 - i)
		pix[i*4+3] = 255
	}
	return pix
}

func TestSoftDeviceCopiesTextureExactly(t *testing.T) {
	const w, h = 7, 5
	d := NewSoftDevice(w, h, WithWorkers(3))

	tex := d.GenTexture()
	for _, p := range []TextureParam{MinFilter, MagFilter} {
		d.TexParameter(tex, p, Linear)
	}
	d.TexParameter(tex, WrapS, ClampToEdge)
	d.TexParameter(tex, WrapT, ClampToEdge)
	pix := checkerPix(w, h)
	d.TexImage2D(tex, w, h, pix)
	require.NoError(t, d.GetError())

	prog, err := d.CreateProgram(testProgram(copyKernel))
	require.NoError(t, err)
	d.UseProgram(prog)
	d.Uniform1i(d.UniformLocation(prog, "uTexture"), 0)
	d.BindTexture(0, tex)
	d.DrawQuad()
	require.NoError(t, d.GetError())

	assert.Equal(t, pix, d.Surface().Pix)
}

func TestSoftDeviceLatchesUploadErrors(t *testing.T) {
	d := NewSoftDevice(4, 4, WithMaxTextureSize(8), WithMemoryLimit(2*8*8*4))

	tex := d.GenTexture()
	d.TexImage2D(tex, 9, 2, make([]byte, 9*2*4))
	assert.ErrorIs(t, d.GetError(), ErrInvalidValue)
	assert.NoError(t, d.GetError(), "error flag clears after read")

	d.TexImage2D(tex, 2, 2, make([]byte, 3))
	assert.ErrorIs(t, d.GetError(), ErrInvalidValue)

	a := d.GenTexture()
	d.TexImage2D(a, 8, 8, nil)
	b := d.GenTexture()
	d.TexImage2D(b, 8, 8, nil)
	require.NoError(t, d.GetError())
	c := d.GenTexture()
	d.TexImage2D(c, 8, 8, nil)
	assert.ErrorIs(t, d.GetError(), ErrOutOfMemory)

	d.DeleteTexture(a)
	d.TexImage2D(c, 8, 8, nil)
	assert.NoError(t, d.GetError())
}

func TestSoftDeviceUniformLocations(t *testing.T) {
	d := NewSoftDevice(1, 1)
	prog, err := d.CreateProgram(testProgram(copyKernel))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, d.UniformLocation(prog, "progress"), int32(0))
	assert.Equal(t, int32(-1), d.UniformLocation(prog, "missing"))

	d.UseProgram(prog)
	d.Uniform1f(-1, 3)
	assert.NoError(t, d.GetError(), "location -1 is ignored")
}

func TestSoftDeviceRejectsProgramWithoutKernel(t *testing.T) {
	d := NewSoftDevice(1, 1)
	_, err := d.CreateProgram(testProgram(nil))

	var linkErr *LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, "link", linkErr.Stage)
	assert.Zero(t, d.LivePrograms())
}

func TestSoftDeviceFramebufferRoundTrip(t *testing.T) {
	d := NewSoftDevice(2, 2)
	fb, tex, err := d.NewFramebuffer(3, 3)
	require.NoError(t, err)

	prog, err := d.CreateProgram(ProgramSource{
		Name:     "solid",
		Vertex:   testVertex,
		Fragment: "void main() {}",
		Kernel: func(Env) Shade {
			return func(vec.Vec2) vec.Color { return vec.Color{R: 1, G: 0.5, B: 0, A: 1} }
		},
	})
	require.NoError(t, err)

	d.BindFramebuffer(fb)
	d.Viewport(3, 3)
	d.UseProgram(prog)
	d.DrawQuad()

	out := image.NewRGBA(image.Rect(0, 0, 3, 3))
	d.ReadPixels(out)
	require.NoError(t, d.GetError())
	assert.Equal(t, []byte{255, 128, 0, 255}, out.Pix[:4])

	d.BindTexture(0, tex)
	d.DrawQuad()
	assert.ErrorIs(t, d.GetError(), ErrInvalidOperation, "sampling the bound target is a feedback loop")

	d.DeleteFramebuffer(fb)
	assert.Zero(t, d.LiveTextures())
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("vulkan", 4, 4)
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	dev, err := Open(BackendSoft, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, "soft", dev.Name())
}
