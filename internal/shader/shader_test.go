package shader

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/slideshow/internal/gpu"
	"github.com/ivlev/slideshow/internal/transition"
	"github.com/ivlev/slideshow/internal/vec"
)

func TestTransitionSourceWrapsBody(t *testing.T) {
	fade := transition.New().Default()
	src, err := TransitionSource(fade)
	require.NoError(t, err)

	assert.Equal(t, "transition/fade", src.Name)
	assert.True(t, strings.HasPrefix(src.Fragment, "#version 330 core"))
	assert.Contains(t, src.Fragment, fade.Shader)
	assert.Contains(t, src.Fragment, "fragColor = blend(vTexCoord);")
	assert.NotNil(t, src.Kernel)
}

func TestTransitionSourceRejectsInvalidEntry(t *testing.T) {
	_, err := TransitionSource(transition.Transition{ID: "x", Shader: "void nothing() {}"})
	assert.Error(t, err)
}

func TestValidateCatalogOnSoftDevice(t *testing.T) {
	dev := gpu.NewSoftDevice(8, 8)
	lib := transition.New()

	require.NoError(t, ValidateCatalog(dev, lib))
	assert.Zero(t, dev.LivePrograms(), "validation releases every program")
}

func TestNewProgramReportsCompileError(t *testing.T) {
	dev := gpu.NewSoftDevice(1, 1)
	_, err := NewProgram(dev, gpu.ProgramSource{Name: "broken", Vertex: VertexShader, Fragment: "nothing here"})

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "broken", ce.Program)
	var le *gpu.LinkError
	assert.ErrorAs(t, err, &le)
}

func TestProgramCachesLocationsAndReleasesOnce(t *testing.T) {
	dev := gpu.NewSoftDevice(1, 1)
	src, err := TransitionSource(transition.New().Default())
	require.NoError(t, err)
	p, err := NewProgram(dev, src)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, p.Location(UniformProgress), int32(0))
	assert.Equal(t, p.Location(UniformProgress), p.Location(UniformProgress))
	assert.Equal(t, int32(-1), p.Location("unused"))

	p.Release()
	p.Release()
	assert.Zero(t, dev.LivePrograms())
}

func upload(t *testing.T, dev *gpu.SoftDevice, c [4]byte) gpu.TextureID {
	t.Helper()
	tex := dev.GenTexture()
	dev.TexParameter(tex, gpu.WrapS, gpu.ClampToEdge)
	dev.TexParameter(tex, gpu.WrapT, gpu.ClampToEdge)
	pix := make([]byte, 4*4*4)
	for i := 0; i < len(pix); i += 4 {
		copy(pix[i:], c[:])
	}
	dev.TexImage2D(tex, 4, 4, pix)
	require.NoError(t, dev.GetError())
	return tex
}

func TestTransitionProgramDrawsMidpointMix(t *testing.T) {
	dev := gpu.NewSoftDevice(4, 4)
	from := upload(t, dev, [4]byte{0, 0, 0, 255})
	to := upload(t, dev, [4]byte{200, 100, 50, 255})

	src, err := TransitionSource(transition.New().Default())
	require.NoError(t, err)
	p, err := NewProgram(dev, src)
	require.NoError(t, err)
	defer p.Release()

	p.Use()
	p.SetSampler(UniformFrom, 0, from)
	p.SetSampler(UniformTo, 1, to)
	p.SetFloat(UniformProgress, 0.5)
	p.SetFloat(UniformRatio, 1)
	p.SetFloat(UniformSmoothness, 0.05)
	p.SetVec4(UniformFadeColor, vec.Black)
	dev.DrawQuad()
	require.NoError(t, dev.GetError())

	out := image.NewRGBA(image.Rect(0, 0, 4, 4))
	dev.ReadPixels(out)
	assert.Equal(t, []byte{100, 50, 25, 255}, out.Pix[:4])
}
