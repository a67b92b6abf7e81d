package effects

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/slideshow/internal/gpu"
	"github.com/ivlev/slideshow/internal/shader"
	"github.com/ivlev/slideshow/internal/texture"
	"github.com/ivlev/slideshow/internal/transition"
)

func newCrossfade(t *testing.T, dev gpu.Device, opts ...Option) *TransitionCompositor {
	t.Helper()
	timing, err := NewClipTiming(0, 4_000_000, 1_000_000)
	require.NoError(t, err)
	return NewTransitionCompositor(dev, transition.New().Default(), timing, opts...)
}

func TestTransitionCompositorScenario(t *testing.T) {
	dev := gpu.NewSoftDevice(4, 4)
	var events []FrameEvent
	c := newCrossfade(t, dev, WithObserver(func(ev FrameEvent) { events = append(events, ev) }))
	defer c.Release()

	require.NoError(t, c.Configure(4, 4))
	c.SetImages(solid(4, 4, color.RGBA{A: 255}), solid(4, 4, color.RGBA{R: 200, G: 100, B: 50, A: 255}))

	require.NoError(t, c.DrawFrame(2_500_000, gpu.NoTexture))
	assert.Equal(t, []byte{0, 0, 0, 255}, pixel(dev, 2, 2), "before the window only from shows")

	require.NoError(t, c.DrawFrame(3_500_000, gpu.NoTexture))
	assert.Equal(t, []byte{141, 71, 35, 255}, pixel(dev, 2, 2), "eased, not linear")

	require.NoError(t, c.DrawFrame(4_000_000, gpu.NoTexture))
	assert.Equal(t, []byte{200, 100, 50, 255}, pixel(dev, 2, 2))

	require.Len(t, events, 3)
	assert.Equal(t, BeforeWindow, events[0].Phase)
	assert.Equal(t, InWindow, events[1].Phase)
	assert.InDelta(t, 0.7071, events[1].Progress, 1e-4)
	assert.Equal(t, AfterWindow, events[2].Phase)
	assert.Equal(t, "transition", events[2].Stage)
	assert.Equal(t, 2, dev.LiveTextures(), "both images uploaded once")
}

func TestTransitionCompositorMidpointIsAverage(t *testing.T) {
	dev := gpu.NewSoftDevice(2, 2)
	timing, err := NewClipTiming(0, 1_000_000, 1_000_000)
	require.NoError(t, err)
	c := NewTransitionCompositor(dev, transition.New().Default(), timing)
	defer c.Release()
	require.NoError(t, c.Configure(2, 2))
	c.SetImages(solid(2, 2, color.RGBA{R: 100, A: 255}), solid(2, 2, color.RGBA{R: 200, A: 255}))

	// linear 1/3 eases to sin(pi/6) = 0.5
	require.NoError(t, c.DrawFrame(333_333, gpu.NoTexture))
	assert.InDelta(t, 150, int(pixel(dev, 0, 0)[0]), 1)
}

func TestTransitionCompositorUploadFailureFallsBack(t *testing.T) {
	dev := gpu.NewSoftDevice(2, 2, gpu.WithMaxTextureSize(2))
	c := newCrossfade(t, dev)
	defer c.Release()
	require.NoError(t, c.Configure(2, 2))

	c.SetImages(solid(4, 4, color.RGBA{A: 255}), solid(4, 4, color.RGBA{A: 255}))
	err := c.DrawFrame(0, gpu.NoTexture)
	assert.ErrorIs(t, err, ErrFrameSkipped)
	var ue *texture.UploadError
	assert.ErrorAs(t, err, &ue)
	assert.Zero(t, dev.LiveTextures(), "failed uploads leave nothing behind")

	up := rawTexture(t, dev, solid(2, 2, color.RGBA{R: 9, G: 8, B: 7, A: 255}))
	require.NoError(t, c.DrawFrame(0, up))
	assert.Equal(t, []byte{9, 8, 7, 255}, pixel(dev, 0, 0))
}

func TestTransitionCompositorLifecycle(t *testing.T) {
	dev := gpu.NewSoftDevice(2, 2)
	c := newCrossfade(t, dev)

	var se *StateError
	require.ErrorAs(t, c.DrawFrame(0, gpu.NoTexture), &se)
	assert.Equal(t, "transition", se.Stage)
	assert.ErrorIs(t, se, ErrNotConfigured)

	require.NoError(t, c.Configure(2, 2))
	c.SetImages(solid(2, 2, color.RGBA{A: 255}), solid(2, 2, color.RGBA{A: 255}))
	require.NoError(t, c.DrawFrame(0, gpu.NoTexture))

	c.Release()
	assert.Zero(t, dev.LiveTextures())
	assert.Zero(t, dev.LivePrograms())
	assert.ErrorIs(t, c.DrawFrame(0, gpu.NoTexture), ErrReleased)
	assert.ErrorIs(t, c.Configure(2, 2), ErrReleased)
}

func TestTransitionCompositorRejectsBrokenTransition(t *testing.T) {
	dev := gpu.NewSoftDevice(2, 2)
	c := NewTransitionCompositor(dev, transition.Transition{ID: "broken"}, ClipTiming{})

	var ce *shader.CompileError
	assert.ErrorAs(t, c.Configure(2, 2), &ce)
	assert.Zero(t, dev.LivePrograms())
}

func TestEveryCatalogTransitionDraws(t *testing.T) {
	dev := gpu.NewSoftDevice(8, 6)
	timing, err := NewClipTiming(0, 2_000_000, 1_000_000)
	require.NoError(t, err)
	from := solid(8, 6, color.RGBA{R: 255, A: 255})
	to := solid(8, 6, color.RGBA{B: 255, A: 255})

	for _, tr := range transition.New().All() {
		c := NewTransitionCompositor(dev, tr, timing)
		require.NoError(t, c.Configure(8, 6), tr.ID)
		c.SetImages(from, to)
		for _, ts := range []int64{0, 1_500_000, 2_000_000} {
			require.NoError(t, c.DrawFrame(ts, gpu.NoTexture), tr.ID)
		}
		assert.Equal(t, []byte{0, 0, 255, 255}, pixel(dev, 4, 3), "%s ends on the next slide", tr.ID)
		c.Release()
	}
	assert.Zero(t, dev.LiveTextures())
	assert.Zero(t, dev.LivePrograms())
}
