package effects

import (
	"errors"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/slideshow/internal/gpu"
	"github.com/ivlev/slideshow/internal/shader"
	"github.com/ivlev/slideshow/internal/texture"
	"github.com/ivlev/slideshow/internal/transition"
	"github.com/ivlev/slideshow/internal/vec"
)

// Smoothness is the edge width of transitions with soft boundaries.
const Smoothness = 0.05

// FadeColor is the color fade_color passes through.
var FadeColor = vec.Black

// TransitionCompositor blends two images over the tail of one clip.
type TransitionCompositor struct {
	stage
	transition transition.Transition
	timing     ClipTiming

	from, to               texture.Slot
	pendingFrom, pendingTo image.Image
}

func NewTransitionCompositor(dev gpu.Device, t transition.Transition, timing ClipTiming, opts ...Option) *TransitionCompositor {
	c := &TransitionCompositor{
		stage:      newStage("transition", dev, opts),
		transition: t,
		timing:     timing,
	}
	c.log = c.log.WithField("transition", t.ID)
	return c
}

// Transition returns the blend in use.
func (c *TransitionCompositor) Transition() transition.Transition { return c.transition }

// Timing returns the clip timing.
func (c *TransitionCompositor) Timing() ClipTiming { return c.timing }

// Configure compiles the transition program and sets the output size.
func (c *TransitionCompositor) Configure(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New("transition: output size must be positive")
	}
	src, err := shader.TransitionSource(c.transition)
	if err != nil {
		return &shader.CompileError{Program: "transition/" + c.transition.ID, Err: err}
	}
	if err := c.compile(src); err != nil {
		return err
	}
	c.width, c.height = width, height
	c.configured = true
	return nil
}

// SetImages replaces both images. Both are uploaded through the same
// texture source on the next draw.
func (c *TransitionCompositor) SetImages(from, to image.Image) {
	c.from.Release()
	c.to.Release()
	c.pendingFrom, c.pendingTo = from, to
}

// Progress returns the eased progress at t.
func (c *TransitionCompositor) Progress(t int64) float64 {
	return c.timing.Progress(t)
}

func (c *TransitionCompositor) upload(slot *texture.Slot, pending *image.Image) error {
	if *pending == nil {
		return nil
	}
	img := *pending
	*pending = nil
	tex, err := c.textures.Upload(img)
	if err != nil {
		return err
	}
	slot.Set(tex)
	return nil
}

// DrawFrame renders the blend for globalTimeUs into the bound framebuffer.
// A side whose image is missing or failed to upload samples upstream
// instead; with neither available the frame is skipped.
func (c *TransitionCompositor) DrawFrame(globalTimeUs int64, upstream gpu.TextureID) error {
	if err := c.ready("DrawFrame"); err != nil {
		return err
	}
	uploadErr := errors.Join(
		c.upload(&c.from, &c.pendingFrom),
		c.upload(&c.to, &c.pendingTo),
	)
	phase := c.timing.Phase(globalTimeUs)
	progress := c.timing.Progress(globalTimeUs)

	fromTex, okFrom := c.from.Resolve(upstream)
	toTex, okTo := c.to.Resolve(upstream)
	if !okFrom || !okTo {
		c.log.WithFields(logrus.Fields{
			"function": "DrawFrame",
			"time_us":  globalTimeUs,
		}).Warn("No texture to blend, skipping frame")
		c.emit(FrameEvent{TimeUs: globalTimeUs, Phase: phase, Progress: progress, Skipped: true})
		return errors.Join(ErrFrameSkipped, uploadErr)
	}

	p := c.program
	p.Use()
	p.SetSampler(shader.UniformFrom, 0, fromTex)
	p.SetSampler(shader.UniformTo, 1, toTex)
	p.SetFloat(shader.UniformProgress, progress)
	p.SetFloat(shader.UniformRatio, float64(c.width)/float64(c.height))
	p.SetFloat(shader.UniformSmoothness, Smoothness)
	p.SetVec4(shader.UniformFadeColor, FadeColor)
	if err := c.draw(); err != nil {
		return err
	}
	c.emit(FrameEvent{TimeUs: globalTimeUs, Phase: phase, Progress: progress})
	return nil
}

// Release deletes the program and both owned textures.
func (c *TransitionCompositor) Release() {
	c.from.Release()
	c.to.Release()
	c.pendingFrom, c.pendingTo = nil, nil
	c.release()
}
