// Package renderer drives the compositing stages for one output video: it
// letterboxes every slide once, then renders each frame as a transition
// between two prepared slides with the overlay on top.
package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/ivlev/slideshow/internal/effects"
	"github.com/ivlev/slideshow/internal/gpu"
	"github.com/ivlev/slideshow/internal/system"
	"github.com/ivlev/slideshow/internal/transition"
)

// Options configures a Pipeline.
type Options struct {
	Width, Height int
	// Aspect is the letterbox target; zero means Width/Height.
	Aspect   float64
	Overlay  image.Image
	Log      *logrus.Entry
	Observer effects.FrameObserver
}

// Pipeline owns the stages and offscreen targets of one render. Like the
// device it drives, it is used from a single goroutine.
type Pipeline struct {
	dev    gpu.Device
	width  int
	height int
	aspect float64
	log    *logrus.Entry
	opts   []effects.Option

	letterbox *effects.Letterbox
	overlay   *effects.Overlay

	mixFB  gpu.FramebufferID
	mixTex gpu.TextureID
	outFB  gpu.FramebufferID
}

func New(dev gpu.Device, o Options) (*Pipeline, error) {
	if o.Width <= 0 || o.Height <= 0 {
		return nil, fmt.Errorf("renderer: invalid output size %dx%d", o.Width, o.Height)
	}
	log := o.Log
	if log == nil {
		log = logrus.WithField("component", "renderer")
	}
	aspect := o.Aspect
	if aspect == 0 {
		aspect = float64(o.Width) / float64(o.Height)
	}

	p := &Pipeline{
		dev:    dev,
		width:  o.Width,
		height: o.Height,
		aspect: aspect,
		log:    log,
		opts:   []effects.Option{effects.WithLogger(log), effects.WithObserver(o.Observer)},
	}
	p.letterbox = effects.NewLetterbox(dev, p.opts...)
	p.overlay = effects.NewOverlay(dev, p.opts...)
	if err := p.overlay.Configure(o.Width, o.Height); err != nil {
		p.Release()
		return nil, err
	}
	if o.Overlay != nil {
		p.overlay.SetFrame(o.Overlay)
	}

	var err error
	if p.mixFB, p.mixTex, err = dev.NewFramebuffer(o.Width, o.Height); err != nil {
		p.Release()
		return nil, fmt.Errorf("renderer: mix target: %w", err)
	}
	if p.outFB, _, err = dev.NewFramebuffer(o.Width, o.Height); err != nil {
		p.Release()
		return nil, fmt.Errorf("renderer: output target: %w", err)
	}
	return p, nil
}

func (p *Pipeline) Width() int  { return p.width }
func (p *Pipeline) Height() int { return p.height }

// Overlay exposes the overlay stage, e.g. to load a frame from disk.
func (p *Pipeline) Overlay() *effects.Overlay { return p.overlay }

// Prepare letterboxes img to the target aspect and returns it scaled to the
// output size. The result is a plain CPU image the transition stage can
// upload.
func (p *Pipeline) Prepare(img image.Image) (*image.RGBA, error) {
	b := img.Bounds()
	w, h, err := p.letterbox.Configure(b.Dx(), b.Dy(), p.aspect)
	if err != nil {
		return nil, err
	}
	fb, _, err := p.dev.NewFramebuffer(w, h)
	if err != nil {
		return nil, fmt.Errorf("renderer: letterbox target: %w", err)
	}
	defer p.dev.DeleteFramebuffer(fb)

	p.letterbox.SetImage(img)
	p.dev.BindFramebuffer(fb)
	defer p.dev.BindFramebuffer(gpu.DefaultFramebuffer)
	if err := p.letterbox.DrawFrame(gpu.NoTexture); err != nil {
		return nil, err
	}

	boxed := system.GetImage(image.Rect(0, 0, w, h))
	defer system.PutImage(boxed)
	p.dev.ReadPixels(boxed)
	if err := p.dev.GetError(); err != nil {
		return nil, fmt.Errorf("renderer: letterbox readback: %w", err)
	}

	out := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	if w == p.width && h == p.height {
		copy(out.Pix, boxed.Pix)
		return out, nil
	}
	draw.CatmullRom.Scale(out, out.Bounds(), boxed, boxed.Bounds(), draw.Src, nil)
	return out, nil
}

// NewClip builds a configured transition stage blending from into to.
func (p *Pipeline) NewClip(t transition.Transition, timing effects.ClipTiming, from, to image.Image) (*effects.TransitionCompositor, error) {
	c := effects.NewTransitionCompositor(p.dev, t, timing, p.opts...)
	if err := c.Configure(p.width, p.height); err != nil {
		c.Release()
		return nil, err
	}
	c.SetImages(from, to)
	return c, nil
}

// RenderFrame draws clip at timeUs, composites the overlay and reads the
// result into dst, which must be Width x Height.
func (p *Pipeline) RenderFrame(clip *effects.TransitionCompositor, timeUs int64, dst *image.RGBA) error {
	if dst.Rect.Dx() != p.width || dst.Rect.Dy() != p.height {
		return fmt.Errorf("renderer: frame buffer %dx%d, want %dx%d", dst.Rect.Dx(), dst.Rect.Dy(), p.width, p.height)
	}
	defer p.dev.BindFramebuffer(gpu.DefaultFramebuffer)

	p.dev.BindFramebuffer(p.mixFB)
	if err := clip.DrawFrame(timeUs, gpu.NoTexture); err != nil {
		if !errors.Is(err, effects.ErrFrameSkipped) {
			return err
		}
		p.log.WithFields(logrus.Fields{
			"function": "RenderFrame",
			"time_us":  timeUs,
		}).Warn("Transition skipped, reusing previous frame")
	}

	p.dev.BindFramebuffer(p.outFB)
	if err := p.overlay.DrawFrame(p.mixTex); err != nil {
		return err
	}
	p.dev.BindTexture(0, gpu.NoTexture)
	p.dev.BindTexture(1, gpu.NoTexture)

	p.dev.ReadPixels(dst)
	if err := p.dev.GetError(); err != nil {
		return fmt.Errorf("renderer: readback: %w", err)
	}
	return nil
}

// Release deletes both stages and the offscreen targets.
func (p *Pipeline) Release() {
	p.letterbox.Release()
	p.overlay.Release()
	if p.mixFB != 0 {
		p.dev.DeleteFramebuffer(p.mixFB)
		p.mixFB, p.mixTex = 0, gpu.NoTexture
	}
	if p.outFB != 0 {
		p.dev.DeleteFramebuffer(p.outFB)
		p.outFB = 0
	}
}
