package effects

import (
	"errors"
	"image"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/slideshow/internal/assets"
	"github.com/ivlev/slideshow/internal/gpu"
	"github.com/ivlev/slideshow/internal/shader"
	"github.com/ivlev/slideshow/internal/texture"
	"github.com/ivlev/slideshow/internal/vec"
)

const overlayFragment = `#version 330 core
in vec2 vTexCoord;
out vec4 fragColor;

uniform sampler2D uVideo;
uniform sampler2D uFrame;
uniform int hasFrame;

void main() {
	vec4 video = texture(uVideo, vTexCoord);
	if (hasFrame == 0) {
		fragColor = video;
		return;
	}
	// textures hold premultiplied alpha
	vec4 frame = texture(uFrame, vTexCoord);
	fragColor = frame + video * (1.0 - frame.a);
}
`

func overlayKernel(env gpu.Env) gpu.Shade {
	video := env.Sampler("uVideo")
	if env.Int("hasFrame") == 0 {
		return func(uv vec.Vec2) vec.Color { return video(uv) }
	}
	frame := env.Sampler("uFrame")
	return func(uv vec.Vec2) vec.Color {
		f := frame(uv)
		return f.Add(video(uv).Scale(1 - f.A))
	}
}

// OverlaySource is the overlay program.
func OverlaySource() gpu.ProgramSource {
	return gpu.ProgramSource{
		Name:     "overlay",
		Vertex:   shader.VertexShader,
		Fragment: overlayFragment,
		Kernel:   overlayKernel,
	}
}

// Overlay composites a decorative frame, stretched to the output, over the
// video with the premultiplied "over" operator. Without a frame it passes the video
// through.
type Overlay struct {
	stage
	frame   texture.Slot
	pending image.Image
}

func NewOverlay(dev gpu.Device, opts ...Option) *Overlay {
	return &Overlay{stage: newStage("overlay", dev, opts)}
}

// Configure compiles the program and sets the output size.
func (o *Overlay) Configure(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.New("overlay: output size must be positive")
	}
	if err := o.compile(OverlaySource()); err != nil {
		return err
	}
	o.width, o.height = width, height
	o.configured = true
	return nil
}

// SetFrame replaces the frame image; nil removes it.
func (o *Overlay) SetFrame(img image.Image) {
	o.frame.Release()
	o.pending = img
}

// LoadFrame decodes the frame at path. On failure the stage keeps running
// without a frame and the *assets.AssetError is returned for reporting.
func (o *Overlay) LoadFrame(path string) error {
	img, err := assets.LoadOverlay(path)
	if err != nil {
		o.log.WithFields(logrus.Fields{
			"function": "LoadFrame",
			"path":     path,
			"error":    err.Error(),
		}).Warn("Overlay not loaded, rendering without it")
		o.SetFrame(nil)
		return err
	}
	o.SetFrame(img)
	return nil
}

// HasFrame reports whether a frame is set or pending.
func (o *Overlay) HasFrame() bool {
	return o.frame.Owned() != nil || o.pending != nil
}

// DrawFrame composites over video into the bound framebuffer.
func (o *Overlay) DrawFrame(video gpu.TextureID) error {
	if err := o.ready("DrawFrame"); err != nil {
		return err
	}
	if video == gpu.NoTexture {
		o.emit(FrameEvent{Skipped: true})
		return ErrFrameSkipped
	}
	if o.pending != nil {
		tex, err := o.textures.Upload(o.pending)
		o.pending = nil
		if err != nil {
			o.log.WithFields(logrus.Fields{
				"function": "DrawFrame",
				"error":    err.Error(),
			}).Warn("Overlay upload failed, rendering without it")
		} else {
			o.frame.Set(tex)
		}
	}

	p := o.program
	p.Use()
	p.SetSampler("uVideo", 0, video)
	if frame := o.frame.Owned(); frame != nil {
		p.SetSampler("uFrame", 1, frame.ID())
		p.SetInt("hasFrame", 1)
	} else {
		p.SetInt("hasFrame", 0)
	}
	if err := o.draw(); err != nil {
		return err
	}
	o.emit(FrameEvent{})
	return nil
}

// Release deletes the program and the frame texture.
func (o *Overlay) Release() {
	o.frame.Release()
	o.pending = nil
	o.release()
}
