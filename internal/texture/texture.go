// Package texture is the only way bitmaps reach the GPU. Every texture used
// by the compositing stages is created by Source.Upload, so all of them share
// the same format, filtering and wrapping.
package texture

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"github.com/ivlev/slideshow/internal/gpu"
)

// UploadError reports a texture that could not be created. The partially
// created texture has already been deleted.
type UploadError struct {
	Width, Height int
	Err           error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("texture upload %dx%d: %v", e.Width, e.Height, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Texture owns one device texture handle.
type Texture struct {
	dev      gpu.Device
	id       gpu.TextureID
	width    int
	height   int
	released bool
}

func (t *Texture) ID() gpu.TextureID { return t.id }
func (t *Texture) Width() int        { return t.width }
func (t *Texture) Height() int       { return t.height }

// Release deletes the handle. Further calls are no-ops.
func (t *Texture) Release() {
	if t == nil || t.released {
		return
	}
	t.released = true
	t.dev.DeleteTexture(t.id)
}

// Source uploads bitmaps to one device.
type Source struct {
	dev gpu.Device
	log *logrus.Entry
}

func NewSource(dev gpu.Device, log *logrus.Entry) *Source {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Source{dev: dev, log: log}
}

// Upload creates an RGBA texture from img with linear filtering and
// clamp-to-edge wrapping. The device error flag is checked before returning.
func (s *Source) Upload(img image.Image) (*Texture, error) {
	rgba := ToRGBA(img)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()

	id := s.dev.GenTexture()
	s.dev.TexParameter(id, gpu.MinFilter, gpu.Linear)
	s.dev.TexParameter(id, gpu.MagFilter, gpu.Linear)
	s.dev.TexParameter(id, gpu.WrapS, gpu.ClampToEdge)
	s.dev.TexParameter(id, gpu.WrapT, gpu.ClampToEdge)
	s.dev.TexImage2D(id, w, h, rgba.Pix)

	if err := s.dev.GetError(); err != nil {
		s.dev.DeleteTexture(id)
		s.log.WithFields(logrus.Fields{
			"function": "Upload",
			"width":    w,
			"height":   h,
			"error":    err.Error(),
		}).Warn("Texture upload failed")
		return nil, &UploadError{Width: w, Height: h, Err: err}
	}
	return &Texture{dev: s.dev, id: id, width: w, height: h}, nil
}

// ToRGBA returns img as a tightly packed *image.RGBA anchored at the origin.
// Images already in that form are returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == b.Dx()*4 {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
