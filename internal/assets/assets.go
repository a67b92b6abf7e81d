// Package assets loads decorative overlays: frame images from disk and
// generated QR watermarks.
package assets

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// AssetError reports an overlay that could not be loaded. Callers render
// without the overlay.
type AssetError struct {
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("overlay %s: %v", e.Path, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// LoadOverlay decodes a PNG, JPEG or WebP frame image.
func LoadOverlay(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &AssetError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &AssetError{Path: path, Err: err}
	}
	return img, nil
}

// Corner selects where a watermark is placed.
type Corner int

const (
	BottomRight Corner = iota
	BottomLeft
	TopRight
	TopLeft

	// Auto asks the caller to pick the least busy corner of the slide.
	Auto Corner = -1
)

// Corners lists the fixed placements in order of preference.
var Corners = []Corner{BottomRight, BottomLeft, TopRight, TopLeft}

// ParseCorner accepts "bottom-right", "bottom-left", "top-right",
// "top-left" and "auto".
func ParseCorner(s string) (Corner, error) {
	switch s {
	case "auto":
		return Auto, nil
	case "", "bottom-right":
		return BottomRight, nil
	case "bottom-left":
		return BottomLeft, nil
	case "top-right":
		return TopRight, nil
	case "top-left":
		return TopLeft, nil
	}
	return 0, fmt.Errorf("unknown corner %q", s)
}

func (c Corner) String() string {
	switch c {
	case BottomRight:
		return "bottom-right"
	case BottomLeft:
		return "bottom-left"
	case TopRight:
		return "top-right"
	case TopLeft:
		return "top-left"
	case Auto:
		return "auto"
	}
	return fmt.Sprintf("Corner(%d)", int(c))
}

// QROptions controls QRCodeOverlay.
type QROptions struct {
	// Size is the QR edge length as a fraction of the frame height.
	Size   float64
	Margin int
	Corner Corner
}

// QRCodeOverlay draws a QR code for content onto an otherwise transparent
// frame of the given size.
func QRCodeOverlay(content string, width, height int, opts QROptions) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("qr overlay: invalid frame %dx%d", width, height)
	}
	side := QRSide(width, height, opts.Size)

	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, &AssetError{Path: "qr:" + content, Err: err}
	}
	// premultiplied white
	q.BackgroundColor = color.RGBA{R: 230, G: 230, B: 230, A: 230}
	q.ForegroundColor = color.Black
	code := q.Image(side)

	frame := image.NewRGBA(image.Rect(0, 0, width, height))
	r := CornerRect(opts.Corner, width, height, code.Bounds().Dx(), opts.Margin)
	draw.Draw(frame, r, code, code.Bounds().Min, draw.Over)
	return frame, nil
}

// QRSide returns the QR edge length in pixels for a frame; size is a
// fraction of the frame height, 0.2 when unset.
func QRSide(width, height int, size float64) int {
	if size <= 0 {
		size = 0.2
	}
	side := int(float64(height) * size)
	if side < 21 {
		side = 21
	}
	return min(side, width, height)
}

// CornerRect is the square of the given side placed in corner c with
// margin m. Auto falls back to BottomRight.
func CornerRect(c Corner, width, height, side, m int) image.Rectangle {
	var at image.Point
	switch c {
	case BottomLeft:
		at = image.Pt(m, height-side-m)
	case TopRight:
		at = image.Pt(width-side-m, m)
	case TopLeft:
		at = image.Pt(m, m)
	default:
		at = image.Pt(width-side-m, height-side-m)
	}
	return image.Rectangle{Min: at, Max: at.Add(image.Pt(side, side))}
}
