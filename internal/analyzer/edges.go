// Package analyzer measures how much visible content parts of a slide
// carry, so decorations can be placed where they hide the least.
package analyzer

import (
	"image"
	"image/color"
	"math"
)

// Detector scores a region of an image; higher means busier.
type Detector interface {
	Busyness(img image.Image, r image.Rectangle) float64
}

// EdgeDetector scores a region by the share of pixels on a Sobel edge
type EdgeDetector struct {
	EdgeThreshold float64 // Gradient magnitude threshold
}

// NewEdgeDetector creates a detector with default sensitivity
func NewEdgeDetector() *EdgeDetector {
	return &EdgeDetector{EdgeThreshold: 30.0}
}

// Busyness returns the fraction of edge pixels in r, in [0, 1]. Pixels on
// the border of the image have no full neighbourhood and are not counted.
func (d *EdgeDetector) Busyness(img image.Image, r image.Rectangle) float64 {
	b := img.Bounds()
	inner := image.Rect(b.Min.X+1, b.Min.Y+1, b.Max.X-1, b.Max.Y-1)
	r = r.Intersect(inner)
	if r.Empty() {
		return 0
	}

	// Grayscale of r plus a one pixel apron
	apron := r.Inset(-1)
	gray := image.NewGray(apron)
	for y := apron.Min.Y; y < apron.Max.Y; y++ {
		for x := apron.Min.X; x < apron.Max.X; x++ {
			gray.SetGray(x, y, color.GrayModel.Convert(img.At(x, y)).(color.Gray))
		}
	}

	edges := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if sobel(gray, x, y) > d.EdgeThreshold {
				edges++
			}
		}
	}
	return float64(edges) / float64(r.Dx()*r.Dy())
}

// Sobel kernels
var (
	gx = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	gy = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// sobel returns the gradient magnitude at x, y
func sobel(gray *image.Gray, x, y int) float64 {
	var sumX, sumY float64
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			pixel := float64(gray.GrayAt(x+kx, y+ky).Y)
			sumX += pixel * gx[ky+1][kx+1]
			sumY += pixel * gy[ky+1][kx+1]
		}
	}
	return math.Sqrt(sumX*sumX + sumY*sumY)
}

// Quietest returns the index of the least busy candidate. Ties go to the
// earlier candidate, so callers list their preferred placement first.
func Quietest(d Detector, img image.Image, candidates []image.Rectangle) int {
	best, bestScore := -1, math.Inf(1)
	for i, r := range candidates {
		if s := d.Busyness(img, r); s < bestScore {
			best, bestScore = i, s
		}
	}
	return best
}
