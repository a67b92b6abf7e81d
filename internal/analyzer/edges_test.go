package analyzer

import (
	"image"
	"image/color"
	"testing"
)

// checker draws a black and white checkerboard of 2px cells into r.
func checker(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if (x/2+y/2)%2 == 0 {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
}

func TestBusynessFlatIsZero(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	d := NewEdgeDetector()

	if got := d.Busyness(img, img.Bounds()); got != 0 {
		t.Errorf("Expected 0 for a flat image, got %f", got)
	}
	if got := d.Busyness(img, image.Rect(100, 100, 120, 120)); got != 0 {
		t.Errorf("Expected 0 outside the image, got %f", got)
	}
}

func TestBusynessTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	checker(img, image.Rect(0, 0, 20, 20))
	d := NewEdgeDetector()

	busy := d.Busyness(img, image.Rect(2, 2, 18, 18))
	if busy < 0.5 {
		t.Errorf("Expected a checkerboard to be mostly edges, got %f", busy)
	}
	if busy > 1 {
		t.Errorf("Busyness must not exceed 1, got %f", busy)
	}
	if quiet := d.Busyness(img, image.Rect(25, 25, 38, 38)); quiet != 0 {
		t.Errorf("Expected an untouched corner to be quiet, got %f", quiet)
	}
}

func TestQuietest(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	checker(img, image.Rect(20, 20, 40, 40))
	checker(img, image.Rect(0, 20, 20, 40))

	candidates := []image.Rectangle{
		image.Rect(22, 22, 38, 38), // bottom right, busy
		image.Rect(2, 22, 18, 38),  // bottom left, busy
		image.Rect(22, 2, 38, 18),  // top right, flat
		image.Rect(2, 2, 18, 18),   // top left, flat
	}
	if got := Quietest(NewEdgeDetector(), img, candidates); got != 2 {
		t.Errorf("Expected the first flat candidate (2), got %d", got)
	}
	if got := Quietest(NewEdgeDetector(), img, nil); got != -1 {
		t.Errorf("Expected -1 without candidates, got %d", got)
	}
}
