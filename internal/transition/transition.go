// Package transition is the catalog of blend algorithms used between two
// slides. Every entry carries a GLSL fragment body and the equivalent Go
// function; neither holds state between frames.
//
// A GLSL body must define
//
//	vec4 blend(vec2 uv)
//
// and may use sampleFrom, sampleTo, inBounds, rand, rotate2, PI and the
// uniforms progress, ratio, smoothness and fadeColor. progress arrives
// already eased and within [0,1].
package transition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ivlev/slideshow/internal/vec"
)

// Input is what a blend function sees for one frame.
type Input struct {
	Progress   float64
	Ratio      float64
	Smoothness float64
	FadeColor  vec.Color
	From       vec.Sampler
	To         vec.Sampler
}

// AspectRatio returns Ratio, or 1 when unset.
func (in *Input) AspectRatio() float64 {
	if in.Ratio > 0 {
		return in.Ratio
	}
	return 1
}

// BlendFunc computes the output color at uv.
type BlendFunc func(uv vec.Vec2, in *Input) vec.Color

// Transition is one catalog entry.
type Transition struct {
	ID       string
	Name     string
	Category Category
	Shader   string
	Premium  bool
	Blend    BlendFunc
}

// Validate checks that t can be turned into a program.
func (t Transition) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("empty id"))
	}
	if !strings.Contains(t.Shader, "vec4 blend(vec2 uv)") {
		errs = append(errs, errors.New("shader body does not define vec4 blend(vec2 uv)"))
	}
	if t.Blend == nil {
		errs = append(errs, errors.New("no reference blend function"))
	}
	if !t.Category.Valid() {
		errs = append(errs, fmt.Errorf("unknown category %d", t.Category))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("transition %q: %w", t.ID, err)
	}
	return nil
}

// clipped is the color regions outside valid UV bounds render as.
var clipped = vec.Black

func sampleOrClip(s vec.Sampler, p vec.Vec2) vec.Color {
	if p.InUnit() {
		return s(p)
	}
	return clipped
}
