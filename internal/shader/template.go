package shader

import (
	"errors"
	"fmt"

	"github.com/ivlev/slideshow/internal/gpu"
	"github.com/ivlev/slideshow/internal/transition"
	"github.com/ivlev/slideshow/internal/vec"
)

// VertexShader draws the full-screen quad and passes texture coordinates
// in [0,1]. It is shared by every stage.
const VertexShader = `#version 330 core
in vec2 aPosition;
out vec2 vTexCoord;

void main() {
	vTexCoord = aPosition * 0.5 + 0.5;
	gl_Position = vec4(aPosition, 0.0, 1.0);
}
`

const transitionHeader = `#version 330 core
in vec2 vTexCoord;
out vec4 fragColor;

uniform sampler2D uFrom;
uniform sampler2D uTo;
uniform float progress;
uniform float ratio;
uniform float smoothness;
uniform vec4 fadeColor;

const float PI = 3.141592653589793;

vec4 sampleFrom(vec2 uv) {
	return texture(uFrom, uv);
}

vec4 sampleTo(vec2 uv) {
	return texture(uTo, uv);
}

bool inBounds(vec2 p) {
	return all(greaterThanEqual(p, vec2(0.0))) && all(lessThanEqual(p, vec2(1.0)));
}

float rand(vec2 co) {
	return fract(sin(dot(co, vec2(12.9898, 78.233))) * 43758.5453);
}

vec2 rotate2(vec2 p, float a) {
	float s = sin(a);
	float c = cos(a);
	return vec2(p.x * c - p.y * s, p.x * s + p.y * c);
}
`

const transitionFooter = `
void main() {
	fragColor = blend(vTexCoord);
}
`

// Uniform and sampler names of transition programs.
const (
	UniformFrom       = "uFrom"
	UniformTo         = "uTo"
	UniformProgress   = "progress"
	UniformRatio      = "ratio"
	UniformSmoothness = "smoothness"
	UniformFadeColor  = "fadeColor"
)

// TransitionSource wraps a catalog entry into a complete program. The GLSL
// body sits between the shared header and main; the software kernel reads
// the same uniforms and calls the entry's Blend.
func TransitionSource(t transition.Transition) (gpu.ProgramSource, error) {
	if err := t.Validate(); err != nil {
		return gpu.ProgramSource{}, err
	}
	blend := t.Blend
	return gpu.ProgramSource{
		Name:     "transition/" + t.ID,
		Vertex:   VertexShader,
		Fragment: transitionHeader + t.Shader + transitionFooter,
		Kernel: func(env gpu.Env) gpu.Shade {
			fc := env.Vec4(UniformFadeColor)
			in := &transition.Input{
				Progress:   env.Float(UniformProgress),
				Ratio:      env.Float(UniformRatio),
				Smoothness: env.Float(UniformSmoothness),
				FadeColor:  vec.Color{R: fc[0], G: fc[1], B: fc[2], A: fc[3]},
				From:       env.Sampler(UniformFrom),
				To:         env.Sampler(UniformTo),
			}
			return func(uv vec.Vec2) vec.Color {
				return blend(uv, in)
			}
		},
	}, nil
}

// ValidateCatalog builds and releases a program for every transition in
// lib and reports all failures together.
func ValidateCatalog(dev gpu.Device, lib *transition.Library) error {
	var errs []error
	for _, t := range lib.All() {
		src, err := TransitionSource(t)
		if err != nil {
			errs = append(errs, &CompileError{Program: "transition/" + t.ID, Err: err})
			continue
		}
		p, err := NewProgram(dev, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p.Release()
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d transitions failed to build: %w", len(errs), lib.Len(), errors.Join(errs...))
	}
	return nil
}
