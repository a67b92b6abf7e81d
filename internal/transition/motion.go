package transition

import (
	"fmt"
	"math"

	"github.com/ivlev/slideshow/internal/vec"
)

// slide moves both images together along dir, the unit direction the
// content travels in.
func slide(id, name string, dir vec.Vec2) Transition {
	return Transition{
		ID:       id,
		Name:     name,
		Category: Slide,
		Shader: fmt.Sprintf(`
const vec2 direction = vec2(%.1f, %.1f);

vec4 blend(vec2 uv) {
	vec2 p = uv - progress * direction;
	return inBounds(p) ? sampleFrom(p) : sampleTo(fract(p));
}
`, dir.X, dir.Y),
		Blend: func(uv vec.Vec2, in *Input) vec.Color {
			p := uv.Sub(dir.Scale(in.Progress))
			if p.InUnit() {
				return in.From(p)
			}
			return in.To(vec.V2(vec.Fract(p.X), vec.Fract(p.Y)))
		},
	}
}

// wipe reveals the next image behind an edge. axis gives the GLSL
// expression and Go function for the distance of uv from the side the edge
// starts on.
func wipe(id, name, axis string, dist func(uv vec.Vec2) float64) Transition {
	return Transition{
		ID:       id,
		Name:     name,
		Category: Wipe,
		Shader: fmt.Sprintf(`
vec4 blend(vec2 uv) {
	float v = %s;
	float m = smoothstep(-smoothness, 0.0, v - progress * (1.0 + smoothness));
	return mix(sampleTo(uv), sampleFrom(uv), m);
}
`, axis),
		Blend: func(uv vec.Vec2, in *Input) vec.Color {
			m := vec.Smoothstep(-in.Smoothness, 0, dist(uv)-in.Progress*(1+in.Smoothness))
			return vec.Mix(in.To(uv), in.From(uv), m)
		},
	}
}

func slideTransitions() []Transition {
	return []Transition{
		slide("slide_left", "Slide Left", vec.V2(-1, 0)),
		slide("slide_right", "Slide Right", vec.V2(1, 0)),
		slide("slide_up", "Slide Up", vec.V2(0, -1)),
		slide("slide_down", "Slide Down", vec.V2(0, 1)),
	}
}

func wipeTransitions() []Transition {
	return []Transition{
		wipe("wipe_left", "Wipe Left", "1.0 - uv.x", func(uv vec.Vec2) float64 { return 1 - uv.X }),
		wipe("wipe_right", "Wipe Right", "uv.x", func(uv vec.Vec2) float64 { return uv.X }),
		wipe("wipe_up", "Wipe Up", "1.0 - uv.y", func(uv vec.Vec2) float64 { return 1 - uv.Y }),
		wipe("wipe_down", "Wipe Down", "uv.y", func(uv vec.Vec2) float64 { return uv.Y }),
		{
			ID:       "blinds",
			Name:     "Blinds",
			Category: Wipe,
			Shader: `
vec4 blend(vec2 uv) {
	return fract(uv.y * 10.0) < progress ? sampleTo(uv) : sampleFrom(uv);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				if vec.Fract(uv.Y*10) < in.Progress {
					return in.To(uv)
				}
				return in.From(uv)
			},
		},
		{
			ID:       "radial",
			Name:     "Clock Wipe",
			Category: Wipe,
			Shader: `
vec4 blend(vec2 uv) {
	vec2 rp = uv - 0.5;
	float t = (atan(rp.x, -rp.y) + PI) / (2.0 * PI);
	float m = smoothstep(-smoothness, 0.0, t - progress * (1.0 + smoothness));
	return mix(sampleTo(uv), sampleFrom(uv), m);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				rp := uv.Sub(vec.Center)
				t := (math.Atan2(rp.X, -rp.Y) + math.Pi) / (2 * math.Pi)
				m := vec.Smoothstep(-in.Smoothness, 0, t-in.Progress*(1+in.Smoothness))
				return vec.Mix(in.To(uv), in.From(uv), m)
			},
		},
	}
}

func zoomTransitions() []Transition {
	return []Transition{
		{
			ID:       "zoom_in",
			Name:     "Zoom In",
			Category: Zoom,
			Shader: `
vec4 blend(vec2 uv) {
	vec2 p = (uv - 0.5) / (1.0 + progress) + 0.5;
	return mix(sampleFrom(p), sampleTo(uv), smoothstep(0.4, 1.0, progress));
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				p := uv.Sub(vec.Center).Scale(1 / (1 + in.Progress)).Add(vec.Center)
				return vec.Mix(in.From(p), in.To(uv), vec.Smoothstep(0.4, 1, in.Progress))
			},
		},
		{
			ID:       "zoom_out",
			Name:     "Zoom Out",
			Category: Zoom,
			Shader: `
vec4 blend(vec2 uv) {
	vec2 p = (uv - 0.5) / (2.0 - progress) + 0.5;
	return mix(sampleFrom(uv), sampleTo(p), smoothstep(0.0, 0.6, progress));
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				p := uv.Sub(vec.Center).Scale(1 / (2 - in.Progress)).Add(vec.Center)
				return vec.Mix(in.From(uv), in.To(p), vec.Smoothstep(0, 0.6, in.Progress))
			},
		},
	}
}

// aspectRotate rotates uv about pivot by angle in square pixel space and
// divides by scale.
func aspectRotate(uv, pivot vec.Vec2, angle, scale, ratio float64) vec.Vec2 {
	p := uv.Sub(pivot)
	p.X *= ratio
	p = p.Rotate(angle).Scale(1 / scale)
	p.X /= ratio
	return p.Add(pivot)
}

func rotateTransitions() []Transition {
	return []Transition{
		{
			ID:       "rotate",
			Name:     "Rotate",
			Category: Rotate,
			Shader: `
vec4 blend(vec2 uv) {
	float r = ratio > 0.0 ? ratio : 1.0;
	vec2 p = uv - 0.5;
	p.x *= r;
	p = rotate2(p, progress * PI) / (1.0 - 0.5 * progress);
	p.x /= r;
	p += 0.5;
	vec4 f = inBounds(p) ? sampleFrom(p) : vec4(0.0, 0.0, 0.0, 1.0);
	return mix(f, sampleTo(uv), smoothstep(0.3, 1.0, progress));
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				p := aspectRotate(uv, vec.Center, in.Progress*math.Pi, 1-0.5*in.Progress, in.AspectRatio())
				return vec.Mix(sampleOrClip(in.From, p), in.To(uv), vec.Smoothstep(0.3, 1, in.Progress))
			},
		},
		{
			ID:       "rotate_scale",
			Name:     "Rotate and Scale",
			Category: Rotate,
			Shader: `
vec4 blend(vec2 uv) {
	float r = ratio > 0.0 ? ratio : 1.0;
	float s = max(1.0 - progress, 0.0001);
	vec2 p = uv - 0.5;
	p.x *= r;
	p = rotate2(p, progress * 2.0 * PI) / s;
	p.x /= r;
	p += 0.5;
	vec4 f = inBounds(p) ? sampleFrom(p) : sampleTo(uv);
	return mix(f, sampleTo(uv), smoothstep(0.7, 1.0, progress));
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				s := math.Max(1-in.Progress, 0.0001)
				p := aspectRotate(uv, vec.Center, in.Progress*2*math.Pi, s, in.AspectRatio())
				f := in.To(uv)
				if p.InUnit() {
					f = in.From(p)
				}
				return vec.Mix(f, in.To(uv), vec.Smoothstep(0.7, 1, in.Progress))
			},
		},
	}
}
