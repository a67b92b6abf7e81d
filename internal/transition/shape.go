package transition

import (
	"math"

	"github.com/ivlev/slideshow/internal/vec"
)

func blurTransitions() []Transition {
	return []Transition{
		{
			ID:       "blur",
			Name:     "Blur",
			Category: Blur,
			Shader: `
vec4 blend(vec2 uv) {
	float radius = sin(progress * PI) * 0.02;
	vec4 f = vec4(0.0);
	vec4 t = vec4(0.0);
	for (int x = -1; x <= 1; x++) {
		for (int y = -1; y <= 1; y++) {
			vec2 o = vec2(float(x), float(y)) * radius;
			f += sampleFrom(uv + o);
			t += sampleTo(uv + o);
		}
	}
	return mix(f / 9.0, t / 9.0, progress);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				radius := math.Sin(in.Progress*math.Pi) * 0.02
				var f, t vec.Color
				for x := -1; x <= 1; x++ {
					for y := -1; y <= 1; y++ {
						p := uv.Add(vec.V2(float64(x), float64(y)).Scale(radius))
						f = f.Add(in.From(p))
						t = t.Add(in.To(p))
					}
				}
				return vec.Mix(f.Scale(1.0/9), t.Scale(1.0/9), in.Progress)
			},
		},
		{
			ID:       "directional_blur",
			Name:     "Motion Blur",
			Category: Blur,
			Shader: `
vec4 blend(vec2 uv) {
	float radius = sin(progress * PI) * 0.04;
	vec4 f = vec4(0.0);
	vec4 t = vec4(0.0);
	for (int i = -4; i <= 4; i++) {
		vec2 o = vec2(float(i) * radius / 4.0, 0.0);
		f += sampleFrom(uv + o);
		t += sampleTo(uv + o);
	}
	return mix(f / 9.0, t / 9.0, progress);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				radius := math.Sin(in.Progress*math.Pi) * 0.04
				var f, t vec.Color
				for i := -4; i <= 4; i++ {
					p := uv.Add(vec.V2(float64(i)*radius/4, 0))
					f = f.Add(in.From(p))
					t = t.Add(in.To(p))
				}
				return vec.Mix(f.Scale(1.0/9), t.Scale(1.0/9), in.Progress)
			},
		},
	}
}

// centered returns uv relative to the center in square pixel space.
func centered(uv vec.Vec2, ratio float64) vec.Vec2 {
	p := uv.Sub(vec.Center)
	p.X *= ratio
	return p
}

func heartContains(p vec.Vec2, size float64) bool {
	if size <= 0 {
		return false
	}
	x, y := p.X/size, -p.Y/size
	a := x*x + y*y - 1
	return a*a*a-x*x*y*y*y <= 0
}

func starRadius(p vec.Vec2, size float64) float64 {
	k := math.Abs(vec.Fract(math.Atan2(p.Y, p.X)*5/(2*math.Pi))-0.5) * 2
	return size * vec.MixF(0.5, 1, k)
}

// Shape boundaries grow with the square of progress.
func geometricTransitions() []Transition {
	return []Transition{
		{
			ID:       "circle_open",
			Name:     "Circle Open",
			Category: Geometric,
			Shader: `
vec4 blend(vec2 uv) {
	float r = ratio > 0.0 ? ratio : 1.0;
	vec2 p = uv - 0.5;
	p.x *= r;
	float edge = progress * progress * (length(vec2(0.5 * r, 0.5)) + smoothness);
	float m = smoothstep(edge - smoothness, edge, length(p));
	return mix(sampleTo(uv), sampleFrom(uv), m);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				r := in.AspectRatio()
				edge := in.Progress * in.Progress * (vec.V2(0.5*r, 0.5).Length() + in.Smoothness)
				m := vec.Smoothstep(edge-in.Smoothness, edge, centered(uv, r).Length())
				return vec.Mix(in.To(uv), in.From(uv), m)
			},
		},
		{
			ID:       "diamond",
			Name:     "Diamond",
			Category: Geometric,
			Shader: `
vec4 blend(vec2 uv) {
	float r = ratio > 0.0 ? ratio : 1.0;
	vec2 p = abs(uv - 0.5);
	p.x *= r;
	float edge = progress * progress * (0.5 * r + 0.5 + smoothness);
	float m = smoothstep(edge - smoothness, edge, p.x + p.y);
	return mix(sampleTo(uv), sampleFrom(uv), m);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				r := in.AspectRatio()
				p := centered(uv, r)
				edge := in.Progress * in.Progress * (0.5*r + 0.5 + in.Smoothness)
				m := vec.Smoothstep(edge-in.Smoothness, edge, math.Abs(p.X)+math.Abs(p.Y))
				return vec.Mix(in.To(uv), in.From(uv), m)
			},
		},
		{
			ID:       "heart",
			Name:     "Heart",
			Category: Geometric,
			Premium:  true,
			Shader: `
bool inHeart(vec2 p, float size) {
	if (size <= 0.0) {
		return false;
	}
	vec2 q = vec2(p.x, -p.y) / size;
	float a = q.x * q.x + q.y * q.y - 1.0;
	return a * a * a - q.x * q.x * q.y * q.y * q.y <= 0.0;
}

vec4 blend(vec2 uv) {
	float r = ratio > 0.0 ? ratio : 1.0;
	vec2 p = uv - 0.5;
	p.x *= r;
	float size = progress * progress * 2.2 * length(vec2(0.5 * r, 0.5));
	return inHeart(p, size) ? sampleTo(uv) : sampleFrom(uv);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				r := in.AspectRatio()
				size := in.Progress * in.Progress * 2.2 * vec.V2(0.5*r, 0.5).Length()
				if heartContains(centered(uv, r), size) {
					return in.To(uv)
				}
				return in.From(uv)
			},
		},
		{
			ID:       "star",
			Name:     "Star",
			Category: Geometric,
			Premium:  true,
			Shader: `
vec4 blend(vec2 uv) {
	float r = ratio > 0.0 ? ratio : 1.0;
	vec2 p = uv - 0.5;
	p.x *= r;
	float size = progress * progress * 2.1 * length(vec2(0.5 * r, 0.5));
	float k = abs(fract(atan(p.y, p.x) * 5.0 / (2.0 * PI)) - 0.5) * 2.0;
	return length(p) < size * mix(0.5, 1.0, k) ? sampleTo(uv) : sampleFrom(uv);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				r := in.AspectRatio()
				p := centered(uv, r)
				size := in.Progress * in.Progress * 2.1 * vec.V2(0.5*r, 0.5).Length()
				if p.Length() < starRadius(p, size) {
					return in.To(uv)
				}
				return in.From(uv)
			},
		},
	}
}

func creativeTransitions() []Transition {
	return []Transition{
		{
			ID:       "pixelize",
			Name:     "Pixelize",
			Category: Creative,
			Shader: `
vec4 blend(vec2 uv) {
	float r = ratio > 0.0 ? ratio : 1.0;
	float size = sin(progress * PI) * 0.05;
	vec2 p = uv;
	if (size > 0.001) {
		vec2 cell = vec2(size / r, size);
		p = (floor(uv / cell) + 0.5) * cell;
	}
	return mix(sampleFrom(p), sampleTo(p), progress);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				size := math.Sin(in.Progress*math.Pi) * 0.05
				p := uv
				if size > 0.001 {
					cw, ch := size/in.AspectRatio(), size
					p = vec.V2((math.Floor(uv.X/cw)+0.5)*cw, (math.Floor(uv.Y/ch)+0.5)*ch)
				}
				return vec.Mix(in.From(p), in.To(p), in.Progress)
			},
		},
		{
			ID:       "ripple",
			Name:     "Ripple",
			Category: Creative,
			Shader: `
vec4 blend(vec2 uv) {
	vec2 dir = uv - 0.5;
	float dist = length(dir);
	vec2 offset = vec2(0.0);
	if (dist > 0.0001) {
		offset = dir / dist * sin(dist * 30.0 - progress * 20.0) * 0.03 * sin(progress * PI);
	}
	return mix(sampleFrom(uv + offset), sampleTo(uv), progress);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				dir := uv.Sub(vec.Center)
				dist := dir.Length()
				var offset vec.Vec2
				if dist > 0.0001 {
					offset = dir.Scale(math.Sin(dist*30-in.Progress*20) * 0.03 * math.Sin(in.Progress*math.Pi) / dist)
				}
				return vec.Mix(in.From(uv.Add(offset)), in.To(uv), in.Progress)
			},
		},
		{
			ID:       "swirl",
			Name:     "Swirl",
			Category: Creative,
			Premium:  true,
			Shader: `
vec4 blend(vec2 uv) {
	vec2 p = uv - 0.5;
	float angle = sin(progress * PI) * 4.0 * (1.0 - smoothstep(0.0, 0.7, length(p)));
	p = rotate2(p, angle) + 0.5;
	return mix(sampleFrom(p), sampleTo(p), progress);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				p := uv.Sub(vec.Center)
				angle := math.Sin(in.Progress*math.Pi) * 4 * (1 - vec.Smoothstep(0, 0.7, p.Length()))
				p = p.Rotate(angle).Add(vec.Center)
				return vec.Mix(in.From(p), in.To(p), in.Progress)
			},
		},
		{
			ID:       "glitch",
			Name:     "Glitch",
			Category: Creative,
			Premium:  true,
			Shader: `
vec4 blend(vec2 uv) {
	float intensity = sin(progress * PI);
	float line = floor(uv.y * 120.0);
	float shift = (rand(vec2(line, floor(progress * 20.0))) - 0.5) * 0.1 * intensity;
	vec2 p = vec2(uv.x + shift, uv.y);
	vec2 o = vec2(0.01 * intensity, 0.0);
	float pr = clamp(progress + 0.1 * intensity, 0.0, 1.0);
	float pb = clamp(progress - 0.1 * intensity, 0.0, 1.0);
	float r = mix(sampleFrom(p + o).r, sampleTo(p + o).r, pr);
	float b = mix(sampleFrom(p - o).b, sampleTo(p - o).b, pb);
	vec4 c = mix(sampleFrom(p), sampleTo(p), progress);
	return vec4(r, c.g, b, c.a);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				intensity := math.Sin(in.Progress * math.Pi)
				line := math.Floor(uv.Y * 120)
				shift := (vec.Rand(vec.V2(line, math.Floor(in.Progress*20))) - 0.5) * 0.1 * intensity
				p := vec.V2(uv.X+shift, uv.Y)
				o := vec.V2(0.01*intensity, 0)
				pr := vec.Clamp(in.Progress+0.1*intensity, 0, 1)
				pb := vec.Clamp(in.Progress-0.1*intensity, 0, 1)
				c := vec.Mix(in.From(p), in.To(p), in.Progress)
				c.R = vec.MixF(in.From(p.Add(o)).R, in.To(p.Add(o)).R, pr)
				c.B = vec.MixF(in.From(p.Sub(o)).B, in.To(p.Sub(o)).B, pb)
				return c
			},
		},
	}
}
