package transition

import (
	"math"

	"github.com/ivlev/slideshow/internal/vec"
)

func cinematicTransitions() []Transition {
	return []Transition{
		{
			ID:       "film_burn",
			Name:     "Film Burn",
			Category: Cinematic,
			Premium:  true,
			Shader: `
vec4 blend(vec2 uv) {
	float burn = sin(progress * PI);
	float n = rand(floor(uv * 64.0));
	float heat = clamp(burn * (1.2 - length(uv - 0.5)) + (n - 0.5) * 0.2 * burn, 0.0, 1.0);
	vec4 base = mix(sampleFrom(uv), sampleTo(uv), smoothstep(0.35, 0.65, progress));
	return vec4(min(base.rgb + vec3(1.0, 0.6, 0.2) * heat, vec3(1.0)), base.a);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				burn := math.Sin(in.Progress * math.Pi)
				n := vec.Rand(vec.V2(math.Floor(uv.X*64), math.Floor(uv.Y*64)))
				heat := vec.Clamp(burn*(1.2-uv.Distance(vec.Center))+(n-0.5)*0.2*burn, 0, 1)
				c := vec.Mix(in.From(uv), in.To(uv), vec.Smoothstep(0.35, 0.65, in.Progress))
				c.R = math.Min(c.R+heat, 1)
				c.G = math.Min(c.G+0.6*heat, 1)
				c.B = math.Min(c.B+0.2*heat, 1)
				return c
			},
		},
		{
			ID:       "doorway",
			Name:     "Doorway",
			Category: Cinematic,
			Premium:  true,
			Shader: `
vec4 blend(vec2 uv) {
	float open = progress * 0.5;
	float shade = 1.0 - 0.5 * progress;
	if (uv.x < 0.5 && uv.x + open < 0.5) {
		vec4 c = sampleFrom(vec2(uv.x + open, uv.y));
		return vec4(c.rgb * shade, c.a);
	}
	if (uv.x >= 0.5 && uv.x - open >= 0.5) {
		vec4 c = sampleFrom(vec2(uv.x - open, uv.y));
		return vec4(c.rgb * shade, c.a);
	}
	vec2 q = (uv - 0.5) / mix(0.6, 1.0, progress) + 0.5;
	return inBounds(q) ? sampleTo(q) : vec4(0.0, 0.0, 0.0, 1.0);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				open := in.Progress * 0.5
				shade := 1 - 0.5*in.Progress
				if uv.X < 0.5 && uv.X+open < 0.5 {
					return in.From(vec.V2(uv.X+open, uv.Y)).ScaleRGB(shade)
				}
				if uv.X >= 0.5 && uv.X-open >= 0.5 {
					return in.From(vec.V2(uv.X-open, uv.Y)).ScaleRGB(shade)
				}
				q := uv.Sub(vec.Center).Scale(1 / vec.MixF(0.6, 1, in.Progress)).Add(vec.Center)
				return sampleOrClip(in.To, q)
			},
		},
		{
			ID:       "page_curl",
			Name:     "Page Curl",
			Category: Cinematic,
			Premium:  true,
			Shader: `
vec4 blend(vec2 uv) {
	float pos = (uv.x + uv.y) * 0.5;
	float edge = 1.0 - progress * 1.3;
	if (pos < edge) {
		return sampleFrom(uv);
	}
	if (pos < edge + 0.2) {
		vec2 back = uv - 2.0 * (pos - edge) * vec2(1.0);
		if (inBounds(back)) {
			vec4 c = sampleFrom(back);
			return vec4(mix(c.rgb, vec3(0.9), 0.5) * 0.8, 1.0);
		}
	}
	vec4 c = sampleTo(uv);
	return vec4(c.rgb * mix(0.6, 1.0, smoothstep(edge + 0.2, edge + 0.3, pos)), c.a);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				pos := (uv.X + uv.Y) * 0.5
				edge := 1 - in.Progress*1.3
				if pos < edge {
					return in.From(uv)
				}
				if pos < edge+0.2 {
					back := uv.Sub(vec.V2(1, 1).Scale(2 * (pos - edge)))
					if back.InUnit() {
						c := in.From(back)
						return vec.Color{
							R: vec.MixF(c.R, 0.9, 0.5) * 0.8,
							G: vec.MixF(c.G, 0.9, 0.5) * 0.8,
							B: vec.MixF(c.B, 0.9, 0.5) * 0.8,
							A: 1,
						}
					}
				}
				return in.To(uv).ScaleRGB(vec.MixF(0.6, 1, vec.Smoothstep(edge+0.2, edge+0.3, pos)))
			},
		},
	}
}

// The 3D family fakes perspective with per-region UV remapping and
// brightness shading.
func threeDTransitions() []Transition {
	return []Transition{
		{
			ID:       "cube",
			Name:     "Cube",
			Category: ThreeD,
			Premium:  true,
			Shader: `
vec4 face(sampler2D tex, vec2 p, float shade) {
	if (!inBounds(p)) {
		return vec4(0.0, 0.0, 0.0, 1.0);
	}
	vec4 c = texture(tex, p);
	return vec4(c.rgb * shade, c.a);
}

vec4 blend(vec2 uv) {
	float s = 1.0 - progress;
	if (uv.x < s) {
		float t = uv.x / s;
		float scale = mix(1.0 - 0.3 * progress, 1.0, t);
		return face(uFrom, vec2(t, (uv.y - 0.5) / scale + 0.5), 1.0 - 0.5 * progress);
	}
	float t = (uv.x - s) / progress;
	float scale = mix(1.0, 1.0 - 0.3 * s, t);
	return face(uTo, vec2(t, (uv.y - 0.5) / scale + 0.5), 1.0 - 0.5 * s);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				s := 1 - in.Progress
				if uv.X < s {
					t := uv.X / s
					scale := vec.MixF(1-0.3*in.Progress, 1, t)
					return face(in.From, vec.V2(t, (uv.Y-0.5)/scale+0.5), 1-0.5*in.Progress)
				}
				t := (uv.X - s) / in.Progress
				scale := vec.MixF(1, 1-0.3*s, t)
				return face(in.To, vec.V2(t, (uv.Y-0.5)/scale+0.5), 1-0.5*s)
			},
		},
		{
			ID:       "page_flip",
			Name:     "Page Flip",
			Category: ThreeD,
			Premium:  true,
			Shader: `
vec4 blend(vec2 uv) {
	float c = cos(progress * PI);
	if (progress < 0.5) {
		float shade = mix(1.0, 0.5, progress * 2.0);
		if (uv.x >= 0.5 && uv.x - 0.5 <= 0.5 * c && c > 0.0001) {
			vec4 f = sampleFrom(vec2(0.5 + (uv.x - 0.5) / c, uv.y));
			return vec4(f.rgb * shade, f.a);
		}
		return uv.x >= 0.5 ? sampleTo(uv) : sampleFrom(uv);
	}
	float shade = mix(0.5, 1.0, (progress - 0.5) * 2.0);
	if (uv.x < 0.5 && 0.5 - uv.x <= -0.5 * c && c < -0.0001) {
		vec4 t = sampleTo(vec2(0.5 - (0.5 - uv.x) / -c, uv.y));
		return vec4(t.rgb * shade, t.a);
	}
	return uv.x >= 0.5 ? sampleTo(uv) : sampleFrom(uv);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				c := math.Cos(in.Progress * math.Pi)
				if in.Progress < 0.5 {
					shade := vec.MixF(1, 0.5, in.Progress*2)
					if uv.X >= 0.5 && uv.X-0.5 <= 0.5*c && c > 0.0001 {
						return in.From(vec.V2(0.5+(uv.X-0.5)/c, uv.Y)).ScaleRGB(shade)
					}
				} else {
					shade := vec.MixF(0.5, 1, (in.Progress-0.5)*2)
					if uv.X < 0.5 && 0.5-uv.X <= -0.5*c && c < -0.0001 {
						return in.To(vec.V2(0.5-(0.5-uv.X)/-c, uv.Y)).ScaleRGB(shade)
					}
				}
				if uv.X >= 0.5 {
					return in.To(uv)
				}
				return in.From(uv)
			},
		},
		{
			ID:       "fold",
			Name:     "Fold",
			Category: ThreeD,
			Shader: `
vec4 blend(vec2 uv) {
	if (uv.x < progress) {
		vec4 t = sampleTo(vec2(uv.x / progress, uv.y));
		return vec4(t.rgb * mix(0.6, 1.0, progress), t.a);
	}
	vec4 f = sampleFrom(vec2((uv.x - progress) / (1.0 - progress), uv.y));
	return vec4(f.rgb * mix(1.0, 0.6, progress), f.a);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				if uv.X < in.Progress {
					return in.To(vec.V2(uv.X/in.Progress, uv.Y)).ScaleRGB(vec.MixF(0.6, 1, in.Progress))
				}
				return in.From(vec.V2((uv.X-in.Progress)/(1-in.Progress), uv.Y)).ScaleRGB(vec.MixF(1, 0.6, in.Progress))
			},
		},
		{
			ID:       "roll",
			Name:     "Roll",
			Category: ThreeD,
			Premium:  true,
			Shader: `
vec4 blend(vec2 uv) {
	float r = ratio > 0.0 ? ratio : 1.0;
	vec2 pivot = vec2(0.0, 1.0);
	vec2 p = uv - pivot;
	p.x *= r;
	p = rotate2(p, progress * PI * 0.5);
	p.x /= r;
	p += pivot;
	if (inBounds(p)) {
		vec4 f = sampleFrom(p);
		return vec4(f.rgb * (1.0 - 0.4 * progress), f.a);
	}
	return sampleTo(uv);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				p := aspectRotate(uv, vec.V2(0, 1), in.Progress*math.Pi*0.5, 1, in.AspectRatio())
				if p.InUnit() {
					return in.From(p).ScaleRGB(1 - 0.4*in.Progress)
				}
				return in.To(uv)
			},
		},
		{
			ID:       "revolve",
			Name:     "Revolve",
			Category: ThreeD,
			Shader: `
vec4 blend(vec2 uv) {
	float c = cos(progress * PI);
	float w = max(abs(c), 0.0001);
	vec2 p = vec2((uv.x - 0.5) / w + 0.5, (uv.y - 0.5) / mix(0.85, 1.0, abs(c)) + 0.5);
	if (!inBounds(p)) {
		return vec4(0.0, 0.0, 0.0, 1.0);
	}
	vec4 s = progress < 0.5 ? sampleFrom(p) : sampleTo(p);
	return vec4(s.rgb * mix(0.4, 1.0, abs(c)), s.a);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				c := math.Abs(math.Cos(in.Progress * math.Pi))
				w := math.Max(c, 0.0001)
				p := vec.V2((uv.X-0.5)/w+0.5, (uv.Y-0.5)/vec.MixF(0.85, 1, c)+0.5)
				src := in.From
				if in.Progress >= 0.5 {
					src = in.To
				}
				if !p.InUnit() {
					return clipped
				}
				return src(p).ScaleRGB(vec.MixF(0.4, 1, c))
			},
		},
	}
}

func face(s vec.Sampler, p vec.Vec2, shade float64) vec.Color {
	if !p.InUnit() {
		return clipped
	}
	return s(p).ScaleRGB(shade)
}
