package transition

import (
	"math"

	"github.com/ivlev/slideshow/internal/vec"
)

func fadeTransitions() []Transition {
	return []Transition{
		{
			ID:       "fade",
			Name:     "Fade",
			Category: Fade,
			Shader: `
vec4 blend(vec2 uv) {
	return mix(sampleFrom(uv), sampleTo(uv), progress);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				return vec.Mix(in.From(uv), in.To(uv), in.Progress)
			},
		},
		{
			ID:       "fade_color",
			Name:     "Fade Through Color",
			Category: Fade,
			Shader: `
vec4 blend(vec2 uv) {
	if (progress < 0.5) {
		return mix(sampleFrom(uv), fadeColor, progress * 2.0);
	}
	return mix(fadeColor, sampleTo(uv), (progress - 0.5) * 2.0);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				if in.Progress < 0.5 {
					return vec.Mix(in.From(uv), in.FadeColor, in.Progress*2)
				}
				return vec.Mix(in.FadeColor, in.To(uv), (in.Progress-0.5)*2)
			},
		},
		{
			ID:       "fade_grayscale",
			Name:     "Fade Grayscale",
			Category: Fade,
			Shader: `
vec4 desaturate(vec4 c, float amount) {
	float g = dot(c.rgb, vec3(0.299, 0.587, 0.114));
	return vec4(mix(c.rgb, vec3(g), amount), c.a);
}

vec4 blend(vec2 uv) {
	float intensity = 1.0 - abs(progress * 2.0 - 1.0);
	return mix(desaturate(sampleFrom(uv), intensity), desaturate(sampleTo(uv), intensity), progress);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				intensity := 1 - math.Abs(in.Progress*2-1)
				return vec.Mix(desaturate(in.From(uv), intensity), desaturate(in.To(uv), intensity), in.Progress)
			},
		},
		{
			ID:       "dissolve",
			Name:     "Dissolve",
			Category: Fade,
			Shader: `
vec4 blend(vec2 uv) {
	float n = rand(floor(uv * 256.0));
	return n < progress ? sampleTo(uv) : sampleFrom(uv);
}
`,
			Blend: func(uv vec.Vec2, in *Input) vec.Color {
				n := vec.Rand(vec.V2(math.Floor(uv.X*256), math.Floor(uv.Y*256)))
				if n < in.Progress {
					return in.To(uv)
				}
				return in.From(uv)
			},
		},
	}
}

func desaturate(c vec.Color, amount float64) vec.Color {
	g := c.Luma()
	return vec.Color{
		R: vec.MixF(c.R, g, amount),
		G: vec.MixF(c.G, g, amount),
		B: vec.MixF(c.B, g, amount),
		A: c.A,
	}
}
