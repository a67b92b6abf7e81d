// Package vec holds the small GLSL-flavoured math used by the Go reference
// kernels. Every helper mirrors the GLSL builtin of the same name so a kernel
// can be read side by side with its shader source.
package vec

import "math"

// Vec2 is a texture coordinate or 2D direction.
type Vec2 struct {
	X, Y float64
}

// V2 is shorthand for Vec2{x, y}.
func V2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2         { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2         { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Mul(b Vec2) Vec2         { return Vec2{a.X * b.X, a.Y * b.Y} }
func (a Vec2) Scale(s float64) Vec2    { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64      { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Length() float64         { return math.Hypot(a.X, a.Y) }
func (a Vec2) Distance(b Vec2) float64 { return a.Sub(b).Length() }

// Rotate rotates a by angle radians counter-clockwise.
func (a Vec2) Rotate(angle float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{a.X*c - a.Y*s, a.X*s + a.Y*c}
}

// InUnit reports whether a lies inside [0,1]x[0,1].
func (a Vec2) InUnit() bool {
	return a.X >= 0 && a.X <= 1 && a.Y >= 0 && a.Y <= 1
}

// Center is the middle of texture space.
var Center = Vec2{0.5, 0.5}

// Color is a linear RGBA value in [0,1], the equivalent of a GLSL vec4.
type Color struct {
	R, G, B, A float64
}

// Black is opaque black, the color clipped regions render as.
var Black = Color{0, 0, 0, 1}

// Transparent is the zero color.
var Transparent = Color{}

func (c Color) Add(d Color) Color        { return Color{c.R + d.R, c.G + d.G, c.B + d.B, c.A + d.A} }
func (c Color) Scale(s float64) Color    { return Color{c.R * s, c.G * s, c.B * s, c.A * s} }
func (c Color) Mul(d Color) Color        { return Color{c.R * d.R, c.G * d.G, c.B * d.B, c.A * d.A} }
func (c Color) ScaleRGB(s float64) Color { return Color{c.R * s, c.G * s, c.B * s, c.A} }

// Luma returns the Rec. 601 luminance of c.
func (c Color) Luma() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// Sampler reads a texture at a UV coordinate.
type Sampler func(uv Vec2) Color

// Mix is GLSL mix for colors.
func Mix(a, b Color, t float64) Color {
	return Color{
		a.R + (b.R-a.R)*t,
		a.G + (b.G-a.G)*t,
		a.B + (b.B-a.B)*t,
		a.A + (b.A-a.A)*t,
	}
}

// MixV is GLSL mix for vec2.
func MixV(a, b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// MixF is GLSL mix for scalars.
func MixF(a, b, t float64) float64 { return a + (b-a)*t }

// Clamp is GLSL clamp.
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Step is GLSL step: 0 when x < edge, else 1.
func Step(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}

// Smoothstep is GLSL smoothstep.
func Smoothstep(e0, e1, x float64) float64 {
	if e0 == e1 {
		return Step(e0, x)
	}
	t := Clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

// Fract is GLSL fract.
func Fract(x float64) float64 { return x - math.Floor(x) }

// Rand is the usual shader hash: fract(sin(dot(co, (12.9898, 78.233))) * 43758.5453).
func Rand(co Vec2) float64 {
	return Fract(math.Sin(co.Dot(Vec2{12.9898, 78.233})) * 43758.5453)
}
