// Package gpu is the command-stream abstraction every shader stage draws
// through. It mirrors the slice of OpenGL the compositor needs: textures,
// linked programs with uniforms, framebuffers, a full-screen quad draw and a
// latched error flag.
//
// Two backends implement Device. The software backend executes the Go
// reference kernel attached to each ProgramSource and is fully
// deterministic. The OpenGL backend (build tag "gl") compiles the GLSL text
// of the same ProgramSource on a hidden GLFW context.
package gpu

import (
	"image"

	"github.com/ivlev/slideshow/internal/vec"
)

// TextureID names a device texture. Zero never names a live texture.
type TextureID uint32

// ProgramID names a linked program. Zero never names a live program.
type ProgramID uint32

// FramebufferID names an offscreen target. Zero is the default surface.
type FramebufferID uint32

// NoTexture is the zero TextureID.
const NoTexture TextureID = 0

// DefaultFramebuffer is the device's own output surface.
const DefaultFramebuffer FramebufferID = 0

// MaxTextureUnits is the number of sampler units a program may bind.
const MaxTextureUnits = 8

// TextureParam selects a sampling parameter of a texture.
type TextureParam int

const (
	MinFilter TextureParam = iota
	MagFilter
	WrapS
	WrapT
)

// TextureValue is the value of a TextureParam.
type TextureValue int

const (
	Nearest TextureValue = iota
	Linear
	Repeat
	ClampToEdge
)

// Env exposes uniform values and samplers to a Kernel.
type Env interface {
	Float(name string) float64
	Vec4(name string) [4]float64
	Int(name string) int
	Sampler(name string) vec.Sampler
}

// Shade computes the color of one fragment.
type Shade func(uv vec.Vec2) vec.Color

// Kernel is the Go reference implementation of a fragment program. It is
// called once per draw with the current uniforms and returns the per-fragment
// function. A kernel must be a pure function of its Env.
type Kernel func(env Env) Shade

// ProgramSource is everything a backend needs to build one program.
type ProgramSource struct {
	Name     string
	Vertex   string
	Fragment string
	Kernel   Kernel
}

// Device is a single GPU command stream. Calls are not safe for concurrent
// use; one rendering goroutine drives a device.
type Device interface {
	Name() string
	MaxTextureSize() int

	GenTexture() TextureID
	TexParameter(id TextureID, p TextureParam, v TextureValue)
	TexImage2D(id TextureID, width, height int, pix []byte)
	BindTexture(unit int, id TextureID)
	DeleteTexture(id TextureID)

	CreateProgram(src ProgramSource) (ProgramID, error)
	UseProgram(id ProgramID)
	UniformLocation(id ProgramID, name string) int32
	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	Uniform4f(loc int32, x, y, z, w float32)
	DeleteProgram(id ProgramID)

	// NewFramebuffer creates an offscreen RGBA target together with the
	// texture backing it. DeleteFramebuffer deletes both.
	NewFramebuffer(width, height int) (FramebufferID, TextureID, error)
	BindFramebuffer(id FramebufferID)
	DeleteFramebuffer(id FramebufferID)
	Viewport(width, height int)
	DrawQuad()
	ReadPixels(dst *image.RGBA)

	// GetError returns and clears the first error latched since the last
	// call, or nil.
	GetError() error
	Release()
}
