// Package shader hosts linked GPU programs for the compositing stages and
// builds the transition programs from catalog entries.
package shader

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/slideshow/internal/gpu"
	"github.com/ivlev/slideshow/internal/vec"
)

// CompileError reports a program that could not be built. It is fatal for
// the stage that asked for the program.
type CompileError struct {
	Program string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader %s: %v", e.Program, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Program owns one linked program on a device and caches its uniform
// locations.
type Program struct {
	dev       gpu.Device
	id        gpu.ProgramID
	name      string
	locations map[string]int32
	released  bool
}

// NewProgram compiles and links src. The device error flag is checked right
// after linking; any latched error fails the build.
func NewProgram(dev gpu.Device, src gpu.ProgramSource) (*Program, error) {
	id, err := dev.CreateProgram(src)
	if err == nil {
		err = dev.GetError()
	}
	if err != nil {
		if id != 0 {
			dev.DeleteProgram(id)
		}
		logrus.WithFields(logrus.Fields{
			"function": "NewProgram",
			"program":  src.Name,
			"device":   dev.Name(),
			"error":    err.Error(),
		}).Error("Shader program failed to build")
		return nil, &CompileError{Program: src.Name, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewProgram",
		"program":  src.Name,
		"device":   dev.Name(),
	}).Debug("Shader program linked")

	return &Program{
		dev:       dev,
		id:        id,
		name:      src.Name,
		locations: make(map[string]int32),
	}, nil
}

// Name returns the program name given in its source.
func (p *Program) Name() string { return p.name }

// ID returns the device handle.
func (p *Program) ID() gpu.ProgramID { return p.id }

// Location returns the uniform location of name, or -1 if the program does
// not use it.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.id, name)
	p.locations[name] = loc
	return loc
}

// Use makes p the current program.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

// SetFloat sets a float uniform on the current program.
func (p *Program) SetFloat(name string, v float64) {
	p.dev.Uniform1f(p.Location(name), float32(v))
}

// SetVec4 sets a vec4 uniform from a color.
func (p *Program) SetVec4(name string, c vec.Color) {
	p.dev.Uniform4f(p.Location(name), float32(c.R), float32(c.G), float32(c.B), float32(c.A))
}

// SetInt sets an int uniform.
func (p *Program) SetInt(name string, v int) {
	p.dev.Uniform1i(p.Location(name), int32(v))
}

// SetSampler binds tex to unit and points the sampler uniform at it.
func (p *Program) SetSampler(name string, unit int, tex gpu.TextureID) {
	p.dev.BindTexture(unit, tex)
	p.dev.Uniform1i(p.Location(name), int32(unit))
}

// Release deletes the program. Further calls are no-ops.
func (p *Program) Release() {
	if p.released {
		return
	}
	p.released = true
	p.dev.DeleteProgram(p.id)
}
