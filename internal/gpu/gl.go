//go:build gl

package gpu

import (
	"fmt"
	"image"
	"runtime"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var quadVertices = []float32{
	-1.0, -1.0,
	1.0, -1.0,
	-1.0, 1.0,
	1.0, 1.0,
}

// glDevice drives an OpenGL 3.3 core context on a hidden GLFW window. The
// calling goroutine is locked to its OS thread for the device's lifetime.
type glDevice struct {
	window       *glfw.Window
	vao, vbo     uint32
	width        int
	height       int
	maxTexture   int
	framebuffers map[FramebufferID]TextureID
	bound        FramebufferID
}

func openGL(width, height int) (Device, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(width, height, "slideshow", nil, nil)
	if err != nil {
		glfw.Terminate()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("glfw window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("gl init: %w", err)
	}

	d := &glDevice{
		window:       window,
		width:        width,
		height:       height,
		framebuffers: make(map[FramebufferID]TextureID),
	}
	var maxTex int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxTex)
	d.maxTexture = int(maxTex)

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, nil)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.Viewport(0, 0, int32(width), int32(height))
	return d, nil
}

func (d *glDevice) Name() string        { return "gl" }
func (d *glDevice) MaxTextureSize() int { return d.maxTexture }

func (d *glDevice) GenTexture() TextureID {
	var id uint32
	gl.GenTextures(1, &id)
	return TextureID(id)
}

func glParam(p TextureParam) uint32 {
	switch p {
	case MinFilter:
		return gl.TEXTURE_MIN_FILTER
	case MagFilter:
		return gl.TEXTURE_MAG_FILTER
	case WrapS:
		return gl.TEXTURE_WRAP_S
	default:
		return gl.TEXTURE_WRAP_T
	}
}

func glValue(v TextureValue) int32 {
	switch v {
	case Linear:
		return gl.LINEAR
	case Repeat:
		return gl.REPEAT
	case ClampToEdge:
		return gl.CLAMP_TO_EDGE
	default:
		return gl.NEAREST
	}
}

func (d *glDevice) TexParameter(id TextureID, p TextureParam, v TextureValue) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
	gl.TexParameteri(gl.TEXTURE_2D, glParam(p), glValue(v))
}

func (d *glDevice) TexImage2D(id TextureID, width, height int, pix []byte) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
	var ptr = gl.Ptr(nil)
	if len(pix) > 0 {
		ptr = gl.Ptr(pix)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
}

func (d *glDevice) BindTexture(unit int, id TextureID) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
}

func (d *glDevice) DeleteTexture(id TextureID) {
	n := uint32(id)
	gl.DeleteTextures(1, &n)
}

func compileShader(src string, kind uint32) (uint32, string) {
	shader := gl.CreateShader(kind)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(msg))
		gl.DeleteShader(shader)
		return 0, strings.TrimRight(msg, "\x00")
	}
	return shader, ""
}

func (d *glDevice) CreateProgram(src ProgramSource) (ProgramID, error) {
	vs, msg := compileShader(src.Vertex, gl.VERTEX_SHADER)
	if vs == 0 {
		return 0, &LinkError{Program: src.Name, Stage: "vertex", Log: msg}
	}
	defer gl.DeleteShader(vs)
	fs, msg := compileShader(src.Fragment, gl.FRAGMENT_SHADER)
	if fs == 0 {
		return 0, &LinkError{Program: src.Name, Stage: "fragment", Log: msg}
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.BindAttribLocation(program, 0, gl.Str("aPosition\x00"))
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, &LinkError{Program: src.Name, Stage: "link", Log: strings.TrimRight(log, "\x00")}
	}
	return ProgramID(program), nil
}

func (d *glDevice) UseProgram(id ProgramID) { gl.UseProgram(uint32(id)) }

func (d *glDevice) UniformLocation(id ProgramID, name string) int32 {
	return gl.GetUniformLocation(uint32(id), gl.Str(name+"\x00"))
}

func (d *glDevice) Uniform1f(loc int32, v float32) { gl.Uniform1f(loc, v) }
func (d *glDevice) Uniform1i(loc int32, v int32)   { gl.Uniform1i(loc, v) }

func (d *glDevice) Uniform4f(loc int32, x, y, z, w float32) { gl.Uniform4f(loc, x, y, z, w) }

func (d *glDevice) DeleteProgram(id ProgramID) { gl.DeleteProgram(uint32(id)) }

func (d *glDevice) NewFramebuffer(width, height int) (FramebufferID, TextureID, error) {
	tex := d.GenTexture()
	d.TexImage2D(tex, width, height, nil)
	d.TexParameter(tex, MinFilter, Linear)
	d.TexParameter(tex, MagFilter, Linear)
	d.TexParameter(tex, WrapS, ClampToEdge)
	d.TexParameter(tex, WrapT, ClampToEdge)

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(tex), 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(d.bound))
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		d.DeleteTexture(tex)
		return 0, 0, fmt.Errorf("%w: status 0x%x", ErrFramebuffer, status)
	}
	d.framebuffers[FramebufferID(fbo)] = tex
	return FramebufferID(fbo), tex, nil
}

func (d *glDevice) BindFramebuffer(id FramebufferID) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(id))
	d.bound = id
}

func (d *glDevice) DeleteFramebuffer(id FramebufferID) {
	tex, ok := d.framebuffers[id]
	if !ok {
		return
	}
	fbo := uint32(id)
	gl.DeleteFramebuffers(1, &fbo)
	d.DeleteTexture(tex)
	delete(d.framebuffers, id)
	if d.bound == id {
		d.BindFramebuffer(DefaultFramebuffer)
	}
}

func (d *glDevice) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *glDevice) DrawQuad() {
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}

// ReadPixels reads bottom-up rows, which is also the upload order of
// TexImage2D, so uv.y=0 maps to the first row in both directions.
func (d *glDevice) ReadPixels(dst *image.RGBA) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}
	if dst.Stride == w*4 {
		gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(dst.Pix))
		return
	}
	buf := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(buf))
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:], buf[y*w*4:(y+1)*w*4])
	}
}

func (d *glDevice) GetError() error {
	switch code := gl.GetError(); code {
	case gl.NO_ERROR:
		return nil
	case gl.INVALID_ENUM:
		return ErrInvalidEnum
	case gl.INVALID_VALUE:
		return ErrInvalidValue
	case gl.INVALID_OPERATION:
		return ErrInvalidOperation
	case gl.OUT_OF_MEMORY:
		return ErrOutOfMemory
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return ErrFramebuffer
	default:
		return fmt.Errorf("gpu: gl error 0x%x", code)
	}
}

func (d *glDevice) Release() {
	if d.window == nil {
		return
	}
	for id := range d.framebuffers {
		d.DeleteFramebuffer(id)
	}
	gl.DeleteBuffers(1, &d.vbo)
	gl.DeleteVertexArrays(1, &d.vao)
	d.window.Destroy()
	d.window = nil
	glfw.Terminate()
	runtime.UnlockOSThread()
}
