package gpu

import (
	"fmt"
	"image"
	"math"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/slideshow/internal/vec"
)

// DefaultMaxTextureSize matches the guaranteed minimum of mobile GLES 3 parts.
const DefaultMaxTextureSize = 4096

type softTexture struct {
	width, height int
	pix           []byte
	params        [4]TextureValue
}

func (t *softTexture) texel(x, y int) vec.Color {
	i := (y*t.width + x) * 4
	p := t.pix[i : i+4 : i+4]
	return vec.Color{
		R: float64(p[0]) / 255,
		G: float64(p[1]) / 255,
		B: float64(p[2]) / 255,
		A: float64(p[3]) / 255,
	}
}

func wrapCoord(i, n int, mode TextureValue) int {
	if mode == Repeat {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (t *softTexture) sample(uv vec.Vec2, filter TextureValue) vec.Color {
	if t.width == 0 || t.height == 0 {
		return vec.Black
	}
	ws, wt := t.params[WrapS], t.params[WrapT]
	w, h := float64(t.width), float64(t.height)

	if filter == Nearest {
		x := wrapCoord(int(math.Floor(uv.X*w)), t.width, ws)
		y := wrapCoord(int(math.Floor(uv.Y*h)), t.height, wt)
		return t.texel(x, y)
	}

	fx := uv.X*w - 0.5
	fy := uv.Y*h - 0.5
	x0f, y0f := math.Floor(fx), math.Floor(fy)
	ax, ay := fx-x0f, fy-y0f
	x0, y0 := int(x0f), int(y0f)

	xa := wrapCoord(x0, t.width, ws)
	xb := wrapCoord(x0+1, t.width, ws)
	ya := wrapCoord(y0, t.height, wt)
	yb := wrapCoord(y0+1, t.height, wt)

	top := vec.Mix(t.texel(xa, ya), t.texel(xb, ya), ax)
	bottom := vec.Mix(t.texel(xa, yb), t.texel(xb, yb), ax)
	return vec.Mix(top, bottom, ay)
}

type softProgram struct {
	name      string
	kernel    Kernel
	locations map[string]int32
	values    map[int32][4]float64
}

type softFramebuffer struct {
	texture TextureID
}

// SoftDevice is the software backend. It rasterizes a full-screen quad by
// evaluating the program's Go kernel at every fragment center. Rows of one
// draw are shaded in parallel, the way a GPU shades fragments; kernels are
// pure, so the output is deterministic.
type SoftDevice struct {
	maxTextureSize int
	memoryLimit    int64
	memoryUsed     int64
	workers        int

	nextID       uint32
	textures     map[TextureID]*softTexture
	programs     map[ProgramID]*softProgram
	framebuffers map[FramebufferID]*softFramebuffer

	surface  *softTexture
	current  ProgramID
	units    [MaxTextureUnits]TextureID
	bound    FramebufferID
	viewW    int
	viewH    int
	err      error
	released bool
}

// SoftOption configures a SoftDevice.
type SoftOption func(*SoftDevice)

// WithMaxTextureSize limits the edge length TexImage2D accepts.
func WithMaxTextureSize(n int) SoftOption {
	return func(d *SoftDevice) { d.maxTextureSize = n }
}

// WithMemoryLimit makes texture allocations beyond limit bytes latch
// ErrOutOfMemory. Zero means unlimited.
func WithMemoryLimit(limit int64) SoftOption {
	return func(d *SoftDevice) { d.memoryLimit = limit }
}

// WithWorkers sets how many goroutines shade one draw.
func WithWorkers(n int) SoftOption {
	return func(d *SoftDevice) { d.workers = n }
}

// NewSoftDevice creates a software device whose default surface is
// width x height.
func NewSoftDevice(width, height int, opts ...SoftOption) *SoftDevice {
	d := &SoftDevice{
		maxTextureSize: DefaultMaxTextureSize,
		workers:        runtime.NumCPU(),
		textures:       make(map[TextureID]*softTexture),
		programs:       make(map[ProgramID]*softProgram),
		framebuffers:   make(map[FramebufferID]*softFramebuffer),
		surface: &softTexture{
			width:  width,
			height: height,
			pix:    make([]byte, width*height*4),
		},
		viewW: width,
		viewH: height,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.workers < 1 {
		d.workers = 1
	}
	return d
}

func (d *SoftDevice) Name() string        { return "soft" }
func (d *SoftDevice) MaxTextureSize() int { return d.maxTextureSize }

// LiveTextures returns the number of textures not yet deleted, framebuffer
// attachments included.
func (d *SoftDevice) LiveTextures() int { return len(d.textures) }

// LivePrograms returns the number of programs not yet deleted.
func (d *SoftDevice) LivePrograms() int { return len(d.programs) }

// Surface returns the default framebuffer contents.
func (d *SoftDevice) Surface() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, d.surface.width, d.surface.height))
	copy(img.Pix, d.surface.pix)
	return img
}

func (d *SoftDevice) latch(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *SoftDevice) GetError() error {
	err := d.err
	d.err = nil
	return err
}

func (d *SoftDevice) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *SoftDevice) GenTexture() TextureID {
	id := TextureID(d.id())
	d.textures[id] = &softTexture{
		params: [4]TextureValue{Nearest, Nearest, Repeat, Repeat},
	}
	return id
}

func (d *SoftDevice) TexParameter(id TextureID, p TextureParam, v TextureValue) {
	t, ok := d.textures[id]
	if !ok {
		d.latch(fmt.Errorf("%w: texture %d", ErrInvalidOperation, id))
		return
	}
	if p < MinFilter || p > WrapT {
		d.latch(fmt.Errorf("%w: texture parameter %d", ErrInvalidEnum, p))
		return
	}
	t.params[p] = v
}

func (d *SoftDevice) TexImage2D(id TextureID, width, height int, pix []byte) {
	t, ok := d.textures[id]
	if !ok {
		d.latch(fmt.Errorf("%w: texture %d", ErrInvalidOperation, id))
		return
	}
	if width <= 0 || height <= 0 || width > d.maxTextureSize || height > d.maxTextureSize {
		d.latch(fmt.Errorf("%w: texture size %dx%d (max %d)", ErrInvalidValue, width, height, d.maxTextureSize))
		return
	}
	if pix != nil && len(pix) != width*height*4 {
		d.latch(fmt.Errorf("%w: %d bytes for %dx%d RGBA", ErrInvalidValue, len(pix), width, height))
		return
	}
	size := int64(width * height * 4)
	grow := size - int64(len(t.pix))
	if d.memoryLimit > 0 && d.memoryUsed+grow > d.memoryLimit {
		d.latch(fmt.Errorf("%w: %d bytes requested", ErrOutOfMemory, size))
		return
	}
	buf := make([]byte, size)
	copy(buf, pix)
	d.memoryUsed += grow
	t.width, t.height, t.pix = width, height, buf
}

func (d *SoftDevice) BindTexture(unit int, id TextureID) {
	if unit < 0 || unit >= MaxTextureUnits {
		d.latch(fmt.Errorf("%w: texture unit %d", ErrInvalidEnum, unit))
		return
	}
	d.units[unit] = id
}

func (d *SoftDevice) DeleteTexture(id TextureID) {
	t, ok := d.textures[id]
	if !ok {
		return
	}
	d.memoryUsed -= int64(len(t.pix))
	delete(d.textures, id)
	for i, u := range d.units {
		if u == id {
			d.units[i] = NoTexture
		}
	}
}

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)\s*;`)

func (d *SoftDevice) CreateProgram(src ProgramSource) (ProgramID, error) {
	if !strings.Contains(src.Vertex, "void main") {
		return 0, &LinkError{Program: src.Name, Stage: "vertex", Log: "missing entry point main"}
	}
	if !strings.Contains(src.Fragment, "void main") {
		return 0, &LinkError{Program: src.Name, Stage: "fragment", Log: "missing entry point main"}
	}
	if src.Kernel == nil {
		return 0, &LinkError{Program: src.Name, Stage: "link", Log: "no reference kernel for software backend"}
	}

	p := &softProgram{
		name:      src.Name,
		kernel:    src.Kernel,
		locations: make(map[string]int32),
		values:    make(map[int32][4]float64),
	}
	for _, m := range uniformDecl.FindAllStringSubmatch(src.Vertex+"\n"+src.Fragment, -1) {
		if _, dup := p.locations[m[1]]; !dup {
			p.locations[m[1]] = int32(len(p.locations))
		}
	}
	id := ProgramID(d.id())
	d.programs[id] = p
	return id, nil
}

func (d *SoftDevice) UseProgram(id ProgramID) {
	if _, ok := d.programs[id]; !ok && id != 0 {
		d.latch(fmt.Errorf("%w: program %d", ErrInvalidOperation, id))
		return
	}
	d.current = id
}

func (d *SoftDevice) UniformLocation(id ProgramID, name string) int32 {
	p, ok := d.programs[id]
	if !ok {
		d.latch(fmt.Errorf("%w: program %d", ErrInvalidOperation, id))
		return -1
	}
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	return -1
}

func (d *SoftDevice) setUniform(loc int32, v [4]float64) {
	if loc < 0 {
		return
	}
	p, ok := d.programs[d.current]
	if !ok {
		d.latch(fmt.Errorf("%w: no program in use", ErrInvalidOperation))
		return
	}
	p.values[loc] = v
}

func (d *SoftDevice) Uniform1f(loc int32, v float32) {
	d.setUniform(loc, [4]float64{float64(v)})
}

func (d *SoftDevice) Uniform1i(loc int32, v int32) {
	d.setUniform(loc, [4]float64{float64(v)})
}

func (d *SoftDevice) Uniform4f(loc int32, x, y, z, w float32) {
	d.setUniform(loc, [4]float64{float64(x), float64(y), float64(z), float64(w)})
}

func (d *SoftDevice) DeleteProgram(id ProgramID) {
	delete(d.programs, id)
	if d.current == id {
		d.current = 0
	}
}

func (d *SoftDevice) NewFramebuffer(width, height int) (FramebufferID, TextureID, error) {
	tex := d.GenTexture()
	d.TexImage2D(tex, width, height, nil)
	if err := d.GetError(); err != nil {
		d.DeleteTexture(tex)
		return 0, 0, fmt.Errorf("%w: %v", ErrFramebuffer, err)
	}
	t := d.textures[tex]
	t.params = [4]TextureValue{Linear, Linear, ClampToEdge, ClampToEdge}
	fb := FramebufferID(d.id())
	d.framebuffers[fb] = &softFramebuffer{texture: tex}
	return fb, tex, nil
}

func (d *SoftDevice) BindFramebuffer(id FramebufferID) {
	if _, ok := d.framebuffers[id]; !ok && id != DefaultFramebuffer {
		d.latch(fmt.Errorf("%w: framebuffer %d", ErrInvalidOperation, id))
		return
	}
	d.bound = id
}

func (d *SoftDevice) DeleteFramebuffer(id FramebufferID) {
	fb, ok := d.framebuffers[id]
	if !ok {
		return
	}
	d.DeleteTexture(fb.texture)
	delete(d.framebuffers, id)
	if d.bound == id {
		d.bound = DefaultFramebuffer
	}
}

func (d *SoftDevice) Viewport(width, height int) {
	if width < 0 || height < 0 {
		d.latch(fmt.Errorf("%w: viewport %dx%d", ErrInvalidValue, width, height))
		return
	}
	d.viewW, d.viewH = width, height
}

func (d *SoftDevice) target() *softTexture {
	if d.bound == DefaultFramebuffer {
		return d.surface
	}
	fb, ok := d.framebuffers[d.bound]
	if !ok {
		return nil
	}
	return d.textures[fb.texture]
}

// softEnv resolves uniforms for one draw.
type softEnv struct {
	d       *SoftDevice
	p       *softProgram
	targetW int
	targetH int
}

func (e softEnv) value(name string) [4]float64 {
	loc, ok := e.p.locations[name]
	if !ok {
		return [4]float64{}
	}
	return e.p.values[loc]
}

func (e softEnv) Float(name string) float64   { return e.value(name)[0] }
func (e softEnv) Vec4(name string) [4]float64 { return e.value(name) }
func (e softEnv) Int(name string) int         { return int(e.value(name)[0]) }

func (e softEnv) Sampler(name string) vec.Sampler {
	unit := e.Int(name)
	if unit < 0 || unit >= MaxTextureUnits {
		return func(vec.Vec2) vec.Color { return vec.Black }
	}
	t, ok := e.d.textures[e.d.units[unit]]
	if !ok || t.pix == nil {
		return func(vec.Vec2) vec.Color { return vec.Black }
	}
	filter := t.params[MagFilter]
	if t.width > e.targetW || t.height > e.targetH {
		filter = t.params[MinFilter]
	}
	return func(uv vec.Vec2) vec.Color { return t.sample(uv, filter) }
}

func toByte(v float64) byte {
	v = v*255 + 0.5
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v)
}

func (d *SoftDevice) DrawQuad() {
	p, ok := d.programs[d.current]
	if !ok {
		d.latch(fmt.Errorf("%w: draw without program", ErrInvalidOperation))
		return
	}
	dst := d.target()
	if dst == nil || dst.pix == nil {
		d.latch(fmt.Errorf("%w: draw without target", ErrFramebuffer))
		return
	}
	for _, u := range d.units {
		if u != NoTexture && d.bound != DefaultFramebuffer && u == d.framebuffers[d.bound].texture {
			d.latch(fmt.Errorf("%w: framebuffer texture bound for sampling", ErrInvalidOperation))
			return
		}
	}

	vw, vh := d.viewW, d.viewH
	shade := p.kernel(softEnv{d: d, p: p, targetW: vw, targetH: vh})
	w, h := min(vw, dst.width), min(vh, dst.height)

	rows := (h + d.workers - 1) / d.workers
	var g errgroup.Group
	for y0 := 0; y0 < h; y0 += rows {
		y1 := min(y0+rows, h)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				v := (float64(y) + 0.5) / float64(vh)
				row := dst.pix[y*dst.width*4:]
				for x := 0; x < w; x++ {
					c := shade(vec.Vec2{X: (float64(x) + 0.5) / float64(vw), Y: v})
					px := row[x*4 : x*4+4 : x*4+4]
					px[0], px[1], px[2], px[3] = toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (d *SoftDevice) ReadPixels(dst *image.RGBA) {
	src := d.target()
	if src == nil || src.pix == nil {
		d.latch(fmt.Errorf("%w: read without target", ErrFramebuffer))
		return
	}
	w := min(dst.Rect.Dx(), src.width)
	h := min(dst.Rect.Dy(), src.height)
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w*4], src.pix[y*src.width*4:y*src.width*4+w*4])
	}
}

// Release drops every resource. The device is unusable afterwards.
func (d *SoftDevice) Release() {
	if d.released {
		return
	}
	d.released = true
	d.textures = map[TextureID]*softTexture{}
	d.programs = map[ProgramID]*softProgram{}
	d.framebuffers = map[FramebufferID]*softFramebuffer{}
	d.memoryUsed = 0
}
