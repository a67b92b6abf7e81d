package effects

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/ivlev/slideshow/internal/gpu"
	"github.com/ivlev/slideshow/internal/shader"
	"github.com/ivlev/slideshow/internal/texture"
	"github.com/ivlev/slideshow/internal/vec"
)

// blurStep is the UV distance between blur taps.
const blurStep = 0.004

var (
	blurOffsets = [3]float64{0, 1.3846153846, 3.2307692308}
	blurWeights = [3]float64{0.2270270270, 0.3162162162, 0.0702702703}
	blurDirs    = [4]vec.Vec2{{X: 1}, {Y: 1}, {X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}, {X: math.Sqrt2 / 2, Y: -math.Sqrt2 / 2}}
)

const letterboxFragment = `#version 330 core
in vec2 vTexCoord;
out vec4 fragColor;

uniform sampler2D uImage;
uniform float inputAspect;
uniform float targetAspect;

const float BLUR_STEP = 0.004;
const float OFFSETS[3] = float[](0.0, 1.3846153846, 3.2307692308);
const float WEIGHTS[3] = float[](0.2270270270, 0.3162162162, 0.0702702703);

vec2 fillUV(vec2 uv) {
	if (inputAspect > targetAspect) {
		return vec2((uv.x - 0.5) * targetAspect / inputAspect + 0.5, uv.y);
	}
	return vec2(uv.x, (uv.y - 0.5) * inputAspect / targetAspect + 0.5);
}

vec2 fitUV(vec2 uv) {
	if (inputAspect > targetAspect) {
		return vec2(uv.x, (uv.y - 0.5) * inputAspect / targetAspect + 0.5);
	}
	return vec2((uv.x - 0.5) * targetAspect / inputAspect + 0.5, uv.y);
}

vec4 blurred(vec2 uv) {
	vec2 dirs[4] = vec2[](vec2(1.0, 0.0), vec2(0.0, 1.0), vec2(0.70710678, 0.70710678), vec2(0.70710678, -0.70710678));
	float norm = WEIGHTS[0] + 2.0 * (WEIGHTS[1] + WEIGHTS[2]);
	vec4 sum = vec4(0.0);
	for (int d = 0; d < 4; d++) {
		vec4 c = texture(uImage, uv) * WEIGHTS[0];
		for (int i = 1; i < 3; i++) {
			vec2 o = dirs[d] * OFFSETS[i] * BLUR_STEP;
			c += texture(uImage, uv + o) * WEIGHTS[i];
			c += texture(uImage, uv - o) * WEIGHTS[i];
		}
		sum += c / norm;
	}
	return sum / 4.0;
}

void main() {
	vec2 fg = fitUV(vTexCoord);
	if (all(greaterThanEqual(fg, vec2(0.0))) && all(lessThanEqual(fg, vec2(1.0)))) {
		fragColor = texture(uImage, fg);
	} else {
		fragColor = blurred(fillUV(vTexCoord));
	}
}
`

// OutputSize keeps one input dimension and shrinks the other so the result
// has the target aspect.
func OutputSize(inputW, inputH int, targetAspect float64) (int, int, error) {
	if inputW <= 0 || inputH <= 0 {
		return 0, 0, fmt.Errorf("letterbox: invalid input size %dx%d", inputW, inputH)
	}
	if !(targetAspect > 0) || math.IsInf(targetAspect, 0) {
		return 0, 0, fmt.Errorf("letterbox: invalid target aspect %v", targetAspect)
	}
	if float64(inputW)/float64(inputH) > targetAspect {
		return max(1, int(math.Round(float64(inputH)*targetAspect))), inputH, nil
	}
	return inputW, max(1, int(math.Round(float64(inputW)/targetAspect))), nil
}

// FillUV maps an output coordinate to the cropped cover-the-frame image.
func FillUV(uv vec.Vec2, inputAspect, targetAspect float64) vec.Vec2 {
	if inputAspect > targetAspect {
		return vec.V2((uv.X-0.5)*targetAspect/inputAspect+0.5, uv.Y)
	}
	return vec.V2(uv.X, (uv.Y-0.5)*inputAspect/targetAspect+0.5)
}

// FitUV maps an output coordinate to the contained, uncropped image.
// Results outside [0,1] are outside the foreground.
func FitUV(uv vec.Vec2, inputAspect, targetAspect float64) vec.Vec2 {
	if inputAspect > targetAspect {
		return vec.V2(uv.X, (uv.Y-0.5)*inputAspect/targetAspect+0.5)
	}
	return vec.V2((uv.X-0.5)*targetAspect/inputAspect+0.5, uv.Y)
}

// ForegroundRect is the pixel region of an outW x outH frame where the
// sharp image is visible.
func ForegroundRect(outW, outH int, inputAspect, targetAspect float64) image.Rectangle {
	if inputAspect > targetAspect {
		h := float64(outH) * targetAspect / inputAspect
		y0 := int(math.Round((float64(outH) - h) / 2))
		return image.Rect(0, y0, outW, y0+int(math.Round(h)))
	}
	w := float64(outW) * inputAspect / targetAspect
	x0 := int(math.Round((float64(outW) - w) / 2))
	return image.Rect(x0, 0, x0+int(math.Round(w)), outH)
}

func letterboxKernel(env gpu.Env) gpu.Shade {
	img := env.Sampler("uImage")
	in, target := env.Float("inputAspect"), env.Float("targetAspect")
	norm := blurWeights[0] + 2*(blurWeights[1]+blurWeights[2])

	blurred := func(uv vec.Vec2) vec.Color {
		var sum vec.Color
		for _, dir := range blurDirs {
			c := img(uv).Scale(blurWeights[0])
			for i := 1; i < len(blurOffsets); i++ {
				o := dir.Scale(blurOffsets[i] * blurStep)
				c = c.Add(img(uv.Add(o)).Scale(blurWeights[i]))
				c = c.Add(img(uv.Sub(o)).Scale(blurWeights[i]))
			}
			sum = sum.Add(c.Scale(1 / norm))
		}
		return sum.Scale(0.25)
	}
	return func(uv vec.Vec2) vec.Color {
		if fg := FitUV(uv, in, target); fg.InUnit() {
			return img(fg)
		}
		return blurred(FillUV(uv, in, target))
	}
}

// LetterboxSource is the letterbox program.
func LetterboxSource() gpu.ProgramSource {
	return gpu.ProgramSource{
		Name:     "letterbox",
		Vertex:   shader.VertexShader,
		Fragment: letterboxFragment,
		Kernel:   letterboxKernel,
	}
}

// Letterbox renders one image at a fixed aspect ratio with a blurred,
// cropped copy of itself behind a sharp, fitted copy.
type Letterbox struct {
	stage
	image        texture.Slot
	pending      image.Image
	inputAspect  float64
	targetAspect float64
}

func NewLetterbox(dev gpu.Device, opts ...Option) *Letterbox {
	return &Letterbox{stage: newStage("letterbox", dev, opts)}
}

// Configure compiles the program on first call and sets the geometry. It
// may be called again for a different input size.
func (l *Letterbox) Configure(inputW, inputH int, targetAspect float64) (int, int, error) {
	w, h, err := OutputSize(inputW, inputH, targetAspect)
	if err != nil {
		return 0, 0, err
	}
	if err := l.compile(LetterboxSource()); err != nil {
		return 0, 0, err
	}
	l.width, l.height = w, h
	l.inputAspect = float64(inputW) / float64(inputH)
	l.targetAspect = targetAspect
	l.configured = true
	return w, h, nil
}

// SetImage replaces the image. It is uploaded on the next draw.
func (l *Letterbox) SetImage(img image.Image) {
	l.image.Release()
	l.pending = img
}

// DrawFrame renders into the bound framebuffer. The stage's own image wins;
// upstream is used when none is set or its upload failed.
func (l *Letterbox) DrawFrame(upstream gpu.TextureID) error {
	if err := l.ready("DrawFrame"); err != nil {
		return err
	}
	var uploadErr error
	if l.pending != nil {
		tex, err := l.textures.Upload(l.pending)
		l.pending = nil
		if err != nil {
			uploadErr = err
		} else {
			l.image.Set(tex)
		}
	}
	src, ok := l.image.Resolve(upstream)
	if !ok {
		l.emit(FrameEvent{Skipped: true})
		return errors.Join(ErrFrameSkipped, uploadErr)
	}

	l.program.Use()
	l.program.SetSampler("uImage", 0, src)
	l.program.SetFloat("inputAspect", l.inputAspect)
	l.program.SetFloat("targetAspect", l.targetAspect)
	if err := l.draw(); err != nil {
		return err
	}
	l.emit(FrameEvent{})
	return nil
}

// Release deletes the program and the owned texture.
func (l *Letterbox) Release() {
	l.image.Release()
	l.pending = nil
	l.release()
}
