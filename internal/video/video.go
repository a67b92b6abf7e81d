package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"sync"

	"github.com/sirupsen/logrus"
)

// Params описывает выходной поток.
type Params struct {
	Width, Height int
	FPS           int
	Encoder       string
	Quality       int
	OutputPath    string
}

// VideoEncoder принимает готовые кадры по одному.
type VideoEncoder interface {
	Start(ctx context.Context, params Params) error
	WriteFrame(img *image.RGBA) error
	Close() error
}

// ErrNotStarted — запись кадра до Start или после Close.
var ErrNotStarted = errors.New("video: encoder not started")

// FFmpegEncoder передает кадры в ffmpeg как rawvideo через stdin, без
// промежуточных файлов на диске.
type FFmpegEncoder struct {
	// Binary — путь к ffmpeg; пусто означает "ffmpeg" из PATH.
	Binary string

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	out    bytes.Buffer
	params Params
	frames int
}

func (e *FFmpegEncoder) binary() string {
	if e.Binary == "" {
		return "ffmpeg"
	}
	return e.Binary
}

func (e *FFmpegEncoder) Start(ctx context.Context, params Params) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd != nil {
		return errors.New("video: encoder already started")
	}
	if params.Width <= 0 || params.Height <= 0 || params.FPS <= 0 {
		return fmt.Errorf("video: invalid stream %dx%d @ %d", params.Width, params.Height, params.FPS)
	}

	cmd := exec.CommandContext(ctx, e.binary(), BuildArgs(params)...)
	e.out.Reset()
	cmd.Stdout = &e.out
	cmd.Stderr = &e.out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	e.cmd, e.stdin, e.params, e.frames = cmd, stdin, params, 0
	logrus.WithFields(logrus.Fields{
		"function": "Start",
		"encoder":  params.Encoder,
		"output":   params.OutputPath,
	}).Debug("ffmpeg started")
	return nil
}

// WriteFrame пишет один кадр. Размер кадра должен совпадать с Params.
func (e *FFmpegEncoder) WriteFrame(img *image.RGBA) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd == nil {
		return ErrNotStarted
	}
	if img.Rect.Dx() != e.params.Width || img.Rect.Dy() != e.params.Height {
		return fmt.Errorf("video: frame %dx%d, stream %dx%d", img.Rect.Dx(), img.Rect.Dy(), e.params.Width, e.params.Height)
	}
	if err := WriteRawRGBA(e.stdin, img); err != nil {
		return fmt.Errorf("write raw error (frame %d): %w", e.frames, err)
	}
	e.frames++
	return nil
}

// Frames возвращает число записанных кадров.
func (e *FFmpegEncoder) Frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// Close закрывает stdin и ждет завершения ffmpeg.
func (e *FFmpegEncoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd == nil {
		return ErrNotStarted
	}
	cmd := e.cmd
	e.cmd = nil
	e.stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w\nLog: %s", err, e.out.String())
	}
	return nil
}

// BuildArgs собирает аргументы ffmpeg для потока rawvideo RGBA.
func BuildArgs(params Params) []string {
	encoder := params.Encoder
	if encoder == "" {
		encoder = "libx264"
	}
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
		"-an",
		"-pix_fmt", "yuv420p",
		"-c:v", encoder,
	}

	// Качество в зависимости от энкодера
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox часто не поддерживает -q:v напрямую на всех версиях. Используем битрейт.
		bitrate := params.Quality * 100 // кбит/с. 75 -> 7.5Мбит/с
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", params.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", params.Quality), "-preset", "medium")
	}

	args = append(args, params.OutputPath)
	return args
}

// WriteRawRGBA пишет пиксели img построчно, пропуская лишний stride.
func WriteRawRGBA(w io.Writer, img *image.RGBA) error {
	rowLen := img.Rect.Dx() * 4
	if img.Stride == rowLen {
		_, err := w.Write(img.Pix[:rowLen*img.Rect.Dy()])
		return err
	}
	for y := 0; y < img.Rect.Dy(); y++ {
		off := y * img.Stride
		if _, err := w.Write(img.Pix[off : off+rowLen]); err != nil {
			return err
		}
	}
	return nil
}
