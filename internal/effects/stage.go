// Package effects holds the compositing stages: letterbox, transition and
// overlay. Each stage owns its program and textures, follows the lifecycle
// Configure, DrawFrame..., Release, and draws into whatever framebuffer is
// bound when DrawFrame is called.
package effects

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/slideshow/internal/gpu"
	"github.com/ivlev/slideshow/internal/shader"
	"github.com/ivlev/slideshow/internal/texture"
)

// FrameEvent describes one DrawFrame call.
type FrameEvent struct {
	Stage    string
	TimeUs   int64
	Phase    Phase
	Progress float64
	Skipped  bool
}

// FrameObserver receives a FrameEvent after every draw.
type FrameObserver func(FrameEvent)

// Option configures a stage.
type Option func(*stage)

// WithLogger sets the entry stage logs go to.
func WithLogger(log *logrus.Entry) Option {
	return func(s *stage) {
		if log != nil {
			s.log = log
		}
	}
}

// WithObserver installs a per-frame diagnostics callback.
func WithObserver(fn FrameObserver) Option {
	return func(s *stage) { s.observer = fn }
}

type stage struct {
	name       string
	dev        gpu.Device
	textures   *texture.Source
	program    *shader.Program
	log        *logrus.Entry
	observer   FrameObserver
	width      int
	height     int
	configured bool
	released   bool
}

func newStage(name string, dev gpu.Device, opts []Option) stage {
	s := stage{
		name: name,
		dev:  dev,
		log:  logrus.WithField("stage", name),
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.textures = texture.NewSource(dev, s.log)
	return s
}

// compile builds the program on first use only.
func (s *stage) compile(src gpu.ProgramSource) error {
	if s.released {
		return s.stateError("Configure", ErrReleased)
	}
	if s.program != nil {
		return nil
	}
	p, err := shader.NewProgram(s.dev, src)
	if err != nil {
		return err
	}
	s.program = p
	return nil
}

func (s *stage) ready(op string) error {
	switch {
	case s.released:
		return s.stateError(op, ErrReleased)
	case !s.configured:
		return s.stateError(op, ErrNotConfigured)
	}
	return nil
}

func (s *stage) stateError(op string, err error) error {
	s.log.WithFields(logrus.Fields{
		"function": op,
		"error":    err.Error(),
	}).Error("Stage used outside its lifecycle")
	return &StateError{Stage: s.name, Op: op, Err: err}
}

func (s *stage) emit(ev FrameEvent) {
	if s.observer == nil {
		return
	}
	ev.Stage = s.name
	s.observer(ev)
}

// draw issues the quad into the bound framebuffer and checks the device.
func (s *stage) draw() error {
	s.dev.Viewport(s.width, s.height)
	s.dev.DrawQuad()
	if err := s.dev.GetError(); err != nil {
		return fmt.Errorf("%s: draw: %w", s.name, err)
	}
	return nil
}

func (s *stage) release() {
	if s.released {
		return
	}
	s.released = true
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
}
