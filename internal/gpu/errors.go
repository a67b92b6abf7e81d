package gpu

import (
	"errors"
	"fmt"
)

// Latched device errors, the equivalents of the GL error enums.
var (
	ErrInvalidEnum      = errors.New("gpu: invalid enum")
	ErrInvalidValue     = errors.New("gpu: invalid value")
	ErrInvalidOperation = errors.New("gpu: invalid operation")
	ErrOutOfMemory      = errors.New("gpu: out of memory")
	ErrFramebuffer      = errors.New("gpu: incomplete framebuffer")

	// ErrBackendUnavailable is returned by Open for a backend that was not
	// compiled in.
	ErrBackendUnavailable = errors.New("gpu: backend unavailable")
)

// LinkError reports a program that failed to compile or link. Log holds the
// backend's info log.
type LinkError struct {
	Program string
	Stage   string // "vertex", "fragment" or "link"
	Log     string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("gpu: %s %s failed: %s", e.Program, e.Stage, e.Log)
}
