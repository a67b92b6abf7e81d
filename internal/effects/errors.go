package effects

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured = errors.New("stage not configured")
	ErrReleased      = errors.New("stage released")

	// ErrFrameSkipped means a stage produced no output for this frame
	// because no usable texture was available. It is a warning, not fatal.
	ErrFrameSkipped = errors.New("frame skipped")
)

// StateError is a lifecycle misuse: drawing before Configure or after
// Release.
type StateError struct {
	Stage string
	Op    string
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Op, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }

// TimingError rejects a negative timing value.
type TimingError struct {
	Field string
	Value int64
}

func (e *TimingError) Error() string {
	return fmt.Sprintf("invalid %s: %dus", e.Field, e.Value)
}
