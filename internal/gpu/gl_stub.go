//go:build !gl

package gpu

import "fmt"

func openGL(width, height int) (Device, error) {
	return nil, fmt.Errorf("%w: rebuild with -tags gl for OpenGL (%dx%d requested)", ErrBackendUnavailable, width, height)
}
