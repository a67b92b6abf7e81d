package gpu

import "fmt"

// Backend names accepted by Open.
const (
	BackendSoft = "soft"
	BackendGL   = "gl"
)

// Open creates a device whose default surface is width x height.
func Open(backend string, width, height int) (Device, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: surface %dx%d", ErrInvalidValue, width, height)
	}
	switch backend {
	case BackendSoft, "":
		return NewSoftDevice(width, height), nil
	case BackendGL:
		return openGL(width, height)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrBackendUnavailable, backend)
	}
}
