package surface

import "errors"

var (
	// ErrUnsupportedDepth indicates a bit depth other than 16, 24 or 32.
	ErrUnsupportedDepth = errors.New("surface: unsupported bit depth")

	// ErrShortBuffer indicates a backing buffer too small for the layout.
	ErrShortBuffer = errors.New("surface: buffer smaller than layout")

	// ErrInvalidLayout indicates non-positive dimensions or a stride
	// narrower than one row of pixels.
	ErrInvalidLayout = errors.New("surface: invalid layout")
)
