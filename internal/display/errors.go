package display

import "errors"

var (
	// ErrClosed indicates use of a sink after Close.
	ErrClosed = errors.New("display: sink closed")

	// ErrNotFramebuffer indicates a device that rejected the screen info
	// queries.
	ErrNotFramebuffer = errors.New("display: not a framebuffer device")
)
