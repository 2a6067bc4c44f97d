package input

import "errors"

var (
	// ErrUnknownOrientation indicates an unrecognised touch orientation name.
	ErrUnknownOrientation = errors.New("input: unknown touch orientation")

	// ErrNoLines indicates a button source with no usable lines.
	ErrNoLines = errors.New("input: no button lines")
)
