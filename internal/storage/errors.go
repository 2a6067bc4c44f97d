package storage

import "errors"

var (
	// ErrFull indicates the store already holds its capacity of views.
	ErrFull = errors.New("storage: saved view store full")

	// ErrInvalidView indicates a view with non-positive or non-finite
	// geometry.
	ErrInvalidView = errors.New("storage: invalid view")
)
