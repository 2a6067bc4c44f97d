//go:build !linux

package main

import (
	"fmt"

	"github.com/san-kum/fbmandel/internal/display"
	"github.com/san-kum/fbmandel/internal/input"
)

type touchSource interface {
	input.EventSource
	Range(fallback input.Range) input.Range
	Close() error
}

func openFramebuffer(path string) (display.Sink, error) {
	return nil, fmt.Errorf("framebuffer %s: %w", path, errUnsupported)
}

func openTouch(path string) (touchSource, error) {
	return nil, fmt.Errorf("touch %s: %w", path, errUnsupported)
}
