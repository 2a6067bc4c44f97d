//go:build linux

package main

import (
	"github.com/san-kum/fbmandel/internal/display"
	"github.com/san-kum/fbmandel/internal/input"
)

type touchSource interface {
	input.EventSource
	Range(fallback input.Range) input.Range
	Close() error
}

func openFramebuffer(path string) (display.Sink, error) {
	fb, err := display.OpenFramebuffer(path)
	if err != nil {
		return nil, err
	}
	return fb, nil
}

func openTouch(path string) (touchSource, error) {
	dev, err := input.OpenTouch(path)
	if err != nil {
		return nil, err
	}
	return dev, nil
}
