//go:build linux && !cgo

package window

import (
	"context"
	"errors"

	"github.com/san-kum/fbmandel/internal/surface"
	"github.com/san-kum/fbmandel/internal/view"
)

var errNoCgo = errors.New("window: sink requires cgo (build with CGO_ENABLED=1)")

type Sink struct{}

func New(width, height, scale int, title string) (*Sink, error) {
	return nil, errNoCgo
}

func (s *Sink) SetZoom(in, out float64)       {}
func (s *Sink) OnAction(fn func(view.Action)) {}
func (s *Sink) Surface() *surface.Surface     { return nil }
func (s *Sink) Present() error                { return errNoCgo }
func (s *Sink) Close() error                  { return nil }
func (s *Sink) Run(ctx context.Context) error { return errNoCgo }
