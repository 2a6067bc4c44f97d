//go:build !linux || cgo

// Package window shows the explorer in a desktop window.
package window

import (
	"context"
	"errors"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/san-kum/fbmandel/internal/surface"
	"github.com/san-kum/fbmandel/internal/view"
)

// Sink renders into a 32bpp back buffer. Present publishes it to the
// front buffer that the window draws from.
type Sink struct {
	surf    *surface.Surface
	title   string
	scale   int
	zoomIn  float64
	zoomOut float64

	mu       sync.Mutex
	front    []byte
	dirty    bool
	closed   bool
	dispatch func(view.Action)
}

func New(width, height, scale int, title string) (*Sink, error) {
	s, err := surface.NewBuffer(width, height, 32)
	if err != nil {
		return nil, err
	}
	if scale < 1 {
		scale = 1
	}
	return &Sink{
		surf:    s,
		title:   title,
		scale:   scale,
		zoomIn:  0.9,
		zoomOut: 2.0,
		front:   make([]byte, width*height*4),
	}, nil
}

// SetZoom sets the factors used by mouse clicks and the zoom out key.
func (s *Sink) SetZoom(in, out float64) {
	s.zoomIn, s.zoomOut = in, out
}

// OnAction sets the receiver of window input.
func (s *Sink) OnAction(fn func(view.Action)) {
	s.mu.Lock()
	s.dispatch = fn
	s.mu.Unlock()
}

func (s *Sink) Surface() *surface.Surface { return s.surf }

func (s *Sink) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("window: closed")
	}
	s.surf.CopyRGBA(s.front)
	s.dirty = true
	return nil
}

func (s *Sink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Run opens the window and blocks until it is closed or ctx is done. It
// must be called from the main goroutine.
func (s *Sink) Run(ctx context.Context) error {
	ebiten.SetWindowTitle(s.title)
	ebiten.SetWindowSize(s.surf.Width()*s.scale, s.surf.Height()*s.scale)
	ebiten.SetTPS(60)

	err := ebiten.RunGame(&game{sink: s, ctx: ctx})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (s *Sink) emit(a view.Action) {
	s.mu.Lock()
	fn := s.dispatch
	s.mu.Unlock()
	if fn != nil {
		fn(a)
	}
}

type game struct {
	sink *Sink
	ctx  context.Context
	img  *ebiten.Image
}

func (g *game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	s := g.sink

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if s.surf.Contains(x, y) {
			s.emit(view.ZoomAt{X: x, Y: y, Factor: s.zoomIn})
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		s.emit(view.Reset{})
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		s.emit(view.CyclePalette{})
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		s.emit(view.SaveView{})
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		s.emit(view.ZoomAt{X: s.surf.Width() / 2, Y: s.surf.Height() / 2, Factor: s.zoomOut})
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		s.emit(view.Shutdown{})
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	s := g.sink
	if g.img == nil {
		g.img = ebiten.NewImage(s.surf.Width(), s.surf.Height())
	}

	s.mu.Lock()
	if s.dirty {
		g.img.WritePixels(s.front)
		s.dirty = false
	}
	s.mu.Unlock()

	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.sink.surf.Width(), g.sink.surf.Height()
}
