package input

import "github.com/san-kum/fbmandel/internal/view"

const DefaultZoomIn = 0.9

type TouchState int

const (
	Idle TouchState = iota
	Pressed
)

// TouchTracker follows one touch stream and emits a zoom when a press is
// released over the surface.
type TouchTracker struct {
	Orientation Orientation
	Range       Range
	Width       int
	Height      int
	ZoomIn      float64

	state TouchState
	x, y  int
	haveX bool
	haveY bool
}

func NewTouchTracker(o Orientation, r Range, width, height int, zoomIn float64) *TouchTracker {
	if zoomIn <= 0 {
		zoomIn = DefaultZoomIn
	}
	return &TouchTracker{
		Orientation: o,
		Range:       r,
		Width:       width,
		Height:      height,
		ZoomIn:      zoomIn,
	}
}

func (t *TouchTracker) State() TouchState { return t.state }

// Handle consumes one event. It returns a ZoomAt action on release when
// both coordinates are known and map inside the surface.
func (t *TouchTracker) Handle(ev Event) (view.Action, bool) {
	switch ev.Type {
	case EvAbs:
		switch ev.Code {
		case AbsX:
			t.x, t.haveX = int(ev.Value), true
		case AbsY:
			t.y, t.haveY = int(ev.Value), true
		}
	case EvKey:
		if ev.Code != BtnTouch {
			return nil, false
		}
		switch ev.Value {
		case 1:
			t.state = Pressed
		case 0:
			if t.state != Pressed {
				return nil, false
			}
			t.state = Idle
			if !t.haveX || !t.haveY {
				return nil, false
			}
			sx, sy := t.Orientation.Map(t.x, t.y, t.Range, t.Width, t.Height)
			if sx < 0 || sx >= t.Width || sy < 0 || sy >= t.Height {
				return nil, false
			}
			return view.ZoomAt{X: sx, Y: sy, Factor: t.ZoomIn}, true
		}
	}
	return nil, false
}
