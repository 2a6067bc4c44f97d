package view

import (
	"fmt"
	"math"
)

const (
	DefaultScaling = 0.013
	DefaultXOffset = 2.6
	DefaultYOffset = 1.6
)

// State is the window onto the complex plane. Pixel (i, j) maps to
// (i*Scaling - XOffset) + (j*Scaling - YOffset)i.
type State struct {
	Scaling      float64 `yaml:"scaling" json:"scaling"`
	XOffset      float64 `yaml:"x_offset" json:"x_offset"`
	YOffset      float64 `yaml:"y_offset" json:"y_offset"`
	ColourOffset int     `yaml:"colour_offset" json:"colour_offset"`
}

func Default() State {
	return State{
		Scaling: DefaultScaling,
		XOffset: DefaultXOffset,
		YOffset: DefaultYOffset,
	}
}

func (s State) IsValid() bool {
	for _, v := range []float64{s.Scaling, s.XOffset, s.YOffset} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return s.Scaling > 0
}

// Point returns the complex coordinate under pixel (x, y).
func (s State) Point(x, y int) (u, v float64) {
	return float64(x)*s.Scaling - s.XOffset, float64(y)*s.Scaling - s.YOffset
}

// Zoom scales the view by factor while keeping the complex point under
// pixel (x, y) in place. A factor below 1 zooms in.
func (s State) Zoom(x, y int, factor float64) State {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return s
	}
	u, v := s.Point(x, y)
	next := s
	next.Scaling = s.Scaling * factor
	next.XOffset = float64(x)*next.Scaling - u
	next.YOffset = float64(y)*next.Scaling - v
	if !next.IsValid() {
		return s
	}
	return next
}

func (s State) String() string {
	return fmt.Sprintf("scaling=%.9g x_offset=%.9g y_offset=%.9g colour_offset=%d",
		s.Scaling, s.XOffset, s.YOffset, s.ColourOffset)
}
