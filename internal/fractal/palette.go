package fractal

import "math"

type RGB struct {
	R, G, B uint8
}

var Black = RGB{}

type Palette struct {
	MaxIterations int
	ColourScale   int
}

func DefaultPalette() Palette {
	return Palette{
		MaxIterations: DefaultMaxIterations,
		ColourScale:   DefaultColourScale,
	}
}

// Hue returns the hue in degrees for an escaped point.
func (p Palette) Hue(n, colourOffset int) float64 {
	band := float64(n) * 360 * float64(p.ColourScale) / float64(p.MaxIterations)
	shift := float64(colourOffset) * 360 / float64(p.ColourScale)
	h := math.Mod(band+shift, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// Colour maps an iteration count to a fully saturated hue. Interior
// points are black.
func (p Palette) Colour(n, colourOffset int) RGB {
	if n >= p.MaxIterations {
		return Black
	}
	return HSBToRGB(p.Hue(n, colourOffset), 1, 1)
}

// Wrap folds a colour offset into [0, ColourScale).
func (p Palette) Wrap(colourOffset int) int {
	if p.ColourScale <= 0 {
		return 0
	}
	c := colourOffset % p.ColourScale
	if c < 0 {
		c += p.ColourScale
	}
	return c
}

func HSBToRGB(h, s, b float64) RGB {
	c := b * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := b - c

	var r, g, bl float64
	switch {
	case h >= 0 && h < 60:
		r, g, bl = c, x, 0
	case h >= 60 && h < 120:
		r, g, bl = x, c, 0
	case h >= 120 && h < 180:
		r, g, bl = 0, c, x
	case h >= 180 && h < 240:
		r, g, bl = 0, x, c
	case h >= 240 && h < 300:
		r, g, bl = x, 0, c
	default:
		r, g, bl = c, 0, x
	}

	return RGB{
		R: channel(r + m),
		G: channel(g + m),
		B: channel(bl + m),
	}
}

func channel(v float64) uint8 {
	v = math.Round(v * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
