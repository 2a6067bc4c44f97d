package render

import "github.com/san-kum/fbmandel/internal/surface"

const MarkerRadius = 3

// DrawMarker paints a small white cross centred on (x, y). Parts that
// fall outside the surface are clipped.
func DrawMarker(s *surface.Surface, x, y int) {
	for d := -MarkerRadius; d <= MarkerRadius; d++ {
		s.WritePixel(x+d, y, 0xFF, 0xFF, 0xFF)
		s.WritePixel(x, y+d, 0xFF, 0xFF, 0xFF)
	}
}
