package fractal

const (
	DefaultMaxIterations = 360
	DefaultColourScale   = 18
	escapeRadiusSq       = 4.0
)

// Evaluate returns how many iterations of z <- z^2 + (u + vi) run before
// the orbit leaves the radius-2 disc, capped at maxIterations. A result
// equal to maxIterations means the point is treated as inside the set.
func Evaluate(u, v float64, maxIterations int) int {
	x, y := u, v
	xSq, ySq := 0.0, 0.0
	n := 0
	for xSq+ySq < escapeRadiusSq && n < maxIterations {
		xSq = x * x
		ySq = y * y
		y = 2*x*y + v
		x = xSq - ySq + u
		n++
	}
	return n
}
