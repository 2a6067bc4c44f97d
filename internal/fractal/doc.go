// Package fractal provides the escape-time and colour math for the
// Mandelbrot explorer.
//
//   - [Evaluate]: iteration count of z <- z^2 + c for one point
//   - [Palette]: maps an iteration count and colour offset to RGB
//   - [HSBToRGB]: sextant-based hue/saturation/brightness conversion
//
// Everything here is pure and safe for concurrent use.
package fractal
