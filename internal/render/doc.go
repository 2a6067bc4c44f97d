// Package render fills a pixel surface with the Mandelbrot set.
//
// A render partitions the surface rows into contiguous bands and runs one
// goroutine per band against an immutable snapshot of the view:
//
//	r := render.New(fractal.DefaultPalette(), 4)
//	stats := r.Render(ctx, shared.Snapshot(), surf)
//
// # Thread Safety
//
// Bands never share rows, so workers write to the surface without
// locking. All workers are joined before Render returns. Cancelling ctx
// stops every worker at its next row and leaves a partial frame; that
// is reported in [Stats], not as an error.
package render
