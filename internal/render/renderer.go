package render

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/san-kum/fbmandel/internal/fractal"
	"github.com/san-kum/fbmandel/internal/surface"
	"github.com/san-kum/fbmandel/internal/view"
)

type Renderer struct {
	palette fractal.Palette
	workers int
}

type Stats struct {
	Elapsed   time.Duration
	Workers   int
	Rows      int
	Cancelled bool
}

func New(palette fractal.Palette, workers int) *Renderer {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Renderer{palette: palette, workers: workers}
}

func (r *Renderer) Workers() int             { return r.workers }
func (r *Renderer) Palette() fractal.Palette { return r.palette }

// Render draws snap onto s and returns once every band has finished or
// observed cancellation.
func (r *Renderer) Render(ctx context.Context, snap view.State, s *surface.Surface) Stats {
	start := time.Now()
	var rows atomic.Int64
	var cancelled atomic.Bool

	done := ctx.Done()
	width := s.Width()
	colour := snap.ColourOffset

	parallelBands(Bands(s.Height(), r.workers), func(b Band) {
		for j := b.Start; j < b.End; j++ {
			select {
			case <-done:
				cancelled.Store(true)
				return
			default:
			}
			v := float64(j)*snap.Scaling - snap.YOffset
			for i := 0; i < width; i++ {
				u := float64(i)*snap.Scaling - snap.XOffset
				n := fractal.Evaluate(u, v, r.palette.MaxIterations)
				c := r.palette.Colour(n, colour)
				s.WritePixel(i, j, c.R, c.G, c.B)
			}
			rows.Add(1)
		}
	})

	return Stats{
		Elapsed:   time.Since(start),
		Workers:   r.workers,
		Rows:      int(rows.Load()),
		Cancelled: cancelled.Load(),
	}
}
