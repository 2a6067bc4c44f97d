// Package anim plays back saved views after a period without input.
package anim

import (
	"math"
	"sync"
	"time"

	"github.com/san-kum/fbmandel/internal/view"
)

const (
	DefaultIdleTimeout = 30 * time.Second
	DefaultTick        = 50 * time.Millisecond
	DefaultRate        = 0.05
	DefaultScaleSnap   = 1e-7
	DefaultOffsetSnap  = 1e-4
)

type Phase int

const (
	Armed Phase = iota
	Animating
)

func (p Phase) String() string {
	if p == Animating {
		return "animating"
	}
	return "armed"
}

type Config struct {
	IdleTimeout time.Duration
	Rate        float64
	ScaleSnap   float64
	OffsetSnap  float64
}

func DefaultConfig() Config {
	return Config{
		IdleTimeout: DefaultIdleTimeout,
		Rate:        DefaultRate,
		ScaleSnap:   DefaultScaleSnap,
		OffsetSnap:  DefaultOffsetSnap,
	}
}

// Source is the sequence of playback targets.
type Source interface {
	Len() int
	At(i int) (view.State, bool)
}

// Animator moves the shared view toward the next saved view once the
// user has been idle for IdleTimeout. Geometry converges first; the
// colour offset then steps one band per tick.
type Animator struct {
	cfg    Config
	shared *view.Shared
	views  Source

	mu     sync.Mutex
	phase  Phase
	last   time.Time
	target int
}

func New(cfg Config, shared *view.Shared, views Source, now time.Time) *Animator {
	if cfg.Rate <= 0 || cfg.Rate >= 1 {
		cfg.Rate = DefaultRate
	}
	if !(cfg.ScaleSnap > 0) {
		cfg.ScaleSnap = DefaultScaleSnap
	}
	if !(cfg.OffsetSnap > 0) {
		cfg.OffsetSnap = DefaultOffsetSnap
	}
	return &Animator{
		cfg:    cfg,
		shared: shared,
		views:  views,
		phase:  Armed,
		last:   now,
		target: -1,
	}
}

// Interact records user input: the idle timer restarts and any running
// playback stops.
func (a *Animator) Interact(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = now
	a.phase = Armed
}

func (a *Animator) Phase() Phase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

func (a *Animator) Target() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.target
}

// Tick advances playback by one step. It reports whether the view changed.
func (a *Animator) Tick(now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	count := a.views.Len()
	if count == 0 || now.Sub(a.last) < a.cfg.IdleTimeout {
		return false
	}

	if a.phase == Armed {
		a.phase = Animating
		a.target = (a.target + 1) % count
	}

	target, ok := a.views.At(a.target)
	if !ok {
		a.phase = Armed
		return false
	}

	reached := false
	scale := a.shared.ColourScale()
	a.shared.Update(func(s *view.State) {
		if a.near(*s, target) {
			s.Scaling, s.XOffset, s.YOffset = target.Scaling, target.XOffset, target.YOffset
			want := wrap(target.ColourOffset, scale)
			if s.ColourOffset == want {
				reached = true
				return
			}
			s.ColourOffset += ColourStep(s.ColourOffset, want, scale)
			return
		}
		s.Scaling += (target.Scaling - s.Scaling) * a.cfg.Rate
		s.XOffset += (target.XOffset - s.XOffset) * a.cfg.Rate
		s.YOffset += (target.YOffset - s.YOffset) * a.cfg.Rate
	})

	if reached {
		a.last = now
		a.phase = Armed
	}
	a.shared.RequestRedraw()
	return true
}

func (a *Animator) near(s, t view.State) bool {
	return math.Abs(s.Scaling-t.Scaling) < a.cfg.ScaleSnap &&
		math.Abs(s.XOffset-t.XOffset) < a.cfg.OffsetSnap &&
		math.Abs(s.YOffset-t.YOffset) < a.cfg.OffsetSnap
}

// ColourStep returns +1 or -1, whichever reaches want from cur in fewer
// steps around a cycle of length scale. Ties go forward. It returns 0 when
// cur already equals want.
func ColourStep(cur, want, scale int) int {
	if scale <= 0 {
		return 0
	}
	forward := wrap(want-cur, scale)
	if forward == 0 {
		return 0
	}
	if forward <= scale-forward {
		return 1
	}
	return -1
}

func wrap(c, n int) int {
	if n <= 0 {
		return 0
	}
	c %= n
	if c < 0 {
		c += n
	}
	return c
}
