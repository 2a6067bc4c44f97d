package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fbmandel/internal/anim"
	"github.com/san-kum/fbmandel/internal/display"
	"github.com/san-kum/fbmandel/internal/input"
	"github.com/san-kum/fbmandel/internal/journal"
	"github.com/san-kum/fbmandel/internal/render"
	"github.com/san-kum/fbmandel/internal/view"
)

const DefaultTick = 50 * time.Millisecond

type Options struct {
	Tick           time.Duration
	TouchInterval  time.Duration
	ButtonInterval time.Duration
	Marker         bool
}

func DefaultOptions() Options {
	return Options{
		Tick:           DefaultTick,
		TouchInterval:  input.DefaultTouchInterval,
		ButtonInterval: input.DefaultButtonInterval,
		Marker:         true,
	}
}

// FrameObserver is implemented by sinks that show render statistics.
type FrameObserver interface {
	Observe(stats render.Stats, v view.State)
}

// Recorder receives one entry per presented frame.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

type touchTask struct {
	src     input.EventSource
	tracker *input.TouchTracker
}

type App struct {
	shared     *view.Shared
	renderer   *render.Renderer
	sink       display.Sink
	dispatcher *Dispatcher
	opts       Options
	log        *slog.Logger

	animator *anim.Animator
	recorder Recorder
	touch    *touchTask
	buttons  *input.ButtonPoller
}

func New(shared *view.Shared, renderer *render.Renderer, sink display.Sink, dispatcher *Dispatcher, opts Options, log *slog.Logger) *App {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	return &App{
		shared:     shared,
		renderer:   renderer,
		sink:       sink,
		dispatcher: dispatcher,
		opts:       opts,
		log:        log,
	}
}

func (a *App) Dispatcher() *Dispatcher { return a.dispatcher }

func (a *App) SetAnimator(an *anim.Animator) {
	a.animator = an
	a.dispatcher.SetAnimator(an)
}

func (a *App) SetRecorder(r Recorder) { a.recorder = r }

func (a *App) AddTouch(src input.EventSource, tracker *input.TouchTracker) {
	a.touch = &touchTask{src: src, tracker: tracker}
}

func (a *App) AddButtons(p *input.ButtonPoller) { a.buttons = p }

// Run draws the first frame, then services animation and redraw requests
// until ctx is cancelled or a Shutdown action arrives. Input failures end
// only their own poller.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.dispatcher.OnShutdown(cancel)

	var g errgroup.Group
	if a.touch != nil {
		g.Go(func() error {
			err := input.PollTouch(ctx, a.touch.src, a.touch.tracker, a.opts.TouchInterval, a.dispatcher.Dispatch)
			if err != nil {
				a.log.Warn("touch input stopped", "err", err)
			}
			return nil
		})
	}
	if a.buttons != nil {
		g.Go(func() error {
			if err := a.buttons.Run(ctx, a.opts.ButtonInterval, a.dispatcher.Dispatch); err != nil {
				a.log.Warn("button input stopped", "err", err)
			}
			return nil
		})
	}

	err := a.loop(ctx)
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	return err
}

func (a *App) loop(ctx context.Context) error {
	a.shared.TakeRedraw()
	if err := a.Redraw(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(a.opts.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if a.animator != nil {
				a.animator.Tick(now)
			}
			if a.shared.TakeRedraw() {
				if err := a.Redraw(ctx); err != nil {
					return err
				}
			}
		}
	}
}

// Redraw renders the current view, draws any pending marker and presents
// the frame.
func (a *App) Redraw(ctx context.Context) error {
	snap := a.shared.Snapshot()
	surf := a.sink.Surface()

	stats := a.renderer.Render(ctx, snap, surf)
	if stats.Cancelled {
		a.log.Debug("render cancelled", "rows", stats.Rows)
		return nil
	}

	if p, ok := a.dispatcher.TakeMarker(); ok && a.opts.Marker {
		render.DrawMarker(surf, p.X, p.Y)
	}

	if o, ok := a.sink.(FrameObserver); ok {
		o.Observe(stats, snap)
	}
	if err := a.sink.Present(); err != nil {
		return fmt.Errorf("app: present: %w", err)
	}

	a.log.Info("rendered",
		"elapsed", stats.Elapsed,
		"workers", stats.Workers,
		"view", snap.String(),
	)

	if a.recorder != nil {
		err := a.recorder.Record(ctx, journal.Entry{
			At:        time.Now(),
			Elapsed:   stats.Elapsed,
			Workers:   stats.Workers,
			Rows:      stats.Rows,
			Cancelled: stats.Cancelled,
			View:      snap,
		})
		if err != nil {
			a.log.Warn("journal write failed", "err", err)
		}
	}
	return nil
}
