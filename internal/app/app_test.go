package app

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/san-kum/fbmandel/internal/anim"
	"github.com/san-kum/fbmandel/internal/display"
	"github.com/san-kum/fbmandel/internal/fractal"
	"github.com/san-kum/fbmandel/internal/input"
	"github.com/san-kum/fbmandel/internal/journal"
	"github.com/san-kum/fbmandel/internal/render"
	"github.com/san-kum/fbmandel/internal/storage"
	"github.com/san-kum/fbmandel/internal/view"
)

func newShared() *view.Shared {
	return view.NewShared(view.Default(), fractal.DefaultColourScale)
}

func TestDispatchZoom(t *testing.T) {
	shared := newShared()
	d := NewDispatcher(shared, nil, nil)

	before := shared.Snapshot()
	u0, v0 := before.Point(100, 50)
	d.Dispatch(view.ZoomAt{X: 100, Y: 50, Factor: 0.9})

	after := shared.Snapshot()
	if after.Scaling != before.Scaling*0.9 {
		t.Errorf("scaling = %g", after.Scaling)
	}
	u1, v1 := after.Point(100, 50)
	if math.Abs(u1-u0) > 1e-12 || math.Abs(v1-v0) > 1e-12 {
		t.Errorf("point under touch moved from (%g,%g) to (%g,%g)", u0, v0, u1, v1)
	}
	if !shared.TakeRedraw() {
		t.Error("zoom did not request redraw")
	}
	p, ok := d.TakeMarker()
	if !ok || p.X != 100 || p.Y != 50 {
		t.Errorf("marker = %v, %v", p, ok)
	}
	if _, ok := d.TakeMarker(); ok {
		t.Error("marker not cleared")
	}
}

func TestDispatchResetAndCycle(t *testing.T) {
	shared := newShared()
	d := NewDispatcher(shared, nil, nil)

	d.Dispatch(view.ZoomAt{X: 10, Y: 10, Factor: 0.5})
	d.Dispatch(view.CyclePalette{})
	if got := shared.Snapshot().ColourOffset; got != 1 {
		t.Errorf("colour = %d after cycle", got)
	}
	d.Dispatch(view.Reset{})
	if got := shared.Snapshot(); got != view.Default() {
		t.Errorf("reset = %v", got)
	}
	for range fractal.DefaultColourScale {
		d.Dispatch(view.CyclePalette{})
	}
	if got := shared.Snapshot().ColourOffset; got != 0 {
		t.Errorf("colour = %d after full cycle", got)
	}
}

func TestDispatchSave(t *testing.T) {
	shared := newShared()
	store := storage.New("", 2)
	d := NewDispatcher(shared, store, nil)

	d.Dispatch(view.SaveView{})
	d.Dispatch(view.CyclePalette{})
	d.Dispatch(view.SaveView{})
	d.Dispatch(view.SaveView{})

	if store.Len() != 2 {
		t.Fatalf("len = %d, want capacity 2", store.Len())
	}
	if v, _ := store.At(1); v.ColourOffset != 1 {
		t.Errorf("second view = %v", v)
	}
}

func TestDispatchSaveSkippedWhenBusy(t *testing.T) {
	shared := newShared()
	store := storage.New("", 4)
	d := NewDispatcher(shared, store, nil)

	shared.Update(func(*view.State) {
		d.Dispatch(view.SaveView{})
	})
	if store.Len() != 0 {
		t.Errorf("saved while the view was locked")
	}
}

func TestDispatchShutdown(t *testing.T) {
	d := NewDispatcher(newShared(), nil, nil)
	d.Dispatch(view.Shutdown{})

	called := false
	d.OnShutdown(func() { called = true })
	d.Dispatch(view.Shutdown{})
	if !called {
		t.Error("shutdown not called")
	}
}

func TestDispatchInteractsWithAnimator(t *testing.T) {
	shared := newShared()
	store := storage.New("", 4)
	store.Append(view.State{Scaling: 0.001, XOffset: 0.5, YOffset: 0.1})

	start := time.Unix(1000, 0)
	cfg := anim.DefaultConfig()
	a := anim.New(cfg, shared, store, start)

	d := NewDispatcher(shared, store, nil)
	d.SetAnimator(a)
	now := start
	d.now = func() time.Time { return now }

	now = start.Add(cfg.IdleTimeout)
	if !a.Tick(now) || a.Phase() != anim.Animating {
		t.Fatal("animator did not start")
	}
	d.Dispatch(view.CyclePalette{})
	if a.Phase() != anim.Armed {
		t.Error("input did not stop playback")
	}
	if a.Tick(now.Add(time.Second)) {
		t.Error("animator moved before the idle timeout")
	}
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []journal.Entry
	onWrite func(n int)
}

func (r *fakeRecorder) Record(_ context.Context, e journal.Entry) error {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	n := len(r.entries)
	r.mu.Unlock()
	if r.onWrite != nil {
		r.onWrite(n)
	}
	return nil
}

// tapSource delivers one tap at the centre once ready is set.
type tapSource struct {
	ready atomic.Bool
	sent  bool
}

func (s *tapSource) ReadEvents(dst []input.Event) (int, error) {
	if s.sent || !s.ready.Load() {
		return 0, nil
	}
	s.sent = true
	tap := []input.Event{
		{Type: input.EvAbs, Code: input.AbsX, Value: 2048},
		{Type: input.EvAbs, Code: input.AbsY, Value: 2048},
		{Type: input.EvKey, Code: input.BtnTouch, Value: 1},
		{Type: input.EvKey, Code: input.BtnTouch, Value: 0},
	}
	return copy(dst, tap), nil
}

func TestRunRendersTouchAndShutsDown(t *testing.T) {
	sink, err := display.NewMemory(32, 24, 32)
	if err != nil {
		t.Fatal(err)
	}
	shared := newShared()
	d := NewDispatcher(shared, nil, nil)
	opts := Options{Tick: 2 * time.Millisecond, TouchInterval: time.Millisecond, Marker: true}
	a := New(shared, render.New(fractal.DefaultPalette(), 2), sink, d, opts, nil)

	src := &tapSource{}
	rec := &fakeRecorder{}
	rec.onWrite = func(n int) {
		switch n {
		case 1:
			src.ready.Store(true)
		case 2:
			d.Dispatch(view.Shutdown{})
		}
	}
	a.SetRecorder(rec)

	tracker := input.NewTouchTracker(input.Direct, input.Range{MaxX: 4096, MaxY: 4096}, 32, 24, 0.5)
	a.AddTouch(src, tracker)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.Err() != nil {
		t.Fatal("run ended by timeout, not shutdown")
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.entries) != 2 {
		t.Fatalf("entries = %d", len(rec.entries))
	}
	if rec.entries[0].View != view.Default() {
		t.Errorf("first frame view = %v", rec.entries[0].View)
	}
	if got := rec.entries[1].View.Scaling; got != view.DefaultScaling*0.5 {
		t.Errorf("second frame scaling = %g", got)
	}
	if sink.Frames() != 2 {
		t.Errorf("frames = %d", sink.Frames())
	}
	if r, g, b := sink.Surface().ReadPixel(16, 12); r != 0xFF || g != 0xFF || b != 0xFF {
		t.Errorf("marker pixel = %d,%d,%d", r, g, b)
	}
}

type failingSink struct {
	*display.Memory
}

func (failingSink) Present() error { return errors.New("gone") }

func TestRunStopsOnPresentError(t *testing.T) {
	mem, _ := display.NewMemory(8, 8, 16)
	shared := newShared()
	a := New(shared, render.New(fractal.DefaultPalette(), 1), failingSink{mem}, NewDispatcher(shared, nil, nil), DefaultOptions(), nil)
	if err := a.Run(context.Background()); err == nil {
		t.Error("expected present error")
	}
}

type brokenSource struct{}

func (brokenSource) ReadEvents([]input.Event) (int, error) { return 0, errors.New("unplugged") }

func TestRunSurvivesInputFailure(t *testing.T) {
	sink, _ := display.NewMemory(8, 8, 24)
	shared := newShared()
	d := NewDispatcher(shared, nil, nil)
	a := New(shared, render.New(fractal.DefaultPalette(), 1), sink, d, Options{Tick: time.Millisecond}, nil)
	a.AddTouch(brokenSource{}, input.NewTouchTracker(input.Direct, input.Range{MaxX: 1, MaxY: 1}, 8, 8, 0.9))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("err = %v", err)
	}
	if sink.Frames() != 1 {
		t.Errorf("frames = %d", sink.Frames())
	}
}
